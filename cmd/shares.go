package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ferndazed/chorus/internal/models"
	"github.com/ferndazed/chorus/internal/repositories"
	"github.com/ferndazed/chorus/internal/shared"
	"github.com/ferndazed/chorus/internal/shares"
)

// SharesList prints one grouped page of the user's bucket.
func (r *Runner) SharesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	if err := r.ensureStore(); err != nil {
		return err
	}

	userID, err := r.userID(cmd)
	if err != nil {
		return err
	}

	bucket, err := models.ParseBucket(cmd.String("bucket"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	opts := shares.ListOptions{ForceRefresh: cmd.Bool("refresh")}
	if raw := cmd.String("cursor"); raw != "" {
		cursor, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("%w: cursor must be RFC3339: %v", shared.ErrInvalidFlag, err)
		}
		opts.Cursor = &cursor
	}

	page, err := r.engine.List(ctx, bucket, userID, opts)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	if len(page.Groups) == 0 {
		return r.writePlainln("No shares in the %s bucket.", bucket)
	}

	r.writePlainln("%s (%d songs)", strings.ToUpper(string(bucket)), len(page.Groups))
	for _, g := range page.Groups {
		var senders []string
		for _, s := range g.Senders {
			senders = append(senders, s.DisplayName)
		}

		r.writePlain("  %s - %s\n", g.Title, g.Artist)
		r.writePlain("    from %s on %s\n", strings.Join(senders, ", "), g.LatestCreatedAt.Format("Jan 2 15:04"))
		r.writePlain("    ids: %s\n", strings.Join(g.MemberIDs, " "))
	}

	if page.HasMore && page.NextCursor != nil {
		r.writePlainln("More available: --cursor %s", page.NextCursor.Format(time.RFC3339))
	}

	return nil
}

// SharesReact likes or dislikes the given share rows.
func (r *Runner) SharesReact(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	if err := r.ensureStore(); err != nil {
		return err
	}

	userID, err := r.userID(cmd)
	if err != nil {
		return err
	}

	like := cmd.Bool("like")
	dislike := cmd.Bool("dislike")
	if like == dislike {
		return fmt.Errorf("%w: exactly one of --like or --dislike", shared.ErrInvalidFlag)
	}

	ids := cmd.StringArgs("ids")
	if err := r.engine.React(ctx, userID, ids, like); err != nil {
		return err
	}

	verb := "Liked"
	if dislike {
		verb = "Disliked"
	}
	return r.writePlainln("%s %d share(s).", verb, len(ids))
}

// SharesQueue moves the given share rows into the listen-later queue.
func (r *Runner) SharesQueue(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	if err := r.ensureStore(); err != nil {
		return err
	}

	userID, err := r.userID(cmd)
	if err != nil {
		return err
	}

	ids := cmd.StringArgs("ids")
	if err := r.engine.Queue(ctx, userID, ids); err != nil {
		return err
	}

	return r.writePlainln("Queued %d share(s).", len(ids))
}

// SharesSeed fills the local database with demo people and shares so the
// list/react/queue workflow can be exercised without a backend.
func (r *Runner) SharesSeed(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	if err := r.ensureStore(); err != nil {
		return err
	}

	userID, err := r.userID(cmd)
	if err != nil {
		return err
	}

	repo, ok := r.store.(*repositories.ShareRepository)
	if !ok {
		return fmt.Errorf("%w: seeding needs the local SQLite store", shared.ErrInvalidInput)
	}

	people := []models.Person{
		{ID: shared.GenerateID(), DisplayName: "Maya"},
		{ID: shared.GenerateID(), DisplayName: "Jordan"},
		{ID: shared.GenerateID(), DisplayName: "Priya"},
	}
	for _, p := range people {
		if err := repo.CreatePerson(ctx, p); err != nil {
			return err
		}
	}

	seeds := []struct {
		sender   int
		provider models.Provider
		track    string
		title    string
		artist   string
		ago      time.Duration
	}{
		{0, models.ProviderSpotify, "6rqhFgbbKwnb9MLmUQDhG6", "Paranoid Android", "Radiohead", 2 * time.Hour},
		{1, models.ProviderSpotify, "6rqhFgbbKwnb9MLmUQDhG6", "Paranoid Android", "Radiohead", 30 * time.Minute},
		{1, models.ProviderAppleMusic, "1440783617", "Everything In Its Right Place", "Radiohead", 26 * time.Hour},
		{2, models.ProviderSpotify, "3AJwUDP919kvQ9QcozQPxg", "Yellow", "Coldplay", 5 * 24 * time.Hour},
		{2, models.ProviderAppleMusic, "1122782283", "Redbone", "Childish Gambino", 15 * time.Minute},
	}

	now := time.Now().UTC()
	for _, s := range seeds {
		_, err := repo.CreateShare(ctx, userID, models.ShareRecord{
			Provider:        s.provider,
			TrackExternalID: s.track,
			Title:           s.title,
			Artist:          s.artist,
			CreatedAt:       now.Add(-s.ago),
			Sender:          people[s.sender],
		})
		if err != nil {
			return err
		}
	}

	r.logger.Info("seeded demo shares", "user", userID, "count", len(seeds))
	return r.writePlainln("Seeded %d shares for user %s.", len(seeds), userID)
}
