package shares

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ferndazed/chorus/internal/cache"
	"github.com/ferndazed/chorus/internal/models"
	"github.com/ferndazed/chorus/internal/shared"
)

// DefaultPageSize is the number of raw rows returned per page before grouping.
const DefaultPageSize = 10

// Engine fetches, groups, and mutates a user's shared songs.
type Engine struct {
	store    ShareStore
	cache    *cache.Store
	logger   *log.Logger
	pageSize int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPageSize overrides the raw-row page size.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an Engine over the given backend store and cache.
func NewEngine(store ShareStore, c *cache.Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		cache:    c,
		logger:   shared.NewLogger(nil),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListOptions controls a single List call.
type ListOptions struct {
	Cursor       *time.Time // exclusive createdAt bound; nil requests the first page
	ForceRefresh bool       // skip the cache even on the first page
}

// Page is one grouped page of a bucket.
type Page struct {
	Groups     []models.SongGroup `json:"groups"`
	NextCursor *time.Time         `json:"next_cursor,omitempty"`
	HasMore    bool               `json:"has_more"`
}

// List returns one page of the user's bucket, grouped by track identity.
//
// The first page is served from the cache when possible; a cached hit is
// treated as complete for its bucket and returned with HasMore=false. Only the
// first page is ever written back, so a partial window is never cached as if
// it were the whole bucket.
//
// On a failed fetch the returned page is empty with HasMore=false alongside
// the error, so callers that ignore the error still degrade conservatively.
func (e *Engine) List(ctx context.Context, bucket models.Bucket, userID string, opts ListOptions) (*Page, error) {
	firstPage := opts.Cursor == nil

	if firstPage && !opts.ForceRefresh {
		if records, ok := e.cache.BucketList(userID, bucket); ok {
			e.logger.Debug("serving bucket from cache", "bucket", bucket, "user", userID, "records", len(records))
			return &Page{Groups: groupRecords(records)}, nil
		}
	}

	records, err := e.store.ListShares(ctx, ListQuery{
		RecipientID: userID,
		Bucket:      bucket,
		Before:      opts.Cursor,
		Limit:       e.pageSize + 1,
	})
	if err != nil {
		e.logger.Warn("share page fetch failed", "bucket", bucket, "user", userID, "error", err)
		return &Page{}, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	hasMore := len(records) > e.pageSize
	if hasMore {
		records = records[:e.pageSize]
	}

	page := &Page{
		Groups:  groupRecords(records),
		HasMore: hasMore,
	}
	if hasMore && len(records) > 0 {
		last := records[len(records)-1].CreatedAt
		page.NextCursor = &last
	}

	if firstPage {
		e.cache.SetBucketList(userID, bucket, records)
	}

	return page, nil
}

// groupRecords collapses raw rows into SongGroups keyed by (provider, track).
//
// The first record seen for a key establishes the group's display metadata and
// LatestCreatedAt; later duplicates only accumulate senders and member ids.
// Rows arrive newest first, so the first-seen row is also the most recent one
// within the page.
func groupRecords(records []models.ShareRecord) []models.SongGroup {
	groups := make([]models.SongGroup, 0, len(records))
	index := make(map[models.GroupKey]int, len(records))

	for _, r := range records {
		key := r.GroupKey()
		if i, seen := index[key]; seen {
			g := &groups[i]
			g.MemberIDs = append(g.MemberIDs, r.ID)
			if !g.HasSender(r.Sender.ID) {
				g.Senders = append(g.Senders, r.Sender)
			}
			continue
		}

		index[key] = len(groups)
		groups = append(groups, models.SongGroup{
			Key:             key,
			Title:           r.Title,
			Artist:          r.Artist,
			Album:           r.Album,
			ArtworkURL:      r.ArtworkURL,
			ExternalURL:     r.ExternalURL,
			Senders:         []models.Person{r.Sender},
			LatestCreatedAt: r.CreatedAt,
			MemberIDs:       []string{r.ID},
		})
	}

	return groups
}

// React sets a like/dislike on every member row, then reconciles the cached
// buckets. The backend mutation must succeed before any cache mutation; on
// failure the cache is left untouched and the caller should re-fetch rather
// than trust local state.
func (e *Engine) React(ctx context.Context, userID string, memberIDs []string, liked bool) error {
	if len(memberIDs) == 0 {
		return fmt.Errorf("%w: no member ids", shared.ErrInvalidInput)
	}

	update := models.ShareUpdate{Reaction: &liked}
	if err := e.store.UpdateShares(ctx, memberIDs, update); err != nil {
		return fmt.Errorf("%w: reaction update: %v", shared.ErrAPIRequest, err)
	}

	for _, id := range memberIDs {
		e.cache.UpdateReactionInPlace(userID, id, liked)
		// The record lives in either unreacted or queued; moving from the
		// bucket that does not contain it is a harmless no-op.
		e.cache.MoveBetweenBuckets(userID, id, models.BucketUnreacted, models.BucketArchived, update)
		e.cache.MoveBetweenBuckets(userID, id, models.BucketQueued, models.BucketArchived, update)
	}

	return nil
}

// Queue marks every member row as queued and moves it from the unreacted
// bucket cache into the queued bucket cache.
func (e *Engine) Queue(ctx context.Context, userID string, memberIDs []string) error {
	if len(memberIDs) == 0 {
		return fmt.Errorf("%w: no member ids", shared.ErrInvalidInput)
	}

	queued := true
	update := models.ShareUpdate{Queued: &queued}
	if err := e.store.UpdateShares(ctx, memberIDs, update); err != nil {
		return fmt.Errorf("%w: queue update: %v", shared.ErrAPIRequest, err)
	}

	for _, id := range memberIDs {
		e.cache.MoveBetweenBuckets(userID, id, models.BucketUnreacted, models.BucketQueued, update)
	}

	return nil
}
