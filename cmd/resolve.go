package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/ferndazed/chorus/internal/catalog"
	"github.com/ferndazed/chorus/internal/models"
	"github.com/ferndazed/chorus/internal/resolver"
	"github.com/ferndazed/chorus/internal/shared"
	"github.com/ferndazed/chorus/internal/ui"
)

// ensureCatalogs builds provider clients from config credentials when none
// were injected at construction time.
func (r *Runner) ensureCatalogs(ctx context.Context) error {
	if len(r.catalogs) > 0 {
		return nil
	}

	creds := r.config.Credentials
	if creds.Spotify.ClientID != "" && creds.Spotify.ClientSecret != "" {
		c, err := catalog.NewSpotifyCatalog(ctx, creds.Spotify.ClientID, creds.Spotify.ClientSecret)
		if err != nil {
			return err
		}
		r.catalogs = append(r.catalogs, c)
	}
	if creds.AppleMusic.DeveloperToken != "" {
		c, err := catalog.NewAppleMusicCatalog(creds.AppleMusic.DeveloperToken, creds.AppleMusic.Storefront)
		if err != nil {
			return err
		}
		r.catalogs = append(r.catalogs, c)
	}

	if len(r.catalogs) == 0 {
		return fmt.Errorf("%w: no provider credentials configured", shared.ErrMissingCredentials)
	}

	r.resolver = resolver.New(r.catalogs, resolver.WithLogger(r.logger))
	return nil
}

// resolveLink parses the pasted share link and resolves it onto the target provider.
func (r *Runner) resolveLink(ctx context.Context, cmd *cli.Command) (*resolver.Resolution, models.Provider, error) {
	rawURL := cmd.StringArg("url")
	if rawURL == "" {
		return nil, "", fmt.Errorf("%w: track url", shared.ErrMissingArgument)
	}

	target, err := models.ParseProvider(cmd.String("target"))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	identity, err := resolver.IdentityFromURL(rawURL)
	if err != nil {
		return nil, "", err
	}

	// Same-provider links skip the source fetch entirely.
	if identity.Provider == target {
		track := models.Track{Provider: identity.Provider, ID: identity.ExternalID, URL: rawURL}
		res, err := r.resolver.Resolve(ctx, track, target)
		return res, target, err
	}

	source, err := r.resolver.Lookup(ctx, identity)
	if err != nil {
		return nil, "", err
	}

	res, err := r.resolver.Resolve(ctx, *source, target)
	return res, target, err
}

// ResolveMap resolves a link and prints the outcome as JSON.
func (r *Runner) ResolveMap(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	if err := r.ensureCatalogs(ctx); err != nil {
		return err
	}

	res, _, err := r.resolveLink(ctx, cmd)
	if err != nil {
		return err
	}

	return r.writeJSON(res, cmd.Bool("pretty"))
}

// ResolveOpen resolves a link and opens the match in the target provider's
// app. Fuzzy candidates go through the interactive picker unless --first.
func (r *Runner) ResolveOpen(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	if err := r.ensureCatalogs(ctx); err != nil {
		return err
	}

	res, target, err := r.resolveLink(ctx, cmd)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case resolver.OutcomeAlreadyOnTarget, resolver.OutcomeExactMatch:
		if err := r.resolver.Open(*res.Track); err != nil {
			return err
		}
		return r.writePlainln("Opened %s - %s on %s.", res.Track.Title, res.Track.Artist, target)

	case resolver.OutcomeNoMatch:
		return r.writePlainln("No match on %s for '%s'.", target, res.Query)

	case resolver.OutcomeCandidates:
		pick, err := r.pickCandidate(cmd, res, target)
		if err != nil {
			return err
		}
		if pick == nil {
			return r.writePlainln("Cancelled.")
		}
		if err := r.resolver.Open(*pick); err != nil {
			return err
		}
		return r.writePlainln("Opened %s - %s on %s.", pick.Title, pick.Artist, target)
	}

	return nil
}

func (r *Runner) pickCandidate(cmd *cli.Command, res *resolver.Resolution, target models.Provider) (*models.Track, error) {
	if cmd.Bool("first") {
		return &res.Candidates[0], nil
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/chorus-tui.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(res.Query, target, res.Candidates)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	return model.Selection(), nil
}
