// Package resolver maps a track on one provider to its counterpart on
// another and opens the result in the listener's own app.
//
// Matching prefers the ISRC carried in catalog metadata; only when no exact
// match exists does it degrade to a free-text search whose candidates need
// user confirmation.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ferndazed/chorus/internal/catalog"
	"github.com/ferndazed/chorus/internal/models"
	"github.com/ferndazed/chorus/internal/shared"
)

// DefaultCandidateLimit caps fuzzy-search fallback results.
const DefaultCandidateLimit = 5

// Outcome tags a [Resolution] so callers can switch on what happened.
type Outcome string

const (
	// OutcomeAlreadyOnTarget means the source track is already on the
	// listener's provider; no lookup ran.
	OutcomeAlreadyOnTarget Outcome = "already_on_target"
	// OutcomeExactMatch means the ISRC lookup found the same recording.
	OutcomeExactMatch Outcome = "exact_match"
	// OutcomeCandidates means only fuzzy-search results are available and
	// the user must pick one.
	OutcomeCandidates Outcome = "candidates"
	// OutcomeNoMatch means neither lookup produced anything.
	OutcomeNoMatch Outcome = "no_match"
)

// Resolution is the result of resolving a track onto a target provider.
// Track is set for exact and already-on-target outcomes; Candidates for the
// fuzzy fallback. Query records the search string used, for display.
type Resolution struct {
	Outcome    Outcome        `json:"outcome"`
	Track      *models.Track  `json:"track,omitempty"`
	Candidates []models.Track `json:"candidates,omitempty"`
	Query      string         `json:"query,omitempty"`
}

// Resolver resolves tracks across the registered provider catalogs.
type Resolver struct {
	catalogs       map[models.Provider]catalog.Catalog
	logger         *log.Logger
	candidateLimit int

	// openURI launches a URI on the host platform. Overridable in tests.
	openURI func(string) error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger attaches a logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithCandidateLimit overrides the fuzzy-search result cap.
func WithCandidateLimit(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.candidateLimit = n
		}
	}
}

// New creates a Resolver over the given catalogs.
func New(catalogs []catalog.Catalog, opts ...Option) *Resolver {
	byProvider := make(map[models.Provider]catalog.Catalog, len(catalogs))
	for _, c := range catalogs {
		byProvider[c.Provider()] = c
	}

	r := &Resolver{
		catalogs:       byProvider,
		logger:         shared.NewLogger(nil),
		candidateLimit: DefaultCandidateLimit,
		openURI:        shared.OpenURI,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) catalogFor(provider models.Provider) (catalog.Catalog, error) {
	c, ok := r.catalogs[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnknownProvider, provider)
	}
	return c, nil
}

// Lookup fetches full metadata for a track identity from its own provider.
func (r *Resolver) Lookup(ctx context.Context, identity models.TrackIdentity) (*models.Track, error) {
	c, err := r.catalogFor(identity.Provider)
	if err != nil {
		return nil, err
	}
	return c.Track(ctx, identity.ExternalID)
}

// Resolve maps the source track onto the target provider.
//
// A source already on the target short-circuits with zero network calls. An
// ISRC match always wins over search results; the fuzzy fallback only runs
// when no exact match exists, and its query is "<title> <artist>".
func (r *Resolver) Resolve(ctx context.Context, source models.Track, target models.Provider) (*Resolution, error) {
	if source.Provider == target {
		return &Resolution{Outcome: OutcomeAlreadyOnTarget, Track: &source}, nil
	}

	targetCatalog, err := r.catalogFor(target)
	if err != nil {
		return nil, err
	}

	isrc := source.ISRC
	if isrc == "" {
		// The share row may carry only display metadata; re-fetch from the
		// source catalog to pick up the ISRC when we can.
		if sourceCatalog, err := r.catalogFor(source.Provider); err == nil {
			if full, err := sourceCatalog.Track(ctx, source.ID); err == nil {
				isrc = full.ISRC
			} else {
				r.logger.Debug("source track refresh failed", "provider", source.Provider, "id", source.ID, "error", err)
			}
		}
	}

	if isrc != "" {
		match, err := targetCatalog.LookupISRC(ctx, isrc)
		switch {
		case err == nil:
			return &Resolution{Outcome: OutcomeExactMatch, Track: match}, nil
		case errors.Is(err, shared.ErrNoMatch):
			r.logger.Debug("no exact match on target", "isrc", isrc, "target", target)
		default:
			// Lookup faults fall forward to the fuzzy search; only search
			// exhaustion is terminal.
			r.logger.Warn("isrc lookup failed, falling back to search", "isrc", isrc, "target", target, "error", err)
		}
	}

	query := source.Title + " " + source.Artist
	candidates, err := targetCatalog.Search(ctx, query, r.candidateLimit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Resolution{Outcome: OutcomeNoMatch, Query: query}, nil
	}

	return &Resolution{Outcome: OutcomeCandidates, Candidates: candidates, Query: query}, nil
}

// Open launches the track in the target provider's app, preferring the
// native deep link and falling back to the web URL.
func (r *Resolver) Open(track models.Track) error {
	if deep := DeepLink(track); deep != "" {
		if err := r.openURI(deep); err == nil {
			return nil
		} else {
			r.logger.Debug("deep link failed, falling back to web", "uri", deep, "error", err)
		}
	}

	if track.URL != "" {
		return r.openURI(track.URL)
	}

	return fmt.Errorf("%w: no deep link or web url for %s track %s", shared.ErrCannotOpen, track.Provider, track.ID)
}
