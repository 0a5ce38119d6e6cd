// Package catalog wraps the streaming provider APIs behind one interface.
//
// Each client decodes its provider's own response shape at the boundary and
// returns provider-neutral [models.Track] values, so nothing above this
// package ever sees raw Spotify or Apple Music payloads.
package catalog

import (
	"context"

	"github.com/ferndazed/chorus/internal/models"
)

// Catalog is a single provider's track lookup surface.
type Catalog interface {
	// Name returns the human-readable provider name.
	Name() string

	// Provider returns the provider this catalog serves.
	Provider() models.Provider

	// Track fetches a track by its provider-native id.
	Track(ctx context.Context, id string) (*models.Track, error)

	// LookupISRC finds the track carrying the given ISRC, or
	// shared.ErrNoMatch when the catalog has none.
	LookupISRC(ctx context.Context, isrc string) (*models.Track, error)

	// Search runs a free-text search and returns up to limit candidates,
	// best match first.
	Search(ctx context.Context, query string, limit int) ([]models.Track, error)
}
