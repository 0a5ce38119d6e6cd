// Apple Music implementation of [Catalog].
//
// Response types based on https://developer.apple.com/documentation/applemusicapi
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/ferndazed/chorus/internal/models"
	"github.com/ferndazed/chorus/internal/shared"
)

const (
	appleMusicBaseURL = "https://api.music.apple.com/v1"

	appleMusicRequestsPerSecond = 5
)

type appleMusicArtwork struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type appleMusicPlayParams struct {
	ID string `json:"id"`
}

type appleMusicAttributes struct {
	Name       string               `json:"name"`
	ArtistName string               `json:"artistName"`
	AlbumName  string               `json:"albumName"`
	ISRC       string               `json:"isrc"`
	URL        string               `json:"url"`
	DurationMS int                  `json:"durationInMillis"`
	Artwork    appleMusicArtwork    `json:"artwork"`
	PlayParams appleMusicPlayParams `json:"playParams"`
}

type appleMusicSong struct {
	ID         string               `json:"id"`
	Type       string               `json:"type"`
	Attributes appleMusicAttributes `json:"attributes"`
}

type appleMusicSongsResponse struct {
	Data []appleMusicSong `json:"data"`
}

type appleMusicSearchResponse struct {
	Results struct {
		Songs struct {
			Data []appleMusicSong `json:"data"`
		} `json:"songs"`
	} `json:"results"`
}

// AppleMusicCatalog implements [Catalog] over the Apple Music API using a
// developer token. Lookups are scoped to a single storefront.
type AppleMusicCatalog struct {
	token      string
	storefront string
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewAppleMusicCatalog creates an AppleMusicCatalog for the given storefront.
func NewAppleMusicCatalog(developerToken, storefront string) (*AppleMusicCatalog, error) {
	if developerToken == "" {
		return nil, fmt.Errorf("%w: apple music developer token", shared.ErrMissingCredentials)
	}
	if storefront == "" {
		storefront = "us"
	}

	return &AppleMusicCatalog{
		token:      developerToken,
		storefront: storefront,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(appleMusicRequestsPerSecond), 1),
		baseURL:    appleMusicBaseURL,
	}, nil
}

func (a *AppleMusicCatalog) Name() string { return "Apple Music" }

func (a *AppleMusicCatalog) Provider() models.Provider { return models.ProviderAppleMusic }

// doRequest performs a rate-limited GET against the Apple Music API with
// bearer auth and decodes the JSON response into result.
func (a *AppleMusicCatalog) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return shared.ErrTrackNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: apple music status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// toTrack converts the provider payload into the neutral model. Artwork URL
// templates carry {w}x{h} placeholders that are filled with a display size.
func (s appleMusicSong) toTrack() models.Track {
	artwork := s.Attributes.Artwork.URL
	artwork = strings.ReplaceAll(artwork, "{w}", "640")
	artwork = strings.ReplaceAll(artwork, "{h}", "640")

	return models.Track{
		Provider:   models.ProviderAppleMusic,
		ID:         s.ID,
		Title:      s.Attributes.Name,
		Artist:     s.Attributes.ArtistName,
		Album:      s.Attributes.AlbumName,
		ArtworkURL: artwork,
		URL:        s.Attributes.URL,
		ISRC:       s.Attributes.ISRC,
		Duration:   s.Attributes.DurationMS / 1000,
	}
}

// Track fetches a single song by Apple Music catalog id.
func (a *AppleMusicCatalog) Track(ctx context.Context, id string) (*models.Track, error) {
	endpoint := fmt.Sprintf("/catalog/%s/songs/%s", a.storefront, url.PathEscape(id))

	var payload appleMusicSongsResponse
	if err := a.doRequest(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	if len(payload.Data) == 0 {
		return nil, shared.ErrTrackNotFound
	}

	track := payload.Data[0].toTrack()
	return &track, nil
}

// LookupISRC finds the song carrying the given ISRC via the filter endpoint.
func (a *AppleMusicCatalog) LookupISRC(ctx context.Context, isrc string) (*models.Track, error) {
	if isrc == "" {
		return nil, shared.ErrNoISRC
	}

	endpoint := fmt.Sprintf("/catalog/%s/songs?filter[isrc]=%s", a.storefront, url.QueryEscape(isrc))

	var payload appleMusicSongsResponse
	if err := a.doRequest(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("%w: isrc %s", shared.ErrNoMatch, isrc)
	}

	track := payload.Data[0].toTrack()
	return &track, nil
}

// Search runs a free-text song search within the storefront.
func (a *AppleMusicCatalog) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 25 {
		limit = 25
	}

	endpoint := fmt.Sprintf("/catalog/%s/search?types=songs&limit=%d&term=%s",
		a.storefront, limit, url.QueryEscape(query))

	var payload appleMusicSearchResponse
	if err := a.doRequest(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	songs := payload.Results.Songs.Data
	tracks := make([]models.Track, 0, len(songs))
	for _, s := range songs {
		tracks = append(tracks, s.toTrack())
	}

	return tracks, nil
}
