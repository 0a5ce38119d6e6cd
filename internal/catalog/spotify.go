// Spotify implementation of [Catalog].
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/ferndazed/chorus/internal/models"
	"github.com/ferndazed/chorus/internal/shared"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Catalog lookups run against app-level credentials, so stay well under
	// Spotify's rolling request window.
	spotifyRequestsPerSecond = 5
)

type spotifyExternalIDs struct {
	ISRC string `json:"isrc"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

type spotifyTrack struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Artists      []spotifyArtist     `json:"artists"`
	Album        spotifyAlbum        `json:"album"`
	DurationMS   int                 `json:"duration_ms"`
	ExternalIDs  spotifyExternalIDs  `json:"external_ids"`
	ExternalURLs spotifyExternalURLs `json:"external_urls"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

// SpotifyCatalog implements [Catalog] over the Spotify Web API using the
// client-credentials flow. No user context is needed for catalog reads.
type SpotifyCatalog struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyCatalog creates a SpotifyCatalog with the given app credentials.
func NewSpotifyCatalog(ctx context.Context, clientID, clientSecret string) (*SpotifyCatalog, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client id and secret", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyCatalog{
		httpClient: config.Client(ctx),
		limiter:    rate.NewLimiter(rate.Limit(spotifyRequestsPerSecond), 1),
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyCatalog) Name() string { return "Spotify" }

func (s *SpotifyCatalog) Provider() models.Provider { return models.ProviderSpotify }

// doRequest performs a rate-limited GET against the Spotify API and decodes
// the JSON response into result.
func (s *SpotifyCatalog) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return shared.ErrTrackNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// toTrack converts the provider payload into the neutral model.
func (t spotifyTrack) toTrack() models.Track {
	var artists []string
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	var artwork string
	if len(t.Album.Images) > 0 {
		artwork = t.Album.Images[0].URL
	}

	return models.Track{
		Provider:   models.ProviderSpotify,
		ID:         t.ID,
		Title:      t.Name,
		Artist:     strings.Join(artists, ", "),
		Album:      t.Album.Name,
		ArtworkURL: artwork,
		URL:        t.ExternalURLs.Spotify,
		ISRC:       t.ExternalIDs.ISRC,
		Duration:   t.DurationMS / 1000,
	}
}

// Track fetches a single track by Spotify id.
func (s *SpotifyCatalog) Track(ctx context.Context, id string) (*models.Track, error) {
	var payload spotifyTrack
	endpoint := fmt.Sprintf("/tracks/%s", url.PathEscape(id))
	if err := s.doRequest(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	track := payload.toTrack()
	return &track, nil
}

// LookupISRC searches the catalog for an exact ISRC match.
func (s *SpotifyCatalog) LookupISRC(ctx context.Context, isrc string) (*models.Track, error) {
	if isrc == "" {
		return nil, shared.ErrNoISRC
	}

	endpoint := fmt.Sprintf("/search?type=track&limit=1&q=%s", url.QueryEscape("isrc:"+isrc))

	var payload spotifySearchResponse
	if err := s.doRequest(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	if len(payload.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: isrc %s", shared.ErrNoMatch, isrc)
	}

	track := payload.Tracks.Items[0].toTrack()
	return &track, nil
}

// Search runs a free-text track search.
func (s *SpotifyCatalog) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/search?type=track&limit=%d&q=%s", limit, url.QueryEscape(query))

	var payload spotifySearchResponse
	if err := s.doRequest(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(payload.Tracks.Items))
	for _, item := range payload.Tracks.Items {
		tracks = append(tracks, item.toTrack())
	}

	return tracks, nil
}
