package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/ferndazed/chorus/internal/catalog"
	"github.com/ferndazed/chorus/internal/models"
	"github.com/ferndazed/chorus/internal/shared"
	helpers "github.com/ferndazed/chorus/internal/testing"
)

var sourceTrack = models.Track{
	Provider: models.ProviderSpotify,
	ID:       "sp-1",
	Title:    "Paranoid Android",
	Artist:   "Radiohead",
	ISRC:     "GBAYE9700775",
	URL:      "https://open.spotify.com/track/sp-1",
}

var targetTrack = models.Track{
	Provider: models.ProviderAppleMusic,
	ID:       "am-1",
	Title:    "Paranoid Android",
	Artist:   "Radiohead",
	ISRC:     "GBAYE9700775",
	URL:      "https://music.apple.com/us/album/ok-computer/1?i=am-1",
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("same provider short-circuits with no lookups", func(t *testing.T) {
		spotify := &helpers.MockCatalog{CatalogProvider: models.ProviderSpotify}
		apple := &helpers.MockCatalog{CatalogProvider: models.ProviderAppleMusic}
		r := New([]catalog.Catalog{spotify, apple})

		res, err := r.Resolve(ctx, sourceTrack, models.ProviderSpotify)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if res.Outcome != OutcomeAlreadyOnTarget {
			t.Errorf("expected already_on_target, got %s", res.Outcome)
		}
		if res.Track == nil || res.Track.ID != "sp-1" {
			t.Error("expected the source track returned as-is")
		}
		if len(spotify.Calls)+len(apple.Calls) != 0 {
			t.Errorf("expected zero catalog calls, got %v %v", spotify.Calls, apple.Calls)
		}
	})

	t.Run("isrc match wins and search never runs", func(t *testing.T) {
		apple := &helpers.MockCatalog{
			CatalogProvider: models.ProviderAppleMusic,
			Tracks:          []models.Track{targetTrack},
		}
		r := New([]catalog.Catalog{apple})

		res, err := r.Resolve(ctx, sourceTrack, models.ProviderAppleMusic)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if res.Outcome != OutcomeExactMatch {
			t.Fatalf("expected exact_match, got %s", res.Outcome)
		}
		if res.Track.ID != "am-1" {
			t.Errorf("expected target track am-1, got %s", res.Track.ID)
		}
		for _, call := range apple.Calls {
			if call == "Search:Paranoid Android Radiohead" {
				t.Error("fuzzy search must not run when the isrc matched")
			}
		}
	})

	t.Run("falls back to title artist search", func(t *testing.T) {
		near := targetTrack
		near.ISRC = "USDIFFERENT1"
		apple := &helpers.MockCatalog{
			CatalogProvider: models.ProviderAppleMusic,
			Tracks:          []models.Track{near},
		}
		r := New([]catalog.Catalog{apple})

		res, err := r.Resolve(ctx, sourceTrack, models.ProviderAppleMusic)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if res.Outcome != OutcomeCandidates {
			t.Fatalf("expected candidates, got %s", res.Outcome)
		}
		if res.Query != "Paranoid Android Radiohead" {
			t.Errorf("unexpected query %q", res.Query)
		}
		if len(res.Candidates) != 1 || res.Candidates[0].ID != "am-1" {
			t.Errorf("unexpected candidates %v", res.Candidates)
		}

		want := []string{"LookupISRC:GBAYE9700775", "Search:Paranoid Android Radiohead"}
		if len(apple.Calls) != len(want) {
			t.Fatalf("expected calls %v, got %v", want, apple.Calls)
		}
		for i, call := range want {
			if apple.Calls[i] != call {
				t.Errorf("call %d: expected %s, got %s", i, call, apple.Calls[i])
			}
		}
	})

	t.Run("failed isrc lookup falls forward to search", func(t *testing.T) {
		near := targetTrack
		near.ISRC = "USDIFFERENT1"
		apple := &helpers.MockCatalog{
			CatalogProvider: models.ProviderAppleMusic,
			Tracks:          []models.Track{near},
			LookupErr:       errors.New("apple music status 503"),
		}
		r := New([]catalog.Catalog{apple})

		res, err := r.Resolve(ctx, sourceTrack, models.ProviderAppleMusic)
		if err != nil {
			t.Fatalf("expected the lookup fault to fall forward, got %v", err)
		}

		if res.Outcome != OutcomeCandidates {
			t.Fatalf("expected candidates, got %s", res.Outcome)
		}
		if len(res.Candidates) != 1 || res.Candidates[0].ID != "am-1" {
			t.Errorf("unexpected candidates %v", res.Candidates)
		}

		want := []string{"LookupISRC:GBAYE9700775", "Search:Paranoid Android Radiohead"}
		if len(apple.Calls) != len(want) {
			t.Fatalf("expected calls %v, got %v", want, apple.Calls)
		}
		for i, call := range want {
			if apple.Calls[i] != call {
				t.Errorf("call %d: expected %s, got %s", i, call, apple.Calls[i])
			}
		}
	})

	t.Run("refreshes source metadata when isrc is missing", func(t *testing.T) {
		spotify := &helpers.MockCatalog{
			CatalogProvider: models.ProviderSpotify,
			Tracks:          []models.Track{sourceTrack},
		}
		apple := &helpers.MockCatalog{
			CatalogProvider: models.ProviderAppleMusic,
			Tracks:          []models.Track{targetTrack},
		}
		r := New([]catalog.Catalog{spotify, apple})

		bare := sourceTrack
		bare.ISRC = ""
		res, err := r.Resolve(ctx, bare, models.ProviderAppleMusic)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if res.Outcome != OutcomeExactMatch {
			t.Fatalf("expected exact_match after refresh, got %s", res.Outcome)
		}
		if len(spotify.Calls) != 1 || spotify.Calls[0] != "Track:sp-1" {
			t.Errorf("expected one source refresh call, got %v", spotify.Calls)
		}
	})

	t.Run("empty search is a terminal no_match", func(t *testing.T) {
		apple := &helpers.MockCatalog{CatalogProvider: models.ProviderAppleMusic}
		r := New([]catalog.Catalog{apple})

		res, err := r.Resolve(ctx, sourceTrack, models.ProviderAppleMusic)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if res.Outcome != OutcomeNoMatch {
			t.Errorf("expected no_match, got %s", res.Outcome)
		}
		if res.Track != nil || len(res.Candidates) != 0 {
			t.Error("expected no track data on no_match")
		}
	})

	t.Run("unknown target provider", func(t *testing.T) {
		r := New(nil)

		_, err := r.Resolve(ctx, sourceTrack, models.ProviderAppleMusic)
		if !errors.Is(err, shared.ErrUnknownProvider) {
			t.Errorf("expected ErrUnknownProvider, got %v", err)
		}
	})

	t.Run("search failure surfaces the error", func(t *testing.T) {
		apple := &helpers.MockCatalog{
			CatalogProvider: models.ProviderAppleMusic,
			Err:             errors.New("rate limited"),
		}
		r := New([]catalog.Catalog{apple})

		bare := sourceTrack
		bare.ISRC = ""
		if _, err := r.Resolve(ctx, bare, models.ProviderAppleMusic); err == nil {
			t.Error("expected the catalog error to surface")
		}
	})
}

func TestOpen(t *testing.T) {
	t.Run("prefers the native deep link", func(t *testing.T) {
		var opened []string
		r := New(nil)
		r.openURI = func(uri string) error {
			opened = append(opened, uri)
			return nil
		}

		if err := r.Open(sourceTrack); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(opened) != 1 || opened[0] != "spotify:track:sp-1" {
			t.Errorf("expected the deep link opened, got %v", opened)
		}
	})

	t.Run("falls back to the web url", func(t *testing.T) {
		var opened []string
		r := New(nil)
		r.openURI = func(uri string) error {
			opened = append(opened, uri)
			if len(opened) == 1 {
				return errors.New("no handler registered")
			}
			return nil
		}

		if err := r.Open(targetTrack); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{
			"music://music.apple.com/us/album/ok-computer/1?i=am-1",
			"https://music.apple.com/us/album/ok-computer/1?i=am-1",
		}
		if len(opened) != 2 || opened[0] != want[0] || opened[1] != want[1] {
			t.Errorf("expected %v, got %v", want, opened)
		}
	})

	t.Run("nothing to open", func(t *testing.T) {
		r := New(nil)
		r.openURI = func(string) error { return nil }

		err := r.Open(models.Track{Provider: models.ProviderAppleMusic})
		if !errors.Is(err, shared.ErrCannotOpen) {
			t.Errorf("expected ErrCannotOpen, got %v", err)
		}
	})
}

func TestIdentityFromURL(t *testing.T) {
	t.Run("spotify track links", func(t *testing.T) {
		cases := []string{
			"https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6",
			"https://open.spotify.com/intl-de/track/6rqhFgbbKwnb9MLmUQDhG6?si=abc",
		}
		for _, raw := range cases {
			identity, err := IdentityFromURL(raw)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", raw, err)
			}
			if identity.Provider != models.ProviderSpotify {
				t.Errorf("%s: expected spotify, got %s", raw, identity.Provider)
			}
			if identity.ExternalID != "6rqhFgbbKwnb9MLmUQDhG6" {
				t.Errorf("%s: unexpected id %s", raw, identity.ExternalID)
			}
		}
	})

	t.Run("apple music album link with song param", func(t *testing.T) {
		identity, err := IdentityFromURL("https://music.apple.com/us/album/ok-computer/1440783104?i=1440783617")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if identity.Provider != models.ProviderAppleMusic {
			t.Errorf("expected applemusic, got %s", identity.Provider)
		}
		if identity.ExternalID != "1440783617" {
			t.Errorf("unexpected id %s", identity.ExternalID)
		}
	})

	t.Run("apple music bare song link", func(t *testing.T) {
		identity, err := IdentityFromURL("https://music.apple.com/us/song/1440783617")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if identity.ExternalID != "1440783617" {
			t.Errorf("unexpected id %s", identity.ExternalID)
		}
	})

	t.Run("unknown host", func(t *testing.T) {
		_, err := IdentityFromURL("https://example.com/track/123")
		if !errors.Is(err, shared.ErrUnknownProvider) {
			t.Errorf("expected ErrUnknownProvider, got %v", err)
		}
	})

	t.Run("spotify link without a track id", func(t *testing.T) {
		_, err := IdentityFromURL("https://open.spotify.com/playlist/abc")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestDeepLink(t *testing.T) {
	t.Run("spotify uri scheme", func(t *testing.T) {
		if got := DeepLink(sourceTrack); got != "spotify:track:sp-1" {
			t.Errorf("unexpected deep link %q", got)
		}
	})

	t.Run("apple music scheme swap", func(t *testing.T) {
		want := "music://music.apple.com/us/album/ok-computer/1?i=am-1"
		if got := DeepLink(targetTrack); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("underivable links are empty", func(t *testing.T) {
		if got := DeepLink(models.Track{Provider: models.ProviderSpotify}); got != "" {
			t.Errorf("expected empty deep link, got %q", got)
		}
		if got := DeepLink(models.Track{Provider: models.ProviderAppleMusic, URL: "https://example.com/x"}); got != "" {
			t.Errorf("expected empty deep link, got %q", got)
		}
	})
}
