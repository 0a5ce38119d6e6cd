package resolver

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ferndazed/chorus/internal/models"
	"github.com/ferndazed/chorus/internal/shared"
)

// IdentityFromURL infers a track identity from a pasted share link.
//
// Recognized hosts are open.spotify.com (path /track/{id}) and
// music.apple.com (song id in the ?i= query parameter, or the trailing path
// segment on bare song links).
func IdentityFromURL(raw string) (models.TrackIdentity, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return models.TrackIdentity{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	host := strings.ToLower(u.Hostname())
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch host {
	case "open.spotify.com":
		// Localized links insert a region segment, e.g. /intl-de/track/{id}.
		for i, s := range segments {
			if s == "track" && i+1 < len(segments) {
				return models.TrackIdentity{
					Provider:   models.ProviderSpotify,
					ExternalID: segments[i+1],
				}, nil
			}
		}
		return models.TrackIdentity{}, fmt.Errorf("%w: no track id in %q", shared.ErrInvalidInput, raw)

	case "music.apple.com":
		if id := u.Query().Get("i"); id != "" {
			return models.TrackIdentity{
				Provider:   models.ProviderAppleMusic,
				ExternalID: id,
			}, nil
		}
		if len(segments) >= 2 && segments[len(segments)-2] == "song" {
			return models.TrackIdentity{
				Provider:   models.ProviderAppleMusic,
				ExternalID: segments[len(segments)-1],
			}, nil
		}
		return models.TrackIdentity{}, fmt.Errorf("%w: no song id in %q", shared.ErrInvalidInput, raw)
	}

	return models.TrackIdentity{}, fmt.Errorf("%w: host %q", shared.ErrUnknownProvider, host)
}

// DeepLink returns the provider's native URI for the track, or "" when none
// can be derived.
func DeepLink(t models.Track) string {
	switch t.Provider {
	case models.ProviderSpotify:
		if t.ID == "" {
			return ""
		}
		return "spotify:track:" + t.ID

	case models.ProviderAppleMusic:
		// The Music app claims the music:// scheme for catalog URLs.
		if strings.HasPrefix(t.URL, "https://music.apple.com/") {
			return "music://" + strings.TrimPrefix(t.URL, "https://")
		}
		return ""
	}
	return ""
}
