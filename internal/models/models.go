package models

import (
	"fmt"
	"time"
)

// Provider identifies a streaming catalog.
type Provider string

const (
	ProviderSpotify    Provider = "spotify"
	ProviderAppleMusic Provider = "applemusic"
)

// ParseProvider converts a user-supplied string into a [Provider].
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderSpotify, ProviderAppleMusic:
		return Provider(s), nil
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// Bucket is one of the three mutually exclusive states a share record can be in.
type Bucket string

const (
	BucketUnreacted Bucket = "unreacted"
	BucketQueued    Bucket = "queued"
	BucketArchived  Bucket = "archived"
)

// ParseBucket converts a user-supplied string into a [Bucket].
func ParseBucket(s string) (Bucket, error) {
	switch Bucket(s) {
	case BucketUnreacted, BucketQueued, BucketArchived:
		return Bucket(s), nil
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

// Person is the sender reference embedded in a share record.
type Person struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// ShareRecord is one row per (sender, recipient, track) share event.
//
// The backend owns these rows; the client holds a read/write-through cached
// copy and never deletes them.
type ShareRecord struct {
	ID              string    `json:"id"`
	Provider        Provider  `json:"provider"`
	TrackExternalID string    `json:"track_external_id"`
	Title           string    `json:"title"`
	Artist          string    `json:"artist"`
	Album           string    `json:"album,omitempty"`
	ArtworkURL      string    `json:"artwork_url,omitempty"`
	ExternalURL     string    `json:"external_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Reaction        *bool     `json:"reaction"`
	IsQueued        bool      `json:"is_queued"`
	Sender          Person    `json:"sender"`
}

// Bucket derives the record's bucket from its reaction and queue fields.
//
// A reacted record is archived regardless of its queue flag; queueing only
// applies while no reaction exists.
func (r ShareRecord) Bucket() Bucket {
	switch {
	case r.Reaction != nil:
		return BucketArchived
	case r.IsQueued:
		return BucketQueued
	default:
		return BucketUnreacted
	}
}

// GroupKey returns the deduplication key for this record.
func (r ShareRecord) GroupKey() GroupKey {
	return GroupKey{Provider: r.Provider, TrackExternalID: r.TrackExternalID}
}

// GroupKey is the structured composite key that collapses duplicate share rows.
//
// It is a comparable struct rather than a concatenated string so that
// differently escaped provider/id pairs can never collide.
type GroupKey struct {
	Provider        Provider
	TrackExternalID string
}

// SongGroup is a client-derived aggregate collapsing multiple per-sender share
// records into one displayable entry.
//
// Display metadata comes from the first constituent record seen; duplicates are
// assumed to carry identical metadata. MemberIDs preserves the underlying row
// ids so reactions can mutate every constituent later.
type SongGroup struct {
	Key             GroupKey  `json:"key"`
	Title           string    `json:"title"`
	Artist          string    `json:"artist"`
	Album           string    `json:"album,omitempty"`
	ArtworkURL      string    `json:"artwork_url,omitempty"`
	ExternalURL     string    `json:"external_url,omitempty"`
	Senders         []Person  `json:"senders"`
	LatestCreatedAt time.Time `json:"latest_created_at"`
	MemberIDs       []string  `json:"member_ids"`
}

// HasSender reports whether the group already lists the given person id.
func (g *SongGroup) HasSender(personID string) bool {
	for _, s := range g.Senders {
		if s.ID == personID {
			return true
		}
	}
	return false
}

// ShareUpdate describes a partial mutation of a share record. Nil fields are
// left unchanged.
type ShareUpdate struct {
	Reaction *bool
	Queued   *bool
}

// Apply copies the non-nil fields onto the record.
func (u ShareUpdate) Apply(r *ShareRecord) {
	if u.Reaction != nil {
		v := *u.Reaction
		r.Reaction = &v
	}
	if u.Queued != nil {
		r.IsQueued = *u.Queued
	}
}

// TrackIdentity is the unit the resolver reasons about. ISRC, when present, is
// the cross-catalog exact-match key.
type TrackIdentity struct {
	Provider   Provider `json:"provider"`
	ExternalID string   `json:"external_id"`
	ISRC       string   `json:"isrc,omitempty"`
}

// Track is provider-neutral track metadata produced at the catalog boundary.
type Track struct {
	Provider   Provider `json:"provider"`
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Album      string   `json:"album,omitempty"`
	ArtworkURL string   `json:"artwork_url,omitempty"`
	URL        string   `json:"url,omitempty"`
	ISRC       string   `json:"isrc,omitempty"`
	Duration   int      `json:"duration,omitempty"` // seconds
}

// Identity returns the track's [TrackIdentity].
func (t Track) Identity() TrackIdentity {
	return TrackIdentity{Provider: t.Provider, ExternalID: t.ID, ISRC: t.ISRC}
}
