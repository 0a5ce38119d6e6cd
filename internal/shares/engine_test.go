package shares

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/ferndazed/chorus/internal/cache"
	"github.com/ferndazed/chorus/internal/models"
)

const testUser = "user-1"

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

// fakeStore is an in-memory ShareStore double recording calls.
type fakeStore struct {
	records   []models.ShareRecord
	listErr   error
	updateErr error
	listCalls int
	updated   [][]string
}

func (f *fakeStore) ListShares(_ context.Context, q ListQuery) ([]models.ShareRecord, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	var out []models.ShareRecord
	for _, r := range f.records {
		if r.Bucket() != q.Bucket {
			continue
		}
		if q.Before != nil && !r.CreatedAt.Before(*q.Before) {
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateShares(_ context.Context, ids []string, update models.ShareUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, ids)
	for i := range f.records {
		for _, id := range ids {
			if f.records[i].ID == id {
				update.Apply(&f.records[i])
			}
		}
	}
	return nil
}

// share builds an unreacted record n minutes before baseTime.
func share(id, trackID, senderID string, minutesAgo int) models.ShareRecord {
	return models.ShareRecord{
		ID:              id,
		Provider:        models.ProviderSpotify,
		TrackExternalID: trackID,
		Title:           "Title " + trackID,
		Artist:          "Artist " + trackID,
		CreatedAt:       baseTime.Add(-time.Duration(minutesAgo) * time.Minute),
		Sender:          models.Person{ID: senderID, DisplayName: "Sender " + senderID},
	}
}

func newEngine(store ShareStore, opts ...Option) (*Engine, *cache.Store) {
	c := cache.New()
	return NewEngine(store, c, opts...), c
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("groups duplicate tracks", func(t *testing.T) {
		store := &fakeStore{records: []models.ShareRecord{
			share("r1", "trackA", "p1", 1),
			share("r2", "trackA", "p2", 2),
			share("r3", "trackB", "p1", 3),
		}}
		engine, _ := newEngine(store)

		page, err := engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(page.Groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(page.Groups))
		}

		groupA := page.Groups[0]
		if groupA.Key.TrackExternalID != "trackA" {
			t.Fatalf("expected trackA first (newest), got %s", groupA.Key.TrackExternalID)
		}
		if len(groupA.Senders) != 2 {
			t.Errorf("expected 2 senders, got %d", len(groupA.Senders))
		}
		if len(groupA.MemberIDs) != 2 {
			t.Errorf("expected 2 member ids, got %d", len(groupA.MemberIDs))
		}
		if !groupA.LatestCreatedAt.Equal(baseTime.Add(-time.Minute)) {
			t.Errorf("expected latest createdAt from first-seen row, got %v", groupA.LatestCreatedAt)
		}
	})

	t.Run("duplicate sender is not repeated", func(t *testing.T) {
		store := &fakeStore{records: []models.ShareRecord{
			share("r1", "trackA", "p1", 1),
			share("r2", "trackA", "p1", 2),
		}}
		engine, _ := newEngine(store)

		page, err := engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(page.Groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(page.Groups))
		}
		if len(page.Groups[0].Senders) != 1 {
			t.Errorf("expected deduplicated sender, got %d", len(page.Groups[0].Senders))
		}
		if len(page.Groups[0].MemberIDs) != 2 {
			t.Errorf("expected both member ids kept, got %d", len(page.Groups[0].MemberIDs))
		}
	})

	t.Run("pagination boundary", func(t *testing.T) {
		t.Run("eleven rows yields full page and more", func(t *testing.T) {
			store := &fakeStore{}
			for i := 0; i < 11; i++ {
				store.records = append(store.records, share(
					"r"+string(rune('a'+i)), "track"+string(rune('a'+i)), "p1", i+1))
			}
			engine, _ := newEngine(store) // DefaultPageSize = 10

			page, err := engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !page.HasMore {
				t.Error("expected HasMore with 11 matching rows")
			}
			if len(page.Groups) != 10 {
				t.Errorf("expected 10 groups, got %d", len(page.Groups))
			}
			if page.NextCursor == nil {
				t.Fatal("expected a next cursor")
			}
			wantCursor := baseTime.Add(-10 * time.Minute) // createdAt of the 10th row
			if !page.NextCursor.Equal(wantCursor) {
				t.Errorf("expected cursor %v, got %v", wantCursor, page.NextCursor)
			}
		})

		t.Run("exactly ten rows is the last page", func(t *testing.T) {
			store := &fakeStore{}
			for i := 0; i < 10; i++ {
				store.records = append(store.records, share(
					"r"+string(rune('a'+i)), "track"+string(rune('a'+i)), "p1", i+1))
			}
			engine, _ := newEngine(store)

			page, err := engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if page.HasMore {
				t.Error("did not expect HasMore with exactly 10 rows")
			}
			if page.NextCursor != nil {
				t.Error("did not expect a next cursor on the last page")
			}
		})
	})

	t.Run("cursor pages do not overlap", func(t *testing.T) {
		store := &fakeStore{}
		for i := 0; i < 15; i++ {
			store.records = append(store.records, share(
				"r"+string(rune('a'+i)), "track"+string(rune('a'+i)), "p1", i+1))
		}
		engine, _ := newEngine(store, WithPageSize(5))

		first, err := engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})
		if err != nil {
			t.Fatalf("first page: %v", err)
		}
		second, err := engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{Cursor: first.NextCursor})
		if err != nil {
			t.Fatalf("second page: %v", err)
		}

		seen := map[string]bool{}
		for _, g := range first.Groups {
			seen[g.Key.TrackExternalID] = true
		}
		for _, g := range second.Groups {
			if seen[g.Key.TrackExternalID] {
				t.Errorf("track %s appeared on both pages", g.Key.TrackExternalID)
			}
		}
		if len(second.Groups) != 5 || !second.HasMore {
			t.Errorf("expected a full second page with more remaining, got %d groups HasMore=%v",
				len(second.Groups), second.HasMore)
		}
	})

	t.Run("first page is served from cache", func(t *testing.T) {
		store := &fakeStore{records: []models.ShareRecord{share("r1", "trackA", "p1", 1)}}
		engine, _ := newEngine(store)

		if _, err := engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{}); err != nil {
			t.Fatalf("first list: %v", err)
		}
		if store.listCalls != 1 {
			t.Fatalf("expected one store call, got %d", store.listCalls)
		}

		page, err := engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})
		if err != nil {
			t.Fatalf("second list: %v", err)
		}
		if store.listCalls != 1 {
			t.Errorf("expected cached hit, store called %d times", store.listCalls)
		}
		if page.HasMore {
			t.Error("cached page must report HasMore=false")
		}
		if len(page.Groups) != 1 {
			t.Errorf("expected 1 cached group, got %d", len(page.Groups))
		}
	})

	t.Run("force refresh bypasses cache", func(t *testing.T) {
		store := &fakeStore{records: []models.ShareRecord{share("r1", "trackA", "p1", 1)}}
		engine, _ := newEngine(store)

		engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})
		engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{ForceRefresh: true})

		if store.listCalls != 2 {
			t.Errorf("expected 2 store calls with force refresh, got %d", store.listCalls)
		}
	})

	t.Run("only the first page is cached", func(t *testing.T) {
		store := &fakeStore{}
		for i := 0; i < 15; i++ {
			store.records = append(store.records, share(
				"r"+string(rune('a'+i)), "track"+string(rune('a'+i)), "p1", i+1))
		}
		engine, c := newEngine(store, WithPageSize(5))

		first, _ := engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})
		engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{Cursor: first.NextCursor})

		cached, ok := c.BucketList(testUser, models.BucketUnreacted)
		if !ok {
			t.Fatal("expected first page in cache")
		}
		if len(cached) != 5 {
			t.Errorf("expected only the 5 first-page rows cached, got %d", len(cached))
		}
	})

	t.Run("failed fetch degrades to empty page", func(t *testing.T) {
		store := &fakeStore{listErr: errors.New("backend down")}
		engine, _ := newEngine(store)

		page, err := engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})
		if err == nil {
			t.Error("expected error to be surfaced")
		}
		if page == nil {
			t.Fatal("expected a conservative empty page")
		}
		if len(page.Groups) != 0 || page.HasMore {
			t.Errorf("expected empty page with HasMore=false, got %+v", page)
		}
	})

	t.Run("buckets are filtered", func(t *testing.T) {
		queued := share("r2", "trackB", "p1", 2)
		queued.IsQueued = true
		archived := share("r3", "trackC", "p1", 3)
		archived.Reaction = boolPtr(true)

		store := &fakeStore{records: []models.ShareRecord{
			share("r1", "trackA", "p1", 1), queued, archived,
		}}
		engine, _ := newEngine(store)

		for bucket, wantTrack := range map[models.Bucket]string{
			models.BucketUnreacted: "trackA",
			models.BucketQueued:    "trackB",
			models.BucketArchived:  "trackC",
		} {
			page, err := engine.List(ctx, bucket, testUser, ListOptions{})
			if err != nil {
				t.Fatalf("%s: %v", bucket, err)
			}
			if len(page.Groups) != 1 || page.Groups[0].Key.TrackExternalID != wantTrack {
				t.Errorf("bucket %s: expected only %s, got %v", bucket, wantTrack, page.Groups)
			}
		}
	})
}

func TestReact(t *testing.T) {
	ctx := context.Background()

	t.Run("moves record into archived cache after backend success", func(t *testing.T) {
		store := &fakeStore{records: []models.ShareRecord{share("r1", "trackA", "p1", 1)}}
		engine, c := newEngine(store)

		// Populate the unreacted bucket cache.
		if _, err := engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{}); err != nil {
			t.Fatalf("list: %v", err)
		}

		if err := engine.React(ctx, testUser, []string{"r1"}, true); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(store.updated) != 1 {
			t.Fatalf("expected one bulk update, got %d", len(store.updated))
		}

		unreacted, _ := c.BucketList(testUser, models.BucketUnreacted)
		if len(unreacted) != 0 {
			t.Errorf("expected unreacted cache emptied, got %d records", len(unreacted))
		}

		archived, ok := c.BucketList(testUser, models.BucketArchived)
		if !ok || len(archived) != 1 {
			t.Fatalf("expected r1 in archived cache, got %v", archived)
		}
		if archived[0].Reaction == nil || !*archived[0].Reaction {
			t.Error("expected reaction recorded on cached row")
		}
	})

	t.Run("queued record moves to archived", func(t *testing.T) {
		queued := share("r1", "trackA", "p1", 1)
		queued.IsQueued = true
		store := &fakeStore{records: []models.ShareRecord{queued}}
		engine, c := newEngine(store)

		engine.List(ctx, models.BucketQueued, testUser, ListOptions{})

		if err := engine.React(ctx, testUser, []string{"r1"}, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		queuedList, _ := c.BucketList(testUser, models.BucketQueued)
		if len(queuedList) != 0 {
			t.Errorf("expected queued cache emptied, got %v", queuedList)
		}
		archived, _ := c.BucketList(testUser, models.BucketArchived)
		if len(archived) != 1 {
			t.Errorf("expected r1 archived, got %v", archived)
		}
	})

	t.Run("backend failure leaves cache untouched", func(t *testing.T) {
		store := &fakeStore{records: []models.ShareRecord{share("r1", "trackA", "p1", 1)}}
		engine, c := newEngine(store)

		engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})
		store.updateErr = errors.New("mutation rejected")

		if err := engine.React(ctx, testUser, []string{"r1"}, true); err == nil {
			t.Fatal("expected error from backend failure")
		}

		unreacted, _ := c.BucketList(testUser, models.BucketUnreacted)
		if len(unreacted) != 1 {
			t.Fatalf("expected record still cached as unreacted, got %v", unreacted)
		}
		if unreacted[0].Reaction != nil {
			t.Error("expected no speculative reaction in cache")
		}
		if _, ok := c.BucketList(testUser, models.BucketArchived); ok {
			t.Error("expected no archived cache list")
		}
	})

	t.Run("empty member ids rejected", func(t *testing.T) {
		engine, _ := newEngine(&fakeStore{})
		if err := engine.React(ctx, testUser, nil, true); err == nil {
			t.Error("expected error for empty member ids")
		}
	})
}

func TestQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("moves unreacted record to queued cache", func(t *testing.T) {
		store := &fakeStore{records: []models.ShareRecord{share("r1", "trackA", "p1", 1)}}
		engine, c := newEngine(store)

		engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})

		if err := engine.Queue(ctx, testUser, []string{"r1"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		unreacted, _ := c.BucketList(testUser, models.BucketUnreacted)
		if len(unreacted) != 0 {
			t.Errorf("expected unreacted cache emptied, got %v", unreacted)
		}
		queued, ok := c.BucketList(testUser, models.BucketQueued)
		if !ok || len(queued) != 1 {
			t.Fatalf("expected r1 queued, got %v", queued)
		}
		if !queued[0].IsQueued {
			t.Error("expected queued flag applied to cached row")
		}
	})

	t.Run("backend failure leaves cache untouched", func(t *testing.T) {
		store := &fakeStore{records: []models.ShareRecord{share("r1", "trackA", "p1", 1)}}
		engine, c := newEngine(store)

		engine.List(ctx, models.BucketUnreacted, testUser, ListOptions{})
		store.updateErr = errors.New("mutation rejected")

		if err := engine.Queue(ctx, testUser, []string{"r1"}); err == nil {
			t.Fatal("expected error")
		}

		unreacted, _ := c.BucketList(testUser, models.BucketUnreacted)
		if len(unreacted) != 1 {
			t.Errorf("expected record still unreacted in cache, got %v", unreacted)
		}
	})
}
