package cache

import (
	"github.com/ferndazed/chorus/internal/models"
)

// BucketScope builds the scope for a user's cached bucket list.
func BucketScope(userID string, bucket models.Bucket) string {
	return userID + ":" + string(bucket)
}

// BucketList returns the cached share records for a user's bucket.
func (s *Store) BucketList(userID string, bucket models.Bucket) ([]models.ShareRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.get(CategorySharedSongs, BucketScope(userID, bucket))
	if !ok {
		return nil, false
	}
	records, ok := value.([]models.ShareRecord)
	return records, ok
}

// SetBucketList replaces the cached share records for a user's bucket.
func (s *Store) SetBucketList(userID string, bucket models.Bucket, records []models.ShareRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(CategorySharedSongs, BucketScope(userID, bucket), records)
}

// InvalidateBuckets drops every cached bucket list for the user.
func (s *Store) InvalidateBuckets(userID string) {
	for _, bucket := range []models.Bucket{models.BucketUnreacted, models.BucketQueued, models.BucketArchived} {
		s.Invalidate(CategorySharedSongs, BucketScope(userID, bucket))
	}
}

// MoveBetweenBuckets removes the record from the cached source bucket list (if
// present) and prepends it, with updates applied, to the cached destination
// list, creating that list if absent.
//
// Absence in the source bucket is a silent no-op: the backend is the source of
// truth and the cache is a best-effort mirror, so there is nothing to move and
// nothing to invent.
func (s *Store) MoveBetweenBuckets(userID, recordID string, from, to models.Bucket, updates models.ShareUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, found := s.removeFromBucket(userID, from, recordID)
	if !found {
		return
	}

	updates.Apply(&record)

	destScope := BucketScope(userID, to)
	var dest []models.ShareRecord
	if value, ok := s.get(CategorySharedSongs, destScope); ok {
		if existing, ok := value.([]models.ShareRecord); ok {
			dest = existing
		}
	}

	// Drop any stale copy before prepending so the destination never holds
	// the record twice.
	out := make([]models.ShareRecord, 0, len(dest)+1)
	out = append(out, record)
	for _, r := range dest {
		if r.ID != recordID {
			out = append(out, r)
		}
	}

	s.set(CategorySharedSongs, destScope, out)
}

// removeFromBucket extracts a record from a cached bucket list. Caller holds
// the lock. The remaining list is written back with a fresh TTL only when the
// record was actually found.
func (s *Store) removeFromBucket(userID string, bucket models.Bucket, recordID string) (models.ShareRecord, bool) {
	scope := BucketScope(userID, bucket)

	value, ok := s.get(CategorySharedSongs, scope)
	if !ok {
		return models.ShareRecord{}, false
	}
	records, ok := value.([]models.ShareRecord)
	if !ok {
		return models.ShareRecord{}, false
	}

	for i, r := range records {
		if r.ID == recordID {
			remaining := make([]models.ShareRecord, 0, len(records)-1)
			remaining = append(remaining, records[:i]...)
			remaining = append(remaining, records[i+1:]...)
			s.set(CategorySharedSongs, scope, remaining)
			return r, true
		}
	}

	return models.ShareRecord{}, false
}

// UpdateReactionInPlace applies a reaction value to the matching record in
// every cached bucket list that contains it, without changing membership.
// Membership transitions are a separate, explicit MoveBetweenBuckets call.
func (s *Store) UpdateReactionInPlace(userID, recordID string, reaction bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, bucket := range []models.Bucket{models.BucketUnreacted, models.BucketQueued, models.BucketArchived} {
		scope := BucketScope(userID, bucket)
		value, ok := s.get(CategorySharedSongs, scope)
		if !ok {
			continue
		}
		records, ok := value.([]models.ShareRecord)
		if !ok {
			continue
		}

		for i, r := range records {
			if r.ID == recordID {
				v := reaction
				records[i].Reaction = &v
				s.set(CategorySharedSongs, scope, records)
				break
			}
		}
	}
}
