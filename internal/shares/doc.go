// Package shares implements the paginated grouping engine over the backend's
// shared-song rows.
//
// The backend holds one row per (sender, recipient, track) share event. The
// [Engine] fetches those rows bucket by bucket with a createdAt cursor,
// collapses duplicates into [models.SongGroup] aggregates, and mirrors the
// first page of each bucket in the injected cache store.
//
// Mutations ([Engine.React], [Engine.Queue]) always await the backend bulk
// update before touching the cache, so the cache is never ahead of a confirmed
// backend state. The engine carries no reentrancy guard: callers are
// responsible for tracking in-flight member-id sets and rejecting repeat
// actions on the same group while a request is outstanding.
package shares
