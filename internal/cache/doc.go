// Package cache implements the in-process TTL cache backing the chorus client.
//
// A [Store] is an explicitly constructed, injectable value; there is no package
// level singleton. Entries are namespaced by a structured [Key] (category plus
// scope) and expire per-category. Eviction is purely lazy: expired entries are
// deleted when read, never by a background sweep.
//
// The store never returns errors. A failed or expired lookup is a miss, and
// writes are idempotent replacements, so callers can always fall back to the
// network without risking stale data being served past its TTL.
//
// Bucket helpers ([Store.MoveBetweenBuckets], [Store.UpdateReactionInPlace])
// keep the three cached shared-song lists consistent after a reaction or queue
// mutation without a full refetch. The cache is a best-effort mirror of the
// backend; absence is never an error.
package cache
