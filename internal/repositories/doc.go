// Package repositories implements SQLite persistence for the share rows the
// backend data service owns.
//
// The production backend is an external collaborator; [ShareRepository] is a
// faithful local stand-in implementing [shares.ShareStore] so the grouping
// engine can be exercised end to end by the CLI, seed data, and integration
// tests. Rows are ordered created_at DESC, id DESC so that cursor pagination
// stays stable when multiple rows share a timestamp.
package repositories
