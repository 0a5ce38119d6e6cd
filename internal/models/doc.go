// Package models defines the domain entities shared by the chorus client core.
//
// The package contains three categories of types:
//
// 1. Server-owned records: rows the backend holds and the client mirrors
//   - [ShareRecord] : one row per (sender, recipient, track) share event
//   - [Person] : minimal sender reference embedded in share records
//
// 2. Client-derived aggregates: built lazily, never persisted
//   - [SongGroup] : duplicate share rows collapsed by [GroupKey]
//   - [Bucket] : the mutually exclusive state a record derives from its
//     reaction and queue fields
//
// 3. Provider-neutral catalog shapes: the uniform output of the tagged
// per-provider decode performed at the catalog boundary
//   - [Track] : display metadata plus ISRC for cross-catalog matching
//   - [TrackIdentity] : the unit the resolver reasons about
//
// Bucket membership is always derived via [ShareRecord.Bucket]; it is never
// stored redundantly outside the cache's per-bucket lists.
package models
