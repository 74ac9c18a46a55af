// Package repositories implements SQLite persistence for server accounts and client-local state.
//
// Server side:
//   - [UserRepository] : User accounts with case-insensitive username lookups
//   - [SessionRepository] : Login sessions with expiry and bulk pruning
//
// Client side:
//   - [KeyValueRepository] : The local key/value store backing favorites, recent searches, last search, theme and
//     the saved session token. Each Set rewrites the whole value in one statement, so readers never observe a partial
//     write.
//
// Sequence numbers provide stable, human-readable ordering for users independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
