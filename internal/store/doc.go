// Package store keeps WOQL client state in SQLite.
//
// Two kinds of record are kept per database base URL:
//   - Vocabularies: the short-name table discovered from a schema graph,
//     so a restart does not need a discovery round trip
//   - Queries: executed documents, content-addressed by ir.DocumentID
//
// # Ordering
//
// History uses a logical seq column stamped by a Clock, never timestamps.
// Re-recording a document moves it to the front. Reads order by
// seq DESC, id ASC COLLATE BINARY so results are deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
