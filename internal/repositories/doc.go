// Package repositories implements SQLite persistence for the upload history.
//
// Only metadata is stored: names, sizes, content types and timestamps. File bytes stay in the transfer server's memory.
//
// Key Implementations:
//   - [UploadRepository] : One row per upload, soft-deletable, ordered by a global sequence
//   - [SessionRepository] : One row per server run with its bound port and address
//   - [HistoryRecorder] : Adapter the transfer server calls on start, upload and stop
//
// Sequence numbers provide stable, human-readable ordering (e.g., upload #42) independent of UUIDs and
// of per-run file indices. The [NextSequence] function atomically increments per-table sequence counters.
package repositories
