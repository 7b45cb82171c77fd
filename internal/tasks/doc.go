// Package tasks feeds files from disk into the transfer server.
//
// # Operations
//
//  1. [BulkUpload] : Upload a list of paths
//     - Reads files on a bounded worker pool, optionally rate limited
//     - Uploads in argument order so indices follow the input list
//     - Reports per-file failures without aborting the batch
//
//  2. [DirWatcher] : Upload files as they appear in a directory
//     - Watches with fsnotify for create and write events
//     - Debounces bursts of writes per path before reading the file
//     - Skips directories, dotfiles and editor backups
//
// # Progress Reporting
//
// Both operations accept an optional channel of [ProgressUpdate].
// Updates use select with default to prevent blocking.
package tasks
