// Package models defines domain entities and persistence interfaces for droplet.
//
// The package contains two categories of types:
//
// 1. In-memory values owned by the transfer server
//   - [UploadedFile] : One payload pushed by the host, addressed by its append index
//
// 2. Persistent Entities: Database-backed history of what was shared
//   - [UploadRecord] : Metadata of an upload (never the bytes)
//   - [Session] : One run of the transfer server, from start to stop
//
// All persistent entities implement the Model interface providing ID generation, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
