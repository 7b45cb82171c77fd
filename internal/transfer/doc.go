// Package transfer implements the embedded file-transfer server.
//
// A host process pushes in-memory files into a [Server]; browsers on the same LAN list, preview and
// download them over HTTP.
//
// # Lifecycle
//
// [Server.Start] binds the configured port, moving on to the next port while the current one is already in
// use, up to the retry budget. Starting a running server returns its current address without rebinding.
// [Server.Stop] closes the listener and every open connection, then clears the store.
//
// # Store
//
// Uploaded files live in an append-only slice. A file's position is its identifier in
// "/download/{index}" and "/preview/{index}" and is never reused until the next stop.
// Uploading works whether or not the server is running.
//
// # Routes
//
//	GET /                  HTML index, newest first
//	GET /download/{index}  attachment with the stored bytes
//	GET /preview/{index}   inline rendition, 404 for empty binary payloads
package transfer
