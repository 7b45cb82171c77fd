// Package server provides HTTP routing and middleware for the transfer server.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation registers method-qualified patterns ("GET /download/{index}") on an
// [http.ServeMux], so 404 and 405 responses come from the mux itself.
//
// # Middleware
//
//   - [RequestID] : propagates or assigns an X-Request-Id header (UUID)
//   - [Logging] : one structured log line per request with status, size and duration
//   - [RateLimit] : per-client token buckets, answering 429 when exhausted
//   - [Recover] : turns handler panics into 500 responses
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
