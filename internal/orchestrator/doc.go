// Package orchestrator provides an HTTP client for the container orchestration API.
//
// # Overview
//
// The orchestration backend launches sandboxed containers from templates and
// exposes their lifecycle over a small JSON REST surface. This package wraps
// that surface with typed requests and responses; it holds no state of its own.
//
// # API Endpoints
//
//   - GET /api/containers: fleet snapshot
//   - GET /api/templates: template catalog
//   - POST /api/launch: create a container from a template
//   - DELETE /api/launch/{id}: stop and remove a container
//   - POST /api/containers/{id}/{action}: start, stop or restart
//   - GET /api/containers/{id}/logs: recent log output
//   - GET /api/containers/{id}/inspect: inspect details
//
// # Request Handling
//
// All requests:
//   - Use the caller's context for cancellation
//   - Carry a per-class timeout (list, lifecycle, launch, diagnostic)
//   - Set Accept: application/json and User-Agent: flotilla/0.1
//   - Carry an X-Request-ID that is also written to the debug log
//
// # Error Handling
//
// Failures come back as one of two types:
//
//   - *TransportError: no response was obtained (refused, timed out, cancelled)
//   - *BackendError: the backend answered non-2xx, or 2xx with an error field;
//     Message holds the body's error text verbatim
//
// Malformed success bodies are reported as wrapped "decode response" errors.
//
// # URL Construction
//
// The client accepts "127.0.0.1:8080" or "http://host:port"; the scheme
// defaults to http and any path, query or fragment is dropped.
//
// # Thread Safety
//
// The Client is safe for concurrent use; bulk operations issue requests from
// several goroutines at once.
package orchestrator
