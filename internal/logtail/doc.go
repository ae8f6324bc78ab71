// Package logtail reads the tail of log output for display.
//
// # Reading
//
// Read and Tail keep the last N lines with a ring buffer, so memory stays
// O(N) regardless of input size and the input is scanned once. Lines longer
// than 1MB abort the scan. Lines splits log text already held in memory, such
// as the container logs returned by the API.
//
// Read returns nil, nil for a file that does not exist yet; the activity view
// simply shows nothing until the first entry is written.
//
// # Levels
//
// ParseLevel recognizes the level=... field of logfmt lines so the UI can
// style warnings and errors. Lines without a level are LevelUnknown and are
// rendered plain.
package logtail
