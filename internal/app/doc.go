// Package app is the composition root of the dashboard.
//
// # Overview
//
// Run wires configuration, logging, the orchestrator client, the fleet engine
// and the UI together, then blocks until the operator exits or the context is
// cancelled.
//
//  1. Load ~/.config/flotilla/config.toml and apply flag overrides
//  2. Open the log file (logrus, text format)
//  3. Build the orchestrator HTTP client
//  4. Restore theme and filters from the prefs file
//  5. Start the fleet engine inside the Bubble Tea program
//
// # Components
//
//   - app.go: Run and flag overrides
//   - logger.go: file-backed logrus logger
//   - once.go: RunOnce, a single fetch printed as a table
//
// # One-shot Mode
//
// With Options.Once, or when stdout is not a terminal, Run skips the UI and
// prints the filtered fleet once. This keeps the binary usable in pipes and
// scripts.
//
// # Error Handling
//
// Startup failures (unreadable config, bad API URL, unwritable log file) are
// returned. Once the UI runs, backend failures are logged and shown in the
// dashboard; they never end the session.
package app
