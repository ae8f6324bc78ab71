// Package config loads the dashboard configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/flotilla/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but a field is missing or empty, use its default
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8080"
//	poll_interval = 5        # seconds
//	settle_delay_ms = 1000   # wait before re-polling after a command
//	log_file = "~/.local/state/flotilla/flotilla.log"
//	log_level = "info"
//
//	[timeouts]               # seconds per endpoint class
//	list = 5
//	lifecycle = 30
//	launch = 60
//	diagnostic = 15
//
// Tilde expansion is applied to the config path and log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, invalid
// TOML and unknown log levels. A missing file is not an error.
package config
