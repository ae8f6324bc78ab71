// Package ui provides the terminal dashboard for a container fleet.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns presentation state (active view,
// cursors, filters, overlays) and delegates every fleet concern to a
// fleet.Engine: polling, reconciliation, lifecycle commands, bulk operations
// and panel fetches. Messages the Model does not recognize are passed to
// Engine.Update, so all state changes happen on the program's event loop.
//
// # Package Structure
//
//   - app.go: Model, Init/Update/View, key routing and Run
//   - containers.go: container table, filter bar and bulk bar
//   - panels.go: inline logs and inspect panels under a row
//   - filters.go: search box and status/template filter cycling
//   - modal.go: delete confirmation and the bulk action dialogs
//   - launch.go: template picker and catalog views
//   - activity.go: tail of the dashboard's own log file
//   - header.go: status bar, tabs, notice line and command bar
//   - help.go: key binding overlay
//   - theme.go, style_helpers.go, box.go, strings.go: rendering helpers
//
// # Views
//
//   - Containers: fleet table with selection, pending spinners and panels
//   - Launch: pick a template and create a container from it
//   - Templates: the catalog with per-template usage
//   - Activity: the dashboard's log, colored by level
//
// # Key Bindings
//
//   - space/a: Select row / toggle all visible rows
//   - s/x/r/d: Start, stop, restart, delete (delete asks first)
//   - b: Bulk action on the selection
//   - l/i, L/I: Toggle / reload logs and details
//   - /, f, t, c: Search, status filter, template filter, clear filters
//   - 1-4, tab: Switch views
//   - R: Refresh now
//   - T: Cycle theme
//   - ?: Help
//   - q or Ctrl+C: Exit
//
// Theme and filters are saved to the prefs file whenever they change.
package ui
