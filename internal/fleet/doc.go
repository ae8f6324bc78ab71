// Package fleet reconciles the dashboard's view of the container fleet.
//
// The Dashboard holds the last fetched containers together with the operator's
// UI state (selection, expanded panels, cached logs and details, pending
// commands) and keeps the two consistent across polls. Visible applies the
// search and filter controls.
//
// The Engine owns a Dashboard and drives it from a Bubble Tea event loop:
// polls, lifecycle commands, bulk commands, launches and panel fetches run as
// tea.Cmd and their results come back through Update. State is only touched on
// the loop, so the package needs no locks beyond those in state.Store.
//
// A container accepts one command at a time; a second command while the first
// is in flight is rejected with a *ConflictError. Bulk commands fan out
// concurrently and report a single aggregate notice once every member has
// answered.
package fleet
