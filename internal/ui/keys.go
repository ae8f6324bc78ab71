package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	NextView   key.Binding
	PrevView   key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// View switching
	ViewContainers key.Binding
	ViewLaunch     key.Binding
	ViewTemplates  key.Binding
	ViewActivity   key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Containers
	Select       key.Binding
	SelectAll    key.Binding
	Start        key.Binding
	Stop         key.Binding
	Restart      key.Binding
	Delete       key.Binding
	Logs         key.Binding
	Details      key.Binding
	ReloadLogs   key.Binding
	ReloadDetail key.Binding
	Bulk         key.Binding

	// Filters
	Search        key.Binding
	CycleStatus   key.Binding
	CycleTemplate key.Binding
	ClearFilters  key.Binding
	DismissNotice key.Binding
	ToggleFollow  key.Binding

	// Modals
	Confirm key.Binding
	Yes     key.Binding
	No      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R", "ctrl+r"),
			key.WithHelp("R", "Refresh now"),
		),

		ViewContainers: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Containers"),
		),
		ViewLaunch: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Launch"),
		),
		ViewTemplates: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Templates"),
		),
		ViewActivity: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Activity"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Select: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "Select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Select all visible"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Stop"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Restart"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle logs"),
		),
		Details: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Toggle details"),
		),
		ReloadLogs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Reload logs"),
		),
		ReloadDetail: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "Reload details"),
		),
		Bulk: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Bulk action"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle status filter"),
		),
		CycleTemplate: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Cycle template filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear filters"),
		),
		DismissNotice: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Dismiss notice"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Toggle follow"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "Yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "No"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextView, k.ViewContainers, k.ViewLaunch, k.ViewTemplates, k.ViewActivity},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Select, k.SelectAll, k.Bulk},
		{k.Start, k.Stop, k.Restart, k.Delete},
		{k.Logs, k.Details, k.ReloadLogs, k.ReloadDetail},
		{k.Search, k.CycleStatus, k.CycleTemplate, k.ClearFilters},
		{k.Refresh, k.DismissNotice, k.CycleTheme, k.Help, k.Quit},
	}
}
