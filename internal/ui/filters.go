package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/flotilla/internal/fleet"
)

// handleSearchKey feeds keys to the search box. Enter keeps the query, esc
// discards it; both leave search mode. The filter follows every keystroke.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.filter.Search = ""
		m.clampCursors()
		return m, nil
	case tea.KeyCtrlC:
		m.engine.Close()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Search = strings.TrimSpace(m.search.Value())
	m.cursor = 0
	return m, cmd
}

// cycleStatus advances the status filter through its options.
func (m *Model) cycleStatus() {
	m.filter.Status = nextOption(fleet.StatusOptions(), m.filter.Status)
	m.cursor = 0
	m.savePrefs()
}

// cycleTemplate advances the template filter through the known templates.
func (m *Model) cycleTemplate() {
	opts := fleet.TemplateOptions(m.engine.Templates())
	ids := make([]string, len(opts))
	for i, o := range opts {
		ids[i] = o.ID
	}
	m.filter.Template = nextOption(ids, m.filter.Template)
	m.cursor = 0
	m.savePrefs()
}

func (m *Model) clearFilters() {
	m.filter = fleet.Filter{Status: fleet.FilterAll, Template: fleet.FilterAll}
	m.search.SetValue("")
	m.cursor = 0
	m.savePrefs()
}

func nextOption(options []string, current string) string {
	for i, o := range options {
		if strings.EqualFold(o, current) {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func (m Model) statusLabel() string {
	if m.filter.Status == "" || strings.EqualFold(m.filter.Status, fleet.FilterAll) {
		return "All"
	}
	return titleCase(m.filter.Status)
}

// templateLabel names the template filter. An id missing from the catalog is
// shown as is; the filter still applies.
func (m Model) templateLabel() string {
	if m.filter.Template == "" || strings.EqualFold(m.filter.Template, fleet.FilterAll) {
		return "All"
	}
	for _, t := range m.engine.Templates() {
		if t.ID == m.filter.Template {
			return orDash(t.Name)
		}
	}
	return m.filter.Template
}
