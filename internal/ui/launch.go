package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/flotilla/internal/orchestrator"
)

// handleLaunchKey processes keyboard input for the launch view.
func (m Model) handleLaunchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveTemplateCursor(msg) {
		return m, nil
	}
	if key.Matches(msg, m.keys.Confirm) {
		return m.launchSelected()
	}
	return m, nil
}

// handleTemplatesKey processes keyboard input for the templates view. The
// template filter key narrows the containers view to the highlighted template.
func (m Model) handleTemplatesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveTemplateCursor(msg) {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m.launchSelected()
	case key.Matches(msg, m.keys.CycleTemplate):
		if t, ok := m.selectedTemplate(); ok {
			m.filter.Template = t.ID
			m.cursor = 0
			m.view = ViewContainers
			m.savePrefs()
		}
	}
	return m, nil
}

func (m *Model) moveTemplateCursor(msg tea.KeyMsg) bool {
	count := len(m.engine.Templates())
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.templateCursor > 0 {
			m.templateCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.templateCursor < count-1 {
			m.templateCursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.templateCursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.templateCursor = max(count-1, 0)
	default:
		return false
	}
	return true
}

func (m Model) selectedTemplate() (orchestrator.Template, bool) {
	templates := m.engine.Templates()
	if m.templateCursor < 0 || m.templateCursor >= len(templates) {
		return orchestrator.Template{}, false
	}
	return templates[m.templateCursor], true
}

func (m Model) launchSelected() (tea.Model, tea.Cmd) {
	t, ok := m.selectedTemplate()
	if !ok {
		m.flash = "No templates available"
		return m, nil
	}
	cmd, err := m.engine.Launch(t.ID)
	if err != nil {
		m.flash = err.Error()
		return m, nil
	}
	m.flash = ""
	return m, cmd
}

// renderLaunch renders the template picker.
func (m Model) renderLaunch(height int) string {
	styles := m.theme.Styles()
	innerWidth := max(m.width-2, 10)
	templates := m.engine.Templates()

	var lines []string
	if m.engine.Launching() {
		bg := NewBgStyle(m.theme.FocusBg)
		lines = append(lines, bg.Render(m.spinner.View()+" Launching...", styles.WarningText.Bold(true)), "")
	}

	if len(templates) == 0 {
		lines = append(lines, styles.MutedText.Render(m.noTemplatesMessage()))
		return m.renderTitledBox("Launch", strings.Join(lines, "\n"), m.width, height, true)
	}

	lines = append(lines, styles.MutedText.Render("Choose a template and press enter:"), "")
	focus, focusEnd := 0, 0
	for i, t := range templates {
		bgColor := m.theme.FocusBg
		marker := "  "
		if i == m.templateCursor {
			bgColor = m.theme.SelectionBg
			marker = "▸ "
			focus = len(lines)
		}
		bg := NewBgStyle(bgColor)
		name := bg.Render(marker+cell(orDash(t.Name), 24), styles.Text.Bold(true))
		desc := bg.Render(orDash(t.Description), styles.MutedText)
		lines = append(lines, bg.FillLine(name+bg.Space()+desc, innerWidth))
		if i == m.templateCursor {
			focusEnd = len(lines) - 1
		}
	}

	content := strings.Join(window(lines, focus, focusEnd, max(height-2, 1)), "\n")
	return m.renderTitledBox("Launch", content, m.width, height, true)
}

// renderTemplates renders the catalog with usage counts.
func (m Model) renderTemplates(height int) string {
	styles := m.theme.Styles()
	innerWidth := max(m.width-2, 10)
	templates := m.engine.Templates()
	title := fmt.Sprintf("Templates (%d)", len(templates))

	if len(templates) == 0 {
		return m.renderTitledBox(title, styles.MutedText.Render(m.noTemplatesMessage()), m.width, height, true)
	}

	usage := make(map[string]int)
	for _, c := range m.engine.Dashboard().Containers() {
		usage[c.TemplateID]++
	}

	header := NewBgStyle(m.theme.FocusBg)
	lines := []string{header.FillLine(header.Render(
		"  "+cell("ID", 16)+" "+cell("NAME", 20)+" "+cell("IMAGE", 28)+" "+cell("PORT", 6)+" "+cell("USED", 5),
		styles.FaintText.Bold(true)), innerWidth)}

	focus, focusEnd := 0, 0
	for i, t := range templates {
		bgColor := m.theme.FocusBg
		if i == m.templateCursor {
			bgColor = m.theme.SelectionBg
			focus = len(lines)
		}
		bg := NewBgStyle(bgColor)
		row := bg.Join([]string{
			bg.Render("  "+cell(orDash(t.ID), 16), styles.AccentText),
			bg.Render(cell(orDash(t.Name), 20), styles.Text),
			bg.Render(cell(orDash(t.Image), 28), styles.MutedText),
			bg.Render(cell(orDash(t.Port), 6), styles.MutedText),
			bg.Render(cell(fmt.Sprintf("%d", usage[t.ID]), 5), styles.Text),
		}, " ")
		lines = append(lines, bg.FillLine(row, innerWidth))
		if i == m.templateCursor {
			if t.Description != "" {
				lines = append(lines, bg.FillLine(bg.Render("    "+t.Description, styles.FaintText), innerWidth))
			}
			focusEnd = len(lines) - 1
		}
	}

	content := strings.Join(window(lines, focus, focusEnd, max(height-2, 1)), "\n")
	return m.renderTitledBox(title, content, m.width, height, true)
}

func (m Model) noTemplatesMessage() string {
	snap := m.engine.Snapshot()
	if !snap.HasTemplates {
		return "Loading templates... (R to retry)"
	}
	return "The backend offers no templates."
}
