package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flotilla/internal/fleet"
	"github.com/five82/flotilla/internal/orchestrator"
)

const (
	idWidth       = 12
	badgeWidth    = 12
	templateWidth = 16
	tenantWidth   = 14
	statusWidth   = 22
)

// visible returns the containers passing the current filter.
func (m Model) visible() []orchestrator.Container {
	return m.engine.Visible(m.filter)
}

// handleContainersKey processes keyboard input for the containers view.
func (m Model) handleContainersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dash := m.engine.Dashboard()
	visible := m.visible()

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.CycleStatus):
		m.cycleStatus()
		return m, nil

	case key.Matches(msg, m.keys.CycleTemplate):
		m.cycleTemplate()
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		m.clearFilters()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.filter.Search != "" {
			m.filter.Search = ""
			m.search.SetValue("")
			m.clampCursors()
		}
		return m, nil

	case key.Matches(msg, m.keys.Bulk):
		m.openBulkMenu()
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		ids := make([]string, len(visible))
		for i, c := range visible {
			ids[i] = c.FullID
		}
		dash.SelectAll(ids)
		return m, nil
	}

	if len(visible) == 0 {
		return m, nil
	}
	m.cursor = min(max(m.cursor, 0), len(visible)-1)
	current := visible[m.cursor]

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(visible) - 1

	case key.Matches(msg, m.keys.Select):
		dash.ToggleSelected(current.FullID)

	case key.Matches(msg, m.keys.Start):
		return m.act(current, orchestrator.ActionStart)
	case key.Matches(msg, m.keys.Stop):
		return m.act(current, orchestrator.ActionStop)
	case key.Matches(msg, m.keys.Restart):
		return m.act(current, orchestrator.ActionRestart)
	case key.Matches(msg, m.keys.Delete):
		m.confirmDelete(current)

	case key.Matches(msg, m.keys.Logs):
		return m, m.engine.ToggleLogs(current.FullID)
	case key.Matches(msg, m.keys.Details):
		return m, m.engine.ToggleDetails(current.FullID)
	case key.Matches(msg, m.keys.ReloadLogs):
		return m, m.engine.RefreshLogs(current.FullID)
	case key.Matches(msg, m.keys.ReloadDetail):
		return m, m.engine.RefreshDetails(current.FullID)
	}
	return m, nil
}

// act dispatches a single-container command. Rejections are shown inline and
// never reach the backend.
func (m Model) act(c orchestrator.Container, action orchestrator.Action) (tea.Model, tea.Cmd) {
	cmd, err := m.engine.Act(c.FullID, action)
	if err != nil {
		m.flash = err.Error()
		if fleet.IsConflict(err) {
			m.flash += " (wait for it to finish)"
		}
		return m, nil
	}
	m.flash = ""
	return m, cmd
}

// renderContainers renders the filter bar, the bulk bar and the container box.
func (m Model) renderContainers(height int) string {
	var parts []string
	parts = append(parts, m.renderFilterBar())
	if bar := m.renderBulkBar(); bar != "" {
		parts = append(parts, bar)
	}
	boxHeight := max(height-len(parts), 3)

	dash := m.engine.Dashboard()
	visible := m.visible()
	title := fmt.Sprintf("Containers (%d)", dash.Len())
	if m.filter.Active() {
		title = fmt.Sprintf("Containers (%d/%d)", len(visible), dash.Len())
	}

	innerWidth := max(m.width-2, 10)
	innerHeight := max(boxHeight-2, 1)
	var content string
	switch {
	case dash.Len() == 0:
		content = m.emptyFleetMessage()
	case len(visible) == 0:
		content = m.theme.Styles().MutedText.Render("No containers match your filters. Press c to clear them.")
	default:
		lines, focus, focusEnd := m.containerLines(visible, innerWidth)
		content = strings.Join(window(lines, focus, focusEnd, innerHeight), "\n")
	}

	parts = append(parts, m.renderTitledBox(title, content, m.width, boxHeight, true))
	return strings.Join(parts, "\n")
}

func (m Model) emptyFleetMessage() string {
	styles := m.theme.Styles()
	snap := m.engine.Snapshot()
	switch {
	case !snap.HasContainers && snap.LastError == nil:
		return styles.MutedText.Render("Waiting for the first snapshot...")
	case !snap.HasContainers:
		return styles.DangerText.Render("Cannot reach the orchestration API: " + snap.LastError.Error())
	default:
		return styles.MutedText.Render("No containers running. Launch one from the Launch tab (2).")
	}
}

// containerLines renders every visible row with its expanded panels. It also
// returns the first and last line of the cursor's block.
func (m Model) containerLines(visible []orchestrator.Container, width int) (lines []string, focus, focusEnd int) {
	dash := m.engine.Dashboard()
	for i, c := range visible {
		isCursor := i == m.cursor
		if isCursor {
			focus = len(lines)
		}
		lines = append(lines, m.renderRow(c, width, isCursor))
		if dash.LogsExpanded(c.FullID) {
			lines = append(lines, m.logsPanel(c, width)...)
		}
		if dash.DetailsExpanded(c.FullID) {
			lines = append(lines, m.detailsPanel(c, width)...)
		}
		if isCursor {
			focusEnd = len(lines) - 1
		}
	}
	return lines, focus, focusEnd
}

// renderRow formats one container: selection mark, state badge, id, template,
// tenant, status or pending command, URL.
func (m Model) renderRow(c orchestrator.Container, width int, isCursor bool) string {
	bgColor := m.theme.FocusBg
	if isCursor {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	dash := m.engine.Dashboard()

	textStyle, mutedStyle, faintStyle := styles.Text, styles.MutedText, styles.FaintText
	if isCursor {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		textStyle, mutedStyle, faintStyle = sel, sel, sel
	}

	mark := "[ ]"
	markStyle := faintStyle
	if dash.IsSelected(c.FullID) {
		mark = "[x]"
		markStyle = styles.AccentText.Bold(true)
	}

	expand := " "
	if dash.LogsExpanded(c.FullID) || dash.DetailsExpanded(c.FullID) {
		expand = "▾"
	}

	badge := styles.StateBadge(c.State).Width(badgeWidth).Render(strings.ToUpper(string(c.State)))

	parts := []string{
		bg.Render(expand, faintStyle) + bg.Render(mark, markStyle),
		badge,
		bg.Render(cell(c.DisplayID(), idWidth), textStyle),
		bg.Render(cell(orDash(c.TemplateName), templateWidth), mutedStyle),
	}
	if m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render(cell(orDash(c.TenantID), tenantWidth), faintStyle))
	}

	if action, busy := dash.Pending(c.FullID); busy {
		pending := m.spinner.View() + " " + pendingLabel(action)
		parts = append(parts, bg.Render(cell(pending, statusWidth), styles.WarningText.Bold(true)))
	} else if m.width >= LayoutWideWidth {
		parts = append(parts, bg.Render(cell(orDash(c.Status), statusWidth), mutedStyle))
	}

	if m.width >= LayoutCompactWidth && c.URL != "" {
		parts = append(parts, bg.Render(c.URL, styles.InfoText))
	}

	return bg.FillLine(bg.Join(parts, " "), width)
}

func pendingLabel(action orchestrator.Action) string {
	switch action {
	case orchestrator.ActionStart:
		return "starting"
	case orchestrator.ActionStop:
		return "stopping"
	case orchestrator.ActionRestart:
		return "restarting"
	case orchestrator.ActionDelete:
		return "deleting"
	}
	return string(action)
}

// renderFilterBar shows the search box and the status and template filters.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var search string
	switch {
	case m.searching:
		search = m.search.View()
	case m.filter.Search != "":
		search = bg.Render("/"+m.filter.Search, styles.AccentText)
	default:
		search = bg.Render("/ search", styles.FaintText)
	}

	parts := []string{
		search,
		bg.Render("Status:", styles.MutedText) + bg.Space() + bg.Render(m.statusLabel(), m.filterStyle(m.filter.Status, styles)),
		bg.Render("Template:", styles.MutedText) + bg.Space() + bg.Render(m.templateLabel(), m.filterStyle(m.filter.Template, styles)),
	}
	return styles.Header.Width(m.width).Render(fit(bg.Join(parts, "  │  "), m.width-2))
}

func (m Model) filterStyle(value string, styles Styles) lipgloss.Style {
	if value == "" || strings.EqualFold(value, fleet.FilterAll) {
		return styles.Text
	}
	return styles.WarningText.Bold(true)
}

// renderBulkBar summarizes the selection; empty when nothing is selected.
func (m Model) renderBulkBar() string {
	count := m.engine.Dashboard().SelectionCount()
	if count == 0 {
		return ""
	}
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	parts := []string{
		bg.Render(fmt.Sprintf("%d selected", count), styles.AccentText.Bold(true)),
	}
	if action := m.engine.BulkAction(); action != "" {
		parts = append(parts, bg.Render("bulk "+string(action)+" pending confirmation", styles.WarningText))
	}
	parts = append(parts,
		bg.Render("b", styles.AccentText)+bg.Render(":bulk action", styles.MutedText),
		bg.Render("a", styles.AccentText)+bg.Render(":toggle all", styles.MutedText),
	)
	return bg.FillLine(" "+bg.Join(parts, "  "), m.width)
}
