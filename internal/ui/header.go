package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flotilla/internal/orchestrator"
)

// renderHeader renders the status bar: connection state, fleet counts and the
// time of the last snapshot.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.engine.Snapshot()
	dash := m.engine.Dashboard()

	parts := []string{bg.Render("flotilla", styles.Logo)}

	switch {
	case snap.LastSuccess.IsZero() && snap.LastError == nil:
		parts = append(parts, bg.Render("Connecting to "+orDash(m.apiURL)+"...", styles.WarningText.Bold(true)))
		return styles.Header.Width(m.width).Render(fit(bg.Join(parts, "  "), m.width-2))
	case snap.IsOffline():
		parts = append(parts,
			bg.Render("● "+classifyConnectionError(snap.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
	case snap.LastError != nil:
		parts = append(parts, bg.Render("● DEGRADED", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	running := 0
	for _, c := range dash.Containers() {
		if c.State == orchestrator.StateRunning {
			running++
		}
	}
	parts = append(parts,
		bg.Render("Containers:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", dash.Len()), styles.Text),
		bg.Render("Running:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", running), lipgloss.NewStyle().
				Foreground(lipgloss.Color(styles.StateColor(orchestrator.StateRunning))).
				Background(lipgloss.Color(m.theme.Surface))),
	)
	if busy := dash.PendingCount(); busy > 0 {
		parts = append(parts,
			bg.Render("Busy:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", busy), styles.WarningText.Bold(true)))
	}
	if m.engine.Polling() {
		parts = append(parts, bg.Render(m.spinner.View(), styles.WarningText))
	}
	if !snap.LastSuccess.IsZero() && m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render("Updated "+snap.LastSuccess.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(fit(bg.Join(parts, "  "), m.width-2))
}

// classifyConnectionError reduces a poll failure to a short status word.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var be *orchestrator.BackendError
	if errors.As(err, &be) {
		return fmt.Sprintf("HTTP %d", be.StatusCode)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case orchestrator.IsTransport(err):
		return "UNREACHABLE"
	default:
		return "ERROR"
	}
}

// renderTabs renders the view switcher.
func (m Model) renderTabs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	labels := map[View]string{
		ViewContainers: fmt.Sprintf("1 Containers (%d)", m.engine.Dashboard().Len()),
		ViewLaunch:     "2 Launch",
		ViewTemplates:  fmt.Sprintf("3 Templates (%d)", len(m.engine.Templates())),
		ViewActivity:   "4 Activity",
	}
	tabs := make([]string, 0, len(viewOrder))
	for _, v := range viewOrder {
		label := " " + labels[v] + " "
		if v == m.view {
			tabs = append(tabs, styles.Selected.Bold(true).Render(label))
			continue
		}
		tabs = append(tabs, bg.Render(label, styles.MutedText))
	}
	return bg.FillLine(bg.Join(tabs, " "), m.width)
}

// renderNotice renders the latest completion notice, or the local flash
// message when an action was rejected before dispatch.
func (m Model) renderNotice() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	if m.flash != "" {
		return bg.FillLine(bg.Render(" ✗ "+m.flash, styles.WarningText), m.width)
	}
	notice := m.engine.Notice()
	if notice.Text == "" {
		return bg.FillLine("", m.width)
	}
	stamp := bg.Render(notice.At.Format("15:04:05"), styles.FaintText)
	if notice.Failed {
		return bg.FillLine(bg.Render(" ✗ "+notice.Text, styles.DangerText)+bg.Space()+stamp, m.width)
	}
	return bg.FillLine(bg.Render(" ✓ "+notice.Text, styles.SuccessText)+bg.Space()+stamp, m.width)
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.view {
	case ViewLaunch:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Launch"},
			{"1", "Containers"},
		}
	case ViewTemplates:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Launch"},
			{"t", "Filter fleet"},
		}
	case ViewActivity:
		follow := "Pause"
		if !m.activityFollow {
			follow = "Follow"
		}
		commands = []cmd{
			{"F", follow},
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
		}
	default:
		if m.searching {
			commands = []cmd{
				{"enter", "Keep"},
				{"esc", "Clear"},
			}
			break
		}
		commands = []cmd{
			{"space", "Select"},
			{"s/x/r", "Start/Stop/Restart"},
			{"d", "Delete"},
			{"l/i", "Logs/Details"},
			{"b", "Bulk"},
			{"/", "Search"},
			{"f", "Status"},
			{"t", "Template"},
		}
	}
	commands = append(commands, cmd{"R", "Refresh"}, cmd{"?", "More"})

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands))
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	return styles.Header.Width(m.width).Render(fit(bg.Join(segments, "  "), m.width-2))
}
