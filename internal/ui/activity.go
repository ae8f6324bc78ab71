package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flotilla/internal/logtail"
)

// activityMsg carries a fresh tail of the dashboard's log file.
type activityMsg struct {
	lines []string
	err   error
}

type activityTickMsg time.Time

// readActivityCmd reads the tail of the dashboard log off the event loop.
func readActivityCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, ActivityLineLimit)
		return activityMsg{lines: lines, err: err}
	}
}

func activityTickCmd() tea.Cmd {
	return tea.Tick(ActivityRefreshInterval, func(t time.Time) tea.Msg {
		return activityTickMsg(t)
	})
}

// setActivity stores a log tail. A failed read keeps the previous lines.
func (m *Model) setActivity(msg activityMsg) {
	if msg.err != nil {
		m.activityLines = append(m.activityLines[:0:0], fmt.Sprintf("Unable to read %s: %v", m.logFile, msg.err))
	} else {
		m.activityLines = msg.lines
	}
	m.activity.SetContent(m.activityContent())
	if m.activityFollow {
		m.activity.GotoBottom()
	}
}

func (m *Model) resizeActivity() {
	m.activity.Width = max(m.width-2, 1)
	m.activity.Height = max(m.contentHeight()-2, 1)
	m.activity.SetContent(m.activityContent())
	if m.activityFollow {
		m.activity.GotoBottom()
	}
}

// handleActivityKey scrolls the activity view. Scrolling away from the end
// pauses follow mode.
func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.activityFollow = !m.activityFollow
		if m.activityFollow {
			m.activity.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.activity.GotoTop()
		m.activityFollow = false
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.activity.GotoBottom()
		m.activityFollow = true
		return m, nil
	}

	var cmd tea.Cmd
	m.activity, cmd = m.activity.Update(msg)
	m.activityFollow = m.activity.AtBottom()
	return m, cmd
}

// renderActivity renders the tail of the dashboard log.
func (m Model) renderActivity(height int) string {
	title := "Activity"
	if !m.activityFollow {
		title += " (paused)"
	}
	if m.logFile == "" {
		msg := m.theme.Styles().MutedText.Render("Logging to a file is disabled; set log_file in the config.")
		return m.renderTitledBox(title, msg, m.width, height, true)
	}
	if len(m.activityLines) == 0 {
		msg := m.theme.Styles().MutedText.Render("No activity yet.")
		return m.renderTitledBox(title, msg, m.width, height, true)
	}

	vp := m.activity
	vp.Height = max(height-2, 1)
	vp.SetContent(m.activityContent())
	if m.activityFollow {
		vp.GotoBottom()
	}
	return m.renderTitledBox(title, vp.View(), m.width, height, true)
}

func (m Model) activityContent() string {
	width := max(m.width-2, 1)
	lines := make([]string, len(m.activityLines))
	for i, line := range m.activityLines {
		lines[i] = m.logLineStyle(line).Render(truncate(line, width))
	}
	return strings.Join(lines, "\n")
}

// logLineStyle colors a logfmt line by its level.
func (m Model) logLineStyle(line string) lipgloss.Style {
	styles := m.theme.Styles()
	switch logtail.ParseLevel(line) {
	case logtail.LevelError:
		return styles.DangerText
	case logtail.LevelWarn:
		return styles.WarningText
	case logtail.LevelDebug:
		return styles.FaintText
	case logtail.LevelInfo:
		return styles.Text
	default:
		return styles.MutedText
	}
}
