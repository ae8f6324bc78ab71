package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flotilla/internal/orchestrator"
)

type modalKind int

const (
	modalConfirmDelete modalKind = iota
	modalBulkMenu
	modalBulkConfirm
)

// modal is the dialog currently covering the main view.
type modal struct {
	kind   modalKind
	title  string
	body   []string
	choice int
	target string // container id for modalConfirmDelete
}

// confirmDelete asks before removing a container; deletion cannot be undone.
func (m *Model) confirmDelete(c orchestrator.Container) {
	if _, busy := m.engine.Dashboard().Pending(c.FullID); busy {
		// Act reports the conflict without asking first.
		if _, err := m.engine.Act(c.FullID, orchestrator.ActionDelete); err != nil {
			m.flash = err.Error()
		}
		return
	}
	name := c.DisplayID()
	if c.TemplateName != "" {
		name += " (" + c.TemplateName + ")"
	}
	m.modal = &modal{
		kind:   modalConfirmDelete,
		title:  "Delete container",
		body:   []string{"Stop and remove " + name + "?", "This cannot be undone."},
		target: c.FullID,
	}
}

// openBulkMenu offers the lifecycle actions for the current selection.
func (m *Model) openBulkMenu() {
	count := m.engine.Dashboard().SelectionCount()
	if count == 0 {
		m.flash = "Select containers first (space)"
		return
	}
	m.flash = ""
	m.modal = &modal{
		kind:  modalBulkMenu,
		title: "Bulk action",
		body:  []string{fmt.Sprintf("Apply to %d selected containers:", count)},
	}
}

// handleModalKey routes keys to the open dialog.
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.engine.Close()
		return m, tea.Quit
	}
	switch m.modal.kind {
	case modalBulkMenu:
		return m.handleBulkMenuKey(msg)
	default:
		return m.handleConfirmKey(msg)
	}
}

func (m Model) handleBulkMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	actions := orchestrator.Actions
	switch {
	case key.Matches(msg, m.keys.No):
		m.modal = nil
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.modal.choice = (m.modal.choice - 1 + len(actions)) % len(actions)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.modal.choice = (m.modal.choice + 1) % len(actions)
		return m, nil
	case key.Matches(msg, m.keys.Start):
		m.modal.choice = 0
	case key.Matches(msg, m.keys.Stop):
		m.modal.choice = 1
	case key.Matches(msg, m.keys.Restart):
		m.modal.choice = 2
	case key.Matches(msg, m.keys.Delete):
		m.modal.choice = 3
	case key.Matches(msg, m.keys.Confirm):
	default:
		return m, nil
	}

	action := actions[m.modal.choice]
	if err := m.engine.SetBulkAction(action); err != nil {
		m.modal = nil
		m.flash = err.Error()
		return m, nil
	}
	count := m.engine.Dashboard().SelectionCount()
	body := []string{fmt.Sprintf("%s %d selected containers?", titleCase(string(action)), count)}
	if action == orchestrator.ActionDelete {
		body = append(body, "This cannot be undone.")
	}
	m.modal = &modal{kind: modalBulkConfirm, title: "Confirm bulk " + string(action), body: body}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes), key.Matches(msg, m.keys.Confirm):
	case key.Matches(msg, m.keys.No):
		if m.modal.kind == modalBulkConfirm {
			_ = m.engine.SetBulkAction("")
		}
		m.modal = nil
		return m, nil
	default:
		return m, nil
	}

	dialog := m.modal
	m.modal = nil
	if dialog.kind == modalBulkConfirm {
		return m, m.engine.BulkAct()
	}
	cmd, err := m.engine.Act(dialog.target, orchestrator.ActionDelete)
	if err != nil {
		m.flash = err.Error()
		return m, nil
	}
	m.flash = ""
	return m, cmd
}

// renderModal renders the open dialog centered over the screen.
func (m Model) renderModal() string {
	styles := m.theme.Styles()
	dialog := m.modal

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(dialog.title))
	b.WriteString("\n\n")
	for _, line := range dialog.body {
		b.WriteString(styles.Text.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	switch dialog.kind {
	case modalBulkMenu:
		for i, action := range orchestrator.Actions {
			label := fmt.Sprintf("  %s  %s", string(action)[:1], titleCase(string(action)))
			if i == dialog.choice {
				b.WriteString(styles.Selected.Bold(true).Render(padRight("▸"+label[1:], 24)))
			} else {
				b.WriteString(styles.Text.Render(label))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(keyStyle.Render("enter") + styles.MutedText.Render(" choose  ") +
			keyStyle.Render("esc") + styles.MutedText.Render(" cancel"))
	default:
		b.WriteString(keyStyle.Render("y") + styles.MutedText.Render(" confirm  ") +
			keyStyle.Render("n") + styles.MutedText.Render(" cancel"))
	}

	border := m.theme.Accent
	if dialog.kind == modalConfirmDelete || strings.HasSuffix(dialog.title, string(orchestrator.ActionDelete)) {
		border = m.theme.Danger
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(48)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
