package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/docker/go-units"

	"github.com/five82/flotilla/internal/logtail"
	"github.com/five82/flotilla/internal/orchestrator"
)

const panelIndent = "      "

// logsPanel renders the inline logs panel under a row.
func (m Model) logsPanel(c orchestrator.Container, width int) []string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	dash := m.engine.Dashboard()

	header := bg.Render(panelIndent+"Logs", styles.AccentText.Bold(true))
	if m.engine.LogsLoading(c.FullID) {
		header += bg.Space() + bg.Render(m.spinner.View(), styles.WarningText)
	}
	lines := []string{bg.FillLine(header, width)}

	entry, ok := dash.Logs(c.FullID)
	switch {
	case !ok:
		lines = append(lines, m.panelLine("Loading logs...", styles.MutedText, width))
	case entry.Err != "":
		lines = append(lines, m.panelLine(entry.Err, styles.DangerText, width))
	default:
		tail := logtail.Lines(entry.Text, PanelLogLines)
		if len(tail) == 0 {
			lines = append(lines, m.panelLine("No logs available", styles.MutedText, width))
		}
		for _, line := range tail {
			lines = append(lines, m.panelLine(line, m.logLineStyle(line), width))
		}
	}
	return lines
}

// detailsPanel renders the inline inspect panel under a row.
func (m Model) detailsPanel(c orchestrator.Container, width int) []string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	dash := m.engine.Dashboard()

	header := bg.Render(panelIndent+"Details", styles.AccentText.Bold(true))
	if m.engine.DetailsLoading(c.FullID) {
		header += bg.Space() + bg.Render(m.spinner.View(), styles.WarningText)
	}
	lines := []string{bg.FillLine(header, width)}

	entry, ok := dash.Details(c.FullID)
	switch {
	case !ok:
		return append(lines, m.panelLine("Loading details...", styles.MutedText, width))
	case entry.Err != "":
		return append(lines, m.panelLine(entry.Err, styles.DangerText, width))
	}

	for _, f := range detailFields(entry.Details, time.Now()) {
		label := bg.Render(panelIndent+padRight(f.label, 12), styles.MutedText)
		lines = append(lines, bg.FillLine(label+bg.Render(f.value, styles.Text), width))
	}
	return lines
}

func (m Model) panelLine(text string, style lipgloss.Style, width int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	text = truncate(text, max(width-len(panelIndent), 1))
	return bg.FillLine(bg.Spaces(len(panelIndent))+bg.Render(text, style), width)
}

type detailField struct {
	label string
	value string
}

// detailFields flattens inspect details into label/value rows. Empty values
// are skipped.
func detailFields(d orchestrator.Details, now time.Time) []detailField {
	var fields []detailField
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fields = append(fields, detailField{label: label, value: value})
		}
	}

	add("Name", strings.TrimPrefix(d.Name, "/"))
	add("Image", d.Image)
	if d.State != nil {
		status := d.State.Status
		if d.State.ExitCode != 0 && !d.State.Running {
			status = fmt.Sprintf("%s (exit %d)", status, d.State.ExitCode)
		}
		if d.State.OOMKilled {
			status += ", OOM killed"
		}
		add("State", status)
		add("Error", d.State.Error)
	}
	if created := d.CreatedAt(); !created.IsZero() {
		add("Created", created.Local().Format("2006-01-02 15:04:05")+" ("+units.HumanDuration(now.Sub(created))+" ago)")
	}
	if started := d.StartedAt(); !started.IsZero() && d.State != nil && d.State.Running {
		add("Uptime", units.HumanDuration(now.Sub(started)))
	}
	if d.RestartCount > 0 {
		add("Restarts", fmt.Sprintf("%d", d.RestartCount))
	}
	add("Command", strings.TrimSpace(d.Path+" "+strings.Join(d.Args, " ")))
	add("Platform", d.Platform)
	add("Exposed", strings.Join(d.ExposedPorts(), ", "))
	add("Published", strings.Join(d.PublishedPorts(), ", "))

	if d.NetworkSettings != nil && len(d.NetworkSettings.Networks) > 0 {
		names := make([]string, 0, len(d.NetworkSettings.Networks))
		for name := range d.NetworkSettings.Networks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ep := d.NetworkSettings.Networks[name]
			add("Network", fmt.Sprintf("%s %s", name, orDash(ep.IPAddress)))
		}
	}
	for _, mnt := range d.Mounts {
		mode := "ro"
		if mnt.RW {
			mode = "rw"
		}
		src := mnt.Source
		if mnt.Type == "volume" && mnt.Name != "" {
			src = mnt.Name
		}
		add("Mount", fmt.Sprintf("%s -> %s (%s, %s)", src, mnt.Destination, mnt.Type, mode))
	}
	if d.Config != nil {
		add("WorkingDir", d.Config.WorkingDir)
		add("User", d.Config.User)
		if len(d.Config.Env) > 0 {
			add("Env", fmt.Sprintf("%d variables", len(d.Config.Env)))
		}
	}
	return fields
}
