package app

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/flotilla/internal/fleet"
	"github.com/five82/flotilla/internal/orchestrator"
)

// RunOnce fetches the fleet a single time and writes the containers passing
// filter as a table.
func RunOnce(ctx context.Context, api orchestrator.API, filter fleet.Filter, w io.Writer) error {
	fetcher := fleet.NewFetcher(api, nil)
	containers, err := fetcher.FetchContainers(ctx)
	if err != nil {
		return fmt.Errorf("fetch containers: %w", err)
	}

	visible := fleet.Visible(containers, filter)
	if len(visible) == 0 {
		if len(containers) == 0 {
			_, err = fmt.Fprintln(w, "No containers running.")
		} else {
			_, err = fmt.Fprintf(w, "No containers match (%d hidden by filters).\n", len(containers))
		}
		return err
	}

	_, err = fmt.Fprintln(w, renderFleetTable(visible))
	return err
}

func renderFleetTable(containers []orchestrator.Container) string {
	rows := make([][]string, len(containers))
	for i, c := range containers {
		rows[i] = []string{
			c.DisplayID(),
			string(c.State),
			orDash(c.TemplateName),
			orDash(c.TenantID),
			orDash(c.Status),
			orDash(c.URL),
		}
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	body := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		BorderColumn(false).
		Headers("ID", "STATE", "TEMPLATE", "TENANT", "STATUS", "URL").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return body
		}).
		String()
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
