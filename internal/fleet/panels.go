package fleet

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/flotilla/internal/orchestrator"
)

// ToggleLogs opens or closes the logs panel of id. Opening a panel with no
// cached logs fetches them.
func (e *Engine) ToggleLogs(id string) tea.Cmd {
	if e.closed || !e.dash.ToggleLogs(id) {
		return nil
	}
	if _, cached := e.dash.Logs(id); cached || e.logsLoading[id] {
		return nil
	}
	return e.fetchLogs(id)
}

// RefreshLogs drops the cached logs of id and fetches them again.
func (e *Engine) RefreshLogs(id string) tea.Cmd {
	if e.closed {
		return nil
	}
	e.dash.InvalidateLogs(id)
	return e.fetchLogs(id)
}

// LogsLoading reports whether a logs request for id is in flight.
func (e *Engine) LogsLoading(id string) bool {
	return e.logsLoading[id]
}

// ToggleDetails opens or closes the details panel of id, fetching details on
// the first open.
func (e *Engine) ToggleDetails(id string) tea.Cmd {
	if e.closed || !e.dash.ToggleDetails(id) {
		return nil
	}
	if _, cached := e.dash.Details(id); cached || e.detailsLoading[id] {
		return nil
	}
	return e.fetchDetails(id)
}

// RefreshDetails drops the cached details of id and fetches them again.
func (e *Engine) RefreshDetails(id string) tea.Cmd {
	if e.closed {
		return nil
	}
	e.dash.InvalidateDetails(id)
	return e.fetchDetails(id)
}

// DetailsLoading reports whether an inspect request for id is in flight.
func (e *Engine) DetailsLoading(id string) bool {
	return e.detailsLoading[id]
}

func (e *Engine) fetchLogs(id string) tea.Cmd {
	e.logsGen[id]++
	gen := e.logsGen[id]
	e.logsLoading[id] = true
	ctx, api := e.detached, e.api
	return func() tea.Msg {
		logs, err := api.Logs(ctx, id)
		return LogsMsg{ID: id, Gen: gen, Logs: logs, Err: err}
	}
}

func (e *Engine) fetchDetails(id string) tea.Cmd {
	e.detailsGen[id]++
	gen := e.detailsGen[id]
	e.detailsLoading[id] = true
	ctx, api := e.detached, e.api
	return func() tea.Msg {
		details, err := api.Inspect(ctx, id)
		return DetailsMsg{ID: id, Gen: gen, Details: details, Err: err}
	}
}

func (e *Engine) handleLogs(msg LogsMsg) {
	if msg.Gen != e.logsGen[msg.ID] {
		e.log.WithField("container", orchestrator.ShortID(msg.ID)).Debug("dropping superseded logs")
		return
	}
	delete(e.logsLoading, msg.ID)
	if msg.Err != nil {
		e.log.WithField("container", orchestrator.ShortID(msg.ID)).WithError(msg.Err).Warn("logs fetch failed")
		e.dash.SetLogs(msg.ID, LogsEntry{Err: panelError(msg.Err, "Failed to fetch logs")})
		return
	}
	e.dash.SetLogs(msg.ID, LogsEntry{Text: msg.Logs})
}

func (e *Engine) handleDetails(msg DetailsMsg) {
	if msg.Gen != e.detailsGen[msg.ID] {
		e.log.WithField("container", orchestrator.ShortID(msg.ID)).Debug("dropping superseded details")
		return
	}
	delete(e.detailsLoading, msg.ID)
	if msg.Err != nil {
		e.log.WithField("container", orchestrator.ShortID(msg.ID)).WithError(msg.Err).Warn("inspect failed")
		e.dash.SetDetails(msg.ID, DetailsEntry{Err: panelError(msg.Err, "Failed to fetch details")})
		return
	}
	e.dash.SetDetails(msg.ID, DetailsEntry{Details: msg.Details})
}

// panelError renders a fetch failure for a panel: backend messages verbatim,
// anything else as the fallback text.
func panelError(err error, fallback string) string {
	var be *orchestrator.BackendError
	if errors.As(err, &be) {
		return fmt.Sprintf("Error: %s", be.Message)
	}
	return fallback
}
