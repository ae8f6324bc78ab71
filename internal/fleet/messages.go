package fleet

import (
	"time"

	"github.com/five82/flotilla/internal/orchestrator"
)

// SnapshotMsg carries the result of a container poll.
type SnapshotMsg struct {
	Containers []orchestrator.Container
	Err        error
}

// TemplatesMsg carries the result of a template catalog fetch.
type TemplatesMsg struct {
	Templates []orchestrator.Template
	Err       error
}

// ActionResultMsg reports the completion of one lifecycle command.
type ActionResultMsg struct {
	ID     string
	Action orchestrator.Action
	Err    error
}

// BulkResultMsg reports a bulk operation once every member has completed.
type BulkResultMsg struct {
	Action  orchestrator.Action
	Results []ActionResultMsg
	Skipped int
}

// Failed counts the members whose command failed.
func (m BulkResultMsg) Failed() int {
	n := 0
	for _, r := range m.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// LogsMsg carries fetched logs for one container.
type LogsMsg struct {
	ID   string
	Gen  uint64
	Logs string
	Err  error
}

// DetailsMsg carries fetched inspect details for one container.
type DetailsMsg struct {
	ID      string
	Gen     uint64
	Details orchestrator.Details
	Err     error
}

// LaunchResultMsg reports a finished launch.
type LaunchResultMsg struct {
	Template string
	Result   orchestrator.LaunchResult
	Err      error
}

type pollTickMsg time.Time

type settleMsg struct{}
