package fleet

import (
	"strings"

	"github.com/five82/flotilla/internal/orchestrator"
)

// LogsEntry is the cached result of a logs request. Err holds the text shown
// instead of the logs when the request failed.
type LogsEntry struct {
	Text string
	Err  string
}

// DetailsEntry is the cached result of an inspect request.
type DetailsEntry struct {
	Details orchestrator.Details
	Err     string
}

type idSet map[string]struct{}

// Dashboard is the client-side view of the fleet. It is owned by a single
// event loop and is not safe for concurrent use.
//
// Selection and expanded panels are always a subset of the current
// containers after a Merge. Cached logs and details survive polls and are only
// dropped by an explicit invalidation.
type Dashboard struct {
	order      []string
	containers map[string]orchestrator.Container

	selection       idSet
	expandedLogs    idSet
	expandedDetails idSet

	logs    map[string]LogsEntry
	details map[string]DetailsEntry
	pending map[string]orchestrator.Action
}

// NewDashboard returns an empty dashboard.
func NewDashboard() *Dashboard {
	return &Dashboard{
		containers:      make(map[string]orchestrator.Container),
		selection:       make(idSet),
		expandedLogs:    make(idSet),
		expandedDetails: make(idSet),
		logs:            make(map[string]LogsEntry),
		details:         make(map[string]DetailsEntry),
		pending:         make(map[string]orchestrator.Action),
	}
}

// Merge replaces the container list with a fresh snapshot and prunes the
// selection and expanded panels down to containers that still exist.
// Containers without a full id are dropped. When an id repeats, the first
// position and the last value win.
func (d *Dashboard) Merge(containers []orchestrator.Container) {
	order := make([]string, 0, len(containers))
	byID := make(map[string]orchestrator.Container, len(containers))
	for _, c := range containers {
		if strings.TrimSpace(c.FullID) == "" {
			continue
		}
		if _, seen := byID[c.FullID]; !seen {
			order = append(order, c.FullID)
		}
		byID[c.FullID] = c
	}
	d.order = order
	d.containers = byID

	d.selection.retain(byID)
	d.expandedLogs.retain(byID)
	d.expandedDetails.retain(byID)
}

func (s idSet) retain(live map[string]orchestrator.Container) {
	for id := range s {
		if _, ok := live[id]; !ok {
			delete(s, id)
		}
	}
}

// Containers returns the fleet in last fetch order.
func (d *Dashboard) Containers() []orchestrator.Container {
	out := make([]orchestrator.Container, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.containers[id])
	}
	return out
}

// Container looks up a container by full id.
func (d *Dashboard) Container(id string) (orchestrator.Container, bool) {
	c, ok := d.containers[id]
	return c, ok
}

// Len returns the number of containers.
func (d *Dashboard) Len() int {
	return len(d.order)
}

// ToggleSelected flips the selection of a present container and reports the
// new state. Unknown ids are ignored.
func (d *Dashboard) ToggleSelected(id string) bool {
	if _, ok := d.containers[id]; !ok {
		return false
	}
	if _, ok := d.selection[id]; ok {
		delete(d.selection, id)
		return false
	}
	d.selection[id] = struct{}{}
	return true
}

// SelectAll selects exactly ids, or clears the selection when every one of
// them is already selected.
func (d *Dashboard) SelectAll(ids []string) {
	all := len(ids) > 0
	for _, id := range ids {
		if _, ok := d.selection[id]; !ok {
			all = false
			break
		}
	}
	d.selection = make(idSet)
	if all {
		return
	}
	for _, id := range ids {
		if _, ok := d.containers[id]; ok {
			d.selection[id] = struct{}{}
		}
	}
}

// ClearSelection empties the selection.
func (d *Dashboard) ClearSelection() {
	d.selection = make(idSet)
}

// IsSelected reports whether id is selected.
func (d *Dashboard) IsSelected(id string) bool {
	_, ok := d.selection[id]
	return ok
}

// Selection returns the selected ids in fetch order.
func (d *Dashboard) Selection() []string {
	out := make([]string, 0, len(d.selection))
	for _, id := range d.order {
		if _, ok := d.selection[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// SelectionCount returns the number of selected containers.
func (d *Dashboard) SelectionCount() int {
	return len(d.selection)
}

// ToggleLogs flips the logs panel of id and reports whether it is now open.
func (d *Dashboard) ToggleLogs(id string) bool {
	return toggle(d.expandedLogs, d.containers, id)
}

// ToggleDetails flips the details panel of id and reports whether it is now open.
func (d *Dashboard) ToggleDetails(id string) bool {
	return toggle(d.expandedDetails, d.containers, id)
}

func toggle(set idSet, live map[string]orchestrator.Container, id string) bool {
	if _, ok := set[id]; ok {
		delete(set, id)
		return false
	}
	if _, ok := live[id]; !ok {
		return false
	}
	set[id] = struct{}{}
	return true
}

// LogsExpanded reports whether the logs panel of id is open.
func (d *Dashboard) LogsExpanded(id string) bool {
	_, ok := d.expandedLogs[id]
	return ok
}

// DetailsExpanded reports whether the details panel of id is open.
func (d *Dashboard) DetailsExpanded(id string) bool {
	_, ok := d.expandedDetails[id]
	return ok
}

// Logs returns the cached logs of id.
func (d *Dashboard) Logs(id string) (LogsEntry, bool) {
	e, ok := d.logs[id]
	return e, ok
}

// Details returns the cached details of id.
func (d *Dashboard) Details(id string) (DetailsEntry, bool) {
	e, ok := d.details[id]
	return e, ok
}

// SetLogs caches logs for id.
func (d *Dashboard) SetLogs(id string, e LogsEntry) {
	d.logs[id] = e
}

// SetDetails caches details for id.
func (d *Dashboard) SetDetails(id string, e DetailsEntry) {
	d.details[id] = e
}

// InvalidateLogs drops the cached logs of id.
func (d *Dashboard) InvalidateLogs(id string) {
	delete(d.logs, id)
}

// InvalidateDetails drops the cached details of id.
func (d *Dashboard) InvalidateDetails(id string) {
	delete(d.details, id)
}

// Pending returns the in-flight action for id, if any.
func (d *Dashboard) Pending(id string) (orchestrator.Action, bool) {
	a, ok := d.pending[id]
	return a, ok
}

// PendingCount returns the number of containers with an action in flight.
func (d *Dashboard) PendingCount() int {
	return len(d.pending)
}

func (d *Dashboard) setPending(id string, action orchestrator.Action) {
	d.pending[id] = action
}

func (d *Dashboard) clearPending(id string) {
	delete(d.pending, id)
}
