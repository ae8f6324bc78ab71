package fleet

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/flotilla/internal/orchestrator"
)

func TestPoll_FailureKeepsDisplayedContainers(t *testing.T) {
	api := &fakeAPI{containers: []orchestrator.Container{ctr("c1", orchestrator.StateRunning)}}
	e, hook := newTestEngine(t, api)

	e.Update(run(t, e.Refresh()))
	require.Equal(t, []string{"c1"}, ids(e.Dashboard().Containers()))

	api.listErr = &orchestrator.TransportError{Op: "GET /api/containers", Err: errors.New("connection refused")}
	e.Update(run(t, e.Refresh()))

	assert.Equal(t, []string{"c1"}, ids(e.Dashboard().Containers()))
	assert.Equal(t, 1, e.Snapshot().ConsecutiveFailures)
	assert.False(t, e.Polling())
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "fleet poll failed", entry.Message)
}

func TestPoll_OfflineAfterTwoFailures(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("down")}
	e, _ := newTestEngine(t, api)

	e.Update(run(t, e.Refresh()))
	assert.False(t, e.Snapshot().IsOffline())
	e.Update(run(t, e.Refresh()))
	assert.True(t, e.Snapshot().IsOffline())
}

func TestRefresh_QueuesBehindInFlightPoll(t *testing.T) {
	api := &fakeAPI{containers: []orchestrator.Container{ctr("a", orchestrator.StateRunning)}}
	e, _ := newTestEngine(t, api)

	first := e.Refresh()
	require.NotNil(t, first)
	require.True(t, e.Polling())
	assert.Nil(t, e.Refresh(), "no overlapping poll")
	assert.Nil(t, e.Refresh(), "only one poll is queued")

	queued := e.Update(run(t, first))
	require.NotNil(t, queued, "queued poll runs when the first lands")
	assert.Nil(t, e.Update(run(t, queued)))
	assert.Equal(t, []string{"list", "list"}, api.Calls())
}

func TestTick_SkipsWhilePolling(t *testing.T) {
	api := &fakeAPI{}
	e, hook := newTestEngine(t, api)

	require.NotNil(t, e.Refresh())
	assert.Nil(t, e.poll())

	found := false
	for _, entry := range hook.AllEntries() {
		if entry.Message == "poll skipped, previous poll still in flight" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAct_ConflictDoesNotIssueSecondRequest(t *testing.T) {
	api := &fakeAPI{}
	e, _ := newTestEngine(t, api)
	seed(e, ctr("abc123def456789", orchestrator.StateRunning))

	cmd, err := e.Act("abc123def456789", orchestrator.ActionStop)
	require.NoError(t, err)
	require.NotNil(t, cmd)

	again, err := e.Act("abc123def456789", orchestrator.ActionStop)
	assert.Nil(t, again)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, orchestrator.ActionStop, conflict.Pending)
	assert.True(t, IsConflict(err))

	_, err = e.Act("abc123def456789", orchestrator.ActionDelete)
	assert.True(t, IsConflict(err), "any command is rejected while one is pending")

	e.Update(run(t, cmd))
	assert.Equal(t, []string{"stop:abc123def456789"}, api.Calls())
}

func TestAct_PendingClearedOnSuccessAndFailure(t *testing.T) {
	api := &fakeAPI{actionErrs: map[string]error{
		"bad": &orchestrator.BackendError{Op: "POST", StatusCode: 500, Message: "Failed to start container"},
	}}
	e, _ := newTestEngine(t, api)
	seed(e, ctr("good", orchestrator.StateExited), ctr("bad", orchestrator.StateExited))

	okCmd, err := e.Act("good", orchestrator.ActionStart)
	require.NoError(t, err)
	badCmd, err := e.Act("bad", orchestrator.ActionStart)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Dashboard().PendingCount())

	settle := e.Update(run(t, okCmd))
	assert.NotNil(t, settle, "success schedules a follow-up poll")
	_, pending := e.Dashboard().Pending("good")
	assert.False(t, pending)
	assert.Equal(t, Notice{Text: "Container good started", At: e.Notice().At}, e.Notice())

	assert.Nil(t, e.Update(run(t, badCmd)), "failure does not poll")
	_, pending = e.Dashboard().Pending("bad")
	assert.False(t, pending)
	assert.Equal(t, "Failed to start container bad: Failed to start container", e.Notice().Text)
	assert.True(t, e.Notice().Failed)
	assert.Zero(t, e.Dashboard().PendingCount())
}

func TestAct_NotFoundRefreshesFleet(t *testing.T) {
	api := &fakeAPI{actionErrs: map[string]error{
		"gone": &orchestrator.BackendError{Op: "POST", StatusCode: 404, Message: "No such container"},
	}}
	e, _ := newTestEngine(t, api)
	seed(e, ctr("gone", orchestrator.StateRunning))

	cmd, err := e.Act("gone", orchestrator.ActionRestart)
	require.NoError(t, err)
	settle := e.Update(run(t, cmd))
	require.NotNil(t, settle, "a vanished container triggers a follow-up poll")
	assert.True(t, e.Notice().Failed)

	poll := e.Update(run(t, settle))
	require.NotNil(t, poll)
	e.Update(run(t, poll))
	assert.Zero(t, e.Dashboard().Len())
}

func TestAct_SuccessSettlesIntoPoll(t *testing.T) {
	api := &fakeAPI{containers: []orchestrator.Container{ctr("a", orchestrator.StateExited)}}
	e, _ := newTestEngine(t, api)
	seed(e, ctr("a", orchestrator.StateRunning))

	cmd, err := e.Act("a", orchestrator.ActionStop)
	require.NoError(t, err)
	settle := e.Update(run(t, cmd))

	poll := e.Update(run(t, settle))
	require.NotNil(t, poll)
	e.Update(run(t, poll))

	got, _ := e.Dashboard().Container("a")
	assert.Equal(t, orchestrator.StateExited, got.State)
	assert.Equal(t, []string{"stop:a", "list"}, api.Calls())
}

func TestAct_DeleteUsesRemove(t *testing.T) {
	api := &fakeAPI{}
	e, _ := newTestEngine(t, api)
	seed(e, ctr("a", orchestrator.StateRunning))

	cmd, err := e.Act("a", orchestrator.ActionDelete)
	require.NoError(t, err)
	e.Update(run(t, cmd))

	assert.Equal(t, []string{"delete:a"}, api.Calls())
	assert.Equal(t, "Container a deleted", e.Notice().Text)
	_, still := e.Dashboard().Container("a")
	assert.True(t, still, "containers change only through polls")
}

func TestAct_RejectsUnknownContainerAndAction(t *testing.T) {
	api := &fakeAPI{}
	e, _ := newTestEngine(t, api)
	seed(e, ctr("a", orchestrator.StateRunning))

	_, err := e.Act("ghost", orchestrator.ActionStop)
	assert.Error(t, err)
	_, err = e.Act("a", orchestrator.Action("pause"))
	assert.Error(t, err)
	assert.Empty(t, api.Calls())
	assert.Zero(t, e.Dashboard().PendingCount())
}

func TestBulkAct_PartialFailureClearsSelectionAndRunsConcurrently(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		stalled  bool
		both     = make(chan struct{})
	)
	api := &fakeAPI{actionErrs: map[string]error{"b": errors.New("boom")}}
	api.onAction = func(string, orchestrator.Action) {
		mu.Lock()
		inFlight++
		if inFlight == 2 {
			close(both)
		}
		mu.Unlock()
		// Each request only finishes once the other one has started, so a
		// sequential fan-out would stall here.
		select {
		case <-both:
		case <-time.After(2 * time.Second):
			mu.Lock()
			stalled = true
			mu.Unlock()
		}
	}
	e, _ := newTestEngine(t, api)
	seed(e, ctr("a", orchestrator.StateRunning), ctr("b", orchestrator.StateRunning))
	e.Dashboard().ToggleSelected("a")
	e.Dashboard().ToggleSelected("b")
	require.NoError(t, e.SetBulkAction(orchestrator.ActionDelete))

	cmd := e.BulkAct()
	require.NotNil(t, cmd)
	assert.Equal(t, 2, e.Dashboard().PendingCount())

	msg := run(t, cmd)
	mu.Lock()
	assert.False(t, stalled, "bulk requests were not in flight at the same time")
	mu.Unlock()

	result, ok := msg.(BulkResultMsg)
	require.True(t, ok)
	assert.Equal(t, 1, result.Failed())

	settle := e.Update(msg)
	assert.NotNil(t, settle)
	assert.Empty(t, e.Dashboard().Selection())
	assert.Equal(t, orchestrator.Action(""), e.BulkAction())
	assert.Zero(t, e.Dashboard().PendingCount())
	assert.Equal(t, "Bulk delete completed for 2 containers", e.Notice().Text)
	assert.False(t, e.Notice().Failed)
	assert.ElementsMatch(t, []string{"delete:a", "delete:b"}, api.Calls())
}

func TestBulkAct_SkipsPendingMembers(t *testing.T) {
	api := &fakeAPI{}
	e, _ := newTestEngine(t, api)
	seed(e, ctr("a", orchestrator.StateRunning), ctr("b", orchestrator.StateRunning))

	single, err := e.Act("a", orchestrator.ActionStop)
	require.NoError(t, err)
	e.Dashboard().SelectAll([]string{"a", "b"})
	require.NoError(t, e.SetBulkAction(orchestrator.ActionRestart))

	msg := run(t, e.BulkAct())
	e.Update(msg)

	result := msg.(BulkResultMsg)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Results, 1)
	assert.Equal(t, "Bulk restart completed for 1 containers (1 skipped, already busy)", e.Notice().Text)
	_, pending := e.Dashboard().Pending("a")
	assert.True(t, pending, "the single command still owns a")

	e.Update(run(t, single))
	assert.Zero(t, e.Dashboard().PendingCount())
	assert.Equal(t, []string{"restart:b", "stop:a"}, api.Calls())
}

func TestBulkAct_NoopWithoutSelectionOrAction(t *testing.T) {
	api := &fakeAPI{}
	e, _ := newTestEngine(t, api)
	seed(e, ctr("a", orchestrator.StateRunning))

	require.NoError(t, e.SetBulkAction(orchestrator.ActionStop))
	assert.Nil(t, e.BulkAct(), "empty selection")

	require.NoError(t, e.SetBulkAction(""))
	e.Dashboard().ToggleSelected("a")
	assert.Nil(t, e.BulkAct(), "no action")

	assert.Error(t, e.SetBulkAction("explode"))
	assert.Empty(t, api.Calls())
}

func TestBulkAct_AllFailedIsAFailureNotice(t *testing.T) {
	api := &fakeAPI{actionErrs: map[string]error{"a": errors.New("x"), "b": errors.New("y")}}
	e, hook := newTestEngine(t, api)
	seed(e, ctr("a", orchestrator.StateRunning), ctr("b", orchestrator.StateRunning))
	e.Dashboard().SelectAll([]string{"a", "b"})
	require.NoError(t, e.SetBulkAction(orchestrator.ActionStop))

	e.Update(run(t, e.BulkAct()))

	assert.True(t, e.Notice().Failed)
	warnings := 0
	for _, entry := range hook.AllEntries() {
		if entry.Message == "bulk member failed" {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestClose_DiscardsLateResults(t *testing.T) {
	api := &fakeAPI{containers: []orchestrator.Container{ctr("a", orchestrator.StateRunning)}}
	e, _ := newTestEngine(t, api)
	seed(e, ctr("a", orchestrator.StateRunning))

	act, err := e.Act("a", orchestrator.ActionStop)
	require.NoError(t, err)
	poll := e.Refresh()
	require.NotNil(t, poll)

	e.Close()
	actMsg := run(t, act)
	assert.NoError(t, actMsg.(ActionResultMsg).Err, "commands are not cancelled by teardown")
	assert.Nil(t, e.Update(actMsg))
	assert.Nil(t, e.Update(SnapshotMsg{}))
	assert.Nil(t, e.Update(pollTickMsg(time.Now())))

	assert.Equal(t, 1, e.Dashboard().Len(), "late snapshot is not merged")
	assert.Empty(t, e.Notice().Text)
	assert.Nil(t, e.Refresh())
	assert.Nil(t, e.Init())
	_, err = e.Act("a", orchestrator.ActionStart)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestLaunch_SingleFlightAndNotice(t *testing.T) {
	api := &fakeAPI{
		templates: []orchestrator.Template{{ID: "app_template", Name: "Node App"}},
		launch:    orchestrator.LaunchResult{Message: "Container launched successfully", URL: "http://localhost:32768", ContainerID: "deadbeef"},
	}
	e, _ := newTestEngine(t, api)
	e.Update(run(t, e.RefreshTemplates()))
	require.Len(t, e.Templates(), 1)

	cmd, err := e.Launch("")
	require.NoError(t, err)
	assert.True(t, e.Launching())
	_, err = e.Launch("app_template")
	assert.ErrorIs(t, err, ErrLaunchInFlight)

	settle := e.Update(run(t, cmd))
	assert.NotNil(t, settle)
	assert.False(t, e.Launching())
	assert.Equal(t, "Container launched successfully at http://localhost:32768", e.Notice().Text)
	assert.Equal(t, []string{"templates", "launch:app_template"}, api.Calls())
}

func TestLaunch_Failure(t *testing.T) {
	api := &fakeAPI{launchErr: &orchestrator.BackendError{StatusCode: 400, Message: "Invalid template"}}
	e, _ := newTestEngine(t, api)

	_, err := e.Launch("")
	assert.Error(t, err, "no template known")

	cmd, err := e.Launch("nope")
	require.NoError(t, err)
	assert.Nil(t, e.Update(run(t, cmd)))
	assert.Equal(t, "Failed to launch container: Invalid template", e.Notice().Text)
	assert.True(t, e.Notice().Failed)

	e.DismissNotice()
	assert.Equal(t, Notice{}, e.Notice())
}

func TestUpdate_IgnoresForeignMessages(t *testing.T) {
	e, _ := newTestEngine(t, &fakeAPI{})

	assert.Nil(t, e.Update(tea.KeyMsg{}))
	assert.Nil(t, e.Update(fmt.Errorf("not ours")))
}
