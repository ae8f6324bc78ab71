package fleet

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/five82/flotilla/internal/orchestrator"
	"github.com/five82/flotilla/internal/state"
)

// fakeAPI is an in-memory orchestrator.API. Hooks run before the canned
// response is returned and may block.
type fakeAPI struct {
	mu sync.Mutex

	containers []orchestrator.Container
	listErr    error
	templates  []orchestrator.Template

	actionErrs map[string]error
	logs       map[string]string
	logsErr    error
	details    map[string]orchestrator.Details
	launch     orchestrator.LaunchResult
	launchErr  error

	onAction func(id string, action orchestrator.Action)

	calls []string
}

var _ orchestrator.API = (*fakeAPI)(nil)

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) FetchContainers(context.Context) ([]orchestrator.Container, error) {
	f.record("list")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]orchestrator.Container(nil), f.containers...), nil
}

func (f *fakeAPI) FetchTemplates(context.Context) ([]orchestrator.Template, error) {
	f.record("templates")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.templates, nil
}

func (f *fakeAPI) Launch(_ context.Context, templateID string) (orchestrator.LaunchResult, error) {
	f.record("launch:" + templateID)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.launch, f.launchErr
}

func (f *fakeAPI) Control(_ context.Context, id string, action orchestrator.Action) error {
	return f.act(id, action)
}

func (f *fakeAPI) Remove(_ context.Context, id string) error {
	return f.act(id, orchestrator.ActionDelete)
}

func (f *fakeAPI) act(id string, action orchestrator.Action) error {
	f.record(string(action) + ":" + id)
	if f.onAction != nil {
		f.onAction(id, action)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.actionErrs[id]
}

func (f *fakeAPI) Logs(_ context.Context, id string) (string, error) {
	f.record("logs:" + id)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.logsErr != nil {
		return "", f.logsErr
	}
	return f.logs[id], nil
}

func (f *fakeAPI) Inspect(_ context.Context, id string) (orchestrator.Details, error) {
	f.record("inspect:" + id)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.details[id], nil
}

func newTestEngine(t *testing.T, api orchestrator.API) (*Engine, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	e := NewEngine(context.Background(), Options{
		API:         api,
		Store:       &state.Store{},
		Logger:      logger,
		SettleDelay: time.Millisecond,
	})
	t.Cleanup(e.Close)
	return e, hook
}

// seed merges containers as if a poll had returned them.
func seed(e *Engine, containers ...orchestrator.Container) {
	e.Update(SnapshotMsg{Containers: containers})
}

func ctr(id string, st orchestrator.State) orchestrator.Container {
	return orchestrator.Container{ShortID: id, FullID: id, State: st}
}

// run executes cmd synchronously and returns its message.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	return cmd()
}

func ids(containers []orchestrator.Container) []string {
	out := make([]string, len(containers))
	for i, c := range containers {
		out[i] = c.FullID
	}
	return out
}
