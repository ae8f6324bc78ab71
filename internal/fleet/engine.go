package fleet

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/flotilla/internal/orchestrator"
	"github.com/five82/flotilla/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultSettleDelay  = time.Second
)

// Options configures an Engine.
type Options struct {
	API          orchestrator.API
	Store        *state.Store
	Logger       logrus.FieldLogger
	PollInterval time.Duration
	SettleDelay  time.Duration
}

// Notice is the last user-facing outcome message.
type Notice struct {
	Text   string
	Failed bool
	At     time.Time
}

// Engine drives the dashboard from a Bubble Tea event loop. Every method and
// Update must be called from that loop; network calls run inside the returned
// commands and come back as messages.
type Engine struct {
	ctx    context.Context
	cancel context.CancelFunc
	// Commands issued by the operator outlive teardown; only their results
	// are discarded.
	detached context.Context

	api   orchestrator.API
	fetch *Fetcher
	log   logrus.FieldLogger
	dash  *Dashboard

	pollInterval time.Duration
	settleDelay  time.Duration

	polling    bool
	pollQueued bool
	closed     bool
	launching  bool

	bulkAction orchestrator.Action
	templates  []orchestrator.Template
	notice     Notice

	logsGen        map[string]uint64
	detailsGen     map[string]uint64
	logsLoading    map[string]bool
	detailsLoading map[string]bool

	now func() time.Time
}

// NewEngine builds an Engine bound to ctx. Cancelling ctx stops polling the
// same way Close does.
func NewEngine(ctx context.Context, opts Options) *Engine {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	settle := opts.SettleDelay
	if settle <= 0 {
		settle = defaultSettleDelay
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Engine{
		ctx:            ctx,
		cancel:         cancel,
		detached:       context.WithoutCancel(ctx),
		api:            opts.API,
		fetch:          NewFetcher(opts.API, opts.Store),
		log:            logger.WithField("component", "fleet"),
		dash:           NewDashboard(),
		pollInterval:   interval,
		settleDelay:    settle,
		logsGen:        make(map[string]uint64),
		detailsGen:     make(map[string]uint64),
		logsLoading:    make(map[string]bool),
		detailsLoading: make(map[string]bool),
		now:            time.Now,
	}
}

// Dashboard exposes the reconciled state for rendering and selection.
func (e *Engine) Dashboard() *Dashboard {
	return e.dash
}

// Snapshot returns the fetch health recorded by the fetcher.
func (e *Engine) Snapshot() state.Snapshot {
	return e.fetch.Snapshot()
}

// Templates returns the last fetched template catalog.
func (e *Engine) Templates() []orchestrator.Template {
	return e.templates
}

// Visible applies f to the current containers.
func (e *Engine) Visible(f Filter) []orchestrator.Container {
	return Visible(e.dash.Containers(), f)
}

// Polling reports whether a container poll is in flight.
func (e *Engine) Polling() bool {
	return e.polling
}

// Closed reports whether Close was called.
func (e *Engine) Closed() bool {
	return e.closed
}

// Init starts the poll loop: first poll, template fetch, first tick.
func (e *Engine) Init() tea.Cmd {
	if e.closed {
		return nil
	}
	return tea.Batch(e.poll(), e.fetchTemplates(), e.tick())
}

// Close tears the engine down. Polling stops, in-flight polls are cancelled
// and every result arriving afterwards is dropped.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.cancel()
	e.log.Debug("engine closed")
}

// Refresh polls now, or queues one poll behind the one in flight.
func (e *Engine) Refresh() tea.Cmd {
	if e.closed {
		return nil
	}
	if e.polling {
		e.pollQueued = true
		return nil
	}
	return e.poll()
}

// RefreshTemplates refetches the template catalog.
func (e *Engine) RefreshTemplates() tea.Cmd {
	if e.closed {
		return nil
	}
	return e.fetchTemplates()
}

// Notice returns the current notice; the zero value means none.
func (e *Engine) Notice() Notice {
	return e.notice
}

// DismissNotice clears the notice.
func (e *Engine) DismissNotice() {
	e.notice = Notice{}
}

// Update consumes engine messages and returns follow-up commands. Messages the
// engine does not own are ignored.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	if e.closed {
		switch msg.(type) {
		case pollTickMsg, settleMsg, SnapshotMsg, TemplatesMsg, ActionResultMsg,
			BulkResultMsg, LogsMsg, DetailsMsg, LaunchResultMsg:
			e.log.WithField("msg", msgName(msg)).Debug("dropping result after close")
		}
		return nil
	}

	switch msg := msg.(type) {
	case pollTickMsg:
		if e.ctx.Err() != nil {
			return nil
		}
		return tea.Batch(e.poll(), e.tick())
	case settleMsg:
		return e.Refresh()
	case SnapshotMsg:
		return e.handleSnapshot(msg)
	case TemplatesMsg:
		e.handleTemplates(msg)
	case ActionResultMsg:
		return e.handleActionResult(msg)
	case BulkResultMsg:
		return e.handleBulkResult(msg)
	case LogsMsg:
		e.handleLogs(msg)
	case DetailsMsg:
		e.handleDetails(msg)
	case LaunchResultMsg:
		return e.handleLaunchResult(msg)
	}
	return nil
}

func (e *Engine) poll() tea.Cmd {
	if e.polling {
		e.log.Debug("poll skipped, previous poll still in flight")
		return nil
	}
	e.polling = true
	ctx, fetch := e.ctx, e.fetch
	return func() tea.Msg {
		containers, err := fetch.FetchContainers(ctx)
		return SnapshotMsg{Containers: containers, Err: err}
	}
}

func (e *Engine) tick() tea.Cmd {
	return tea.Tick(e.pollInterval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

func (e *Engine) settle() tea.Cmd {
	return tea.Tick(e.settleDelay, func(time.Time) tea.Msg {
		return settleMsg{}
	})
}

func (e *Engine) fetchTemplates() tea.Cmd {
	ctx, fetch := e.ctx, e.fetch
	return func() tea.Msg {
		templates, err := fetch.FetchTemplates(ctx)
		return TemplatesMsg{Templates: templates, Err: err}
	}
}

func (e *Engine) handleSnapshot(msg SnapshotMsg) tea.Cmd {
	e.polling = false
	if msg.Err != nil {
		snap := e.fetch.Snapshot()
		e.log.WithError(msg.Err).WithField("failures", snap.ConsecutiveFailures).Warn("fleet poll failed")
	} else {
		e.dash.Merge(msg.Containers)
		e.log.WithField("containers", e.dash.Len()).Debug("fleet snapshot merged")
	}
	if e.pollQueued {
		e.pollQueued = false
		return e.poll()
	}
	return nil
}

func (e *Engine) handleTemplates(msg TemplatesMsg) {
	if msg.Err != nil {
		e.log.WithError(msg.Err).Warn("template fetch failed")
		return
	}
	e.templates = msg.Templates
}

func (e *Engine) setNotice(text string, failed bool) {
	e.notice = Notice{Text: text, Failed: failed, At: e.now()}
}

// displayID renders id for messages, falling back to a truncated full id when
// the container has left the fleet.
func (e *Engine) displayID(id string) string {
	if c, ok := e.dash.Container(id); ok {
		return c.DisplayID()
	}
	return orchestrator.ShortID(id)
}

func msgName(msg tea.Msg) string {
	switch msg.(type) {
	case pollTickMsg:
		return "tick"
	case settleMsg:
		return "settle"
	case SnapshotMsg:
		return "snapshot"
	case TemplatesMsg:
		return "templates"
	case ActionResultMsg:
		return "action"
	case BulkResultMsg:
		return "bulk"
	case LogsMsg:
		return "logs"
	case DetailsMsg:
		return "details"
	case LaunchResultMsg:
		return "launch"
	}
	return "unknown"
}
