package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flotilla/internal/fleet"
	"github.com/five82/flotilla/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewContainers View = iota
	ViewLaunch
	ViewTemplates
	ViewActivity
)

var viewOrder = []View{ViewContainers, ViewLaunch, ViewTemplates, ViewActivity}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Engine    *fleet.Engine
	Prefs     prefs.Prefs
	PrefsPath string
	// Filter overrides the filters restored from Prefs when a field is set.
	Filter  fleet.Filter
	LogFile string
	APIURL  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	engine    *fleet.Engine
	keys      keyMap
	prefsPath string
	prefs     prefs.Prefs
	logFile   string
	apiURL    string

	// UI state
	theme    Theme
	view     View
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    *modal
	flash    string // local rejection, cleared on the next action

	// Containers view
	cursor    int
	filter    fleet.Filter
	searching bool
	search    textinput.Model
	spinner   spinner.Model

	// Launch view
	templateCursor int

	// Activity view
	activity       viewport.Model
	activityLines  []string
	activityFollow bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	p := opts.Prefs
	filter := fleet.Filter{Status: p.StatusFilter, Template: p.TemplateFilter}
	if opts.Filter.Search != "" {
		filter.Search = opts.Filter.Search
	}
	if opts.Filter.Status != "" {
		filter.Status = opts.Filter.Status
	}
	if opts.Filter.Template != "" {
		filter.Template = opts.Filter.Template
	}
	if filter.Status == "" {
		filter.Status = fleet.FilterAll
	}
	if filter.Template == "" {
		filter.Template = fleet.FilterAll
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Placeholder = "id, template or tenant"
	search.Prompt = "/"
	search.CharLimit = 64
	search.SetValue(filter.Search)

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	theme := GetTheme(p.Theme)
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Warning))

	return Model{
		engine:         opts.Engine,
		keys:           DefaultKeyMap(),
		prefsPath:      prefsPath,
		prefs:          p,
		logFile:        opts.LogFile,
		apiURL:         opts.APIURL,
		theme:          theme,
		view:           ViewContainers,
		filter:         filter,
		search:         search,
		spinner:        spin,
		activity:       viewport.New(0, 0),
		activityFollow: true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.engine.Init(),
		m.spinner.Tick,
		readActivityCmd(m.logFile),
		activityTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeActivity()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case activityTickMsg:
		if m.engine.Closed() {
			return m, nil
		}
		return m, tea.Batch(readActivityCmd(m.logFile), activityTickCmd())

	case activityMsg:
		m.setActivity(msg)
		return m, nil
	}

	cmd := m.engine.Update(msg)
	m.clampCursors()
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.renderModal()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Overlays and the search box take keys
// before the global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		return m.handleModalKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.NextView):
		m.switchView(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevView):
		m.switchView(-1)
		return m, nil

	case key.Matches(msg, m.keys.ViewContainers):
		m.view = ViewContainers
		return m, nil

	case key.Matches(msg, m.keys.ViewLaunch):
		m.view = ViewLaunch
		return m, nil

	case key.Matches(msg, m.keys.ViewTemplates):
		m.view = ViewTemplates
		return m, nil

	case key.Matches(msg, m.keys.ViewActivity):
		m.view = ViewActivity
		return m, readActivityCmd(m.logFile)

	case key.Matches(msg, m.keys.Refresh):
		m.flash = ""
		return m, tea.Batch(m.engine.Refresh(), m.engine.RefreshTemplates())

	case key.Matches(msg, m.keys.DismissNotice):
		m.engine.DismissNotice()
		m.flash = ""
		return m, nil
	}

	switch m.view {
	case ViewContainers:
		return m.handleContainersKey(msg)
	case ViewLaunch:
		return m.handleLaunchKey(msg)
	case ViewTemplates:
		return m.handleTemplatesKey(msg)
	case ViewActivity:
		return m.handleActivityKey(msg)
	}
	return m, nil
}

func (m *Model) switchView(step int) {
	idx := 0
	for i, v := range viewOrder {
		if v == m.view {
			idx = i
		}
	}
	idx = (idx + step + len(viewOrder)) % len(viewOrder)
	m.view = viewOrder[idx]
}

// clampCursors keeps cursors inside their lists after the data changed.
func (m *Model) clampCursors() {
	visible := len(m.visible())
	if m.cursor >= visible {
		m.cursor = visible - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	templates := len(m.engine.Templates())
	if m.templateCursor >= templates {
		m.templateCursor = templates - 1
	}
	if m.templateCursor < 0 {
		m.templateCursor = 0
	}
}

// savePrefs persists the theme and filters. Failures are ignored; preferences
// are a convenience.
func (m *Model) savePrefs() {
	m.prefs.Theme = m.theme.Name
	m.prefs.StatusFilter = m.filter.Status
	m.prefs.TemplateFilter = m.filter.Template
	if m.prefsPath != "" {
		_ = prefs.Save(m.prefsPath, m.prefs)
	}
}

// renderMain renders header, tabs, the active view, the notice line and the
// command bar.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderContent(m.contentHeight()))
	b.WriteString("\n")
	b.WriteString(m.renderNotice())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())

	return b.String()
}

func (m Model) contentHeight() int {
	return max(m.height-4, 3)
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent(height int) string {
	switch m.view {
	case ViewContainers:
		return m.renderContainers(height)
	case ViewLaunch:
		return m.renderLaunch(height)
	case ViewTemplates:
		return m.renderTemplates(height)
	case ViewActivity:
		return m.renderActivity(height)
	default:
		return ""
	}
}

// Run starts the Bubble Tea program and blocks until it exits or the context
// is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	opts.Engine.Close()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
