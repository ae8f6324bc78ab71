package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flotilla/internal/orchestrator"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and command bar
	SurfaceAlt string // Panels
	FocusBg    string // Focused panel

	// Table colors
	SelectionBg   string // Cursor row background
	SelectionText string // Cursor row text

	// Border colors
	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Container state colors
	StateColors map[orchestrator.State]string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		stateColors: t.StateColors,
		background:  t.Background,
		muted:       t.Muted,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	stateColors map[orchestrator.State]string
	background  string
	muted       string
}

// StateBadge returns the badge style for a container state.
func (s Styles) StateBadge(state orchestrator.State) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(s.StateColor(state))).
		Bold(true).
		Padding(0, 1)
}

// StateColor returns the color for a container state, muted when unknown.
func (s Styles) StateColor(state orchestrator.State) string {
	if color := s.stateColors[state]; color != "" {
		return color
	}
	return s.muted
}

// WithBackground returns a copy of Styles whose text styles paint bgColor.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	out.Text = s.Text.Background(bg)
	out.MutedText = s.MutedText.Background(bg)
	out.FaintText = s.FaintText.Background(bg)
	out.AccentText = s.AccentText.Background(bg)
	out.SuccessText = s.SuccessText.Background(bg)
	out.WarningText = s.WarningText.Background(bg)
	out.DangerText = s.DangerText.Background(bg)
	out.InfoText = s.InfoText.Background(bg)
	out.Header = s.Header.Background(bg)
	out.Logo = s.Logo.Background(bg)
	return out
}

// Theme definitions

var themes = map[string]Theme{
	"Nightfox":    nightfoxTheme(),
	"Kanagawa":    kanagawaTheme(),
	"Tokyo Night": tokyoNightTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Tokyo Night"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		SurfaceAlt: "#212e3f", // bg2
		FocusBg:    "#29394f", // bg3

		SelectionBg:   "#2b3b51", // sel0
		SelectionText: "#cdcecf", // fg1

		Border:      "#39506d", // bg4
		BorderFocus: "#719cd6", // blue

		Text:    "#cdcecf",
		Muted:   "#738091",
		Faint:   "#71839b",
		Accent:  "#719cd6",
		Success: "#81b29a",
		Warning: "#dbc074",
		Danger:  "#c94f6d",
		Info:    "#63cdcf",

		StateColors: map[orchestrator.State]string{
			orchestrator.StateRunning:    "#81b29a", // green
			orchestrator.StateExited:     "#c94f6d", // red
			orchestrator.StateCreated:    "#719cd6", // blue
			orchestrator.StatePaused:     "#dbc074", // yellow
			orchestrator.StateRestarting: "#f4a261", // orange
			orchestrator.StateOther:      "#738091", // comment
		},
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name: "Kanagawa",

		Background: "#16161D", // sumiInk0
		Surface:    "#1F1F28", // sumiInk3
		SurfaceAlt: "#2A2A37", // sumiInk4
		FocusBg:    "#2A2A37",

		SelectionBg:   "#2D4F67", // waveBlue1
		SelectionText: "#DCD7BA", // fujiWhite

		Border:      "#54546D", // sumiInk6
		BorderFocus: "#7E9CD8", // crystalBlue

		Text:    "#DCD7BA",
		Muted:   "#C8C093",
		Faint:   "#727169",
		Accent:  "#7E9CD8",
		Success: "#98BB6C",
		Warning: "#E6C384",
		Danger:  "#E46876",
		Info:    "#7FB4CA",

		StateColors: map[orchestrator.State]string{
			orchestrator.StateRunning:    "#98BB6C", // springGreen
			orchestrator.StateExited:     "#E46876", // waveRed
			orchestrator.StateCreated:    "#7E9CD8", // crystalBlue
			orchestrator.StatePaused:     "#E6C384", // carpYellow
			orchestrator.StateRestarting: "#957FB8", // oniViolet
			orchestrator.StateOther:      "#727169", // fujiGray
		},
	}
}

func tokyoNightTheme() Theme {
	// Tokyo Night palette: https://github.com/folke/tokyonight.nvim
	return Theme{
		Name: "Tokyo Night",

		Background: "#16161e", // bg_dark
		Surface:    "#1a1b26", // bg
		SurfaceAlt: "#1f2335",
		FocusBg:    "#24283b", // bg_storm

		SelectionBg:   "#3d59a1", // blue0
		SelectionText: "#c0caf5", // fg

		Border:      "#414868", // terminal_black
		BorderFocus: "#7aa2f7", // blue

		Text:    "#c0caf5",
		Muted:   "#737aa2", // dark5
		Faint:   "#565f89", // comment
		Accent:  "#7aa2f7",
		Success: "#9ece6a",
		Warning: "#e0af68",
		Danger:  "#f7768e",
		Info:    "#7dcfff",

		StateColors: map[orchestrator.State]string{
			orchestrator.StateRunning:    "#9ece6a", // green
			orchestrator.StateExited:     "#f7768e", // red
			orchestrator.StateCreated:    "#7aa2f7", // blue
			orchestrator.StatePaused:     "#e0af68", // yellow
			orchestrator.StateRestarting: "#ff9e64", // orange
			orchestrator.StateOther:      "#565f89", // comment
		},
	}
}
