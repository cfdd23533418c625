package status

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used by the status dashboard.
// Use DarkTheme() or LightTheme() to get a pre-built theme.
type Theme struct {
	Primary   lipgloss.Color // title, cursor
	Error     lipgloss.Color // failures, stopped-but-desired
	Warning   lipgloss.Color // unmanaged sessions
	Success   lipgloss.Color // running
	Text      lipgloss.Color // primary text
	TextMuted lipgloss.Color // hints, secondary text
	Border    lipgloss.Color // separators
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#fab283"),
		Error:     lipgloss.Color("#e06c75"),
		Warning:   lipgloss.Color("#f5a742"),
		Success:   lipgloss.Color("#7fd88f"),
		Text:      lipgloss.Color("#eeeeee"),
		TextMuted: lipgloss.Color("#808080"),
		Border:    lipgloss.Color("#484848"),
	}
}

// LightTheme returns a light theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#b35c00"),
		Error:     lipgloss.Color("#cf222e"),
		Warning:   lipgloss.Color("#bf8700"),
		Success:   lipgloss.Color("#116329"),
		Text:      lipgloss.Color("#1f2328"),
		TextMuted: lipgloss.Color("#656d76"),
		Border:    lipgloss.Color("#d0d7de"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// styles holds all lipgloss styles derived from a Theme.
type styles struct {
	title    lipgloss.Style
	selected lipgloss.Style
	running  lipgloss.Style
	stopped  lipgloss.Style
	unknown  lipgloss.Style
	text     lipgloss.Style
	dim      lipgloss.Style
	err      lipgloss.Style

	hintKey  lipgloss.Style
	hintDesc lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		running:  lipgloss.NewStyle().Foreground(t.Success),
		stopped:  lipgloss.NewStyle().Foreground(t.Error),
		unknown:  lipgloss.NewStyle().Foreground(t.Warning),
		text:     lipgloss.NewStyle().Foreground(t.Text),
		dim:      lipgloss.NewStyle().Foreground(t.TextMuted),
		err:      lipgloss.NewStyle().Foreground(t.Error),

		hintKey:  lipgloss.NewStyle().Foreground(t.Text),
		hintDesc: lipgloss.NewStyle().Foreground(t.TextMuted),
	}
}
