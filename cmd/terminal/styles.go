package main

import "github.com/charmbracelet/lipgloss"

type ThemeName string

const (
	ThemeCyan    ThemeName = "cyan"
	ThemeMatrix  ThemeName = "matrix"
	ThemeAmber   ThemeName = "amber"
	ThemeDracula ThemeName = "dracula"
	ThemeMono    ThemeName = "mono"
)

// palette maps the console's roles to terminal colors. Dispatched, Skipped
// and Failed color the per-review lines of a cycle report.
type palette struct {
	Accent     lipgloss.Color
	Command    lipgloss.Color
	Prompt     lipgloss.Color
	Dispatched lipgloss.Color
	Skipped    lipgloss.Color
	Failed     lipgloss.Color
}

var palettes = map[ThemeName]palette{
	ThemeCyan: {
		Accent: "51", Command: "33", Prompt: "226",
		Dispatched: "46", Skipped: "240", Failed: "196",
	},
	ThemeMatrix: {
		Accent: "82", Command: "46", Prompt: "190",
		Dispatched: "82", Skipped: "28", Failed: "196",
	},
	ThemeAmber: {
		Accent: "220", Command: "214", Prompt: "208",
		Dispatched: "220", Skipped: "94", Failed: "196",
	},
	ThemeDracula: {
		Accent: "141", Command: "117", Prompt: "212",
		Dispatched: "84", Skipped: "61", Failed: "203",
	},
	ThemeMono: {
		Accent: "255", Command: "250", Prompt: "255",
		Dispatched: "255", Skipped: "242", Failed: "255",
	},
}

type styles struct {
	app      lipgloss.Style
	viewport lipgloss.Style
	footer   lipgloss.Style
	banner   lipgloss.Style
	prompt   lipgloss.Style
	command  lipgloss.Style
	inactive lipgloss.Style
	warning  lipgloss.Style
	success  lipgloss.Style
	error    lipgloss.Style
}

func ListThemes() []ThemeName {
	return []ThemeName{ThemeCyan, ThemeMatrix, ThemeAmber, ThemeDracula, ThemeMono}
}

func validTheme(theme ThemeName) bool {
	_, ok := palettes[theme]
	return ok
}

// GetTheme returns the styles of theme, falling back to cyan.
func GetTheme(theme ThemeName) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[ThemeCyan]
	}
	s := styles{
		app:      lipgloss.NewStyle().Margin(0, 1),
		viewport: lipgloss.NewStyle().PaddingLeft(1),
		footer: lipgloss.NewStyle().
			MarginTop(1).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.Accent).
			PaddingTop(1),
		banner:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		prompt:   lipgloss.NewStyle().Foreground(p.Prompt).Bold(true),
		command:  lipgloss.NewStyle().Foreground(p.Command).Italic(true),
		inactive: lipgloss.NewStyle().Foreground(p.Skipped),
		warning:  lipgloss.NewStyle().Foreground(p.Prompt),
		success:  lipgloss.NewStyle().Foreground(p.Dispatched).Bold(true),
		error:    lipgloss.NewStyle().Foreground(p.Failed).Bold(true),
	}
	if theme == ThemeMono {
		s.error = s.error.Underline(true)
	}
	return s
}
