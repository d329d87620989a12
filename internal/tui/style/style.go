// Package style defines lipgloss styles for the TUI.
package style

import (
	"github.com/alkime/sessions/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

// UI styles using lipgloss.
// These are package-level for convenience and are rebuilt by Use when the
// theme changes. The TUI mutates them only from its update loop.
//
// Variable names intentionally omit "Style" suffix since they're accessed
// via the style package (e.g., style.Title reads better than style.TitleStyle).
var (
	// Title is used for view titles and headers.
	Title lipgloss.Style

	// Subtitle is used for secondary text.
	Subtitle lipgloss.Style

	// Success is used for success messages and succeeded stages.
	Success lipgloss.Style

	// Error is used for error messages and failed stages.
	Error lipgloss.Style

	// Warning is used for guidance messages.
	Warning lipgloss.Style

	// Viewport is used for the draft and detail viewport border.
	Viewport lipgloss.Style

	// Help is used for keyboard shortcut hints.
	Help lipgloss.Style

	// Key is used for highlighting keyboard keys.
	Key lipgloss.Style

	// Label is used for inline labels (e.g., "File:", "Session:").
	Label lipgloss.Style

	// Muted is used for de-emphasized text (e.g., file paths, idle stages).
	Muted lipgloss.Style

	// Selected marks the cursor row in the catalog.
	Selected lipgloss.Style

	// Tab and ActiveTab render the view switcher.
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	// Menu frames an expanded row action menu.
	Menu lipgloss.Style
)

type palette struct {
	accent, subtle, text, muted, border, success, failure, warning, selection string
}

var palettes = map[theme.Theme]palette{
	theme.Light: {
		accent: "125", subtle: "241", text: "235", muted: "245", border: "62",
		success: "28", failure: "160", warning: "130", selection: "254",
	},
	theme.Dark: {
		accent: "205", subtle: "247", text: "255", muted: "243", border: "63",
		success: "42", failure: "196", warning: "214", selection: "237",
	},
}

//nolint:gochecknoinits // styles must exist before any view renders
func init() {
	Use(theme.Light)
}

// Use rebuilds every style for the given theme.
func Use(t theme.Theme) {
	p, ok := palettes[t]
	if !ok {
		p = palettes[theme.Light]
	}

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.accent))

	Subtitle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.subtle))

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.success))

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.failure))

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.warning))

	Viewport = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.border)).
		Padding(0, 1)

	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.subtle))

	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.accent)).
		Bold(true)

	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.text))

	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.muted))

	Selected = lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color(p.selection))

	Tab = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(lipgloss.Color(p.subtle))

	ActiveTab = Tab.
		Bold(true).
		Underline(true).
		Foreground(lipgloss.Color(p.accent))

	Menu = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(p.border)).
		Padding(0, 1)
}
