package tui

import (
	"strings"

	"github.com/alkime/sessions/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func renderKeyHelp(keyBinding key.Binding, suffix ...string) string {
	s := style.Help.Render("[") + style.Key.Render(keyBinding.Help().Key) +
		style.Help.Render("] ") +
		style.Help.Render(keyBinding.Help().Desc)

	s += strings.Join(suffix, "")

	return s
}

func renderKeyHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, renderKeyHelp(b))
	}

	return strings.Join(parts, "  ")
}

// wrapText wraps the given text to fit within the specified width using lipgloss.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	return lipgloss.NewStyle().Width(width).Render(text)
}

// viewportSize leaves room for the header and footer around a bordered viewport.
func viewportSize(width, height, chrome int) (int, int) {
	return max(width-4, 10), max(height-chrome, 5)
}
