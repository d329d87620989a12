// Package labeledspinner shows a status line that spins while work is in
// flight.
package labeledspinner

import (
	"strings"

	"github.com/alkime/sessions/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model displays a label with a spinner while busy and a fixed marker
// otherwise. Ticks stop once the model goes idle.
type Model struct {
	Spinner spinner.Model
	Label   string
	Busy    bool
}

// New creates a new idle labeled spinner.
func New(s spinner.Spinner, label string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner: sp,
		Label:   label,
	}
}

// Init returns the tick command when busy.
func (ls Model) Init() tea.Cmd {
	if !ls.Busy {
		return nil
	}

	return ls.Spinner.Tick
}

// Start marks the model busy with a new label and starts ticking if it
// was idle.
func (ls Model) Start(label string) (Model, tea.Cmd) {
	ls.Label = label
	if ls.Busy {
		return ls, nil
	}

	ls.Busy = true

	return ls, ls.Spinner.Tick
}

// Stop marks the model idle with a final label.
func (ls Model) Stop(label string) Model {
	ls.Label = label
	ls.Busy = false

	return ls
}

// Update handles spinner tick messages while busy.
func (ls Model) Update(teaMsg tea.Msg) (Model, tea.Cmd) {
	tickMsg, ok := teaMsg.(spinner.TickMsg)
	if !ok || !ls.Busy {
		return ls, nil
	}

	var cmd tea.Cmd
	ls.Spinner, cmd = ls.Spinner.Update(tickMsg)

	return ls, cmd
}

// View renders the status line.
func (ls Model) View() string {
	return ls.ViewWithHelp("")
}

// ViewWithHelp renders the status line followed by help text on the next line.
func (ls Model) ViewWithHelp(help string) string {
	var sb strings.Builder

	if ls.Busy {
		sb.WriteString(ls.Spinner.View())
		sb.WriteString(" ")
		sb.WriteString(style.Title.Render(ls.Label))
	} else if ls.Label != "" {
		sb.WriteString(style.Subtitle.Render(ls.Label))
	}

	if help != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Help.Render(help))
	}

	return sb.String()
}
