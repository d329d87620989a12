package tui

import (
	"strings"

	"github.com/alkime/sessions/internal/catalog"
	"github.com/alkime/sessions/internal/theme"
	"github.com/alkime/sessions/internal/tui/components/views"
	"github.com/alkime/sessions/internal/tui/style"
	"github.com/alkime/sessions/internal/viewer"
	"github.com/alkime/sessions/internal/workflow"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	workflowViewName = "Workflow"
	catalogViewName  = "Catalog"
)

// capturer is implemented by views that can hold keyboard focus in a text
// input, where global keys must not fire.
type capturer interface {
	Capturing() bool
}

// Model is the root TUI model.
type Model struct {
	deps   Deps
	keys   globalKeyMap
	views  views.Model
	detail *detailView
	theme  *theme.Switch
	notice string

	windowWidth  int
	windowHeight int
}

// New builds the TUI.
func New(deps Deps) *Model {
	deps.defaults()
	style.Use(deps.Theme)

	shared := viewer.New()
	exec := workflow.NewExecutor(deps.Gateway, deps.Logger)

	return &Model{
		deps: deps,
		keys: defaultGlobalKeyMap(),
		views: views.New([]views.View{
			views.NewView(workflowViewName, newWorkflowView(deps, exec)),
			views.NewView(catalogViewName, newCatalogView(deps, catalog.New(deps.PageSize), shared)),
		}),
		detail:       newDetailView(shared),
		theme:        theme.NewSwitch(deps.Theme),
		windowWidth:  80,
		windowHeight: 24,
	}
}

// Init returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.views.Init()
}

// Update handles all messages.
func (m *Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.detail.resize(msg.Width, msg.Height)

		return m, m.updateViews(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case detailMsg:
		return m, m.detail.receive(msg)

	case themeSavedMsg:
		if msg.err != nil {
			m.deps.Logger.Warn("Failed to save theme", "theme", msg.theme, "error", msg.err)
			m.notice = "Theme not saved."
		}

		return m, nil

	case outputSavedMsg:
		if msg.err != nil {
			m.deps.Logger.Warn("Failed to save stage output",
				"session_id", msg.out.SessionID, "stage", msg.out.Stage, "error", msg.err)
		}

		return m, nil

	case views.ShowMsg, views.NextViewMsg:
		return m, m.updateViews(msg)
	}

	// Async results and spinner ticks reach every view so an inactive view
	// still records them.
	var cmd tea.Cmd
	m.views, cmd = m.views.Broadcast(teaMsg)

	return m, cmd
}

func (m *Model) updateViews(msg tea.Msg) tea.Cmd {
	updated, cmd := m.views.Update(msg)
	m.views = updated.(views.Model) //nolint:forcetypeassert // views.Model always returns views.Model

	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, m.quit()
	}

	if m.detail.active() {
		return m, m.detail.handleKey(msg)
	}

	if !m.capturing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()

		case key.Matches(msg, m.keys.SwitchView):
			return m, m.updateViews(views.NextViewMsg{})

		case key.Matches(msg, m.keys.ToggleTheme):
			return m, m.toggleTheme()
		}
	}

	return m, m.updateViews(msg)
}

func (m *Model) capturing() bool {
	mdl, ok := m.views.Lookup(m.views.CurrentViewName())
	if !ok {
		return false
	}

	c, ok := mdl.(capturer)

	return ok && c.Capturing()
}

func (m *Model) quit() tea.Cmd {
	if m.deps.Cancel != nil {
		m.deps.Cancel()
	}

	return tea.Quit
}

func (m *Model) toggleTheme() tea.Cmd {
	m.theme.Toggle()
	selected := m.theme.Theme()
	style.Use(selected)
	m.notice = ""

	prefs := m.deps.Preferences
	if prefs == nil {
		return nil
	}

	ctx := m.deps.Context

	return func() tea.Msg {
		return themeSavedMsg{theme: selected, err: theme.Save(ctx, prefs, selected)}
	}
}

// Theme returns the active theme.
func (m *Model) Theme() theme.Theme {
	return m.theme.Theme()
}

// View renders the current UI.
func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.views.Tabs())
	sb.WriteString(style.Muted.Render("  " + string(m.theme.Theme())))
	sb.WriteString("\n\n")

	if m.detail.active() {
		sb.WriteString(m.detail.View())
	} else {
		sb.WriteString(m.views.View())
	}

	sb.WriteString("\n\n")

	if m.notice != "" {
		sb.WriteString(style.Warning.Render(m.notice))
		sb.WriteString("\n")
	}

	sb.WriteString(renderKeyHelpLine(m.keys.SwitchView, m.keys.ToggleTheme, m.keys.Quit))

	return sb.String()
}
