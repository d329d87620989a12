// Package views switches between named top-level views. Entering a view
// always runs its Init, so a view can refresh itself on every visit.
package views

import (
	"strings"

	"github.com/alkime/sessions/internal/tui/style"
	tea "github.com/charmbracelet/bubbletea"
)

// NextViewMsg cycles to the following view.
type NextViewMsg struct{}

// ShowMsg switches to the view with the given name.
type ShowMsg struct {
	Name string
}

// ShowCmd returns a command switching to the named view.
func ShowCmd(name string) tea.Cmd {
	return func() tea.Msg {
		return ShowMsg{Name: name}
	}
}

// View is one named entry in the container.
type View struct {
	Name string
	mdl  tea.Model
}

func (v View) Init() tea.Cmd {
	return v.mdl.Init()
}

func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	updatedMdl, cmd := v.mdl.Update(msg)
	v.mdl = updatedMdl
	return v, cmd
}

func (v View) View() string {
	return v.mdl.View()
}

// Model returns the wrapped model.
func (v View) Model() tea.Model {
	return v.mdl
}

func NewView(name string, mdl tea.Model) View {
	return View{
		Name: name,
		mdl:  mdl,
	}
}

// Model holds the views and which one is active. Only the active view
// receives messages other than window size changes.
type Model struct {
	views []View
	curr  int
}

func New(views []View) Model {
	return Model{
		views: views,
		curr:  0,
	}
}

func (m Model) currentView() View {
	return m.views[m.curr]
}

func (m Model) Init() tea.Cmd {
	return m.currentView().Init()
}

func (m Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case NextViewMsg:
		if len(m.views) < 2 {
			return m, nil
		}
		m.curr = (m.curr + 1) % len(m.views)
		return m, m.currentView().Init()

	case ShowMsg:
		for i, v := range m.views {
			if v.Name == msg.Name {
				m.curr = i
				return m, v.Init()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		cmds := make([]tea.Cmd, 0, len(m.views))
		for i, v := range m.views {
			var cmd tea.Cmd
			m.views[i], cmd = v.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	v, cmd := m.currentView().Update(teaMsg)
	m.views[m.curr] = v

	return m, cmd
}

// Broadcast delivers a message to every view, not just the active one.
// Async results use this so a view that is not showing still records them.
func (m Model) Broadcast(teaMsg tea.Msg) (Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, len(m.views))
	for i, v := range m.views {
		var cmd tea.Cmd
		m.views[i], cmd = v.Update(teaMsg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return m.currentView().View()
}

// CurrentViewName returns the name of the active view.
func (m Model) CurrentViewName() string {
	return m.currentView().Name
}

// Lookup returns the model registered under name.
func (m Model) Lookup(name string) (tea.Model, bool) {
	for _, v := range m.views {
		if v.Name == name {
			return v.mdl, true
		}
	}

	return nil, false
}

// Tabs renders the view names with the active one highlighted.
func (m Model) Tabs() string {
	tabs := make([]string, 0, len(m.views))
	for i, v := range m.views {
		if i == m.curr {
			tabs = append(tabs, style.ActiveTab.Render(v.Name))
		} else {
			tabs = append(tabs, style.Tab.Render(v.Name))
		}
	}

	return strings.Join(tabs, " ")
}
