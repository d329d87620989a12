//nolint:funlen // Test file
package views_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/alkime/sessions/internal/tui/components/views"
	"github.com/alkime/sessions/pkg/collections"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestViews(t *testing.T) {
	checker := outputChecker{
		intervl: 100 * time.Millisecond,
		timeout: 1 * time.Second,
	}

	v1 := &modelMock{t: t, name: "view-one"}
	v2 := &modelMock{t: t, name: "view-two"}
	v3 := &modelMock{t: t, name: "view-three"}

	vs := views.New([]views.View{
		views.NewView("one", v1),
		views.NewView("two", v2),
		views.NewView("three", v3),
	})

	tm := teatest.NewTestModel(t, vs, teatest.WithInitialTermSize(300, 100))

	inits := func() []int {
		return collections.ApplyVariadic(func(m *modelMock) int {
			return m.inits
		}, v1, v2, v3)
	}

	t.Run("initial view is one", func(t *testing.T) {
		checker.CheckString(t, tm, "view-one")
		require.Equal(t, []int{1, 0, 0}, inits())
	})

	t.Run("show by name", func(t *testing.T) {
		tm.Send(views.ShowMsg{Name: "three"})
		checker.CheckString(t, tm, "view-three")
		require.Equal(t, []int{1, 0, 1}, inits())
	})

	t.Run("only the active view gets messages", func(t *testing.T) {
		tm.Send(mockMsg{})
		checker.CheckString(t, tm, "view-three updated")
		assert.False(t, v1.updated)
		assert.False(t, v2.updated)
	})

	t.Run("cycling wraps and re-enters", func(t *testing.T) {
		tm.Send(views.NextViewMsg{})
		checker.CheckString(t, tm, "view-one")
		tm.Send(views.NextViewMsg{})
		checker.CheckString(t, tm, "view-two")
		require.Equal(t, []int{2, 1, 1}, inits(), "entering a view runs Init again")
	})

	t.Run("view can request a switch", func(t *testing.T) {
		tm.Send(mockMsg{show: "one"})
		checker.CheckString(t, tm, "view-one")
		require.Equal(t, []int{3, 1, 1}, inits())
		assert.True(t, v2.updated)
	})
}

func TestBroadcastAndTabs(t *testing.T) {
	v1 := &modelMock{t: t, name: "a"}
	v2 := &modelMock{t: t, name: "b"}

	vs := views.New([]views.View{views.NewView("Workflow", v1), views.NewView("Catalog", v2)})

	vs, _ = vs.Broadcast(mockMsg{})
	assert.True(t, v1.updated)
	assert.True(t, v2.updated)

	assert.Equal(t, "Workflow", vs.CurrentViewName())
	assert.Contains(t, vs.Tabs(), "Workflow")
	assert.Contains(t, vs.Tabs(), "Catalog")

	mdl, ok := vs.Lookup("Catalog")
	require.True(t, ok)
	assert.Same(t, v2, mdl)

	_, ok = vs.Lookup("missing")
	assert.False(t, ok)
}

type modelMock struct {
	t       *testing.T
	name    string
	updated bool
	inits   int
}

func (m *modelMock) Init() tea.Cmd {
	m.inits++
	return nil
}

func (m *modelMock) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.t.Logf("modelMock Update called: %s, msg: %#v\n", m.name, msg)

	if msg, ok := msg.(mockMsg); ok {
		m.updated = true
		if msg.show != "" {
			return m, views.ShowCmd(msg.show)
		}
	}

	return m, nil
}

func (m *modelMock) View() string {
	if m.updated {
		return m.name + " updated"
	}

	return m.name
}

type outputChecker struct {
	intervl, timeout time.Duration
}

func (o outputChecker) Check(t *testing.T, tm *teatest.TestModel, check func(buf []byte) bool) {
	teatest.WaitFor(t, tm.Output(), check,
		teatest.WithCheckInterval(o.intervl),
		teatest.WithDuration(o.timeout))
}

func (o outputChecker) CheckString(t *testing.T, tm *teatest.TestModel, substr string) {
	o.Check(t, tm, func(buf []byte) bool {
		return bytes.Contains(buf, []byte(substr))
	})
}

type mockMsg struct {
	show string
}
