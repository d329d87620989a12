package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alkime/sessions/internal/catalog"
	"github.com/alkime/sessions/internal/format"
	"github.com/alkime/sessions/internal/gateway"
	"github.com/alkime/sessions/internal/session"
	"github.com/alkime/sessions/internal/tui/components/labeledspinner"
	"github.com/alkime/sessions/internal/tui/style"
	"github.com/alkime/sessions/internal/viewer"
	"github.com/alkime/sessions/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// pageSizes are the sizes cycled through with [ and ].
var pageSizes = []int{5, 10, 25, 50, 100}

type catalogView struct {
	ctx    context.Context
	logger *slog.Logger
	gw     gateway.Gateway

	pager     *catalog.Pager
	viewer    *viewer.Viewer
	cursor    int
	filter    textinput.Model
	filtering bool
	dots      paginator.Model
	status    labeledspinner.Model
	keys      catalogKeyMap
}

func newCatalogView(deps Deps, pager *catalog.Pager, v *viewer.Viewer) *catalogView {
	filter := textinput.New()
	filter.Prompt = "Filter: "
	filter.Placeholder = "title or status"

	dots := paginator.New()
	dots.Type = paginator.Dots

	return &catalogView{
		ctx:    deps.Context,
		logger: deps.Logger,
		gw:     deps.Gateway,
		pager:  pager,
		viewer: v,
		filter: filter,
		dots:   dots,
		status: labeledspinner.New(spinner.Dot, ""),
		keys:   defaultCatalogKeyMap(),
	}
}

// Init runs every time the view is entered and refetches the current page.
func (cv *catalogView) Init() tea.Cmd {
	cv.viewer.CloseMenu()
	return cv.fetch(cv.pager.Enter())
}

// Capturing reports whether keys go to the filter input.
func (cv *catalogView) Capturing() bool {
	return cv.filtering
}

func (cv *catalogView) fetch(req catalog.Request) tea.Cmd {
	var spin tea.Cmd
	cv.status, spin = cv.status.Start("Loading sessions...")

	gw := cv.gw
	ctx := cv.ctx

	return tea.Batch(spin, func() tea.Msg {
		page, err := gw.ListSessions(ctx, req.Page, req.PageSize)
		return pageMsg{req: req, page: page, err: err}
	})
}

func (cv *catalogView) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case pageMsg:
		cv.receive(msg)
		return cv, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		cv.status, cmd = cv.status.Update(msg)

		return cv, cmd

	case tea.KeyMsg:
		if cv.filtering {
			return cv, cv.handleFilterKey(msg)
		}

		return cv, cv.handleKey(msg)
	}

	return cv, nil
}

func (cv *catalogView) receive(msg pageMsg) {
	if !cv.pager.Receive(msg.req, msg.page, msg.err) {
		cv.logger.Debug("Dropped stale catalog page", "seq", msg.req.Seq, "page", msg.req.Page)
		return
	}

	cv.status = cv.status.Stop(cv.pager.Message())
	cv.dots.SetTotalPages(cv.pager.PageCount())
	cv.dots.Page = cv.pager.Page() - 1
	cv.clampCursor()
}

func (cv *catalogView) clampCursor() {
	cv.cursor = min(cv.cursor, len(cv.pager.Visible())-1)
	cv.cursor = max(cv.cursor, 0)
}

func (cv *catalogView) selected() (session.Session, bool) {
	rows := cv.pager.Visible()
	if cv.cursor < 0 || cv.cursor >= len(rows) {
		return session.Session{}, false
	}

	return rows[cv.cursor], true
}

func (cv *catalogView) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
		cv.filtering = false
		cv.filter.Blur()

		return nil
	}

	var cmd tea.Cmd
	cv.filter, cmd = cv.filter.Update(msg)
	cv.pager.SetFilter(cv.filter.Value())
	cv.clampCursor()

	return cmd
}

//nolint:cyclop // flat key dispatch
func (cv *catalogView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if item, ok := cv.selected(); ok && cv.viewer.MenuOpen(item.ID) {
		switch {
		case key.Matches(msg, cv.keys.ViewTranscript):
			return cv.open(item, viewer.KindTranscript)
		case key.Matches(msg, cv.keys.ViewNotes):
			return cv.open(item, viewer.KindNotes)
		case key.Matches(msg, cv.keys.Cancel):
			cv.viewer.CloseMenu()
			return nil
		}
	}

	switch {
	case key.Matches(msg, cv.keys.Up):
		cv.viewer.CloseMenu()
		cv.cursor = max(cv.cursor-1, 0)
	case key.Matches(msg, cv.keys.Down):
		cv.viewer.CloseMenu()
		cv.cursor++
		cv.clampCursor()
	case key.Matches(msg, cv.keys.PrevPage):
		if req, ok := cv.pager.Prev(); ok {
			return cv.fetch(req)
		}
	case key.Matches(msg, cv.keys.NextPage):
		if req, ok := cv.pager.Next(); ok {
			return cv.fetch(req)
		}
	case key.Matches(msg, cv.keys.SmallerPages):
		return cv.fetch(cv.pager.SetPageSize(stepPageSize(cv.pager.PageSize(), -1)))
	case key.Matches(msg, cv.keys.LargerPages):
		return cv.fetch(cv.pager.SetPageSize(stepPageSize(cv.pager.PageSize(), 1)))
	case key.Matches(msg, cv.keys.Refresh):
		return cv.fetch(cv.pager.Enter())
	case key.Matches(msg, cv.keys.Filter):
		cv.filtering = true
		return cv.filter.Focus()
	case key.Matches(msg, cv.keys.Menu):
		if item, ok := cv.selected(); ok {
			cv.viewer.ToggleMenu(item.ID)
		}
	}

	return nil
}

func stepPageSize(current, dir int) int {
	idx := 0
	for i, size := range pageSizes {
		if size <= current {
			idx = i
		}
	}

	idx = min(max(idx+dir, 0), len(pageSizes)-1)

	return pageSizes[idx]
}

// open starts a detail fetch for an offered action.
func (cv *catalogView) open(item session.Session, kind viewer.Kind) tea.Cmd {
	for _, action := range viewer.Actions(item) {
		if action.Kind == kind && !action.Enabled {
			cv.status = cv.status.Stop(kind.String() + " not available for this session.")
			return nil
		}
	}

	var req viewer.Request
	if kind == viewer.KindTranscript {
		var err error
		if req, err = cv.viewer.OpenTranscript(item); err != nil {
			// The viewer keeps the guidance message for display.
			return nil
		}
	} else {
		req = cv.viewer.OpenNotes(item)
	}

	gw := cv.gw
	ctx := cv.ctx

	return func() tea.Msg {
		return detailMsg{req: req, res: viewer.Fetch(ctx, gw, req)}
	}
}

func (cv *catalogView) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Sessions"))
	sb.WriteString(style.Muted.Render(fmt.Sprintf("  %d total, %d per page", cv.pager.Total(), cv.pager.PageSize())))
	sb.WriteString("\n\n")

	if cv.filtering || cv.pager.Filter() != "" {
		sb.WriteString(cv.filter.View())
		sb.WriteString("\n\n")
	}

	rows := cv.pager.Visible()
	if len(rows) == 0 && cv.pager.Total() > 0 {
		sb.WriteString(style.Muted.Render("No sessions on this page match the filter."))
		sb.WriteString("\n")
	}

	for i, item := range rows {
		sb.WriteString(cv.renderRow(i, item))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(cv.renderPager())
	sb.WriteString("\n")

	sb.WriteString(cv.status.View())
	if msg := cv.viewer.Message(); msg != "" && cv.viewer.Phase() == viewer.Closed {
		sb.WriteString("\n")
		sb.WriteString(style.Warning.Render(msg))
	}
	sb.WriteString("\n\n")

	sb.WriteString(renderKeyHelpLine(cv.keys.Up, cv.keys.Down, cv.keys.PrevPage, cv.keys.NextPage, cv.keys.Menu))
	sb.WriteString("\n")
	sb.WriteString(renderKeyHelpLine(cv.keys.SmallerPages, cv.keys.LargerPages, cv.keys.Filter, cv.keys.Refresh))

	return sb.String()
}

func (cv *catalogView) renderRow(i int, item session.Session) string {
	title := item.Title
	if title == "" {
		title = "Session " + item.ID
	}

	line := fmt.Sprintf("%-28s %-12s %-13s %9s",
		truncate(title, 28),
		item.Status,
		format.SessionDate(item.SessionDate),
		format.Duration(item.DurationSeconds),
	)

	marker := "  "
	if i == cv.cursor {
		marker = "> "
		line = style.Selected.Render(line)
	}

	out := marker + line
	if cv.viewer.MenuOpen(item.ID) {
		out += "\n" + cv.renderMenu(item)
	}

	return out
}

func (cv *catalogView) renderMenu(item session.Session) string {
	entries := make([]string, 0, 2)
	for _, action := range viewer.Actions(item) {
		binding := cv.keys.ViewNotes
		if action.Kind == viewer.KindTranscript {
			binding = cv.keys.ViewTranscript
		}

		if action.Enabled {
			entries = append(entries, renderKeyHelp(binding))
		} else {
			entries = append(entries, style.Muted.Render(action.Label+" (unavailable)"))
		}
	}

	return "    " + style.Menu.Render(strings.Join(entries, "  "))
}

func (cv *catalogView) renderPager() string {
	var pager uictl.Stepper[int] = cv.pager

	var sb strings.Builder

	prev := style.Muted.Render("‹ prev")
	if pager.CanPrev() {
		prev = style.Key.Render("‹ prev")
	}

	next := style.Muted.Render("next ›")
	if pager.CanNext() {
		next = style.Key.Render("next ›")
	}

	sb.WriteString(prev)
	sb.WriteString("  Page " + uictl.Position[int](pager) + "  ")
	sb.WriteString(next)

	if cv.pager.PageCount() > 1 {
		sb.WriteString("  ")
		sb.WriteString(cv.dots.View())
	}

	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
