package tui

import (
	"strings"

	"github.com/alkime/sessions/internal/tui/style"
	"github.com/alkime/sessions/internal/viewer"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// detailChrome is the number of lines around the detail viewport.
const detailChrome = 10

// detailView is the overlay for an open viewer.Viewer. It shares the viewer
// with the catalog view, which issues the requests.
type detailView struct {
	viewer   *viewer.Viewer
	viewport viewport.Model
	flat     bool
	keys     detailKeyMap
}

func newDetailView(v *viewer.Viewer) *detailView {
	return &detailView{
		viewer:   v,
		viewport: viewport.New(76, 14),
		keys:     defaultDetailKeyMap(),
	}
}

func (dv *detailView) active() bool {
	return dv.viewer.Phase() != viewer.Closed
}

func (dv *detailView) resize(width, height int) {
	dv.viewport.Width, dv.viewport.Height = viewportSize(width, height, detailChrome)
	dv.refresh()
}

// receive applies a fetch result. Late results for a closed or superseded
// request are ignored by the viewer.
func (dv *detailView) receive(msg detailMsg) tea.Cmd {
	if !dv.viewer.Receive(msg.req, msg.res) {
		return nil
	}

	dv.flat = false
	dv.viewport.GotoTop()
	dv.refresh()

	return nil
}

func (dv *detailView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, dv.keys.Close):
		dv.viewer.Close()

		return nil

	case key.Matches(msg, dv.keys.Flat):
		if dv.viewer.Content().Kind == viewer.KindTranscript {
			dv.flat = !dv.flat
			dv.refresh()
		}

		return nil
	}

	var cmd tea.Cmd
	dv.viewport, cmd = dv.viewport.Update(msg)

	return cmd
}

func (dv *detailView) refresh() {
	if dv.viewer.Phase() != viewer.Open {
		dv.viewport.SetContent("")
		return
	}

	content := dv.viewer.Content()
	if content.Kind == viewer.KindNotes || dv.flat {
		dv.viewport.SetContent(wrapText(content.Text(), dv.viewport.Width))
		return
	}

	dv.viewport.SetContent(renderRows(content.Rows(), dv.viewport.Width))
}

func renderRows(rows []viewer.Row, width int) string {
	if len(rows) == 0 {
		return style.Muted.Render("No segments.")
	}

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(style.Label.Render(row.Speaker))
		sb.WriteString("  ")
		sb.WriteString(style.Muted.Render(row.Timecode))
		sb.WriteString("\n")
		sb.WriteString(wrapText(row.Text, width))
		sb.WriteString("\n")
	}

	return sb.String()
}

// View renders the overlay.
func (dv *detailView) View() string {
	if dv.viewer.Phase() == viewer.Loading {
		return style.Subtitle.Render("Loading...") + "\n\n" + renderKeyHelp(dv.keys.Close)
	}

	content := dv.viewer.Content()

	var sb strings.Builder

	sb.WriteString(style.Title.Render(content.Title))
	sb.WriteString("\n\n")
	sb.WriteString(style.Viewport.Render(dv.viewport.View()))
	sb.WriteString("\n\n")

	if content.Kind == viewer.KindTranscript {
		sb.WriteString(renderKeyHelpLine(dv.keys.Flat, dv.keys.Close))
	} else {
		sb.WriteString(renderKeyHelp(dv.keys.Close))
	}

	return sb.String()
}
