package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alkime/sessions/internal/format"
	"github.com/alkime/sessions/internal/tui/components/labeledspinner"
	"github.com/alkime/sessions/internal/tui/style"
	"github.com/alkime/sessions/internal/workflow"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// workflowChrome is the number of lines around the draft viewport.
const workflowChrome = 18

var stageLabels = map[workflow.Stage]string{
	workflow.StageUpload:       "Upload",
	workflow.StageTranscribe:   "Transcribe",
	workflow.StageDiarize:      "Diarize",
	workflow.StageNotes:        "Notes",
	workflow.StageProcessLarge: "Process large",
}

type workflowView struct {
	ctx     context.Context
	logger  *slog.Logger
	exec    *workflow.Executor
	outputs OutputRecorder

	state   workflow.State
	input   textinput.Model
	editing bool
	draft   viewport.Model
	status  labeledspinner.Model
	keys    workflowKeyMap
}

func newWorkflowView(deps Deps, exec *workflow.Executor) *workflowView {
	input := textinput.New()
	input.Placeholder = "/path/to/recording.mp3"
	input.Prompt = "File: "
	input.SetValue(deps.File)

	wv := &workflowView{
		ctx:     deps.Context,
		logger:  deps.Logger,
		exec:    exec,
		outputs: deps.Outputs,
		state:   workflow.SelectFile(workflow.State{}, deps.File),
		input:   input,
		draft:   viewport.New(76, 6),
		status:  labeledspinner.New(spinner.Dot, deps.Notice),
		keys:    defaultWorkflowKeyMap(),
	}

	if deps.File == "" {
		wv.editing = true
		wv.input.Focus()
	}

	return wv
}

func (wv *workflowView) Init() tea.Cmd {
	if wv.editing {
		return textinput.Blink
	}

	return nil
}

// Capturing reports whether keys go to the file input.
func (wv *workflowView) Capturing() bool {
	return wv.editing
}

func (wv *workflowView) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		w, h := viewportSize(msg.Width, msg.Height, workflowChrome)
		wv.draft.Width = w
		wv.draft.Height = h
		wv.refreshDraft()

		return wv, nil

	case stageDoneMsg:
		return wv, wv.resolve(msg.res)

	case spinner.TickMsg:
		var cmd tea.Cmd
		wv.status, cmd = wv.status.Update(msg)

		return wv, cmd

	case tea.KeyMsg:
		if wv.editing {
			return wv, wv.handleEditingKey(msg)
		}

		return wv, wv.handleKey(msg)
	}

	return wv, nil
}

func (wv *workflowView) handleEditingKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, wv.keys.Confirm):
		wv.state = workflow.SelectFile(wv.state, strings.TrimSpace(wv.input.Value()))
		wv.editing = false
		wv.input.Blur()

		return nil

	case key.Matches(msg, wv.keys.Cancel):
		wv.input.SetValue(wv.state.File)
		wv.editing = false
		wv.input.Blur()

		return nil
	}

	var cmd tea.Cmd
	wv.input, cmd = wv.input.Update(msg)

	return cmd
}

func (wv *workflowView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, wv.keys.EditFile):
		wv.editing = true
		return wv.input.Focus()
	case key.Matches(msg, wv.keys.Upload):
		return wv.trigger(workflow.StageUpload)
	case key.Matches(msg, wv.keys.Transcribe):
		return wv.trigger(workflow.StageTranscribe)
	case key.Matches(msg, wv.keys.Diarize):
		return wv.trigger(workflow.StageDiarize)
	case key.Matches(msg, wv.keys.Notes):
		return wv.trigger(workflow.StageNotes)
	case key.Matches(msg, wv.keys.ProcessLarge):
		return wv.trigger(workflow.StageProcessLarge)
	}

	var cmd tea.Cmd
	wv.draft, cmd = wv.draft.Update(msg)

	return cmd
}

func (wv *workflowView) trigger(stage workflow.Stage) tea.Cmd {
	state, ticket, err := workflow.Trigger(wv.state, stage)
	wv.state = state

	if err != nil {
		if !state.Busy() {
			wv.status = wv.status.Stop(state.Message)
		} else {
			wv.status.Label = state.Message
		}

		return nil
	}

	if stage == workflow.StageUpload {
		wv.refreshDraft()
	}

	var spin tea.Cmd
	wv.status, spin = wv.status.Start(state.Message)

	exec := wv.exec
	ctx := wv.ctx

	return tea.Batch(spin, func() tea.Msg {
		return stageDoneMsg{res: exec.Execute(ctx, ticket)}
	})
}

func (wv *workflowView) resolve(res workflow.Resolution) tea.Cmd {
	state, applied := workflow.Resolve(wv.state, res)
	if !applied {
		wv.logger.Debug("Dropped stale stage result",
			"stage", res.Ticket.Stage, "generation", res.Ticket.Generation, "session_id", res.Ticket.SessionID)

		return nil
	}

	wv.state = state
	wv.refreshDraft()

	if state.Busy() {
		wv.status.Label = state.Message
	} else {
		wv.status = wv.status.Stop(state.Message)
	}

	out, ok := res.Output()
	if !ok || wv.outputs == nil {
		return nil
	}

	outputs := wv.outputs
	ctx := wv.ctx

	return func() tea.Msg {
		return outputSavedMsg{out: out, err: outputs.SaveOutput(ctx, out)}
	}
}

func (wv *workflowView) refreshDraft() {
	wv.draft.SetContent(wrapText(wv.state.Draft, wv.draft.Width))
}

func (wv *workflowView) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Session workflow"))
	sb.WriteString("\n\n")

	if wv.editing {
		sb.WriteString(wv.input.View())
	} else {
		file := wv.state.File
		if file == "" {
			file = "none chosen"
		}
		sb.WriteString(style.Label.Render("File: "))
		sb.WriteString(style.Muted.Render(file))
	}
	sb.WriteString("\n")

	sb.WriteString(wv.renderSession())
	sb.WriteString("\n\n")

	for _, stage := range workflow.Stages {
		sb.WriteString(wv.renderStage(stage))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(wv.status.View())
	sb.WriteString("\n\n")

	if wv.state.Draft != "" {
		sb.WriteString(style.Label.Render("Draft"))
		sb.WriteString("\n")
		sb.WriteString(style.Viewport.Render(wv.draft.View()))
		sb.WriteString("\n\n")
	}

	sb.WriteString(wv.renderHelp())

	return sb.String()
}

func (wv *workflowView) renderSession() string {
	s := wv.state.Session
	if !wv.state.HasSession() {
		return style.Label.Render("Session: ") + style.Muted.Render(format.Placeholder)
	}

	line := style.Label.Render("Session: ") + fmt.Sprintf("%s  %s  %s",
		s.ID,
		style.Muted.Render("key "+s.FileKey),
		s.Title,
	)

	if ack := wv.state.Ack; ack != nil && ack.TaskID != "" {
		line += "\n" + style.Label.Render("Large audio task: ") + style.Muted.Render(ack.TaskID+" ("+ack.Status+")")
	}

	return line
}

func (wv *workflowView) renderStage(stage workflow.Stage) string {
	status := wv.state.Status(stage)
	label := fmt.Sprintf("%-14s", stageLabels[stage])

	switch status.Phase {
	case workflow.PhaseRunning:
		return wv.status.Spinner.View() + " " + style.Label.Render(label) + style.Subtitle.Render("running")
	case workflow.PhaseSucceeded:
		return "✓ " + style.Label.Render(label) + style.Success.Render("done")
	case workflow.PhaseFailed:
		return "✗ " + style.Label.Render(label) + style.Error.Render(status.Reason)
	default:
		return "· " + style.Muted.Render(label+"idle")
	}
}

func (wv *workflowView) renderHelp() string {
	if wv.editing {
		return renderKeyHelpLine(wv.keys.Confirm, wv.keys.Cancel)
	}

	return renderKeyHelpLine(wv.keys.EditFile, wv.keys.Upload, wv.keys.Transcribe,
		wv.keys.Diarize, wv.keys.Notes, wv.keys.ProcessLarge)
}
