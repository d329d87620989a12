// Package workflow tracks one in-progress session through its processing
// stages.
//
// Every transition is a pure function over State. Trigger starts a stage and
// hands back a Ticket describing the remote call to make; Resolve applies the
// call's outcome. A Resolution is applied only while its ticket still matches
// the workflow generation and session it was issued for, so results that
// arrive after a newer upload are dropped.
package workflow

import (
	"errors"

	"github.com/alkime/sessions/internal/format"
	"github.com/alkime/sessions/internal/gateway"
	"github.com/alkime/sessions/internal/session"
)

// Guidance errors. Their text is shown as-is and they never fail a stage.
var (
	ErrNoFile       = errors.New("Please choose an audio file.")      //nolint:stylecheck,revive // user-facing text
	ErrNoSession    = errors.New("Upload an audio file first.")       //nolint:stylecheck,revive // user-facing text
	ErrStageRunning = errors.New("That step is already in progress.") //nolint:stylecheck,revive // user-facing text
)

// State is the full workflow record. The zero value is a fresh workflow.
type State struct {
	// File is the local path chosen for the next upload.
	File string

	// Generation increments on every upload trigger.
	Generation uint64

	Session  session.Session
	Stages   [stageCount]Status
	Draft    string
	Segments []session.Segment
	Notes    *session.Notes
	Ack      *session.Ack
	Message  string
}

// Status returns the status of one stage.
func (s State) Status(stage Stage) Status {
	return s.Stages[stage]
}

// HasSession reports whether an upload has succeeded in this generation.
func (s State) HasSession() bool {
	return s.Session.ID != ""
}

// Busy reports whether any stage is running.
func (s State) Busy() bool {
	for _, st := range s.Stages {
		if st.Phase == PhaseRunning {
			return true
		}
	}

	return false
}

// Ticket identifies one issued remote call.
type Ticket struct {
	Stage      Stage
	Generation uint64
	SessionID  string
	File       string
}

// Resolution is the outcome of a ticket's remote call. Exactly one payload
// field is meaningful, selected by the ticket's stage, unless Err is set.
type Resolution struct {
	Ticket   Ticket
	Session  session.Session
	Segments []session.Segment
	Notes    session.Notes
	Ack      session.Ack
	Err      error
}

// SelectFile records the file for the next upload.
func SelectFile(s State, path string) State {
	s.File = path
	return s
}

// Trigger starts a stage. A guidance error leaves the state unchanged apart
// from Message, and no ticket is issued.
func Trigger(s State, stage Stage) (State, Ticket, error) {
	if stage == StageUpload {
		return triggerUpload(s)
	}

	if !s.HasSession() {
		s.Message = ErrNoSession.Error()
		return s, Ticket{}, ErrNoSession
	}

	if s.Stages[stage].Phase == PhaseRunning {
		s.Message = ErrStageRunning.Error()
		return s, Ticket{}, ErrStageRunning
	}

	s.Stages[stage] = Status{Phase: PhaseRunning}
	s.Message = stage.runningMessage()

	return s, Ticket{Stage: stage, Generation: s.Generation, SessionID: s.Session.ID}, nil
}

// triggerUpload supersedes everything the workflow held.
func triggerUpload(s State) (State, Ticket, error) {
	if s.File == "" {
		s.Message = ErrNoFile.Error()
		return s, Ticket{}, ErrNoFile
	}

	next := State{
		File:       s.File,
		Generation: s.Generation + 1,
		Message:    StageUpload.runningMessage(),
	}
	next.Stages[StageUpload] = Status{Phase: PhaseRunning}

	return next, Ticket{Stage: StageUpload, Generation: next.Generation, File: s.File}, nil
}

// IsCurrent reports whether a ticket still targets the state's generation
// and session.
func IsCurrent(s State, t Ticket) bool {
	if t.Generation != s.Generation {
		return false
	}

	if t.Stage == StageUpload {
		return s.Stages[StageUpload].Phase == PhaseRunning
	}

	return t.SessionID == s.Session.ID
}

// Resolve applies a resolution. Stale resolutions leave the state untouched
// and report false.
func Resolve(s State, r Resolution) (State, bool) {
	if !IsCurrent(s, r.Ticket) {
		return s, false
	}

	stage := r.Ticket.Stage
	if stage == StageUpload && r.Err == nil && r.Session.ID == "" {
		r.Err = &gateway.Error{Op: gateway.OpUpload, Err: gateway.ErrMalformedResponse}
	}

	if r.Err != nil {
		reason := gateway.Message(r.Err)
		s.Stages[stage] = Status{Phase: PhaseFailed, Reason: reason}
		s.Message = reason

		return s, true
	}

	switch stage {
	case StageUpload:
		s.Session = r.Session
	case StageTranscribe, StageDiarize:
		s.Segments = r.Segments
		s.Draft = format.Segments(r.Segments)
	case StageNotes:
		notes := r.Notes
		s.Notes = &notes
		s.Draft = notes.Markdown
	case StageProcessLarge:
		ack := r.Ack
		s.Ack = &ack
	}

	s.Stages[stage] = Status{Phase: PhaseSucceeded}
	s.Message = stage.doneMessage()

	return s, true
}

// Output returns what a successful resolution should be kept as locally.
// Only transcript and notes stages produce one.
func (r Resolution) Output() (session.Output, bool) {
	if r.Err != nil {
		return session.Output{}, false
	}

	out := session.Output{SessionID: r.Ticket.SessionID, Stage: r.Ticket.Stage.String()}
	switch r.Ticket.Stage {
	case StageTranscribe, StageDiarize:
		out.Content = format.Segments(r.Segments)
	case StageNotes:
		out.Content = r.Notes.Markdown
	default:
		return session.Output{}, false
	}

	return out, true
}
