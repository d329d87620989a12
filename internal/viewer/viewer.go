// Package viewer owns the on-demand detail view of one catalog session.
//
// A Viewer is closed, loading or open. Every fetch is tagged with a Request;
// a result for anything other than the latest request is dropped, so a slow
// response can never reopen a viewer that was closed or moved on.
package viewer

import (
	"context"
	"errors"
	"fmt"

	"github.com/alkime/sessions/internal/format"
	"github.com/alkime/sessions/internal/gateway"
	"github.com/alkime/sessions/internal/session"
)

// ErrNoFileKey is guidance for a transcript request on a session that has no
// storage key.
var ErrNoFileKey = errors.New("This session has no transcript file.") //nolint:stylecheck,revive // user-facing text

// Kind selects what the viewer shows.
type Kind int

const (
	KindNotes Kind = iota
	KindTranscript
)

func (k Kind) String() string {
	if k == KindTranscript {
		return "Transcript"
	}

	return "Notes"
}

// Phase is the viewer lifecycle.
type Phase int

const (
	Closed Phase = iota
	Loading
	Open
)

// Row is one transcript segment prepared for display.
type Row struct {
	Speaker  string
	Timecode string
	Text     string
}

// Content is what an open viewer displays. Markdown is set for notes,
// Segments for transcripts.
type Content struct {
	Kind     Kind
	Title    string
	Markdown string
	Segments []session.Segment
}

// Rows renders transcript segments as structured rows.
func (c Content) Rows() []Row {
	rows := make([]Row, 0, len(c.Segments))
	for _, seg := range c.Segments {
		rows = append(rows, Row{
			Speaker:  format.Speaker(seg.Speaker),
			Timecode: format.Timecode(seg.Timestamp.Start) + "-" + format.Timecode(seg.Timestamp.End),
			Text:     seg.Text,
		})
	}

	return rows
}

// Text is the flattened presentation: markdown for notes, one line per
// segment for transcripts.
func (c Content) Text() string {
	if c.Kind == KindNotes {
		return c.Markdown
	}

	return format.Segments(c.Segments)
}

// Request is one tagged viewer fetch.
type Request struct {
	Seq       uint64
	Kind      Kind
	SessionID string
	FileKey   string
	Title     string
}

// Result is the outcome of a Request.
type Result struct {
	Markdown string
	Segments []session.Segment
	Err      error
}

// Fetch performs the request against the gateway.
func Fetch(ctx context.Context, gw gateway.Gateway, req Request) Result {
	if req.Kind == KindTranscript {
		segments, err := gw.GetTranscript(ctx, req.FileKey)
		return Result{Segments: segments, Err: err}
	}

	notes, err := gw.GetNotes(ctx, req.SessionID)

	return Result{Markdown: notes.Markdown, Err: err}
}

// Viewer is the detail view state plus the catalog row action menu.
type Viewer struct {
	phase   Phase
	content Content
	message string

	seq     uint64
	pending Request

	menuRow string
}

// New returns a closed viewer.
func New() *Viewer {
	return &Viewer{}
}

func title(kind Kind, item session.Session) string {
	name := item.Title
	if name == "" {
		name = "Session " + item.ID
	}

	return fmt.Sprintf("%s: %s", kind, name)
}

// OpenNotes starts fetching notes for the item.
func (v *Viewer) OpenNotes(item session.Session) Request {
	return v.open(Request{Kind: KindNotes, SessionID: item.ID, FileKey: item.FileKey, Title: title(KindNotes, item)})
}

// OpenTranscript starts fetching the item's transcript. Without a file key
// nothing is fetched and the viewer is left as it was.
func (v *Viewer) OpenTranscript(item session.Session) (Request, error) {
	if item.FileKey == "" {
		v.message = ErrNoFileKey.Error()
		return Request{}, ErrNoFileKey
	}

	return v.open(Request{
		Kind:      KindTranscript,
		SessionID: item.ID,
		FileKey:   item.FileKey,
		Title:     title(KindTranscript, item),
	}), nil
}

func (v *Viewer) open(req Request) Request {
	v.seq++
	req.Seq = v.seq

	v.pending = req
	v.phase = Loading
	v.content = Content{}
	v.message = ""
	v.menuRow = ""

	return req
}

// Receive applies a fetch result and reports whether it was current. A
// failure leaves the viewer closed with a status message.
func (v *Viewer) Receive(req Request, res Result) bool {
	if v.phase != Loading || req != v.pending {
		return false
	}

	if res.Err != nil {
		v.phase = Closed
		v.message = gateway.Message(res.Err)

		return true
	}

	v.phase = Open
	v.content = Content{Kind: req.Kind, Title: req.Title, Markdown: res.Markdown, Segments: res.Segments}
	if v.content.Kind == KindTranscript && v.content.Segments == nil {
		v.content.Segments = []session.Segment{}
	}

	return true
}

// Close discards any content and abandons a fetch in flight.
func (v *Viewer) Close() {
	v.phase = Closed
	v.content = Content{}
	v.pending = Request{}
}

func (v *Viewer) Phase() Phase {
	return v.phase
}

// Content returns what is displayed. It is the zero value unless open.
func (v *Viewer) Content() Content {
	return v.content
}

func (v *Viewer) Message() string {
	return v.message
}

// ToggleMenu opens the action menu for a row, closing any other row's menu.
// Toggling the open row closes it.
func (v *Viewer) ToggleMenu(rowID string) {
	if v.menuRow == rowID {
		v.menuRow = ""
		return
	}

	v.menuRow = rowID
}

func (v *Viewer) CloseMenu() {
	v.menuRow = ""
}

// MenuOpen reports whether rowID's action menu is expanded.
func (v *Viewer) MenuOpen(rowID string) bool {
	return rowID != "" && v.menuRow == rowID
}

// MenuRow returns the row whose menu is open, or "".
func (v *Viewer) MenuRow() string {
	return v.menuRow
}

// Action is one entry in a row's action menu.
type Action struct {
	Kind    Kind
	Label   string
	Enabled bool
}

// Actions lists the menu entries for a catalog row, gated on what the server
// reports as available.
func Actions(item session.Session) []Action {
	return []Action{
		{Kind: KindTranscript, Label: "View transcript", Enabled: item.TranscriptAvailable && item.FileKey != ""},
		{Kind: KindNotes, Label: "View notes", Enabled: item.NotesAvailable},
	}
}
