package viewer_test

import (
	"context"
	"testing"

	"github.com/alkime/sessions/internal/format"
	"github.com/alkime/sessions/internal/gateway"
	"github.com/alkime/sessions/internal/gateway/gatewaytest"
	"github.com/alkime/sessions/internal/session"
	"github.com/alkime/sessions/internal/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	item = session.Session{
		ID: "7", FileKey: "abc123", Title: "Intake",
		NotesAvailable: true, TranscriptAvailable: true,
	}

	segments = []session.Segment{
		{Speaker: "SPEAKER_00", Text: "Hello there", Timestamp: session.Timestamp{Start: 0, End: 1.25}},
		{Text: "Unlabelled", Timestamp: session.Timestamp{Start: 61, End: 62.5}},
	}
)

func TestOpenNotes(t *testing.T) {
	v := viewer.New()

	req := v.OpenNotes(item)
	assert.Equal(t, viewer.Loading, v.Phase())
	assert.Equal(t, "7", req.SessionID)

	require.True(t, v.Receive(req, viewer.Result{Markdown: "# Note"}))
	assert.Equal(t, viewer.Open, v.Phase())

	content := v.Content()
	assert.Equal(t, viewer.KindNotes, content.Kind)
	assert.Equal(t, "Notes: Intake", content.Title)
	assert.Equal(t, "# Note", content.Text())
}

func TestOpenNotesFailureStaysClosed(t *testing.T) {
	v := viewer.New()

	req := v.OpenNotes(item)
	require.True(t, v.Receive(req, viewer.Result{
		Err: &gateway.Error{Op: gateway.OpGetNotes, StatusCode: 404, Detail: "Session notes not found"},
	}))

	assert.Equal(t, viewer.Closed, v.Phase())
	assert.Equal(t, "Session notes not found", v.Message())
	assert.Equal(t, viewer.Content{}, v.Content())
}

func TestOpenTranscript(t *testing.T) {
	v := viewer.New()

	req, err := v.OpenTranscript(item)
	require.NoError(t, err)
	assert.Equal(t, "abc123", req.FileKey)

	require.True(t, v.Receive(req, viewer.Result{Segments: segments}))

	content := v.Content()
	assert.Equal(t, "Transcript: Intake", content.Title)
	assert.Equal(t, []viewer.Row{
		{Speaker: "Speaker 00", Timecode: "00:00.00-00:01.25", Text: "Hello there"},
		{Speaker: "Speaker", Timecode: "01:01.00-01:02.50", Text: "Unlabelled"},
	}, content.Rows())
	assert.Equal(t, format.Segments(segments), content.Text())
}

func TestOpenTranscriptWithoutFileKey(t *testing.T) {
	stub := &gatewaytest.Stub{}
	v := viewer.New()

	_, err := v.OpenTranscript(session.Session{ID: "8", Title: "No key"})

	require.ErrorIs(t, err, viewer.ErrNoFileKey)
	assert.Equal(t, viewer.Closed, v.Phase())
	assert.Equal(t, viewer.ErrNoFileKey.Error(), v.Message())
	assert.Empty(t, stub.Calls())
}

func TestCloseDiscardsAndDropsLateResult(t *testing.T) {
	v := viewer.New()

	req := v.OpenNotes(item)
	require.True(t, v.Receive(req, viewer.Result{Markdown: "# Note"}))

	v.Close()
	assert.Equal(t, viewer.Closed, v.Phase())
	assert.Equal(t, viewer.Content{}, v.Content())

	again := v.OpenNotes(item)
	assert.NotEqual(t, req.Seq, again.Seq, "reopening always refetches")
	v.Close()

	assert.False(t, v.Receive(again, viewer.Result{Markdown: "# Late"}))
	assert.Equal(t, viewer.Closed, v.Phase())
}

func TestNewerOpenWins(t *testing.T) {
	v := viewer.New()

	notes := v.OpenNotes(item)
	transcript, err := v.OpenTranscript(item)
	require.NoError(t, err)

	assert.False(t, v.Receive(notes, viewer.Result{Markdown: "# Stale"}))
	require.True(t, v.Receive(transcript, viewer.Result{}))

	assert.Equal(t, viewer.KindTranscript, v.Content().Kind)
	assert.NotNil(t, v.Content().Segments)
	assert.Empty(t, v.Content().Text())
}

func TestActionMenuExclusive(t *testing.T) {
	v := viewer.New()

	v.ToggleMenu("1")
	assert.True(t, v.MenuOpen("1"))

	v.ToggleMenu("2")
	assert.False(t, v.MenuOpen("1"))
	assert.True(t, v.MenuOpen("2"))
	assert.Equal(t, "2", v.MenuRow())

	v.ToggleMenu("2")
	assert.False(t, v.MenuOpen("2"))
	assert.Empty(t, v.MenuRow())

	v.ToggleMenu("3")
	v.OpenNotes(item)
	assert.Empty(t, v.MenuRow(), "choosing an action collapses the menu")
}

func TestActions(t *testing.T) {
	actions := viewer.Actions(session.Session{ID: "1", FileKey: "k", NotesAvailable: true})

	require.Len(t, actions, 2)
	assert.Equal(t, viewer.KindTranscript, actions[0].Kind)
	assert.False(t, actions[0].Enabled)
	assert.True(t, actions[1].Enabled)
}

func TestFetch(t *testing.T) {
	stub := &gatewaytest.Stub{
		GetNotesFunc: func(id string) (session.Notes, error) {
			return session.Notes{SessionID: id, Markdown: "# From server"}, nil
		},
		GetTranscriptFunc: func(string) ([]session.Segment, error) {
			return segments, nil
		},
	}
	v := viewer.New()
	ctx := context.Background()

	req := v.OpenNotes(item)
	res := viewer.Fetch(ctx, stub, req)
	assert.Equal(t, "# From server", res.Markdown)

	req, err := v.OpenTranscript(item)
	require.NoError(t, err)
	res = viewer.Fetch(ctx, stub, req)
	assert.Equal(t, segments, res.Segments)

	assert.Equal(t, []string{"get-notes 7", "get-transcript abc123"}, stub.Calls())
}
