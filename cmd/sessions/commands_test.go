package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alkime/sessions/internal/config"
	"github.com/alkime/sessions/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

// newGlobals points every command at an in-memory API and a temp data dir.
func newGlobals(t *testing.T) (*Globals, *bytes.Buffer) {
	t.Helper()

	gokeyring.MockInit()
	gin.SetMode(gin.TestMode)

	t.Setenv("ENV", "test")
	t.Setenv("RESOLVE_REMOTE_CONFIG", "false")
	t.Setenv("SESSIONS_API_TOKEN", "")

	cfg := &config.Config{Env: "test", Port: "0", APIBaseURL: "http://127.0.0.1:8000/api/v1"}
	srv := server.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	var buf bytes.Buffer

	return &Globals{
		BaseURL: ts.URL + server.APIPrefix,
		DataDir: t.TempDir(),
		stdout:  &buf,
	}, &buf
}

func audioFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "intake.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3\x04\x00\x00\x00\x00\x00\x00 audio frames"), 0o600))

	return path
}

func TestUploadRunsStagesAndRecordsHistory(t *testing.T) {
	g, out := newGlobals(t)

	upload := &UploadCmd{File: audioFile(t), Diarize: true, Notes: true}
	require.NoError(t, upload.Run(g))

	text := out.String()
	assert.Contains(t, text, "Upload complete.")
	assert.Contains(t, text, "Diarization complete.")
	assert.Contains(t, text, "Notes generated.")
	assert.Contains(t, text, "session 1 (file key ")
	assert.Contains(t, text, "# Session Notes")

	out.Reset()
	require.NoError(t, (&HistoryCmd{ID: "1"}).Run(g))
	assert.Contains(t, out.String(), "== diarize")
	assert.Contains(t, out.String(), "== notes")

	out.Reset()
	require.NoError(t, (&HistoryCmd{ID: "1", Stage: "notes"}).Run(g))
	assert.Contains(t, out.String(), "# Session Notes")

	out.Reset()
	require.NoError(t, (&HistoryCmd{ID: "1", Stage: "transcribe"}).Run(g))
	assert.Equal(t, "no transcribe output saved for session 1\n", out.String())

	err := (&HistoryCmd{ID: "1", Stage: "bogus"}).Run(g)
	assert.Error(t, err)
}

func TestUploadOfUnreadableFileFails(t *testing.T) {
	g, _ := newGlobals(t)

	err := (&UploadCmd{File: filepath.Join(t.TempDir(), "missing.mp3")}).Run(g)
	require.Error(t, err)
	assert.Equal(t, "Cannot read missing.mp3", err.Error())
}

func TestListNotesAndTranscript(t *testing.T) {
	g, out := newGlobals(t)

	err := (&ListCmd{Page: 1}).Run(g)
	require.NoError(t, err)
	assert.Equal(t, "No sessions yet.\n", out.String())

	require.NoError(t, (&UploadCmd{File: audioFile(t), Diarize: true}).Run(g))

	_, rest, found := strings.Cut(out.String(), "(file key ")
	require.True(t, found)
	fileKey, _, found := strings.Cut(rest, ")")
	require.True(t, found)

	out.Reset()
	require.NoError(t, (&ListCmd{Page: 1}).Run(g))
	assert.Contains(t, out.String(), "intake.mp3")
	assert.Contains(t, out.String(), "page 1/1, 1 total")

	err = (&NotesCmd{ID: "1"}).Run(g)
	require.Error(t, err)

	err = (&NotesCmd{ID: "404"}).Run(g)
	require.Error(t, err)
	assert.Equal(t, "Session not found", err.Error())

	out.Reset()
	require.NoError(t, (&TranscriptCmd{FileKey: fileKey}).Run(g))
	assert.Contains(t, out.String(), "Speaker 00")

	out.Reset()
	require.NoError(t, (&TranscriptCmd{FileKey: fileKey, Flat: true}).Run(g))
	assert.Contains(t, out.String(), " : Speaker 00 ")

	err = (&TranscriptCmd{FileKey: ""}).Run(g)
	require.Error(t, err)
	assert.Equal(t, "This session has no transcript file.", err.Error())
}

func TestThemeIsPersisted(t *testing.T) {
	g, out := newGlobals(t)

	require.NoError(t, (&ThemeCmd{}).Run(g))
	assert.Equal(t, "light\n", out.String())

	out.Reset()
	require.NoError(t, (&ThemeCmd{Theme: "dark"}).Run(g))
	assert.Equal(t, "theme set to dark\n", out.String())

	out.Reset()
	require.NoError(t, (&ThemeCmd{}).Run(g))
	assert.Equal(t, "dark\n", out.String())
}

func TestConfigTokenAndShow(t *testing.T) {
	g, out := newGlobals(t)

	require.Error(t, (&SetTokenCmd{Secret: "  "}).Run(g))

	require.NoError(t, (&ShowCmd{}).Run(g))
	assert.Contains(t, out.String(), "api token:  not set")
	assert.Contains(t, out.String(), "base url:   "+g.BaseURL)

	require.NoError(t, (&SetTokenCmd{Secret: "s3cret"}).Run(g))

	out.Reset()
	require.NoError(t, (&ShowCmd{}).Run(g))
	assert.Contains(t, out.String(), "api token:  configured")
}

func TestPageSizeFlagIsValidated(t *testing.T) {
	g, _ := newGlobals(t)
	g.PageSize = 500

	err := (&ListCmd{Page: 1}).Run(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGE_SIZE must be between 1 and 100")
}

func TestUnknownThemeIsRejected(t *testing.T) {
	g, _ := newGlobals(t)

	err := (&ThemeCmd{Theme: "sepia"}).Run(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "sepia"`)
}
