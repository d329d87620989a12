package gateway_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alkime/sessions/internal/config"
	"github.com/alkime/sessions/internal/gateway"
	"github.com/alkime/sessions/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// mp3Header is enough of an ID3-tagged file for content sniffing.
var mp3Header = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0}, 64)...)

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:        "test",
		APIBaseURL: "http://api.internal/api/v1",
		CSPMode:    "relaxed",
	}

	ts := httptest.NewServer(server.New(cfg, quietLogger).Router())
	t.Cleanup(ts.Close)

	return ts
}

func newClient(ts *httptest.Server, opts ...gateway.ClientOption) *gateway.Client {
	opts = append([]gateway.ClientOption{gateway.WithLogger(quietLogger)}, opts...)
	return gateway.NewClient(ts.URL+server.APIPrefix, opts...)
}

func TestNewClientDefaults(t *testing.T) {
	assert.Equal(t, gateway.DefaultBaseURL, gateway.NewClient("").BaseURL())
	assert.Equal(t, "http://host/api", gateway.NewClient(" http://host/api/ ").BaseURL())
}

func TestClientWorkflowAgainstFakeAPI(t *testing.T) {
	ts := newFakeAPI(t)
	client := newClient(ts)
	ctx := context.Background()

	uploaded, err := client.Upload(ctx, "/tmp/intake.mp3", bytes.NewReader(mp3Header))
	require.NoError(t, err)
	assert.Equal(t, "1", uploaded.ID)
	assert.NotEmpty(t, uploaded.FileKey)
	assert.Equal(t, "intake.mp3", uploaded.Title)
	assert.Equal(t, "audio/mpeg", uploaded.ContentType)

	segments, err := client.Transcribe(ctx, uploaded.ID)
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Empty(t, segments[0].Speaker)
	assert.InDelta(t, 4.25, segments[0].Timestamp.End, 0.001)

	diarized, err := client.Diarize(ctx, uploaded.ID)
	require.NoError(t, err)
	require.Len(t, diarized, 3)
	assert.Equal(t, "SPEAKER_00", diarized[0].Speaker)
	assert.Equal(t, "SPEAKER_01", diarized[1].Speaker)

	notes, err := client.GenerateNotes(ctx, uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", notes.SessionID)
	assert.Contains(t, notes.Markdown, "# Session Notes")
	assert.Len(t, notes.KeyPoints, 3)
	assert.Equal(t, []string{"Schedule a follow-up session"}, notes.ActionItems)

	fetched, err := client.GetNotes(ctx, uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, notes.Markdown, fetched.Markdown)

	transcript, err := client.GetTranscript(ctx, uploaded.FileKey)
	require.NoError(t, err)
	assert.Equal(t, diarized, transcript)

	ack, err := client.ProcessLarge(ctx, uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, "processing", ack.Status)
	assert.NotEmpty(t, ack.TaskID)

	page, err := client.ListSessions(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, uploaded.FileKey, page.Items[0].FileKey)
	assert.True(t, page.Items[0].NotesAvailable)
	assert.True(t, page.Items[0].TranscriptAvailable)
	require.NotNil(t, page.Items[0].DurationSeconds)
}

func TestListSessionsPagination(t *testing.T) {
	ts := newFakeAPI(t)
	client := newClient(ts)
	ctx := context.Background()

	for range 25 {
		_, err := client.Upload(ctx, "s.mp3", bytes.NewReader(mp3Header))
		require.NoError(t, err)
	}

	page, err := client.ListSessions(ctx, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.PageCount())
	require.Len(t, page.Items, 5)
	assert.Equal(t, "5", page.Items[0].ID, "newest first")
}

func TestServerDetailIsSurfaced(t *testing.T) {
	ts := newFakeAPI(t)
	client := newClient(ts)
	ctx := context.Background()

	_, err := client.Transcribe(ctx, "99")
	require.Error(t, err)

	var gwErr *gateway.Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusNotFound, gwErr.StatusCode)
	assert.Equal(t, gateway.OpTranscribe, gwErr.Op)
	assert.Equal(t, "Session not found", gateway.Message(err))

	_, err = client.Upload(ctx, "notes.txt", bytes.NewReader([]byte("plain text")))
	require.Error(t, err)
	assert.Equal(t, "Unsupported audio type", gateway.Message(err))
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		op      func(*gateway.Client) error
		message string
	}{
		{
			name:   "detail string",
			status: http.StatusBadRequest,
			body:   `{"detail":"Empty file"}`,
			op: func(c *gateway.Client) error {
				_, err := c.Upload(context.Background(), "a.wav", bytes.NewReader(nil))
				return err
			},
			message: "Empty file",
		},
		{
			name:   "validation list",
			status: http.StatusUnprocessableEntity,
			body:   `{"detail":[{"loc":["body","file"],"msg":"Field required"}]}`,
			op: func(c *gateway.Client) error {
				_, err := c.Upload(context.Background(), "a.wav", bytes.NewReader(mp3Header))
				return err
			},
			message: "Field required",
		},
		{
			name:   "html error page falls back to upload message",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			op: func(c *gateway.Client) error {
				_, err := c.Upload(context.Background(), "a.wav", bytes.NewReader(mp3Header))
				return err
			},
			message: "Upload failed",
		},
		{
			name:   "empty body falls back to operation message",
			status: http.StatusInternalServerError,
			op: func(c *gateway.Client) error {
				_, err := c.ListSessions(context.Background(), 1, 10)
				return err
			},
			message: "Failed to load sessions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			err := tt.op(gateway.NewClient(ts.URL, gateway.WithLogger(quietLogger)))
			require.Error(t, err)
			assert.Equal(t, tt.message, gateway.Message(err))
		})
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer ts.Close()

	_, err := gateway.NewClient(ts.URL, gateway.WithLogger(quietLogger)).GetNotes(context.Background(), "1")
	require.ErrorIs(t, err, gateway.ErrMalformedResponse)
	assert.Equal(t, "Failed to load notes", gateway.Message(err))
}

func TestNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := gateway.NewClient(url, gateway.WithLogger(quietLogger)).Diarize(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, "Diarization failed", gateway.Message(err))
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"items":[],"total":0}`))
	}))
	defer ts.Close()

	client := gateway.NewClient(ts.URL, gateway.WithLogger(quietLogger), gateway.WithToken(" secret "))
	page, err := client.ListSessions(context.Background(), 2, 5)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
	assert.Equal(t, 2, page.Page, "requested page is kept when the server omits it")
	assert.Equal(t, 5, page.PageSize)
	assert.NotNil(t, page.Items)
}

func TestResolveBaseURL(t *testing.T) {
	t.Run("server supplies base url", func(t *testing.T) {
		ts := newFakeAPI(t)

		resolved, err := gateway.ResolveBaseURL(context.Background(), ts.URL+server.APIPrefix,
			gateway.WithLogger(quietLogger))
		require.NoError(t, err)
		assert.Equal(t, "http://api.internal/api/v1", resolved)
	})

	t.Run("failure keeps default", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		resolved, err := gateway.ResolveBaseURL(context.Background(), ts.URL+"/", gateway.WithLogger(quietLogger))
		require.Error(t, err)
		assert.Equal(t, ts.URL, resolved)
		assert.Equal(t, "Using default API base URL.", gateway.Message(err))
	})
}

func TestMessage(t *testing.T) {
	assert.Empty(t, gateway.Message(nil))
	assert.Equal(t, "boom", gateway.Message(errors.New("boom")))
	assert.Equal(t, gateway.GenericMessage, gateway.Message(&gateway.Error{Op: "other", StatusCode: 500}))
	assert.Equal(t, "Notes generation failed", gateway.Message(&gateway.Error{Op: gateway.OpGenerateNotes}))
}
