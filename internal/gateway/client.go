package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alkime/sessions/internal/session"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is used until the runtime configuration says otherwise.
const DefaultBaseURL = "http://127.0.0.1:8000/api/v1"

// Client is the HTTP implementation of Gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	logger     *slog.Logger
}

var _ Gateway = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client. A nil client is ignored.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout. The
// timeout applies to a copy, so a client passed to WithHTTPClient is never
// modified.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
	}
}

// WithToken sends a bearer token on every request.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a gateway client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveBaseURL asks the server at defaultURL for the API base URL to use.
// On any failure it returns defaultURL together with the error so callers can
// keep going on the default.
func ResolveBaseURL(ctx context.Context, defaultURL string, opts ...ClientOption) (string, error) {
	c := NewClient(defaultURL, opts...)

	body, err := c.do(ctx, OpConfig, http.MethodGet, "/config", nil, "")
	if err != nil {
		return c.baseURL, err
	}

	resolved := strings.TrimSpace(body.Get("API_BASE_URL").String())
	if resolved == "" {
		return c.baseURL, nil
	}

	return strings.TrimSuffix(resolved, "/"), nil
}

// Transcribe produces transcript segments for a session.
func (c *Client) Transcribe(ctx context.Context, sessionID string) ([]session.Segment, error) {
	body, err := c.do(ctx, OpTranscribe, http.MethodPost, sessionPath(sessionID, "transcribe"), nil, "")
	if err != nil {
		return nil, err
	}

	return parseSegments(body), nil
}

// Diarize produces speaker-labelled segments for a session.
func (c *Client) Diarize(ctx context.Context, sessionID string) ([]session.Segment, error) {
	body, err := c.do(ctx, OpDiarize, http.MethodPost, sessionPath(sessionID, "diarize"), nil, "")
	if err != nil {
		return nil, err
	}

	return parseSegments(body), nil
}

// GenerateNotes produces structured note markdown for a session.
func (c *Client) GenerateNotes(ctx context.Context, sessionID string) (session.Notes, error) {
	body, err := c.do(ctx, OpGenerateNotes, http.MethodPost, sessionPath(sessionID, "notes"), nil, "")
	if err != nil {
		return session.Notes{}, err
	}

	return parseNotes(body, sessionID), nil
}

// ProcessLarge enqueues chunked background processing. Only the
// acknowledgment is returned.
func (c *Client) ProcessLarge(ctx context.Context, sessionID string) (session.Ack, error) {
	body, err := c.do(ctx, OpProcessLarge, http.MethodPost, sessionPath(sessionID, "process-large"), nil, "")
	if err != nil {
		return session.Ack{}, err
	}

	return parseAck(body, sessionID), nil
}

// ListSessions fetches one catalog page.
func (c *Client) ListSessions(ctx context.Context, page, pageSize int) (session.CatalogPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	body, err := c.do(ctx, OpListSessions, http.MethodGet, "/sessions?"+query.Encode(), nil, "")
	if err != nil {
		return session.CatalogPage{}, err
	}

	return parsePage(body, page, pageSize), nil
}

// GetNotes fetches previously generated notes.
func (c *Client) GetNotes(ctx context.Context, sessionID string) (session.Notes, error) {
	body, err := c.do(ctx, OpGetNotes, http.MethodGet, sessionPath(sessionID, "notes"), nil, "")
	if err != nil {
		return session.Notes{}, err
	}

	return parseNotes(body, sessionID), nil
}

// GetTranscript fetches a previously generated transcript by storage key.
func (c *Client) GetTranscript(ctx context.Context, fileKey string) ([]session.Segment, error) {
	body, err := c.do(ctx, OpGetTranscript, http.MethodGet, "/transcripts/"+url.PathEscape(fileKey), nil, "")
	if err != nil {
		return nil, err
	}

	return parseSegments(body), nil
}

func sessionPath(sessionID, action string) string {
	return "/sessions/" + url.PathEscape(sessionID) + "/" + action
}

// do performs one request and returns the parsed JSON body.
func (c *Client) do(
	ctx context.Context,
	op Op,
	method, path string,
	body io.Reader,
	contentType string,
) (gjson.Result, error) {
	requestID := uuid.NewString()
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return gjson.Result{}, &Error{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Request failed",
			"op", op, "method", method, "path", path, "request_id", requestID, "error", err)

		return gjson.Result{}, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug("Request complete",
		"op", op,
		"method", method,
		"path", path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		gwErr := &Error{Op: op, StatusCode: resp.StatusCode, Detail: errorDetail(data)}
		if gwErr.Detail == "" {
			gwErr.Err = fmt.Errorf("unexpected status %s", resp.Status)
		}

		c.logger.Warn("Request rejected", "op", op, "status", resp.StatusCode, "detail", gwErr.Detail)

		return gjson.Result{}, gwErr
	}

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &Error{Op: op, StatusCode: resp.StatusCode, Err: ErrMalformedResponse}
	}

	return gjson.ParseBytes(data), nil
}
