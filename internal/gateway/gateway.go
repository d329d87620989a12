// Package gateway is the client side of the session processing API.
//
// All remote operations go through the Gateway interface. The HTTP Client
// normalises the server's payload variants into the types in package session
// and turns every non-2xx response or transport failure into an *Error.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alkime/sessions/internal/session"
)

// Gateway issues the remote session operations.
type Gateway interface {
	Upload(ctx context.Context, name string, body io.Reader) (session.Session, error)
	Transcribe(ctx context.Context, sessionID string) ([]session.Segment, error)
	Diarize(ctx context.Context, sessionID string) ([]session.Segment, error)
	GenerateNotes(ctx context.Context, sessionID string) (session.Notes, error)
	ProcessLarge(ctx context.Context, sessionID string) (session.Ack, error)
	ListSessions(ctx context.Context, page, pageSize int) (session.CatalogPage, error)
	GetNotes(ctx context.Context, sessionID string) (session.Notes, error)
	GetTranscript(ctx context.Context, fileKey string) ([]session.Segment, error)
}

// Op names a remote operation.
type Op string

const (
	OpConfig        Op = "config"
	OpUpload        Op = "upload"
	OpTranscribe    Op = "transcribe"
	OpDiarize       Op = "diarize"
	OpGenerateNotes Op = "generate-notes"
	OpProcessLarge  Op = "process-large"
	OpListSessions  Op = "list-sessions"
	OpGetNotes      Op = "get-notes"
	OpGetTranscript Op = "get-transcript"
)

// GenericMessage is shown when nothing more specific is known.
const GenericMessage = "Something went wrong."

// Fallback returns the per-operation message used when the server gave no reason.
func (op Op) Fallback() string {
	switch op {
	case OpConfig:
		return "Using default API base URL."
	case OpUpload:
		return "Upload failed"
	case OpTranscribe:
		return "Transcription failed"
	case OpDiarize:
		return "Diarization failed"
	case OpGenerateNotes:
		return "Notes generation failed"
	case OpProcessLarge:
		return "Large audio processing failed"
	case OpListSessions:
		return "Failed to load sessions"
	case OpGetNotes:
		return "Failed to load notes"
	case OpGetTranscript:
		return "Failed to load transcript"
	default:
		return ""
	}
}

// ErrMalformedResponse reports a body that is not valid JSON.
var ErrMalformedResponse = errors.New("malformed response body")

// Error is a failed remote operation. Detail carries the server-supplied
// reason when one was present; Err carries the transport or decode failure.
type Error struct {
	Op         Op
	StatusCode int
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Detail, e.StatusCode)
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the single display string for a failure: the server's
// reason, else the operation's fallback, else GenericMessage.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var gwErr *Error
	if errors.As(err, &gwErr) {
		if gwErr.Detail != "" {
			return gwErr.Detail
		}

		if fallback := gwErr.Op.Fallback(); fallback != "" {
			return fallback
		}

		return GenericMessage
	}

	if msg := err.Error(); msg != "" {
		return msg
	}

	return GenericMessage
}
