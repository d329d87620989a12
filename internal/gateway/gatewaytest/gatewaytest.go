// Package gatewaytest provides a programmable Gateway for tests.
package gatewaytest

import (
	"context"
	"io"
	"sync"

	"github.com/alkime/sessions/internal/gateway"
	"github.com/alkime/sessions/internal/session"
)

// Stub implements gateway.Gateway with overridable functions. Unset
// functions return zero values. Every call is recorded.
type Stub struct {
	UploadFunc        func(name string, body io.Reader) (session.Session, error)
	TranscribeFunc    func(sessionID string) ([]session.Segment, error)
	DiarizeFunc       func(sessionID string) ([]session.Segment, error)
	GenerateNotesFunc func(sessionID string) (session.Notes, error)
	ProcessLargeFunc  func(sessionID string) (session.Ack, error)
	ListSessionsFunc  func(page, pageSize int) (session.CatalogPage, error)
	GetNotesFunc      func(sessionID string) (session.Notes, error)
	GetTranscriptFunc func(fileKey string) ([]session.Segment, error)

	mu    sync.Mutex
	calls []string
}

var _ gateway.Gateway = (*Stub)(nil)

func (s *Stub) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

// Calls returns the operations invoked so far, e.g. "diarize s1".
func (s *Stub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.calls...)
}

func (s *Stub) Upload(_ context.Context, name string, body io.Reader) (session.Session, error) {
	s.record("upload " + name)
	if s.UploadFunc == nil {
		return session.Session{}, nil
	}

	return s.UploadFunc(name, body)
}

func (s *Stub) Transcribe(_ context.Context, sessionID string) ([]session.Segment, error) {
	s.record("transcribe " + sessionID)
	if s.TranscribeFunc == nil {
		return nil, nil
	}

	return s.TranscribeFunc(sessionID)
}

func (s *Stub) Diarize(_ context.Context, sessionID string) ([]session.Segment, error) {
	s.record("diarize " + sessionID)
	if s.DiarizeFunc == nil {
		return nil, nil
	}

	return s.DiarizeFunc(sessionID)
}

func (s *Stub) GenerateNotes(_ context.Context, sessionID string) (session.Notes, error) {
	s.record("notes " + sessionID)
	if s.GenerateNotesFunc == nil {
		return session.Notes{}, nil
	}

	return s.GenerateNotesFunc(sessionID)
}

func (s *Stub) ProcessLarge(_ context.Context, sessionID string) (session.Ack, error) {
	s.record("process-large " + sessionID)
	if s.ProcessLargeFunc == nil {
		return session.Ack{}, nil
	}

	return s.ProcessLargeFunc(sessionID)
}

func (s *Stub) ListSessions(_ context.Context, page, pageSize int) (session.CatalogPage, error) {
	s.record("list")
	if s.ListSessionsFunc == nil {
		return session.CatalogPage{Page: page, PageSize: pageSize, Items: []session.Session{}}, nil
	}

	return s.ListSessionsFunc(page, pageSize)
}

func (s *Stub) GetNotes(_ context.Context, sessionID string) (session.Notes, error) {
	s.record("get-notes " + sessionID)
	if s.GetNotesFunc == nil {
		return session.Notes{}, nil
	}

	return s.GetNotesFunc(sessionID)
}

func (s *Stub) GetTranscript(_ context.Context, fileKey string) ([]session.Segment, error) {
	s.record("get-transcript " + fileKey)
	if s.GetTranscriptFunc == nil {
		return nil, nil
	}

	return s.GetTranscriptFunc(fileKey)
}
