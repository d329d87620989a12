package workflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alkime/sessions/internal/gateway"
	"github.com/alkime/sessions/internal/session"
)

// Executor performs the remote call a ticket describes.
type Executor struct {
	Gateway gateway.Gateway

	// Open reads the upload file. Defaults to os.Open.
	Open func(path string) (io.ReadCloser, error)

	Logger *slog.Logger
}

// NewExecutor returns an executor reading uploads from the filesystem.
func NewExecutor(gw gateway.Gateway, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		Gateway: gw,
		Open:    func(path string) (io.ReadCloser, error) { return os.Open(path) },
		Logger:  logger,
	}
}

// Execute runs the ticket's call and always returns a resolution; failures
// are carried in Resolution.Err.
func (e *Executor) Execute(ctx context.Context, t Ticket) Resolution {
	res := Resolution{Ticket: t}

	e.Logger.Debug("Stage started", "stage", t.Stage, "generation", t.Generation, "session_id", t.SessionID)

	switch t.Stage {
	case StageUpload:
		res.Session, res.Err = e.upload(ctx, t.File)
	case StageTranscribe:
		res.Segments, res.Err = e.Gateway.Transcribe(ctx, t.SessionID)
	case StageDiarize:
		res.Segments, res.Err = e.Gateway.Diarize(ctx, t.SessionID)
	case StageNotes:
		res.Notes, res.Err = e.Gateway.GenerateNotes(ctx, t.SessionID)
	case StageProcessLarge:
		res.Ack, res.Err = e.Gateway.ProcessLarge(ctx, t.SessionID)
	default:
		res.Err = &gateway.Error{Op: gateway.Op("stage"), Err: fmt.Errorf("unknown stage %v", t.Stage)}
	}

	if res.Err != nil {
		e.Logger.Warn("Stage failed", "stage", t.Stage, "session_id", t.SessionID, "error", res.Err)
	} else {
		e.Logger.Info("Stage complete", "stage", t.Stage, "session_id", t.SessionID)
	}

	return res
}

func (e *Executor) upload(ctx context.Context, path string) (session.Session, error) {
	f, err := e.Open(path)
	if err != nil {
		return session.Session{}, &gateway.Error{
			Op:     gateway.OpUpload,
			Detail: "Cannot read " + filepath.Base(path),
			Err:    err,
		}
	}
	defer f.Close()

	return e.Gateway.Upload(ctx, path, f)
}
