// Package tui is the terminal client: a workflow view driving one upload
// through its stages, a catalog view of earlier sessions, and a detail
// overlay for a session's transcript or notes.
package tui

import (
	"context"
	"log/slog"

	"github.com/alkime/sessions/internal/gateway"
	"github.com/alkime/sessions/internal/session"
	"github.com/alkime/sessions/internal/theme"
)

// OutputRecorder keeps completed stage outputs. SaveOutput is called from a
// command goroutine.
type OutputRecorder interface {
	SaveOutput(ctx context.Context, out session.Output) error
}

// Deps are the collaborators and startup settings of the TUI.
type Deps struct {
	Gateway gateway.Gateway

	// Outputs and Preferences are optional.
	Outputs     OutputRecorder
	Preferences theme.Preferences

	Theme    theme.Theme
	PageSize int

	// File preselects the upload file.
	File string

	// Notice is shown on the workflow view at startup.
	Notice string

	Logger *slog.Logger

	// Context scopes every remote call; Cancel is invoked on quit.
	Context context.Context
	Cancel  context.CancelFunc
}

func (d *Deps) defaults() {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	if d.Context == nil {
		d.Context = context.Background()
	}
}
