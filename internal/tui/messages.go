package tui

import (
	"github.com/alkime/sessions/internal/catalog"
	"github.com/alkime/sessions/internal/session"
	"github.com/alkime/sessions/internal/theme"
	"github.com/alkime/sessions/internal/viewer"
	"github.com/alkime/sessions/internal/workflow"
)

// stageDoneMsg carries a finished stage call back into the workflow view.
type stageDoneMsg struct {
	res workflow.Resolution
}

// pageMsg carries a catalog fetch result tagged with its request.
type pageMsg struct {
	req  catalog.Request
	page session.CatalogPage
	err  error
}

// detailMsg carries a viewer fetch result tagged with its request.
type detailMsg struct {
	req viewer.Request
	res viewer.Result
}

type outputSavedMsg struct {
	out session.Output
	err error
}

type themeSavedMsg struct {
	theme theme.Theme
	err   error
}
