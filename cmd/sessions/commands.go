package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alkime/sessions/internal/catalog"
	"github.com/alkime/sessions/internal/format"
	"github.com/alkime/sessions/internal/platform/keyring"
	"github.com/alkime/sessions/internal/session"
	"github.com/alkime/sessions/internal/theme"
	"github.com/alkime/sessions/internal/viewer"
	"github.com/alkime/sessions/internal/workflow"
)

// UploadCmd uploads a file and runs the requested stages in order.
type UploadCmd struct {
	File         string `arg:"" required:"" type:"existingfile" help:"Audio file to upload"`
	Transcribe   bool   `flag:"" help:"Transcribe after upload"`
	Diarize      bool   `flag:"" help:"Diarize after upload"`
	Notes        bool   `flag:"" help:"Generate notes after upload"`
	ProcessLarge bool   `flag:"" name:"process-large" help:"Queue large audio processing after upload"`
}

func (c *UploadCmd) stages() []workflow.Stage {
	stages := []workflow.Stage{workflow.StageUpload}
	if c.Transcribe {
		stages = append(stages, workflow.StageTranscribe)
	}
	if c.Diarize {
		stages = append(stages, workflow.StageDiarize)
	}
	if c.Notes {
		stages = append(stages, workflow.StageNotes)
	}
	if c.ProcessLarge {
		stages = append(stages, workflow.StageProcessLarge)
	}

	return stages
}

// Run executes the upload command.
func (c *UploadCmd) Run(g *Globals) error {
	ctx := context.Background()

	rt, err := g.open(ctx, logToStderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := g.out()
	exec := workflow.NewExecutor(rt.gateway, rt.logger)
	state := workflow.SelectFile(workflow.State{}, c.File)

	for _, stage := range c.stages() {
		next, ticket, err := workflow.Trigger(state, stage)
		if err != nil {
			return err
		}

		res := exec.Execute(ctx, ticket)
		state, _ = workflow.Resolve(next, res)

		if status := state.Status(stage); status.Phase == workflow.PhaseFailed {
			return errors.New(status.Reason)
		}

		if output, ok := res.Output(); ok {
			if err := rt.store.SaveOutput(ctx, output); err != nil {
				rt.logger.Warn("Failed to save stage output", "stage", output.Stage, "error", err)
			}
		}

		fmt.Fprintln(out, state.Message)
	}

	fmt.Fprintf(out, "session %s (file key %s)\n", state.Session.ID, state.Session.FileKey)

	if ack := state.Ack; ack != nil && ack.TaskID != "" {
		fmt.Fprintf(out, "large audio task %s: %s\n", ack.TaskID, ack.Status)
	}

	if state.Draft != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, state.Draft)
	}

	return nil
}

// ListCmd prints one catalog page.
type ListCmd struct {
	Page int `flag:"" default:"1" help:"Page number, starting at 1"`
}

// Run executes the list command.
func (c *ListCmd) Run(g *Globals) error {
	ctx := context.Background()

	rt, err := g.open(ctx, logToStderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	pager := catalog.New(rt.cfg.PageSize)
	req := pager.GoTo(c.Page)
	page, err := rt.gateway.ListSessions(ctx, req.Page, req.PageSize)
	pager.Receive(req, page, err)

	if err != nil {
		return errors.New(pager.Message())
	}

	out := g.out()
	if msg := pager.Message(); msg != "" {
		fmt.Fprintln(out, msg)
		return nil
	}

	for _, item := range pager.Items() {
		fmt.Fprintf(out, "%-6s %-28s %-12s %-13s %9s  %s\n",
			item.ID,
			item.Title,
			item.Status,
			format.SessionDate(item.SessionDate),
			format.Duration(item.DurationSeconds),
			item.FileKey,
		)
	}

	fmt.Fprintf(out, "page %d/%d, %d total\n", pager.Page(), pager.PageCount(), pager.Total())

	return nil
}

// NotesCmd prints the notes saved on the server for a session.
type NotesCmd struct {
	ID string `arg:"" required:"" help:"Session ID"`
}

// Run executes the notes command.
func (c *NotesCmd) Run(g *Globals) error {
	ctx := context.Background()

	rt, err := g.open(ctx, logToStderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	v := viewer.New()
	req := v.OpenNotes(session.Session{ID: c.ID})

	return show(g, v, req, viewer.Fetch(ctx, rt.gateway, req), false)
}

// TranscriptCmd prints a transcript.
type TranscriptCmd struct {
	FileKey string `arg:"" required:"" name:"file-key" help:"Transcript file key"`
	Flat    bool   `flag:"" help:"One line per segment instead of speaker rows"`
}

// Run executes the transcript command.
func (c *TranscriptCmd) Run(g *Globals) error {
	ctx := context.Background()

	rt, err := g.open(ctx, logToStderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	v := viewer.New()

	req, err := v.OpenTranscript(session.Session{FileKey: c.FileKey})
	if err != nil {
		return err
	}

	return show(g, v, req, viewer.Fetch(ctx, rt.gateway, req), c.Flat)
}

func show(g *Globals, v *viewer.Viewer, req viewer.Request, res viewer.Result, flat bool) error {
	v.Receive(req, res)

	if v.Phase() != viewer.Open {
		return errors.New(v.Message())
	}

	content := v.Content()
	out := g.out()

	if content.Kind == viewer.KindNotes || flat {
		fmt.Fprintln(out, content.Text())
		return nil
	}

	for _, row := range content.Rows() {
		fmt.Fprintf(out, "%s  %s\n%s\n\n", row.Speaker, row.Timecode, row.Text)
	}

	return nil
}

// ThemeCmd shows the saved theme, or saves a new one.
type ThemeCmd struct {
	Theme string `arg:"" optional:"" help:"light or dark"`
}

// Run executes the theme command.
func (c *ThemeCmd) Run(g *Globals) error {
	ctx := context.Background()

	rt, err := g.open(ctx, logToStderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	if c.Theme == "" {
		t, err := theme.Load(ctx, rt.store)
		if err != nil {
			return err
		}

		fmt.Fprintln(g.out(), t)

		return nil
	}

	t := theme.Parse(c.Theme)
	if string(t) != strings.ToLower(strings.TrimSpace(c.Theme)) {
		return fmt.Errorf("unknown theme %q: must be 'light' or 'dark'", c.Theme)
	}

	if err := theme.Save(ctx, rt.store, t); err != nil {
		return err
	}

	fmt.Fprintf(g.out(), "theme set to %s\n", t)

	return nil
}

// HistoryCmd lists the stage outputs this client saved for a session.
type HistoryCmd struct {
	ID    string `arg:"" required:"" help:"Session ID"`
	Stage string `flag:"" optional:"" help:"Only show the latest output of this stage"`
}

// Run executes the history command.
func (c *HistoryCmd) Run(g *Globals) error {
	ctx := context.Background()

	rt, err := g.open(ctx, logToStderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := g.out()

	if c.Stage != "" {
		stage, err := workflow.ParseStage(c.Stage)
		if err != nil {
			return err
		}

		latest, err := rt.store.Latest(ctx, c.ID, stage.String())
		if err != nil {
			return err
		}

		if latest == nil {
			fmt.Fprintf(out, "no %s output saved for session %s\n", stage, c.ID)
			return nil
		}

		fmt.Fprintln(out, latest.Content)

		return nil
	}

	outputs, err := rt.store.Outputs(ctx, c.ID)
	if err != nil {
		return err
	}

	if len(outputs) == 0 {
		fmt.Fprintf(out, "no outputs saved for session %s\n", c.ID)
		return nil
	}

	for _, o := range outputs {
		fmt.Fprintf(out, "== %s  %s\n%s\n\n", o.Stage, o.CreatedAt.Local().Format("2006-01-02 15:04:05"), o.Content)
	}

	return nil
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetToken SetTokenCmd `cmd:"" name:"set-token" help:"Store the API token in system keychain"`
	Show     ShowCmd     `cmd:"" help:"Show the effective configuration"`
}

// SetTokenCmd stores the API token in the system keychain.
type SetTokenCmd struct {
	Secret string `arg:"" help:"API token value"`
}

// Run executes the set-token command.
func (c *SetTokenCmd) Run(g *Globals) error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API token cannot be empty")
	}

	if err := keyring.Set(keyring.APIToken, c.Secret); err != nil {
		return fmt.Errorf("failed to store API token: %w", err)
	}

	fmt.Fprintf(g.out(), "%s stored in keychain\n", keyring.APIToken.DisplayName())

	return nil
}

// ShowCmd prints the configuration a command would run with.
type ShowCmd struct{}

// Run executes the show command.
func (c *ShowCmd) Run(g *Globals) error {
	ctx := context.Background()

	rt, err := g.open(ctx, logToStderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := g.out()

	token := "not set"
	if g.Token != "" || rt.cfg.APIToken != "" || keyring.IsSet(keyring.APIToken) {
		token = "configured"
	}

	fmt.Fprintf(out, "base url:   %s\n", rt.gateway.BaseURL())
	fmt.Fprintf(out, "page size:  %d\n", rt.cfg.PageSize)
	fmt.Fprintf(out, "data dir:   %s\n", rt.root)
	fmt.Fprintf(out, "api token:  %s\n", token)

	if rt.notice != "" {
		fmt.Fprintf(out, "note:       %s\n", rt.notice)
	}

	return nil
}
