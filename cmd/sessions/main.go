package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// CLI defines the sessions command structure.
type CLI struct {
	Globals

	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Launch terminal UI for the session workflow"`

	// Headless subcommands
	Upload     UploadCmd     `cmd:"" help:"Upload an audio file and optionally run processing stages"`
	List       ListCmd       `cmd:"" help:"List sessions, newest first"`
	Notes      NotesCmd      `cmd:"" help:"Print a session's notes"`
	Transcript TranscriptCmd `cmd:"" help:"Print a transcript by file key"`
	Theme      ThemeCmd      `cmd:"" help:"Show or set the light/dark theme"`
	History    HistoryCmd    `cmd:"" help:"Show stage outputs saved locally for a session"`
	Config     ConfigCmd     `cmd:"" help:"Manage configuration"`
}

func main() {
	// Replaced once a command has loaded its configuration.
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("sessions"),
		kong.Description("Upload session recordings and work with their transcripts and notes."),
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
