package main

import (
	"context"
	"fmt"

	"github.com/alkime/sessions/internal/theme"
	"github.com/alkime/sessions/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

// TUICmd is the default command that runs the TUI.
type TUICmd struct {
	File string `arg:"" optional:"" help:"Audio file to preselect for upload"`
}

// Run executes the TUI command.
func (c *TUICmd) Run(g *Globals) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := g.open(ctx, logToFile)
	if err != nil {
		return err
	}
	defer rt.Close()

	t, err := theme.Load(ctx, rt.store)
	if err != nil {
		rt.logger.Warn("Failed to load theme preference", "error", err)
	}

	rt.logger.Info("Starting TUI", "base_url", rt.gateway.BaseURL(), "theme", t, "page_size", rt.cfg.PageSize)

	p := tea.NewProgram(tui.New(tui.Deps{
		Gateway:     rt.gateway,
		Outputs:     rt.store,
		Preferences: rt.store,
		Theme:       t,
		PageSize:    rt.cfg.PageSize,
		File:        c.File,
		Notice:      rt.notice,
		Logger:      rt.logger,
		Context:     ctx,
		Cancel:      cancel,
	}), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	fmt.Fprintln(g.out(), "bye!")

	return nil
}
