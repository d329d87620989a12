package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alkime/sessions/internal/config"
	"github.com/alkime/sessions/internal/gateway"
	"github.com/alkime/sessions/internal/logger"
	"github.com/alkime/sessions/internal/platform/keyring"
	"github.com/alkime/sessions/internal/platform/workdir"
	"github.com/alkime/sessions/internal/store"
)

// Globals are flags shared by every command. They override the environment.
type Globals struct {
	BaseURL  string `name:"base-url" help:"API base URL (default API_BASE_URL)"`
	PageSize int    `name:"page-size" help:"Sessions per catalog page (default PAGE_SIZE)"`
	DataDir  string `name:"data-dir" help:"Directory for local state and logs (default DATA_DIR or the user config dir)"`
	Token    string `name:"token" env:"SESSIONS_API_TOKEN" help:"Bearer token for the API (default from keychain)"`

	stdout io.Writer
}

func (g *Globals) out() io.Writer {
	if g.stdout == nil {
		return os.Stdout
	}

	return g.stdout
}

// runtime is what a command needs once configuration is resolved.
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	root    string
	store   *store.Store
	gateway *gateway.Client

	// notice is a non-fatal startup message for the user.
	notice string

	closers []io.Closer
}

type logMode int

const (
	// logToStderr is for headless commands.
	logToStderr logMode = iota
	// logToFile is for the TUI, which owns the terminal.
	logToFile
)

// open loads configuration, applies flag overrides, sets up logging and opens
// the local store and the API client.
func (g *Globals) open(ctx context.Context, mode logMode) (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if g.PageSize != 0 {
		cfg.PageSize = g.PageSize
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	dataDir := cfg.DataDir
	if g.DataDir != "" {
		dataDir = g.DataDir
	}

	root, err := workdir.Root(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to determine data directory: %w", err)
	}

	if err := workdir.Prep(root); err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	rt := &runtime{cfg: cfg, root: root}

	switch mode {
	case logToFile:
		logFile, err := workdir.OpenLog(root)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		rt.closers = append(rt.closers, logFile)
		rt.logger = logger.SetupLogger(cfg, logFile)
	default:
		rt.logger = logger.SetupTextLogger(cfg, os.Stderr)
	}

	db, err := store.Open(workdir.DBPath(root))
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	rt.store = db
	rt.closers = append(rt.closers, db)

	token := g.Token
	if token == "" {
		token = cfg.APIToken
	}

	token, err = keyring.Token(token)
	if err != nil {
		// The API may not need a token; carry on without one.
		rt.logger.Warn("Keychain lookup failed", "error", err)
	}

	opts := []gateway.ClientOption{
		gateway.WithToken(token),
		gateway.WithLogger(rt.logger),
	}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, gateway.WithTimeout(cfg.HTTPTimeout))
	}

	baseURL := cfg.APIBaseURL
	switch {
	case g.BaseURL != "":
		baseURL = g.BaseURL
	case cfg.ResolveRemoteConfig:
		resolved, err := gateway.ResolveBaseURL(ctx, baseURL, opts...)
		if err != nil {
			rt.logger.Warn("Remote config lookup failed", "base_url", baseURL, "error", err)
			rt.notice = gateway.Message(err)
		}
		baseURL = resolved
	}

	rt.gateway = gateway.NewClient(baseURL, opts...)
	rt.logger.Debug("Runtime ready", "base_url", rt.gateway.BaseURL(), "data_dir", root)

	return rt, nil
}

// Close releases everything open opened, newest first.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil && rt.logger != nil {
			rt.logger.Warn("Close failed", "error", err)
		}
	}
	rt.closers = nil
}
