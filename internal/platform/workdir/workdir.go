// Package workdir lays out the client's local data directory.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dbFilename  = "sessions.sqlite"
	logFilename = "sessions.log"
)

// Root returns the base directory for local files. A non-empty override
// (DATA_DIR) wins; otherwise the path resolves to:
//
//	$XDG_CONFIG_HOME/alkime/sessions
func Root(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	return filepath.Join(configDir, "alkime", "sessions"), nil
}

// DBPath returns the SQLite database path under root.
func DBPath(root string) string {
	return filepath.Join(root, dbFilename)
}

// LogPath returns the log file path under root.
func LogPath(root string) string {
	return filepath.Join(root, logFilename)
}

// Prep ensures that root exists.
func Prep(root string) error {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", root, err)
	}

	return nil
}

// OpenLog opens the log file under root for appending.
func OpenLog(root string) (*os.File, error) {
	if err := Prep(root); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(LogPath(root), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return f, nil
}
