// Package theme holds the persisted light/dark preference.
package theme

import (
	"context"
	"strings"

	"github.com/alkime/sessions/pkg/uictl"
)

// Theme is a display theme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// PreferenceKey is the preference the theme is stored under.
const PreferenceKey = "theme"

// Parse reads a stored value. Anything unrecognised is Light.
func Parse(value string) Theme {
	if strings.EqualFold(strings.TrimSpace(value), string(Dark)) {
		return Dark
	}

	return Light
}

// Preferences is the storage the theme is read from and written to.
type Preferences interface {
	Preference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
}

// Load reads the stored theme. A read failure yields Light with the error.
func Load(ctx context.Context, prefs Preferences) (Theme, error) {
	value, err := prefs.Preference(ctx, PreferenceKey)
	if err != nil {
		return Light, err
	}

	return Parse(value), nil
}

// Save stores the theme.
func Save(ctx context.Context, prefs Preferences, t Theme) error {
	return prefs.SetPreference(ctx, PreferenceKey, string(Parse(string(t))))
}

// Switch is the dark-mode toggle. On means dark.
type Switch struct {
	dark bool
}

var _ uictl.Knob = (*Switch)(nil)

func NewSwitch(t Theme) *Switch {
	return &Switch{dark: t == Dark}
}

func (s *Switch) Read() bool {
	return s.dark
}

func (s *Switch) On() {
	s.dark = true
}

func (s *Switch) Off() {
	s.dark = false
}

func (s *Switch) Toggle() {
	s.dark = !s.dark
}

// Theme returns the theme the switch currently selects.
func (s *Switch) Theme() Theme {
	if s.dark {
		return Dark
	}

	return Light
}
