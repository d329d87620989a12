package theme_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alkime/sessions/internal/store"
	"github.com/alkime/sessions/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenPrefs struct{}

func (brokenPrefs) Preference(context.Context, string) (string, error) {
	return "", errors.New("disk on fire")
}

func (brokenPrefs) SetPreference(context.Context, string, string) error {
	return errors.New("disk on fire")
}

func TestParse(t *testing.T) {
	tests := map[string]theme.Theme{
		"dark":   theme.Dark,
		" DARK ": theme.Dark,
		"light":  theme.Light,
		"":       theme.Light,
		"purple": theme.Light,
	}

	for in, want := range tests {
		assert.Equal(t, want, theme.Parse(in), "input %q", in)
	}
}

func TestLoadAndSave(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "sessions.sqlite"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()

	got, err := theme.Load(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, theme.Light, got, "absent preference defaults to light")

	require.NoError(t, theme.Save(ctx, st, theme.Dark))
	got, err = theme.Load(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, got)

	require.NoError(t, st.SetPreference(ctx, theme.PreferenceKey, "sepia"))
	got, err = theme.Load(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, theme.Light, got, "unrecognised value defaults to light")
}

func TestLoadFailureDefaultsToLight(t *testing.T) {
	got, err := theme.Load(context.Background(), brokenPrefs{})
	require.Error(t, err)
	assert.Equal(t, theme.Light, got)
}

func TestSwitch(t *testing.T) {
	sw := theme.NewSwitch(theme.Light)
	assert.False(t, sw.Read())

	sw.Toggle()
	assert.True(t, sw.Read())
	assert.Equal(t, theme.Dark, sw.Theme())

	sw.Off()
	assert.Equal(t, theme.Light, sw.Theme())

	sw.On()
	assert.Equal(t, theme.Dark, sw.Theme())
}
