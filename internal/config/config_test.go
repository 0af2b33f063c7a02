package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome(t *testing.T) {
	t.Setenv(EnvHome, "/tmp/sulaiman-home")
	assert.Equal(t, "/tmp/sulaiman-home", Home())
	assert.Equal(t, filepath.Join("/tmp/sulaiman-home", "config.yaml"), Path())
}

func TestDefaults(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxRows, cfg.MaxRows())
	assert.Equal(t, DefaultShortcut, cfg.ShortcutKey())
	assert.True(t, cfg.TrayEnabled())
	assert.False(t, cfg.AutoLaunch())
	assert.Equal(t, filepath.Join(Home(), "extensions"), cfg.ExtensionsDir())
	assert.False(t, cfg.IsSet(KeyTray))
}

func TestSetGet(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{KeyExtensionsDir, "/opt/ext"},
		{KeyMaxRows, "12"},
		{KeyShortcut, "alt+space"},
		{KeyTray, "false"},
		{KeyAutoLaunch, "true"},
		{KeyTheme, "midnight"},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			cfg := &Config{}
			require.NoError(t, cfg.Set(tc.key, tc.value))
			got, err := cfg.Get(tc.key)
			require.NoError(t, err)
			assert.Equal(t, tc.value, got)
			assert.True(t, cfg.IsSet(tc.key))
		})
	}
}

func TestSetErrors(t *testing.T) {
	cfg := &Config{}

	assert.ErrorIs(t, cfg.Set("nope", "x"), ErrUnknownKey)
	assert.ErrorIs(t, cfg.Set(KeyMaxRows, "0"), ErrInvalidValue)
	assert.ErrorIs(t, cfg.Set(KeyMaxRows, "many"), ErrInvalidValue)
	assert.ErrorIs(t, cfg.Set(KeyTray, "yes"), ErrInvalidValue)
	assert.ErrorIs(t, cfg.Set(KeyShortcut, "  "), ErrInvalidValue)

	_, err := cfg.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestToggle(t *testing.T) {
	cfg := &Config{}

	v, err := cfg.Toggle(KeyTray)
	require.NoError(t, err)
	assert.False(t, v)
	assert.False(t, cfg.TrayEnabled())

	v, err = cfg.Toggle(KeyTray)
	require.NoError(t, err)
	assert.True(t, v)

	_, err = cfg.Toggle(KeyShortcut)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Set(KeyAutoLaunch, "true"))
	require.NoError(t, cfg.Set(KeyMaxRows, "5"))
	require.NoError(t, cfg.Save())

	again, err := Load()
	require.NoError(t, err)
	assert.True(t, again.AutoLaunch())
	assert.Equal(t, 5, again.MaxRows())
}

func TestLoadRejectsOutOfBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  max_rows: 500\n"), 0644))

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display: [\n"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
