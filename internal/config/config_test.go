package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"xmlconsole"}, cfg.ConsoleMarkers)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.Debug)
}

func TestLoad_OverridesOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\nrequire_encryption: true\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.RequireEncryption)
	assert.Equal(t, []string{"xmlconsole"}, cfg.ConsoleMarkers)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	_, err := Load(path)
	require.NoError(t, err)
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debugg: true\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsBadLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_format: xml\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_PassphraseFromEnv(t *testing.T) {
	t.Setenv(PassphraseEnv, "Correct-Horse-9")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Correct-Horse-9", cfg.Passphrase)
}

func TestState_ToggleTwiceRestores(t *testing.T) {
	s := NewState(false)
	var seen []bool
	s.OnDebugChange(func(on bool) { seen = append(seen, on) })

	assert.True(t, s.ToggleDebug())
	assert.False(t, s.ToggleDebug())
	assert.False(t, s.Debug())
	assert.Equal(t, []bool{true, false}, seen)
}
