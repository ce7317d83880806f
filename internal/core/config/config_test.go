package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Server.URL)
	assert.Equal(t, "/notifications", cfg.Server.APIPath)
	assert.Equal(t, "/notifications/ws", cfg.Server.PushPath)
	assert.Equal(t, 10, cfg.Server.RequestsPerSecond)
	assert.Zero(t, cfg.Server.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Toast.TTL)
	assert.Equal(t, 5, cfg.Toast.Max)
	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "/data")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.URL, cfg.Server.URL)
	assert.Equal(t, "/data", cfg.DataDir)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  url: https://learn.example.com
  token: abc
  timeout: 15s
  requests_per_second: 2
toast:
  ttl: 3s
  mute:
    - assignment_*
tui:
  theme: gruvbox
`)

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, "https://learn.example.com", cfg.Server.URL)
	assert.Equal(t, "abc", cfg.Server.Token)
	assert.Equal(t, 15*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 2, cfg.Server.RequestsPerSecond)
	assert.Equal(t, 3*time.Second, cfg.Toast.TTL)
	assert.Equal(t, []string{"assignment_*"}, cfg.Toast.Mute)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)

	// unset fields keep defaults
	assert.Equal(t, "/notifications", cfg.Server.APIPath)
	assert.Equal(t, 5, cfg.Toast.Max)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  url: https://file.example.com\n  token: from-file\n")

	t.Setenv("BELL_SERVER_URL", "https://env.example.com")
	t.Setenv("BELL_SERVER_TOKEN", "from-env")
	t.Setenv("BELL_TOAST_MUTE", "info,success")
	t.Setenv("BELL_TOAST_TTL", "750ms")

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Server.URL)
	assert.Equal(t, "from-env", cfg.Server.Token)
	assert.Equal(t, []string{"info", "success"}, cfg.Toast.Mute)
	assert.Equal(t, 750*time.Millisecond, cfg.Toast.TTL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")

	_, err := Load(path, "/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "server:\n  url: ftp://nope\n")

	_, err := Load(path, "/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	cfg, err := LoadUnvalidated(path, "/data")
	require.NoError(t, err)
	assert.Equal(t, "ftp://nope", cfg.Server.URL)
}

func TestConfig_URLs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.URL = "https://learn.example.com/"
	cfg.DataDir = "/data"

	assert.Equal(t, "https://learn.example.com/notifications", cfg.APIURL())
	assert.Equal(t, "https://learn.example.com/notifications/ws", cfg.PushURL())
	assert.Equal(t, filepath.Join("/data", "bell.log"), cfg.LogFile())
}

func TestConfig_WriteRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Token = "secret"
	cfg.Toast.Mute = []string{"info"}

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Write(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path, "/data")
	require.NoError(t, err)
	assert.Equal(t, cfg.Server, loaded.Server)
	assert.Equal(t, cfg.Toast, loaded.Toast)
	assert.Equal(t, cfg.TUI, loaded.TUI)
}
