package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/bell/internal/core/config"
)

// Flags holds the global flag values shared by every subcommand.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is set by the root Before hook. It is loaded without validation;
	// commands that talk to the server validate it through newBackend.
	Config *config.Config
}

const appName = "bell"

// xdgDir resolves an XDG base directory, falling back to fallback under the
// user's home directory when env is unset or not absolute.
func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); filepath.IsAbs(dir) {
		return filepath.Join(dir, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(append(append([]string{home}, fallback...), appName)...)
}

// DefaultConfigPath is $XDG_CONFIG_HOME/bell/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "config.yaml")
}

// DefaultDataDir is $XDG_DATA_HOME/bell. The log file lives here.
func DefaultDataDir() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}
