// Package config handles configuration loading and validation for bell.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/bell/internal/core/styles"
)

// EnvPrefix prefixes every environment variable that overlays the file.
const EnvPrefix = "BELL_"

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig `yaml:"server"  envPrefix:"SERVER_"`
	Toast   ToastConfig  `yaml:"toast"   envPrefix:"TOAST_"`
	TUI     TUIConfig    `yaml:"tui"     envPrefix:"TUI_"`
	DataDir string       `yaml:"-"` // set by caller, not from config file
}

// ServerConfig locates the notification server.
type ServerConfig struct {
	URL      string `yaml:"url"       env:"URL"`
	Token    string `yaml:"token"     env:"TOKEN"`
	APIPath  string `yaml:"api_path"  env:"API_PATH"`
	PushPath string `yaml:"push_path" env:"PUSH_PATH"`
	// Timeout bounds every pull request. Zero means no timeout.
	Timeout           time.Duration `yaml:"timeout"             env:"TIMEOUT"`
	RequestsPerSecond int           `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
	// DisablePush runs pull-only.
	DisablePush bool `yaml:"disable_push" env:"DISABLE_PUSH"`
}

// ToastConfig controls transient notification presentation.
type ToastConfig struct {
	TTL time.Duration `yaml:"ttl" env:"TTL"`
	Max int           `yaml:"max" env:"MAX"`
	// Mute lists glob patterns matched against the notification type. Muted
	// notifications are still listed and counted but never toasted.
	Mute []string `yaml:"mute" env:"MUTE" envSeparator:","`
}

// TUIConfig holds interactive UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme" env:"THEME"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			URL:               "http://localhost:5000",
			APIPath:           "/notifications",
			PushPath:          "/notifications/ws",
			RequestsPerSecond: 10,
		},
		Toast: ToastConfig{
			TTL:  5 * time.Second,
			Max:  5,
			Mute: []string{},
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path, overlays BELL_* environment
// variables and sets the data directory. A missing or empty configPath yields
// defaults.
func Load(configPath, dataDir string) (*Config, error) {
	cfg, err := read(configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadUnvalidated is Load without the validation step, for callers that
// report problems themselves.
func LoadUnvalidated(configPath, dataDir string) (*Config, error) {
	return read(configPath, dataDir)
}

func read(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Re-set dataDir since Unmarshal may have cleared it
	cfg.DataDir = dataDir

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Server.APIPath == "" {
		c.Server.APIPath = defaults.Server.APIPath
	}
	if c.Server.PushPath == "" {
		c.Server.PushPath = defaults.Server.PushPath
	}
	if c.Server.RequestsPerSecond == 0 {
		c.Server.RequestsPerSecond = defaults.Server.RequestsPerSecond
	}
	if c.Toast.TTL == 0 {
		c.Toast.TTL = defaults.Toast.TTL
	}
	if c.Toast.Max == 0 {
		c.Toast.Max = defaults.Toast.Max
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// APIURL is the root of the pull API.
func (c *Config) APIURL() string {
	return joinURL(c.Server.URL, c.Server.APIPath)
}

// PushURL is the push channel endpoint.
func (c *Config) PushURL() string {
	return joinURL(c.Server.URL, c.Server.PushPath)
}

// LogFile is the default log destination inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "bell.log")
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Write serializes the config as YAML to path, creating parent directories.
// The file mode is 0600 since it usually carries a token.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
