package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/bell/internal/core/session"
	"github.com/hay-kot/bell/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid. Every invalid
// field is reported.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("server.url", c.Server.URL, httpURL),
		criterio.Run("server.api_path", c.Server.APIPath, absolutePath),
		criterio.Run("server.push_path", c.Server.PushPath, absolutePath),
		criterio.Run("server.timeout", c.Server.Timeout, nonNegative),
		criterio.Run("server.requests_per_second", c.Server.RequestsPerSecond, atLeastOne),
		criterio.Run("toast.ttl", c.Toast.TTL, positive),
		criterio.Run("toast.max", c.Toast.Max, atLeastOne),
		c.validateMute(),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
	)
}

// ValidateDeep performs Validate plus checks that touch the filesystem. The
// configPath argument specifies the config file location to validate (empty
// string skips the config file check).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	s := session.New(c.Server.Token)
	switch {
	case c.Server.Token == "":
		warnings = append(warnings, ValidationWarning{
			Category: "Server",
			Item:     "token",
			Message:  "no token configured, the push channel will not be opened",
		})
	case s.Expired():
		warnings = append(warnings, ValidationWarning{
			Category: "Server",
			Item:     "token",
			Message:  fmt.Sprintf("token expired at %s", s.ExpiresAt.Format(time.RFC3339)),
		})
	}

	if c.Server.DisablePush {
		warnings = append(warnings, ValidationWarning{
			Category: "Server",
			Item:     "disable_push",
			Message:  "push disabled, state only refreshes on explicit reload",
		})
	}

	for i, pattern := range c.Toast.Mute {
		if pattern == "*" || pattern == "**" {
			warnings = append(warnings, ValidationWarning{
				Category: "Toast",
				Item:     fmt.Sprintf("mute[%d]", i),
				Message:  "pattern mutes every notification type",
			})
		}
	}

	return warnings
}

func (c *Config) validateMute() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Toast.Mute {
		field := fmt.Sprintf("toast.mute[%d]", i)
		if strings.TrimSpace(pattern) == "" {
			errs = errs.Append(field, errors.New("pattern cannot be empty"))
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(field, fmt.Errorf("invalid pattern %q", pattern))
		}
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func httpURL(raw string) error {
	if raw == "" {
		return errors.New("required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func absolutePath(p string) error {
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("must start with /, got %q", p)
	}
	return nil
}

func nonNegative(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("cannot be negative, got %s", d)
	}
	return nil
}

func positive(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be greater than zero, got %s", d)
	}
	return nil
}

func atLeastOne(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1, got %d", n)
	}
	return nil
}

func knownTheme(name string) error {
	names := styles.ThemeNames()
	if !slices.Contains(names, name) {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(names, ", "))
	}
	return nil
}
