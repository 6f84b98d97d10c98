// Package config loads client configuration: a YAML file under the
// user config directory, overridable by environment variables, with
// flags applied last by the CLI. Zero values always fall back to
// working defaults, so a missing config file is not an error.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reconsole/reconsole/pkg/duration"
)

// Config holds all client settings.
type Config struct {
	// ServerURL is the backend root (default: http://localhost:8000).
	ServerURL string `yaml:"server_url"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `yaml:"timeout"`

	// PollInterval is the watch-mode snapshot refresh cadence.
	PollInterval time.Duration `yaml:"poll_interval"`

	// FailureCeiling bounds consecutive poll failures before the
	// watcher gives up. 0 retries forever.
	FailureCeiling int `yaml:"failure_ceiling"`

	// RateLimit caps outbound requests per second. 0 disables.
	RateLimit float64 `yaml:"rate_limit"`

	// SessionFile is where the bearer token persists across runs.
	SessionFile string `yaml:"session_file"`

	// InsecureSkipVerify disables TLS verification for dev backends.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// NoColor forces plain terminal output.
	NoColor bool `yaml:"no_color"`
}

// Default returns the working defaults for a local backend.
func Default() Config {
	return Config{
		ServerURL:      "http://localhost:8000",
		Timeout:        duration.HTTPRequest,
		PollInterval:   duration.PollInterval,
		FailureCeiling: 30,
		SessionFile:    DefaultSessionPath(),
	}
}

// DefaultPath returns the expected config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "reconsole", "config.yaml")
}

// DefaultSessionPath returns the default session state file location.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "reconsole", "session.json")
}

// Load reads the config file at path ("" means DefaultPath), applies
// environment overrides, then validates. A missing file yields the
// defaults; a malformed one is an error, not a silent fallback.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
			}
		case !os.IsNotExist(err):
			return Config{}, err
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays RECONSOLE_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("RECONSOLE_SERVER"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("RECONSOLE_SESSION_FILE"); v != "" {
		c.SessionFile = v
	}
	if v := os.Getenv("RECONSOLE_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollInterval = d
		}
	}
	if v := os.Getenv("RECONSOLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("RECONSOLE_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.InsecureSkipVerify = b
		}
	}
	if v := os.Getenv("NO_COLOR"); v != "" {
		c.NoColor = true
	}
}

// applyDefaults backfills zero values left by a sparse config file.
func (c *Config) applyDefaults() {
	def := Default()
	if c.ServerURL == "" {
		c.ServerURL = def.ServerURL
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.SessionFile == "" {
		c.SessionFile = def.SessionFile
	}
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: server_url %q is not an absolute URL", ErrInvalidConfig, c.ServerURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: server_url scheme %q (want http or https)", ErrInvalidConfig, u.Scheme)
	}
	if c.FailureCeiling < 0 {
		return fmt.Errorf("%w: failure_ceiling must be >= 0", ErrInvalidConfig)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate_limit must be >= 0", ErrInvalidConfig)
	}
	return nil
}
