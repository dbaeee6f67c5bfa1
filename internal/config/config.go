// Package config handles the XDG configuration directory, the optional
// config file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go-simpler.org/env"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "tasktracker"

	// ConfigFile is the optional settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// LogFile receives debug logs while the interactive view owns the terminal.
	LogFile = "tasktracker.log"

	// DefaultBaseURL is the address of the task store.
	DefaultBaseURL = "http://tasktracker-backend:5000"
)

// Settings are the values that may come from the config file or the environment.
type Settings struct {
	// BaseURL is the root URL of the remote task store.
	BaseURL string `yaml:"base_url" env:"TASKTRACKER_BASE_URL"`

	// Timeout bounds each remote call. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" env:"TASKTRACKER_TIMEOUT"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"TASKTRACKER_LOG_LEVEL"`

	// LogFormat is text or json.
	LogFormat string `yaml:"log_format" env:"TASKTRACKER_LOG_FORMAT"`
}

// Config holds configuration paths and settings.
type Config struct {
	Settings

	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasktracker or $HOME/.config/tasktracker.
// Values are layered: defaults, then config.yaml, then environment.
// Empty environment variables are treated as unset.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir: dir,
		Settings: Settings{
			BaseURL:   DefaultBaseURL,
			LogLevel:  "warn",
			LogFormat: "text",
		},
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if err := env.Load(&cfg.Settings, &env.Options{Source: setOnly{env.OS}}); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to the settings file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path to the debug log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Validate checks that the effective settings are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base url %q: must be an absolute http(s) url", c.BaseURL)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

// setOnly hides variables that are set to the empty string, so an empty
// TASKTRACKER_* variable leaves the file or default value in place.
type setOnly struct {
	env.Source
}

func (s setOnly) LookupEnv(key string) (string, bool) {
	value, ok := s.Source.LookupEnv(key)
	if value == "" {
		return "", false
	}
	return value, ok
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	if err := yaml.Unmarshal(data, &c.Settings); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return nil
}
