// Package config provides reading and writing of stopwatch configuration.
// Supports both global (~/.stopwatch/config.yaml) and local (.stopwatch/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: goes back to the file that was read; --global forces the user file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jpl-au/stopwatch/measure"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.stopwatch/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is repository-specific config in .stopwatch/config.yaml
	ScopeLocal
)

// String returns "global" or "local".
func (s Scope) String() string {
	if s == ScopeLocal {
		return "local"
	}
	return "global"
}

// Author is recorded against every run.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// Run holds options for timing commands.
type Run struct {
	Capture   *bool  `yaml:"capture,omitempty"`
	Record    *bool  `yaml:"record,omitempty"`
	MaxOutput *int64 `yaml:"max_output,omitempty"`
}

// History holds options for listing recorded runs.
type History struct {
	Limit *int `yaml:"limit,omitempty"`
}

// Display holds presentation options.
type Display struct {
	Colour *bool `yaml:"colour,omitempty"`
	// Slow marks runs at or above this elapsed time in listings.
	Slow *measure.Measurement `yaml:"slow,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultMaxOutput    = 1024 * 1024 // 1 MB
	DefaultHistoryLimit = 50
)

// Validation bounds for configuration values.
const (
	MinMaxOutput    = 0
	MaxMaxOutput    = 1024 * 1024 * 1024 // 1 GB
	MinHistoryLimit = 1
	MaxHistoryLimit = 100000
)

// Config contains configuration for stopwatch.
type Config struct {
	Author  Author  `yaml:"author,omitempty"`
	Run     Run     `yaml:"run,omitempty"`
	History History `yaml:"history,omitempty"`
	Display Display `yaml:"display,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Run.MaxOutput != nil {
		v := *c.Run.MaxOutput
		if v < MinMaxOutput || v > MaxMaxOutput {
			return fmt.Errorf("%w: run.max_output must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxOutput, MaxMaxOutput, v)
		}
	}
	if c.History.Limit != nil {
		v := *c.History.Limit
		if v < MinHistoryLimit || v > MaxHistoryLimit {
			return fmt.Errorf("%w: history.limit must be between %d and %d, got %d",
				ErrInvalidValue, MinHistoryLimit, MaxHistoryLimit, v)
		}
	}
	if c.Display.Slow != nil && c.Display.Slow.IsNegative() {
		return fmt.Errorf("%w: display.slow must not be negative", ErrInvalidValue)
	}
	return nil
}

// Capture returns whether command output is captured (defaults to true).
func (c *Config) Capture() bool {
	if c.Run.Capture == nil {
		return true
	}
	return *c.Run.Capture
}

// Record returns whether timed runs are stored (defaults to true).
func (c *Config) Record() bool {
	if c.Run.Record == nil {
		return true
	}
	return *c.Run.Record
}

// MaxOutput returns the captured output limit in bytes (defaults to 1 MB).
// Zero disables storage of output while still streaming it.
func (c *Config) MaxOutput() int64 {
	if c.Run.MaxOutput == nil {
		return DefaultMaxOutput
	}
	return *c.Run.MaxOutput
}

// HistoryLimit returns the default number of runs listed (defaults to 50).
func (c *Config) HistoryLimit() int {
	if c.History.Limit == nil {
		return DefaultHistoryLimit
	}
	return *c.History.Limit
}

// Colour returns whether terminal output is coloured (defaults to true).
func (c *Config) Colour() bool {
	if c.Display.Colour == nil {
		return true
	}
	return *c.Display.Colour
}

// Slow returns the slow-run threshold and whether one is set.
func (c *Config) Slow() (measure.Measurement, bool) {
	if c.Display.Slow == nil {
		return measure.Zero(), false
	}
	return *c.Display.Slow, true
}

// LocalPath returns the path to the local (repository) config file.
func LocalPath() string {
	return filepath.Join(".stopwatch", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.stopwatch/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".stopwatch", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}
	return loadPath(path, scope)
}

func loadPath(path string, scope Scope) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
