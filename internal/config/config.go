package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/nonce-firewall/taskflow/internal/task"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no taskflow config found")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	DataFile string         `yaml:"data_file,omitempty"` // path to the tasks database, relative to the config dir
	Defaults DefaultsConfig `yaml:"defaults"`
	TUI      TUIConfig      `yaml:"tui,omitempty"`

	// dir is the absolute path to the config directory (not serialized).
	dir string `yaml:"-"`
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Status   string `yaml:"status"`
	Priority string `yaml:"priority"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	DescriptionLines int `yaml:"description_lines,omitempty"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:  CurrentVersion,
		DataFile: DefaultDataFile,
		Defaults: DefaultsConfig{
			Status:   string(task.StatusTodo),
			Priority: string(task.PriorityMedium),
		},
		TUI: TUIConfig{DescriptionLines: DefaultDescriptionLines},
	}
}

// Dir returns the absolute path to the config directory.
func (c *Config) Dir() string { return c.dir }

// SetDir sets the config directory path.
func (c *Config) SetDir(dir string) { c.dir = dir }

// DataPath returns the absolute path to the tasks database.
func (c *Config) DataPath() string {
	if filepath.IsAbs(c.DataFile) {
		return c.DataFile
	}
	return filepath.Join(c.dir, c.DataFile)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// LockPath returns the path of the advisory lock file guarding mutations.
func (c *Config) LockPath() string {
	return filepath.Join(c.dir, ".lock")
}

// DefaultStatus returns the configured default status for new tasks.
func (c *Config) DefaultStatus() task.Status {
	return task.Status(c.Defaults.Status)
}

// DefaultPriority returns the configured default priority for new tasks.
func (c *Config) DefaultPriority() task.Priority {
	return task.Priority(c.Defaults.Priority)
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.DataFile == "" {
		return fmt.Errorf("%w: data_file is required", ErrInvalid)
	}
	if !c.DefaultStatus().Valid() {
		return fmt.Errorf("%w: default status %q is not a valid status", ErrInvalid, c.Defaults.Status)
	}
	if !c.DefaultPriority().Valid() {
		return fmt.Errorf("%w: default priority %q is not a valid priority", ErrInvalid, c.Defaults.Priority)
	}
	if c.TUI.DescriptionLines < 0 || c.TUI.DescriptionLines > maxDescriptionLines {
		return fmt.Errorf("%w: tui.description_lines must be between 0 and %d", ErrInvalid, maxDescriptionLines)
	}
	return nil
}

// Init creates the config directory and writes a default config file.
func Init(dir string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultDir returns the path to ~/.config/taskflow.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", DefaultDirName), nil
}
