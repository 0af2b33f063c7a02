// Package config provides reading and writing of sulaiman configuration.
// Configuration lives in $SULAIMAN_HOME/config.yaml (default
// ~/.sulaiman/config.yaml). The launcher consumes it; only the options
// phrase and the config command write it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

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

// EnvHome overrides the sulaiman home directory.
const EnvHome = "SULAIMAN_HOME"

// Extensions holds where sandboxed extensions are discovered.
type Extensions struct {
	Dir string `yaml:"dir,omitempty"`
}

// Display holds layout options for the suggestion list.
type Display struct {
	MaxRows *int `yaml:"max_rows,omitempty"`
}

// Shortcut holds the global show/hide key. Capturing the key is the
// desktop collaborator's job; the shell only displays and persists it.
type Shortcut struct {
	Key string `yaml:"key,omitempty"`
}

// Tray holds tray icon options.
type Tray struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// Launch holds OS auto-launch options.
type Launch struct {
	Auto *bool `yaml:"auto,omitempty"`
}

// Theme records which theme extension the user selected.
type Theme struct {
	Name string `yaml:"name,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultMaxRows  = 8
	DefaultShortcut = "ctrl+space"
)

// Validation bounds for configuration values.
const (
	MinMaxRows = 1
	MaxMaxRows = 50
)

// Config contains configuration for sulaiman.
type Config struct {
	Extensions Extensions `yaml:"extensions,omitempty"`
	Display    Display    `yaml:"display,omitempty"`
	Shortcut   Shortcut   `yaml:"shortcut,omitempty"`
	Tray       Tray       `yaml:"tray,omitempty"`
	Launch     Launch     `yaml:"launch,omitempty"`
	Theme      Theme      `yaml:"theme,omitempty"`

	// path is the file this config was loaded from (for Save)
	path string
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Display.MaxRows != nil {
		v := *c.Display.MaxRows
		if v < MinMaxRows || v > MaxMaxRows {
			return fmt.Errorf("%w: display.max_rows must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxRows, MaxMaxRows, v)
		}
	}
	return nil
}

// ExtensionsDir returns where sandboxed extensions live
// (defaults to $SULAIMAN_HOME/extensions).
func (c *Config) ExtensionsDir() string {
	if c.Extensions.Dir != "" {
		return c.Extensions.Dir
	}
	return filepath.Join(Home(), "extensions")
}

// MaxRows returns how many suggestion rows are visible (defaults to 8).
func (c *Config) MaxRows() int {
	if c.Display.MaxRows == nil {
		return DefaultMaxRows
	}
	return *c.Display.MaxRows
}

// ShortcutKey returns the show/hide key (defaults to ctrl+space).
func (c *Config) ShortcutKey() string {
	if c.Shortcut.Key == "" {
		return DefaultShortcut
	}
	return c.Shortcut.Key
}

// TrayEnabled returns whether the tray icon is shown (defaults to true).
func (c *Config) TrayEnabled() bool {
	if c.Tray.Enabled == nil {
		return true
	}
	return *c.Tray.Enabled
}

// AutoLaunch returns whether sulaiman starts with the OS (defaults to false).
func (c *Config) AutoLaunch() bool {
	if c.Launch.Auto == nil {
		return false
	}
	return *c.Launch.Auto
}

// Home returns the sulaiman home directory: $SULAIMAN_HOME, else
// ~/.sulaiman, else .sulaiman in the working directory.
func Home() string {
	if h := os.Getenv(EnvHome); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to current directory if home cannot be determined.
		// This keeps containers and CI usable rather than silently failing.
		return ".sulaiman"
	}
	return filepath.Join(home, ".sulaiman")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Home(), "config.yaml")
}

// Load reads the configuration file. A missing file yields defaults.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads configuration from a specific file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = Path()
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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
