// Package config handles global resqpack configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/resqpack/internal/epc"
	"github.com/aidanlsb/resqpack/internal/factory"
	"github.com/aidanlsb/resqpack/internal/index"
)

// Config represents the global resqpack configuration.
type Config struct {
	// Creator is written to docProps/core.xml of every container.
	Creator string `toml:"creator"`

	// Originator is the citation originator of produced objects
	// (defaults to the current OS user).
	Originator string `toml:"originator"`

	// Format is the citation format string of produced objects.
	Format string `toml:"format"`

	// Medium is the default container medium: "archive" or "directory".
	Medium string `toml:"medium"`

	// Overwrite lets write commands replace an existing directory container.
	Overwrite bool `toml:"overwrite"`

	// Index controls the SQLite part index.
	Index IndexConfig `toml:"index"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// IndexConfig represents part index settings.
type IndexConfig struct {
	// Path is the index database path. Empty means <container>.index.db.
	Path string `toml:"path"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	// Example values: "monokai", "dracula", "github", "nord".
	CodeTheme string `toml:"code_theme"`
}

// ContainerMedium returns the configured medium, archive when unset.
func (c *Config) ContainerMedium() (epc.Medium, error) {
	m, err := epc.ParseMedium(c.Medium)
	if err != nil {
		return 0, fmt.Errorf("config medium: %w", err)
	}
	return m, nil
}

// IndexPath returns the index database path for container.
func (c *Config) IndexPath(container string) string {
	if c.Index.Path != "" {
		return c.Index.Path
	}
	return index.DefaultPath(container)
}

// FactoryOptions returns the object factory options carried by the config.
func (c *Config) FactoryOptions() []factory.Option {
	return []factory.Option{
		factory.WithOriginator(c.Originator),
		factory.WithFormat(c.Format),
	}
}

// WriteOptions returns the container write options carried by the config.
func (c *Config) WriteOptions() ([]epc.Option, error) {
	m, err := c.ContainerMedium()
	if err != nil {
		return nil, err
	}
	return []epc.Option{
		epc.WithMedium(m),
		epc.WithOverwrite(c.Overwrite),
		epc.WithCreator(c.Creator),
	}, nil
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads and validates the configuration at path.
func LoadFrom(path string) (*Config, error) {
	config, err := Decode(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Decode parses the configuration at path without validating values.
func Decode(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// Validate reports settings that no command can use.
func (c *Config) Validate() error {
	_, err := c.ContainerMedium()
	return err
}

// DefaultPath returns the default config file path.
// Checks ~/.config/resqpack/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "resqpack", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "resqpack", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/resqpack/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "resqpack", "config.toml"), nil
}

const defaultConfig = `# resqpack configuration

# Written to docProps/core.xml of every container
# creator = "NR ResQml from NetCDF"

# Citation metadata of produced objects
# originator = ""   # defaults to the current OS user
# format = "[NorwegianComputingCenter:netcdf2resqml]"

# Container medium: "archive" (one zip file) or "directory"
# medium = "archive"
#
# Replace an existing directory container instead of failing.
# Archives are always replaced.
# overwrite = false

# [index]
# path = ""   # defaults to <container>.index.db

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefault creates a default config file at path if it doesn't exist.
// An empty path means DefaultPath.
func CreateDefault(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
