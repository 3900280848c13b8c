package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/resqpack/internal/atomicfile"
)

type persistedConfig struct {
	Creator    *string                 `toml:"creator,omitempty"`
	Originator *string                 `toml:"originator,omitempty"`
	Format     *string                 `toml:"format,omitempty"`
	Medium     *string                 `toml:"medium,omitempty"`
	Overwrite  *bool                   `toml:"overwrite,omitempty"`
	Index      *persistedIndexSettings `toml:"index,omitempty"`
	UI         *persistedUISettings    `toml:"ui,omitempty"`
}

type persistedIndexSettings struct {
	Path *string `toml:"path,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func trimmed(value string) *string {
	if v := strings.TrimSpace(value); v != "" {
		return &v
	}
	return nil
}

// persisted returns the settings worth writing: blank strings and false
// flags are left out so that defaults stay implicit in the file.
func (c *Config) persisted() persistedConfig {
	out := persistedConfig{
		Creator:    trimmed(c.Creator),
		Originator: trimmed(c.Originator),
		Format:     trimmed(c.Format),
		Medium:     trimmed(c.Medium),
	}
	if c.Overwrite {
		overwrite := true
		out.Overwrite = &overwrite
	}
	if p := trimmed(c.Index.Path); p != nil {
		out.Index = &persistedIndexSettings{Path: p}
	}
	if ui := (persistedUISettings{Accent: trimmed(c.UI.Accent), CodeTheme: trimmed(c.UI.CodeTheme)}); ui.Accent != nil || ui.CodeTheme != nil {
		out.UI = &ui
	}
	return out
}

// Save writes cfg to DefaultPath.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes cfg to path atomically, creating its directory.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg.persisted()); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
