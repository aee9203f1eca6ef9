// Package config handles configuration loading and validation for taskpad.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/taskpad/internal/core/analytics"
	"github.com/hay-kot/taskpad/internal/core/styles"
)

// DefaultItemsFile is the name of the record file inside the data directory.
const DefaultItemsFile = "items.txt"

// Config holds the application configuration.
type Config struct {
	Store   StoreConfig `yaml:"store"`
	View    ViewConfig  `yaml:"view"`
	DataDir string      `yaml:"-"` // set by caller, not from config file
}

// StoreConfig controls where items are persisted.
type StoreConfig struct {
	// Path to the record file. Relative paths resolve against the data directory.
	Path string `yaml:"path" json:"path"`
}

// ViewConfig holds defaults for building display views.
type ViewConfig struct {
	Sort     analytics.SortMode   `yaml:"sort" json:"sort"`
	Filter   analytics.FilterMode `yaml:"filter" json:"filter"`
	Markdown *bool                `yaml:"markdown" json:"markdown,omitempty"` // nil = enabled
	Theme    string               `yaml:"theme" json:"theme"`
}

// RenderMarkdown reports whether descriptions are rendered as markdown.
func (v ViewConfig) RenderMarkdown() bool {
	return v.Markdown == nil || *v.Markdown
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		View: ViewConfig{
			Sort:   analytics.SortByDate,
			Filter: analytics.FilterNone,
			Theme:  styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.View.Sort == "" {
		c.View.Sort = defaults.View.Sort
	}
	if c.View.Filter == "" {
		c.View.Filter = defaults.View.Filter
	}
	if c.View.Theme == "" {
		c.View.Theme = defaults.View.Theme
	}
}

// ItemsFile returns the path to the record file.
func (c *Config) ItemsFile() string {
	switch {
	case c.Store.Path == "":
		return filepath.Join(c.DataDir, DefaultItemsFile)
	case filepath.IsAbs(c.Store.Path):
		return c.Store.Path
	default:
		return filepath.Join(c.DataDir, c.Store.Path)
	}
}
