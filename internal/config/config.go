// Package config loads breach-radius settings from a TOML file
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const appName = "breach-radius"

// Config holds file-level settings. Command-line flags that are set explicitly
// take precedence over these values.
type Config struct {
	Input       string         `toml:"input"`
	Format      string         `toml:"format"`
	MaxNodes    int            `toml:"max_nodes"`
	MaxEdges    int            `toml:"max_edges"`
	MetricsFile string         `toml:"metrics_file"`
	NoColor     bool           `toml:"no_color"`
	AWS         AWSConfig      `toml:"aws"`
	Discovery   DiscoverConfig `toml:"discovery"`
}

// AWSConfig selects credentials and region
type AWSConfig struct {
	Profile string `toml:"profile"`
	Region  string `toml:"region"`
}

// DiscoverConfig controls how AWS resources become computers
type DiscoverConfig struct {
	ClearanceTag  string `toml:"clearance_tag"`
	ActivationTag string `toml:"activation_tag"`
	TraversalTag  string `toml:"traversal_tag"`
	DefaultCost   int64  `toml:"default_cost"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Format:   "tree",
		MaxNodes: 250,
		Discovery: DiscoverConfig{
			ClearanceTag:  "breach-radius/clearance",
			ActivationTag: "breach-radius/activation-cost",
			TraversalTag:  "breach-radius/traversal-cost",
			DefaultCost:   1,
		},
	}
}

// DefaultPath returns the config location using XDG standard
// (~/.config/breach-radius/config.toml)
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. When required is false a
// missing file yields the defaults.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %s", path, undecoded[0])
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	switch c.Format {
	case "tree", "json", "dot", "svg":
	default:
		return fmt.Errorf("invalid format: %s (must be tree, json, dot, or svg)", c.Format)
	}
	if c.MaxNodes < 0 || c.MaxEdges < 0 {
		return errors.New("max_nodes and max_edges must not be negative")
	}
	if c.Discovery.DefaultCost < 0 {
		return errors.New("discovery.default_cost must not be negative")
	}
	return nil
}
