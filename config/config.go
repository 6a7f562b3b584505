// Package config loads dirtree configuration from a single YAML or JSONC
// file.
//
// The file is named by the DIRTREE_CONFIG environment variable (via [Load])
// or a --config flag (via [LoadFile]). There is no search path. Values
// missing from the file keep their [Default]. Command-line flags are applied
// by the caller after loading.
//
// ${VAR} and ${VAR:-default} patterns are expanded in path fields.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/phroun/dirtree"
)

// EnvVar names the environment variable read by Load.
const EnvVar = "DIRTREE_CONFIG"

// Config is the master configuration.
type Config struct {
	// Limits are the parameters of the size questions.
	Limits LimitsConfig `yaml:"limits" json:"limits"`

	// Navigation configures cursor behavior on unusual input.
	Navigation NavigationConfig `yaml:"navigation" json:"navigation"`

	// Snapshot configures where finished trees are saved.
	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`
}

// LimitsConfig mirrors dirtree.Limits.
type LimitsConfig struct {
	// Threshold bounds the directories summed by the first question.
	// Default: 100000
	Threshold uint64 `yaml:"threshold" json:"threshold"`

	// Capacity is the total device size.
	// Default: 70000000
	Capacity uint64 `yaml:"capacity" json:"capacity"`

	// Required is the free space needed.
	// Default: 30000000
	Required uint64 `yaml:"required" json:"required"`
}

// NavigationConfig configures the cursor.
type NavigationConfig struct {
	// ParentAtRoot is what `cd ..` does at the root.
	// Values: "error", "stay". Default: error
	ParentAtRoot string `yaml:"parent_at_root" json:"parent_at_root"`

	// Duplicates is what a repeated entry in one directory does.
	// Values: "allow", "reject". Default: allow
	Duplicates string `yaml:"duplicates" json:"duplicates"`
}

// SnapshotConfig configures snapshot output.
type SnapshotConfig struct {
	// Path is where the CLI saves the built tree. Empty disables saving.
	Path string `yaml:"path" json:"path"`

	// Compression is the snapshot compression.
	// Values: "none", "lz4", "zstd". Default: zstd
	Compression string `yaml:"compression" json:"compression"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	limits := dirtree.DefaultLimits()
	return &Config{
		Limits: LimitsConfig{
			Threshold: limits.Threshold,
			Capacity:  limits.Capacity,
			Required:  limits.Required,
		},
		Navigation: NavigationConfig{
			ParentAtRoot: "error",
			Duplicates:   "allow",
		},
		Snapshot: SnapshotConfig{
			Compression: "zstd",
		},
	}
}

// Load loads configuration from the file named by DIRTREE_CONFIG.
// If the variable is unset it returns Default().
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path. The format follows the
// extension: .yaml and .yml are YAML, .json and .jsonc are JSON with
// comments and trailing commas allowed.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = cfg.parseYAML(data)
	case ".json", ".jsonc":
		err = cfg.parseJSONC(data)
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q", path, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) parseYAML(data []byte) error {
	return yaml.Unmarshal(data, c)
}

func (c *Config) parseJSONC(data []byte) error {
	return json.Unmarshal(jsonc.ToJSON(data), c)
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	c.Snapshot.Path = expandVars(c.Snapshot.Path)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks enumerated values and limits. Required may exceed
// Capacity; the report then names no candidate.
func (c *Config) Validate() error {
	var errs []error

	if c.Limits.Capacity == 0 {
		errs = append(errs, errors.New("limits.capacity must be positive"))
	}

	switch c.Navigation.ParentAtRoot {
	case "error", "stay":
	default:
		errs = append(errs, fmt.Errorf("navigation.parent_at_root: invalid value %q", c.Navigation.ParentAtRoot))
	}
	switch c.Navigation.Duplicates {
	case "allow", "reject":
	default:
		errs = append(errs, fmt.Errorf("navigation.duplicates: invalid value %q", c.Navigation.Duplicates))
	}
	switch c.Snapshot.Compression {
	case "none", "lz4", "zstd":
	default:
		errs = append(errs, fmt.Errorf("snapshot.compression: invalid value %q", c.Snapshot.Compression))
	}

	return errors.Join(errs...)
}

// TreeLimits returns the limits as dirtree.Limits.
func (c *Config) TreeLimits() dirtree.Limits {
	return dirtree.Limits{
		Threshold: c.Limits.Threshold,
		Capacity:  c.Limits.Capacity,
		Required:  c.Limits.Required,
	}
}

// TreeOptions returns cursor options for the navigation settings.
// The caller supplies the logger.
func (c *Config) TreeOptions() dirtree.Options {
	var opts dirtree.Options
	if c.Navigation.ParentAtRoot == "stay" {
		opts.ParentAtRoot = dirtree.StayAtRoot
	}
	if c.Navigation.Duplicates == "reject" {
		opts.Duplicates = dirtree.RejectDuplicates
	}
	return opts
}
