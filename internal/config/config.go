// Package config loads the workspace configuration that tells the
// orchestrator which roots to scan, which plugins to run in each phase,
// and which external services to contact.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"codekg/internal/logging"
)

// PluginsConfig names the plugins to run in each non-analysis phase, in
// the order given — actual execution order is still the dependency
// topological sort the orchestrator computes, but this is the declared
// candidate set per phase.
type PluginsConfig struct {
	Indexing   []string `yaml:"indexing"`
	Analysis   []string `yaml:"analysis"`
	Enrichment []string `yaml:"enrichment"`
	Validation []string `yaml:"validation"`
}

// ServiceConfig describes one external service the worker can dial (e.g. a
// running language server, or a sibling analysis daemon over its own
// socket) on behalf of a plugin.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// Config is the full workspace configuration, as loaded from a workspace
// YAML file.
type Config struct {
	Roots        []string        `yaml:"roots"`
	Plugins      PluginsConfig   `yaml:"plugins"`
	Services     []ServiceConfig `yaml:"services"`
	Include      []string        `yaml:"include"`
	Exclude      []string        `yaml:"exclude"`
	Strict       bool            `yaml:"strict"`
	DatabasePath string          `yaml:"database_path"`
	SocketDir    string          `yaml:"socket_dir"`
	Logging      LoggingConfig   `yaml:"logging"`
}

// LoggingConfig mirrors the knobs internal/logging.Initialize accepts.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the configuration used when no workspace file is
// present: a single root at the current directory, every standard plugin
// enabled, default excludes, non-strict validation.
func DefaultConfig() *Config {
	return &Config{
		Roots: []string{"."},
		Plugins: PluginsConfig{
			Indexing:   []string{"filesystem-indexer"},
			Analysis:   []string{"javascript", "typescript", "go"},
			Enrichment: []string{"import-export-linker", "instance-of-resolver", "callback-resolver", "closure-capture", "express-handler"},
			Validation: []string{"dataflow-terminal-leaf", "broken-imports"},
		},
		Exclude: []string{
			".git", "node_modules", "vendor", "dist", "build", ".next", "target", "bin", "obj", ".cache",
		},
		Strict:       false,
		DatabasePath: ".codekg/graph.db",
		SocketDir:    ".codekg/sock",
		Logging:      LoggingConfig{DebugMode: false, Level: "info"},
	}
}

// Load reads a workspace YAML file at path, falling back to defaults if it
// does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.Get(logging.CategoryBoot).Debug("loading config from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Get(logging.CategoryBoot).Info("config file not found, using defaults: %s", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
