// Package config locates rpkgs data and loads the YAML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"
)

// EnvRCommand overrides r.command.
const EnvRCommand = "RPKGS_R"

// DefaultRepos is the CRAN mirror used when none is configured.
const DefaultRepos = "https://cloud.r-project.org"

// RConfig configures the interpreter.
type RConfig struct {
	// Command is the interpreter command line. Empty means the built-in
	// default ("R --no-save --no-restore --quiet --no-echo").
	Command string `yaml:"command"`
	// Repos is the CRAN mirror set in every session.
	Repos string `yaml:"repos"`
}

// Config is the contents of config.yaml.
type Config struct {
	R        RConfig `yaml:"r"`
	TempDir  string  `yaml:"temp_dir"`
	LogLevel string  `yaml:"log_level"`
	DBPath   string  `yaml:"db_path"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		R:        RConfig{Repos: DefaultRepos},
		LogLevel: "info",
	}
}

// Load reads path over the defaults. An empty path means ConfigPath(). A
// missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvRCommand)); v != "" {
		cfg.R.Command = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the interpreter command line can be split.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.R.Command) == "" {
		return nil
	}
	words, err := shellquote.Split(c.R.Command)
	if err != nil {
		return fmt.Errorf("r.command: %w", err)
	}
	if len(words) == 0 {
		return fmt.Errorf("r.command: empty command")
	}
	return nil
}

// Save writes the config to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ResolveTempDir returns the directory for query output files.
func (c *Config) ResolveTempDir() string {
	if c.TempDir != "" {
		return c.TempDir
	}
	return os.TempDir()
}

// ResolveDBPath returns the history database location.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	return DBPath()
}
