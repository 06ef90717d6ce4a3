// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file looked up when no path is given.
const DefaultConfigFile = "medspan.yaml"

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Server     ServerConfig     `yaml:"server,omitempty"`
	SQLite     SQLiteConfig     `yaml:"sqlite,omitempty"`
	Pagination PaginationConfig `yaml:"pagination,omitempty"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr,omitempty"`
	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite annotation database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty"`
}

// PaginationConfig bounds document listing page sizes.
type PaginationConfig struct {
	DefaultPageSize int `yaml:"default_page_size,omitempty"`
	MaxPageSize     int `yaml:"max_page_size,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
		},
		SQLite: SQLiteConfig{
			Path: "annotation.db",
		},
		Pagination: PaginationConfig{
			DefaultPageSize: 50,
			MaxPageSize:     200,
		},
	}
}

// Load reads configuration from the given path, falling back to
// DefaultConfigFile, then to built-in defaults when no file exists.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("MEDSPAN_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("MEDSPAN_DB_PATH"); path != "" {
		c.SQLite.Path = path
	}
}
