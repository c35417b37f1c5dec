// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/trustfile/lib/merkle"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// EnvVar names the environment variable [Load] reads.
const EnvVar = "TRUSTFILE_CONFIG"

// Config is the trustfile server configuration.
type Config struct {
	// Environment identifies the deployment type.
	Environment Environment `yaml:"environment"`

	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server"`

	// Storage selects and configures the piece store.
	Storage StorageConfig `yaml:"storage"`

	// Ingest configures how files are split and which files are
	// loaded at startup.
	Ingest IngestConfig `yaml:"ingest"`

	// Log configures the service logger.
	Log LogConfig `yaml:"log"`

	// Per-environment overrides, applied after the base values.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per
// environment. Empty values leave the base value in place.
type ConfigOverrides struct {
	Server  *ServerConfig  `yaml:"server,omitempty"`
	Storage *StorageConfig `yaml:"storage,omitempty"`
	Ingest  *IngestConfig  `yaml:"ingest,omitempty"`
	Log     *LogConfig     `yaml:"log,omitempty"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Address is the TCP listen address.
	// Default: 127.0.0.1:8080
	Address string `yaml:"address"`

	// ShutdownTimeout bounds graceful shutdown, as a Go duration.
	// Default: 10s
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// StorageConfig selects the piece store.
type StorageConfig struct {
	// Backend is "memory" or "sqlite".
	// Default: memory (development), sqlite (production)
	Backend string `yaml:"backend"`

	// SQLitePath is the database file for the sqlite backend.
	// Default: ${TRUSTFILE_DATA}/pieces.db, with TRUSTFILE_DATA
	// defaulting to $HOME/.cache/trustfile.
	SQLitePath string `yaml:"sqlite_path"`

	// PoolSize is the number of SQLite connections. Zero picks the
	// store's default.
	PoolSize int `yaml:"pool_size"`
}

// IngestConfig configures file ingestion.
type IngestConfig struct {
	// PieceSize is the piece length in bytes.
	// Default: 1024
	PieceSize int `yaml:"piece_size"`

	// HashAlgorithm names the piece hash algorithm.
	// Default: SHA-256
	HashAlgorithm string `yaml:"hash_algorithm"`

	// Encoding names the piece content encoding.
	// Default: BASE_64
	Encoding string `yaml:"encoding"`

	// Files are ingested at server startup, in order.
	Files []string `yaml:"files"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the configuration every file is loaded on top of.
// It exists so that every field has a sensible value, not as a
// substitute for the config file.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: ServerConfig{
			Address:         "127.0.0.1:8080",
			ShutdownTimeout: "10s",
		},
		Storage: StorageConfig{
			Backend:    BackendMemory,
			SQLitePath: "${TRUSTFILE_DATA}/pieces.db",
		},
		Ingest: IngestConfig{
			PieceSize:     1024,
			HashAlgorithm: merkle.CanonicalAlgorithm,
			Encoding:      merkle.EncodingBase64,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by TRUSTFILE_CONFIG.
// It fails when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your trustfile config file, or use --config flag", EnvVar)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path, applies the matching
// environment section, and expands variables in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// loadFile merges a single file into c. JSON is a subset of YAML, so
// JSONC is stripped to plain JSON and handed to the YAML decoder.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the section for c.Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: durable storage.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Storage: &StorageConfig{Backend: BackendSQLite},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Server != nil {
		if overrides.Server.Address != "" {
			c.Server.Address = overrides.Server.Address
		}
		if overrides.Server.ShutdownTimeout != "" {
			c.Server.ShutdownTimeout = overrides.Server.ShutdownTimeout
		}
	}

	if overrides.Storage != nil {
		if overrides.Storage.Backend != "" {
			c.Storage.Backend = overrides.Storage.Backend
		}
		if overrides.Storage.SQLitePath != "" {
			c.Storage.SQLitePath = overrides.Storage.SQLitePath
		}
		if overrides.Storage.PoolSize != 0 {
			c.Storage.PoolSize = overrides.Storage.PoolSize
		}
	}

	if overrides.Ingest != nil {
		if overrides.Ingest.PieceSize != 0 {
			c.Ingest.PieceSize = overrides.Ingest.PieceSize
		}
		if overrides.Ingest.HashAlgorithm != "" {
			c.Ingest.HashAlgorithm = overrides.Ingest.HashAlgorithm
		}
		if overrides.Ingest.Encoding != "" {
			c.Ingest.Encoding = overrides.Ingest.Encoding
		}
		// A non-empty list replaces the base list.
		if len(overrides.Ingest.Files) > 0 {
			c.Ingest.Files = overrides.Ingest.Files
		}
	}

	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	home := os.Getenv("HOME")
	vars := map[string]string{
		"HOME":           home,
		"TRUSTFILE_DATA": os.Getenv("TRUSTFILE_DATA"),
	}
	if vars["TRUSTFILE_DATA"] == "" {
		vars["TRUSTFILE_DATA"] = filepath.Join(home, ".cache", "trustfile")
	}

	c.Storage.SQLitePath = expandVars(c.Storage.SQLitePath, vars)
	for i, file := range c.Ingest.Files {
		c.Ingest.Files[i] = expandVars(file, vars)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, preferring
// vars over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Server.Address == "" {
		errs = append(errs, fmt.Errorf("server.address is required"))
	}
	if timeout, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout: %w", err))
	} else if timeout <= 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must be positive, got %s", timeout))
	}

	backends := []string{BackendMemory, BackendSQLite}
	if !slices.Contains(backends, c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("storage.backend must be one of: %v", backends))
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.SQLitePath == "" {
		errs = append(errs, fmt.Errorf("storage.sqlite_path is required for the sqlite backend"))
	}
	if c.Storage.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("storage.pool_size must not be negative"))
	}

	if c.Ingest.PieceSize <= 0 {
		errs = append(errs, fmt.Errorf("ingest.piece_size must be positive, got %d", c.Ingest.PieceSize))
	}
	if _, err := merkle.LookupHashAlgorithm(c.Ingest.HashAlgorithm); err != nil {
		errs = append(errs, fmt.Errorf("ingest.hash_algorithm must be one of %v: %w", merkle.HashAlgorithms(), err))
	}
	if _, err := merkle.LookupEncoding(c.Ingest.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("ingest.encoding must be one of %v: %w", merkle.Encodings(), err))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ShutdownTimeout returns server.shutdown_timeout as a duration. Call
// Validate first; an unparseable value yields zero.
func (c *Config) ShutdownTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Server.ShutdownTimeout)
	return timeout
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// EnsurePaths creates the directories the configuration writes into.
func (c *Config) EnsurePaths() error {
	if c.Storage.Backend != BackendSQLite {
		return nil
	}
	directory := filepath.Dir(c.Storage.SQLitePath)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", directory, err)
	}
	return nil
}
