// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// metalquery client.
//
// Configuration is TOML with environment variable overrides on top and
// built-in defaults underneath. The file lives at
// ~/.metalquery/config.toml.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/ignis-analytics/metalquery-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete client configuration.
type Config struct {
	API   APIConfig   `toml:"api"`
	Query QueryConfig `toml:"query"`
	UI    UIConfig    `toml:"ui"`
	Log   LogConfig   `toml:"log"`
}

// APIConfig describes how to reach the analytics backend.
type APIConfig struct {
	// BaseURL is the backend origin, e.g. "http://localhost:8000".
	BaseURL string `toml:"base_url"`
	// AssetBaseURL resolves server-relative image paths. Defaults to BaseURL.
	AssetBaseURL string `toml:"asset_base_url"`
	// Token is an optional bearer token sent on every request.
	Token string `toml:"token"`
	// TimeoutSecs bounds each request. Zero or negative falls back to the
	// default; requests are never unbounded.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries applies to idempotent requests (health, schema) only.
	MaxRetries int `toml:"max_retries"`
	// RateLimitPerMin caps outgoing queries per minute. Zero disables.
	RateLimitPerMin int `toml:"rate_limit_per_min"`
}

// QueryConfig contains query behavior settings.
type QueryConfig struct {
	// DefaultMode is "auto", "nlp-sql", or "rag". In auto the server
	// routes the question itself.
	DefaultMode string `toml:"default_mode"`
	// DualEndpoint selects the endpoint that returns charts, images, and
	// retrieval scores alongside the answer.
	DualEndpoint bool `toml:"dual_endpoint"`
}

// UIConfig contains display settings.
type UIConfig struct {
	// Theme is "dark", "light", or "auto" (detect from the terminal).
	Theme string `toml:"theme"`
	// RowLimit caps rows shown per result table.
	RowLimit int `toml:"row_limit"`
	// ShowSQL toggles the generated-SQL block under answers.
	ShowSQL bool `toml:"show_sql"`
	// ShowTimestamps toggles per-message times in the transcript.
	ShowTimestamps bool `toml:"show_timestamps"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `toml:"level"`
	// Path is the log file location (empty = ~/.metalquery/metalquery.log).
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         "http://localhost:8000",
			TimeoutSecs:     120,
			MaxRetries:      2,
			RateLimitPerMin: 30,
		},
		Query: QueryConfig{
			DefaultMode:  "auto",
			DualEndpoint: true,
		},
		UI: UIConfig{
			Theme:    "auto",
			RowLimit: 20,
			ShowSQL:  true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".metalquery"), nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "metalquery.log"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, fills defaults, and applies environment
// overrides. A missing file is not an error; defaults are used.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as TOML, creating the directory if needed.
// The write goes through util.AtomicWriteFile so a crash mid-save cannot
// leave a half-written config behind.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// fillDefaults backfills fields a partial file or bad override left empty.
func (c *Config) fillDefaults() {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.AssetBaseURL == "" {
		c.API.AssetBaseURL = c.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = d.API.TimeoutSecs
	}
	if c.API.MaxRetries < 0 {
		c.API.MaxRetries = d.API.MaxRetries
	}
	if c.Query.DefaultMode == "" {
		c.Query.DefaultMode = d.Query.DefaultMode
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.RowLimit <= 0 {
		c.UI.RowLimit = d.UI.RowLimit
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies METALQUERY_* environment variables on top of
// the loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("METALQUERY_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("METALQUERY_ASSET_URL"); v != "" {
		c.API.AssetBaseURL = v
	}
	if v := os.Getenv("METALQUERY_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("METALQUERY_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = n
		}
	}
	if v := os.Getenv("METALQUERY_MODE"); v != "" {
		c.Query.DefaultMode = v
	}
	if v := os.Getenv("METALQUERY_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("METALQUERY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationError{"api.base_url", fmt.Sprintf("not an absolute URL: %q", c.API.BaseURL)}
	}
	switch strings.ToLower(c.Query.DefaultMode) {
	case "auto", "nlp-sql", "rag":
	default:
		return ValidationError{"query.default_mode", fmt.Sprintf("must be auto, nlp-sql, or rag, got %q", c.Query.DefaultMode)}
	}
	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "auto":
	default:
		return ValidationError{"ui.theme", fmt.Sprintf("must be dark, light, or auto, got %q", c.UI.Theme)}
	}
	return nil
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the global configuration instance, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	cfg := globalCfg
	globalMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		loaded, err := Load()
		if err != nil {
			loaded = Default()
		}
		globalCfg = loaded
	}
	return globalCfg
}

// SetGlobal replaces the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	globalCfg = cfg
	globalMu.Unlock()
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}
