// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.API.TimeoutSecs != 120 {
		t.Errorf("TimeoutSecs = %d, want 120", cfg.API.TimeoutSecs)
	}
	if cfg.Query.DefaultMode != "auto" {
		t.Errorf("DefaultMode = %q", cfg.Query.DefaultMode)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "http://analytics.internal:9000"
timeout_secs = 30

[query]
default_mode = "rag"

[ui]
row_limit = 50
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.API.BaseURL != "http://analytics.internal:9000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d", cfg.API.TimeoutSecs)
	}
	if cfg.Query.DefaultMode != "rag" {
		t.Errorf("DefaultMode = %q", cfg.Query.DefaultMode)
	}
	if cfg.UI.RowLimit != 50 {
		t.Errorf("RowLimit = %d", cfg.UI.RowLimit)
	}
	// Asset URL falls back to the base URL.
	if cfg.API.AssetBaseURL != cfg.API.BaseURL {
		t.Errorf("AssetBaseURL = %q", cfg.API.AssetBaseURL)
	}
	// Untouched sections keep defaults.
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("METALQUERY_API_URL", "http://override:8000")
	t.Setenv("METALQUERY_MODE", "nlp-sql")
	t.Setenv("METALQUERY_TIMEOUT_SECS", "15")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()

	if cfg.API.BaseURL != "http://override:8000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Query.DefaultMode != "nlp-sql" {
		t.Errorf("DefaultMode = %q", cfg.Query.DefaultMode)
	}
	if cfg.API.TimeoutSecs != 15 {
		t.Errorf("TimeoutSecs = %d", cfg.API.TimeoutSecs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"relative base url", func(c *Config) { c.API.BaseURL = "localhost:8000" }, true},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, true},
		{"bad mode", func(c *Config) { c.Query.DefaultMode = "turbo" }, true},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.fillDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeoutNeverUnbounded(t *testing.T) {
	cfg := Default()
	cfg.API.TimeoutSecs = 0
	cfg.fillDefaults()
	if cfg.API.TimeoutSecs <= 0 {
		t.Errorf("TimeoutSecs = %d, must be positive", cfg.API.TimeoutSecs)
	}
	cfg.API.TimeoutSecs = -5
	cfg.fillDefaults()
	if cfg.API.TimeoutSecs <= 0 {
		t.Errorf("TimeoutSecs = %d, must be positive", cfg.API.TimeoutSecs)
	}
}
