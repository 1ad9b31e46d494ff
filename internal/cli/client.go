// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/ignis-analytics/metalquery-tui/internal/api"
	"github.com/ignis-analytics/metalquery-tui/internal/config"
)

// LoadConfig loads the configuration and applies flag overrides on top.
// Precedence: flags > environment > config file > defaults. The TUI
// entry point uses the same precedence, so flags behave identically
// everywhere.
func LoadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if args.Server != "" {
		cfg.API.BaseURL = args.Server
		cfg.API.AssetBaseURL = args.Server
	}
	if args.Token != "" {
		cfg.API.Token = args.Token
	}
	if args.Mode != "" {
		// Validate rejects anything that is not auto, nlp-sql, or rag.
		cfg.Query.DefaultMode = args.Mode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildClient loads config and constructs the API client in one step.
func buildClient(args Args) (*api.Client, *config.Config, error) {
	cfg, err := LoadConfig(args)
	if err != nil {
		return nil, nil, err
	}
	return api.New(cfg), cfg, nil
}
