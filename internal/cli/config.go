// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config inspection and editing for the metalquery CLI.
//
// Commands:
//   metalquery config show           Print the effective configuration
//   metalquery config path           Print the config file location
//   metalquery config set KEY VALUE  Set a value and save

package cli

import (
	"fmt"
	"strconv"

	"github.com/ignis-analytics/metalquery-tui/internal/config"
)

// HandleConfigCommand dispatches config subcommands.
func HandleConfigCommand(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(args)
	case "path":
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "set":
		return configSet(args)
	default:
		return fmt.Errorf("unknown config subcommand %q (want show, set, or path)", args.Subcommand)
	}
}

func configShow(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if args.JSON {
		return printJSON(map[string]any{
			"api": map[string]any{
				"base_url":       cfg.API.BaseURL,
				"asset_base_url": cfg.API.AssetBaseURL,
				"token_set":      cfg.API.Token != "",
				"timeout_secs":   cfg.API.TimeoutSecs,
			},
			"query": map[string]any{
				"default_mode":  cfg.Query.DefaultMode,
				"dual_endpoint": cfg.Query.DualEndpoint,
			},
			"ui": map[string]any{
				"theme":     cfg.UI.Theme,
				"row_limit": cfg.UI.RowLimit,
				"show_sql":  cfg.UI.ShowSQL,
			},
			"log": map[string]any{
				"level": cfg.Log.Level,
				"path":  cfg.Log.Path,
			},
		})
	}

	fmt.Println(labelStyle.Render("api.base_url       ") + cfg.API.BaseURL)
	fmt.Println(labelStyle.Render("api.asset_base_url ") + cfg.API.AssetBaseURL)
	token := "(not set)"
	if cfg.API.Token != "" {
		// Never echo the token itself.
		token = "(set)"
	}
	fmt.Println(labelStyle.Render("api.token          ") + token)
	fmt.Println(labelStyle.Render("api.timeout_secs   ") + strconv.Itoa(cfg.API.TimeoutSecs))
	fmt.Println(labelStyle.Render("query.default_mode ") + cfg.Query.DefaultMode)
	fmt.Println(labelStyle.Render("query.dual_endpoint ") + strconv.FormatBool(cfg.Query.DualEndpoint))
	fmt.Println(labelStyle.Render("ui.theme           ") + cfg.UI.Theme)
	fmt.Println(labelStyle.Render("ui.row_limit       ") + strconv.Itoa(cfg.UI.RowLimit))
	fmt.Println(labelStyle.Render("ui.show_sql        ") + strconv.FormatBool(cfg.UI.ShowSQL))
	fmt.Println(labelStyle.Render("log.level          ") + cfg.Log.Level)
	return nil
}

func configSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return fmt.Errorf("usage: metalquery config set KEY VALUE")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	key, val := args.ConfigKey, args.ConfigVal
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = val
	case "api.asset_base_url":
		cfg.API.AssetBaseURL = val
	case "api.token":
		cfg.API.Token = val
	case "api.timeout_secs":
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			return fmt.Errorf("api.timeout_secs must be a positive integer, got %q", val)
		}
		cfg.API.TimeoutSecs = n
	case "query.default_mode":
		cfg.Query.DefaultMode = val
	case "query.dual_endpoint":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("query.dual_endpoint must be true or false, got %q", val)
		}
		cfg.Query.DualEndpoint = b
	case "ui.theme":
		cfg.UI.Theme = val
	case "ui.row_limit":
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			return fmt.Errorf("ui.row_limit must be a positive integer, got %q", val)
		}
		cfg.UI.RowLimit = n
	case "ui.show_sql":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("ui.show_sql must be true or false, got %q", val)
		}
		cfg.UI.ShowSQL = b
	case "log.level":
		cfg.Log.Level = val
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	path, _ := config.Path()
	fmt.Println("Saved " + key + " to " + path)
	return nil
}
