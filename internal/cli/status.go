// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Backend and configuration status for the metalquery CLI.

package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/ignis-analytics/metalquery-tui/internal/api"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

// HandleStatusCommand prints version, config, and backend health.
func HandleStatusCommand(args Args) error {
	client, cfg, err := buildClient(args)
	if err != nil {
		return err
	}

	if args.JSON {
		status := client.Health(context.Background())
		return printJSON(map[string]any{
			"version":  Version,
			"server":   cfg.API.BaseURL,
			"mode":     cfg.Query.DefaultMode,
			"healthy":  status.OK(),
			"status":   status.Status,
			"error":    status.Error,
			"services": status.Services,
		})
	}

	fmt.Println("metalquery " + Version)
	fmt.Println(labelStyle.Render("  server: ") + cfg.API.BaseURL)
	fmt.Println(labelStyle.Render("  mode:   ") + cfg.Query.DefaultMode)
	if cfg.API.Token != "" {
		fmt.Println(labelStyle.Render("  auth:   ") + "bearer token configured")
	} else {
		fmt.Println(labelStyle.Render("  auth:   ") + "none")
	}
	fmt.Println()

	printHealth(client, false)
	return nil
}

// HandleSchemaCommand prints the queryable tables.
func HandleSchemaCommand(args Args) error {
	client, _, err := buildClient(args)
	if err != nil {
		return err
	}
	printSchema(client, args.JSON)
	return nil
}

// printHealth probes the backend and prints one line per service.
func printHealth(client *api.Client, asJSON bool) {
	status := client.Health(context.Background())

	if asJSON {
		_ = printJSON(status)
		return
	}

	if status.OK() {
		fmt.Println(styles.RenderSuccess("Backend reachable at " + client.BaseURL()))
	} else {
		msg := "Backend unreachable at " + client.BaseURL()
		if status.Error != "" {
			msg += ": " + status.Error
		}
		fmt.Println(styles.RenderError(msg))
	}

	if len(status.Services) > 0 {
		names := make([]string, 0, len(status.Services))
		for name := range status.Services {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			state := status.Services[name]
			if state == "ok" || state == "healthy" {
				fmt.Println("  " + styles.RenderSuccess(name))
			} else {
				fmt.Println("  " + styles.RenderWarning(name+": "+state))
			}
		}
	}
}
