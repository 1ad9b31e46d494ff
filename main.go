// metalquery - A terminal client for the IGNIS furnace analytics backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ignis-analytics/metalquery-tui/internal/api"
	"github.com/ignis-analytics/metalquery-tui/internal/cli"
	"github.com/ignis-analytics/metalquery-tui/internal/config"
	"github.com/ignis-analytics/metalquery-tui/internal/logger"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		exitOnError(cli.HandleAskCommand(args))
	case cli.CmdChat:
		exitOnError(cli.HandleChatCommand(args))
	case cli.CmdStatus:
		exitOnError(cli.HandleStatusCommand(args))
	case cli.CmdSchema:
		exitOnError(cli.HandleSchemaCommand(args))
	case cli.CmdConfig:
		exitOnError(cli.HandleConfigCommand(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the full-screen chat interface.
func runTUI(args cli.Args) {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	// The TUI owns stdout, so logs go to a file.
	logPath := cfg.Log.Path
	if logPath == "" {
		if p, err := config.DefaultLogPath(); err == nil {
			logPath = p
		}
	}
	if err := logger.Init(cfg.Log.Level, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logger.Sync()

	client := api.New(cfg)
	m := chat.New(client, cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	// Config edits on disk reach the running UI without a restart.
	watcher, err := config.NewWatcher()
	if err != nil {
		logger.L().Warn("config watcher unavailable", zap.Error(err))
	} else {
		defer watcher.Close()
		go func() {
			for range watcher.Changed {
				p.Send(chat.ConfigReloadedMsg{})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
