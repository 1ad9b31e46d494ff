// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL for the metalquery CLI.
//
// CLI: Comprehensive help and examples for all commands
// USABILITY: Markdown rendering and history for better CLI experience
//
// Handles "metalquery chat", a plain readline-style loop for terminals
// where the full TUI is unwanted (ssh sessions, screen readers, logs).
//
// Interactive Commands (during chat):
//   /help               Show available commands
//   /clear              Clear the conversation
//   /mode [name]        Show or switch query mode
//   /schema             List queryable tables
//   /quit, /exit        Exit chat
//   Ctrl+C              Abort current input line
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/ignis-analytics/metalquery-tui/internal/api"
	"github.com/ignis-analytics/metalquery-tui/internal/config"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with input history stored next to the
// config file.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// Prompt reads one line with history navigation. Non-empty input is
// appended to history.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close persists history and restores the terminal.
func (c *ChatCLI) Close() {
	if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		c.line.WriteHistory(f)
		f.Close()
	}
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand runs the interactive REPL.
func HandleChatCommand(args Args) error {
	if !IsTTY() {
		return fmt.Errorf("chat requires an interactive terminal; use `metalquery ask` for piped input")
	}

	client, cfg, err := buildClient(args)
	if err != nil {
		return err
	}
	mode := api.ParseMode(cfg.Query.DefaultMode)

	repl := NewChatCLI()
	defer repl.Close()

	if !args.Quiet {
		fmt.Println(welcomeStyle.Render("IGNIS Furnace Analytics"))
		fmt.Println(infoStyle.Render(model.WelcomeText))
		fmt.Println(infoStyle.Render("Type /help for commands, Ctrl+D to exit."))
		fmt.Println()
	}

	prompt := promptStyle.Render("you> ")
	for {
		input, err := repl.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C drops the current line, not the session.
				continue
			}
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, newMode := runChatCommand(client, cfg, input, mode)
			mode = newMode
			if quit {
				return nil
			}
			continue
		}

		result, err := runQuery(context.Background(), client, cfg.Query.DualEndpoint, input, mode)
		if err != nil {
			fmt.Println(errorStyle.Render("[X] " + queryErrorText(err)))
			continue
		}
		printResult(result, cfg.UI.ShowSQL, cfg.UI.RowLimit, client)
	}
}

// runChatCommand executes a slash command. Returns (quit, mode).
func runChatCommand(client *api.Client, cfg *config.Config, input string, mode api.Mode) (bool, api.Mode) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/quit", "/exit", "/q":
		return true, mode

	case "/clear", "/c":
		fmt.Print("\033[2J\033[H")
		fmt.Println(infoStyle.Render(model.ClearedText))

	case "/mode":
		if len(fields) > 1 {
			next := api.ParseMode(fields[1])
			if string(next) != fields[1] && fields[1] != "auto" {
				fmt.Println(errorStyle.Render("[X] Unknown mode; want auto, nlp-sql, or rag"))
				return false, mode
			}
			mode = next
		}
		fmt.Println(infoStyle.Render("Query mode: " + mode.Label()))

	case "/schema", "/tables":
		printSchema(client, false)

	case "/health":
		printHealth(client, false)

	case "/help", "/h":
		fmt.Println(commandStyle.Render("Commands:"))
		fmt.Println("  /mode [auto|nlp-sql|rag]  Show or switch query mode")
		fmt.Println("  /schema                   List queryable tables")
		fmt.Println("  /health                   Check backend health")
		fmt.Println("  /clear                    Clear the screen")
		fmt.Println("  /quit                     Exit chat")

	default:
		fmt.Println(errorStyle.Render("[X] Unknown command " + cmd + "; try /help"))
	}

	return false, mode
}

// printSchema lists queryable tables sorted by name.
func printSchema(client *api.Client, asJSON bool) {
	info, err := client.Schema(context.Background())
	if err != nil {
		if asJSON {
			printJSONError("schema", err)
			return
		}
		fmt.Println(errorStyle.Render("[X] " + queryErrorText(err)))
		return
	}

	if asJSON {
		_ = printJSON(info)
		return
	}

	names := make([]string, 0, len(info.Tables))
	for name := range info.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println(commandStyle.Render("Queryable tables:"))
	for _, name := range names {
		t := info.Tables[name]
		line := "  " + name
		if t.Description != "" {
			line += " - " + t.Description
		}
		if len(t.Columns) > 0 {
			line += infoStyle.Render(fmt.Sprintf(" (%d columns)", len(t.Columns)))
		}
		fmt.Println(line)
	}
}
