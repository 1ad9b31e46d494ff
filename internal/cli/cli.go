// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for metalquery.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdConfig
	CmdSchema
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool // Output in JSON format
	Mode    string
	Server  string // Backend URL override
	Token   string // API token override

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Output     string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `metalquery - terminal client for the IGNIS furnace analytics backend

Metalquery lets you query furnace KPIs, production data, and BRD
documents in plain English from the terminal. Questions are routed to
NLP-to-SQL or document retrieval on the server side.

Usage:
  metalquery                     Start TUI (default)
  metalquery ask "question"      Ask a single question
  metalquery chat                Interactive chat REPL (no TUI)
  metalquery status              Show backend health and config
  metalquery schema              List queryable tables
  metalquery config [show|set|path]  Configuration
  metalquery version             Show version
  metalquery help                Show this help

Ask Command:
  metalquery ask "What is the average OEE for Furnace 1?"
  cat question.txt | metalquery ask
    --mode MODE        Force query mode: auto, nlp-sql, rag (default: auto)
    --json             Print the raw result as JSON
    --no-sql           Hide the generated SQL

Chat Commands (during metalquery chat):
  /help               Show available commands
  /clear              Clear the conversation
  /mode [name]        Show or switch query mode
  /schema             List queryable tables
  /quit               Exit chat
  Ctrl+D              Exit chat

Config Commands:
  metalquery config show             Show current configuration
  metalquery config path             Print config file location
  metalquery config set KEY VALUE    Set a value and save
    Keys: api.base_url, api.token, api.timeout_secs, query.default_mode,
          ui.theme, ui.row_limit, log.level

Global Flags:
  --server URL    Backend base URL (overrides config)
  --token TOKEN   Bearer token (overrides config)
  --mode MODE     Query mode: auto, nlp-sql, rag
  --json          Output in JSON format
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Environment:
  METALQUERY_API_URL, METALQUERY_TOKEN, METALQUERY_MODE override the
  config file; flags override both.

Examples:
  metalquery                                      Start the TUI
  metalquery ask "Top 5 heats by yield this week"
  metalquery ask --mode rag "What does the BRD say about slag carryover?"
  metalquery ask --json "oee by furnace" | jq .row_count
  metalquery chat --server http://ignis.local:8000
  metalquery status
  metalquery config set ui.theme dark

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("metalquery version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsed := parseGlobalFlags(args)

	// No arguments starts the TUI.
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask":
		parseAskArgs(&parsed, remaining)
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "schema", "tables":
		return CmdSchema, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "version", "--version", "-V":
		return CmdVersion, parsed

	case "help", "--help", "-h":
		return CmdHelp, parsed

	default:
		// An unrecognized first word is treated as a question, so
		// `metalquery "show oee by furnace"` just works.
		parsed.Query = strings.TrimSpace(cmd + " " + strings.Join(remaining, " "))
		return CmdAsk, parsed
	}
}

// parseGlobalFlags extracts flags valid for every command. Returns the
// remaining arguments with global flags removed.
func parseGlobalFlags(args []string) ([]string, Args) {
	parsed := Args{}
	remaining := make([]string, 0, len(args))

	i := 0
	for i < len(args) {
		arg := args[i]
		switch {
		case arg == "-q" || arg == "--quiet":
			parsed.Quiet = true
		case arg == "-v" || arg == "--verbose":
			parsed.Verbose = true
		case arg == "--json":
			parsed.JSON = true
		case arg == "--server" && i+1 < len(args):
			parsed.Server = args[i+1]
			i++
		case strings.HasPrefix(arg, "--server="):
			parsed.Server = strings.TrimPrefix(arg, "--server=")
		case arg == "--token" && i+1 < len(args):
			parsed.Token = args[i+1]
			i++
		case strings.HasPrefix(arg, "--token="):
			parsed.Token = strings.TrimPrefix(arg, "--token=")
		case arg == "--mode" && i+1 < len(args):
			parsed.Mode = args[i+1]
			i++
		case strings.HasPrefix(arg, "--mode="):
			parsed.Mode = strings.TrimPrefix(arg, "--mode=")
		default:
			remaining = append(remaining, arg)
		}
		i++
	}

	return remaining, parsed
}

// parseAskArgs collects ask-specific flags; everything positional joins
// into the question.
func parseAskArgs(args *Args, raw []string) {
	parser := NewArgParser(raw)
	if m := parser.Flag("mode"); m != "" {
		args.Mode = m
	}
	if parser.BoolFlag("json") {
		args.JSON = true
	}
	args.Query = strings.Join(parser.PositionalFrom(0), " ")
}

// parseConfigArgs handles `config show|set|path`.
func parseConfigArgs(args *Args, raw []string) {
	parser := NewArgParser(raw)
	args.Subcommand = parser.Subcommand()
	args.ConfigKey = parser.Positional(1)
	args.ConfigVal = parser.Positional(2)
}
