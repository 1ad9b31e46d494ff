// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ignis-analytics/metalquery-tui/internal/api"
)

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"set", "ui.theme", "dark", "--json", "--mode=rag", "--limit", "5"})

	if p.Subcommand() != "set" {
		t.Errorf("subcommand = %q", p.Subcommand())
	}
	if p.Positional(1) != "ui.theme" || p.Positional(2) != "dark" {
		t.Errorf("positionals = %q %q", p.Positional(1), p.Positional(2))
	}
	if !p.BoolFlag("json") {
		t.Error("json flag not parsed")
	}
	if p.Flag("mode") != "rag" {
		t.Errorf("mode = %q", p.Flag("mode"))
	}
	if p.Flag("limit") != "5" {
		t.Errorf("limit = %q", p.Flag("limit"))
	}
	if p.Positional(99) != "" {
		t.Error("out of bounds positional should be empty")
	}
}

func TestArgParserExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--verbose=true"})
	if p.BoolFlag("json") {
		t.Error("--json=false should be false")
	}
	if !p.BoolFlag("verbose") {
		t.Error("--verbose=true should be true")
	}
}

func TestParseGlobalFlags(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{
		"--server", "http://ignis.local:8000", "--json", "ask", "oee", "by", "furnace",
	})

	if args.Server != "http://ignis.local:8000" {
		t.Errorf("server = %q", args.Server)
	}
	if !args.JSON {
		t.Error("json flag not parsed")
	}
	want := []string{"ask", "oee", "by", "furnace"}
	if strings.Join(remaining, " ") != strings.Join(want, " ") {
		t.Errorf("remaining = %v", remaining)
	}
}

func TestParseAskArgs(t *testing.T) {
	args := Args{}
	parseAskArgs(&args, []string{"top", "5", "heats", "--mode", "rag"})
	if args.Query != "top 5 heats" {
		t.Errorf("query = %q", args.Query)
	}
	if args.Mode != "rag" {
		t.Errorf("mode = %q", args.Mode)
	}
}

func TestQueryErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"logical", &api.QueryError{Message: "no such table"}, "Sorry, I couldn't process that: no such table"},
		{"unauthenticated", api.ErrUnauthenticated, "Authentication required. Check your API token in the configuration."},
		{"forbidden", api.ErrForbidden, "Access denied. Your token does not permit this query."},
		{"timeout", context.DeadlineExceeded, "Request timeout. The server took too long to respond."},
		{"transport", errors.New("dial tcp: connection refused"), "Connection error: dial tcp: connection refused. Please check if the server is running."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := queryErrorText(tt.err); got != tt.want {
				t.Errorf("queryErrorText() = %q, want %q", got, tt.want)
			}
		})
	}
}
