// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the metalquery CLI.
//
// CLI: Comprehensive help and examples for all commands
// USABILITY: Markdown rendering and history for better CLI experience
//
// Handles "metalquery ask" which sends one question to the analytics
// backend and prints the answer, generated SQL, and result table.
//
// Examples:
//   metalquery ask "What is the average OEE for Furnace 1?"
//   metalquery ask --mode rag "What does the BRD say about tap temperature?"
//   cat question.txt | metalquery ask
//   metalquery ask --json "oee by furnace" | jq .row_count
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/ignis-analytics/metalquery-tui/internal/api"
	"github.com/ignis-analytics/metalquery-tui/internal/format"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/components"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
	"github.com/ignis-analytics/metalquery-tui/internal/viz"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the global glamour renderer for markdown output.
// USABILITY: Renders markdown responses with syntax highlighting and formatting.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a response with markdown rendering when
// stdout is a TTY, plain text otherwise so piped output stays clean.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// STYLES
// =============================================================================

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)

	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
)

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAskCommand handles the "ask" command: one question, one answer.
func HandleAskCommand(args Args) error {
	client, cfg, err := buildClient(args)
	if err != nil {
		return err
	}

	question := strings.TrimSpace(args.Query)

	// Piped input becomes the question when none was given on the
	// command line.
	if question == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			data, err := io.ReadAll(bufio.NewReader(os.Stdin))
			if err == nil {
				question = strings.TrimSpace(string(data))
			}
		}
	}

	if question == "" {
		err := fmt.Errorf("no question provided. Usage: metalquery ask \"your question\"")
		if args.JSON {
			printJSONError("ask", err)
		}
		return err
	}

	mode := api.ParseMode(cfg.Query.DefaultMode)

	result, err := runQuery(context.Background(), client, cfg.Query.DualEndpoint, question, mode)
	if err != nil {
		if args.JSON {
			printJSONError("ask", err)
			return err
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render("[X] "+queryErrorText(err)))
		return err
	}

	if args.JSON {
		return printJSONResult(result)
	}

	printResult(result, cfg.UI.ShowSQL, cfg.UI.RowLimit, client)
	return nil
}

// runQuery dispatches to the endpoint the config selects.
func runQuery(ctx context.Context, client *api.Client, dual bool, question string, mode api.Mode) (*api.QueryResult, error) {
	if dual {
		return client.DualQuery(ctx, question, mode)
	}
	return client.Chat(ctx, question, mode)
}

// queryErrorText maps query failures to the messages shown to users.
// The TUI shows the same wording inside error bubbles.
func queryErrorText(err error) string {
	var qerr *api.QueryError
	var aerr *api.APIError
	switch {
	case errors.As(err, &qerr):
		return "Sorry, I couldn't process that: " + qerr.Message
	case errors.Is(err, api.ErrUnauthenticated):
		return "Authentication required. Check your API token in the configuration."
	case errors.Is(err, api.ErrForbidden):
		return "Access denied. Your token does not permit this query."
	case api.IsTimeout(err):
		return "Request timeout. The server took too long to respond."
	case errors.As(err, &aerr):
		return "Sorry, I couldn't process that: " + aerr.Error()
	default:
		return "Connection error: " + err.Error() + ". Please check if the server is running."
	}
}

// printResult writes the answer, SQL, chart, and result table to stdout.
func printResult(result *api.QueryResult, showSQL bool, rowLimit int, client *api.Client) {
	displayResponse(result.Response)

	width := GetTerminalWidth()

	if showSQL && result.SQL != "" {
		block := components.SQLBlock{SQL: result.SQL, MaxWidth: width}
		fmt.Println(block.Render())
	}

	if result.Chart != nil && IsStdoutTTY() {
		if out, ok := viz.New(width).RenderSafe(result.Chart, result.Results); ok && out != "" {
			fmt.Println(out)
		}
	}

	if len(result.Results) > 0 {
		table := components.NewResultTable(result.Results, result.RowCount)
		table.RowLimit = rowLimit
		table.MaxWidth = width
		fmt.Println(table.Render())
	}

	for _, img := range result.Images {
		caption := img.Caption
		if caption == "" {
			caption = img.Path
		}
		fmt.Println(labelStyle.Render("  image: ") + caption + "  " + client.ResolveAssetURL(img))
	}

	if result.Confidence != nil || result.Relevance != nil {
		var parts []string
		if result.Confidence != nil {
			parts = append(parts, "confidence "+format.Percent(*result.Confidence))
		}
		if result.Relevance != nil {
			parts = append(parts, "relevance "+format.Percent(*result.Relevance))
		}
		fmt.Println(labelStyle.Render(strings.Join(parts, "  ")))
	}
}
