// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Machine-readable output for --json mode.
//
// Scripted callers get stable JSON on stdout; human-facing decoration
// goes to stderr only.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ignis-analytics/metalquery-tui/internal/api"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
)

// jsonResult is the --json shape for a query answer. Record order in
// results matches the wire order the server sent.
type jsonResult struct {
	Response   string           `json:"response"`
	QueryType  string           `json:"query_type,omitempty"`
	SQL        string           `json:"sql,omitempty"`
	Results    []model.Record   `json:"results,omitempty"`
	RowCount   int              `json:"row_count"`
	Images     []model.ImageRef `json:"images,omitempty"`
	Confidence *float64         `json:"confidence_score,omitempty"`
	Relevance  *float64         `json:"relevance_score,omitempty"`
}

// jsonError is the --json shape for a failed command.
type jsonError struct {
	Command   string `json:"command"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// printJSONResult writes a query result as JSON to stdout.
func printJSONResult(result *api.QueryResult) error {
	out := jsonResult{
		Response:   result.Response,
		QueryType:  result.QueryType,
		SQL:        result.SQL,
		Results:    result.Results,
		RowCount:   result.RowCount,
		Images:     result.Images,
		Confidence: result.Confidence,
		Relevance:  result.Relevance,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// printJSON writes any value as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// printJSONError writes a failure as JSON to stdout.
func printJSONError(command string, err error) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jsonError{
		Command:   command,
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
