// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ignis-analytics/metalquery-tui/internal/logger"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
)

// =============================================================================
// QUERY MODE
// =============================================================================

// Mode selects how the server answers a question.
type Mode string

const (
	// ModeAuto lets the server route between SQL generation and document
	// retrieval. Auto is the wire default and is omitted from requests.
	ModeAuto Mode = "auto"
	// ModeNLPSQL forces natural-language-to-SQL answering.
	ModeNLPSQL Mode = "nlp-sql"
	// ModeRAG forces document retrieval answering.
	ModeRAG Mode = "rag"
)

// ParseMode maps a string to a Mode, defaulting to ModeAuto.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeNLPSQL:
		return ModeNLPSQL
	case ModeRAG:
		return ModeRAG
	default:
		return ModeAuto
	}
}

// Next cycles auto -> nlp-sql -> rag -> auto.
func (m Mode) Next() Mode {
	switch m {
	case ModeAuto:
		return ModeNLPSQL
	case ModeNLPSQL:
		return ModeRAG
	default:
		return ModeAuto
	}
}

// Label returns the mode name shown in the status bar.
func (m Mode) Label() string {
	switch m {
	case ModeNLPSQL:
		return "NLP-SQL"
	case ModeRAG:
		return "RAG"
	default:
		return "Auto"
	}
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// queryRequest is the POST body for chat and dual-query.
type queryRequest struct {
	Question string `json:"question"`
	// Mode is omitted in auto; the server treats absence as auto.
	Mode string `json:"mode,omitempty"`
}

// queryEnvelope is the raw response shape shared by chat and dual-query.
// chart_config stays raw here so a malformed chart can be dropped with a
// warning instead of failing the whole answer.
type queryEnvelope struct {
	Success     bool             `json:"success"`
	Response    string           `json:"response"`
	Error       string           `json:"error"`
	QueryType   string           `json:"query_type"`
	SQL         string           `json:"sql"`
	Results     []model.Record   `json:"results"`
	RowCount    int              `json:"row_count"`
	ChartConfig json.RawMessage  `json:"chart_config"`
	Images      []model.ImageRef `json:"images"`
	Confidence  *float64         `json:"confidence_score"`
	Relevance   *float64         `json:"relevance_score"`
	Mode        string           `json:"mode"`
}

// QueryResult is a successful, validated answer.
type QueryResult struct {
	Response   string
	QueryType  string
	SQL        string
	Results    []model.Record
	RowCount   int
	Chart      *model.ChartSpec
	Images     []model.ImageRef
	Confidence *float64
	Relevance  *float64
	Mode       Mode
}

// toResult validates the envelope into a QueryResult. A chart that fails
// to decode is dropped, not fatal: the answer text and table still render.
func (e *queryEnvelope) toResult() *QueryResult {
	r := &QueryResult{
		Response:   e.Response,
		QueryType:  e.QueryType,
		SQL:        e.SQL,
		Results:    e.Results,
		RowCount:   e.RowCount,
		Images:     e.Images,
		Confidence: e.Confidence,
		Relevance:  e.Relevance,
		Mode:       ParseMode(e.Mode),
	}
	if r.RowCount == 0 {
		r.RowCount = len(e.Results)
	}
	if len(e.ChartConfig) > 0 && string(e.ChartConfig) != "null" {
		var spec model.ChartSpec
		if err := json.Unmarshal(e.ChartConfig, &spec); err != nil {
			logger.L().Warn("dropping malformed chart config", zap.Error(err))
		} else {
			r.Chart = &spec
		}
	}
	return r
}

// HealthStatus is the health endpoint response.
type HealthStatus struct {
	Status   string            `json:"status"`
	Error    string            `json:"error,omitempty"`
	Services map[string]string `json:"services,omitempty"`
}

// OK reports whether the backend considers itself healthy.
func (h *HealthStatus) OK() bool {
	return h != nil && (h.Status == "ok" || h.Status == "healthy")
}

// SchemaTable describes one queryable table.
type SchemaTable struct {
	Description string   `json:"description"`
	Columns     []string `json:"columns"`
}

// SchemaInfo is the schema endpoint response.
type SchemaInfo struct {
	Success bool                   `json:"success"`
	Tables  map[string]SchemaTable `json:"tables"`
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// QueryError is a logical failure: the server answered but could not
// process the question. Distinct from transport and auth failures.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	if e.Message == "" {
		return "query failed"
	}
	return e.Message
}

// APIError is a non-2xx HTTP response other than the auth statuses.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}
