// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignis-analytics/metalquery-tui/internal/config"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.API.AssetBaseURL = srv.URL
	cfg.API.RateLimitPerMin = 0
	return New(cfg).WithTimeout(5 * time.Second)
}

func TestDualQuerySuccess(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, dualQueryPath, r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"response": "Furnace 1 leads on OEE.",
			"sql": "SELECT furnace, oee FROM kpi",
			"results": [{"furnace":"F1","oee":87.5}],
			"row_count": 1,
			"chart_config": {"type":"bar","data":[{"furnace":"F1","oee":87.5}],"options":{"title":"OEE","xAxis":{"dataKey":"furnace"},"bars":[{"dataKey":"oee","fill":"#3B82F6"}]}},
			"confidence_score": 91.2,
			"mode": "nlp-sql"
		}`))
	}))

	res, err := client.DualQuery(context.Background(), "show oee", ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, "Furnace 1 leads on OEE.", res.Response)
	assert.Equal(t, 1, res.RowCount)
	require.NotNil(t, res.Chart)
	assert.Equal(t, model.ChartTypeBar, res.Chart.Type)
	assert.Equal(t, "OEE", res.Chart.Title)
	require.Len(t, res.Chart.Options.Bars, 1)
	assert.Equal(t, "oee", res.Chart.Options.Bars[0].DataKey)
	require.NotNil(t, res.Confidence)
	assert.InDelta(t, 91.2, *res.Confidence, 1e-9)
	assert.Equal(t, ModeNLPSQL, res.Mode)

	// Auto mode is omitted from the request body.
	_, hasMode := gotBody["mode"]
	assert.False(t, hasMode, "auto mode must not be sent")
}

func TestQuerySendsForcedMode(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"success":true,"response":"ok"}`))
	}))

	_, err := client.Chat(context.Background(), "what is EHS?", ModeRAG)
	require.NoError(t, err)
	assert.Equal(t, "rag", gotBody["mode"])
}

func TestQueryLogicalFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to execute query"}`))
	}))

	_, err := client.DualQuery(context.Background(), "bad question", ModeAuto)
	var qerr *QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "Failed to execute query", qerr.Message)
}

func TestQueryAuthErrors(t *testing.T) {
	for status, want := range map[int]error{
		http.StatusUnauthorized: ErrUnauthenticated,
		http.StatusForbidden:    ErrForbidden,
	} {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		_, err := client.DualQuery(context.Background(), "q", ModeAuto)
		assert.ErrorIs(t, err, want, "status %d", status)
	}
}

func TestQueryServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"boom"}`))
	}))

	_, err := client.Chat(context.Background(), "q", ModeAuto)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestQueryEmptyQuestion(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	_, err := client.Chat(context.Background(), "   ", ModeAuto)
	var qerr *QueryError
	assert.ErrorAs(t, err, &qerr)
}

func TestMalformedChartIsDropped(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"response":"ok","chart_config":{"type":"line","data":42}}`))
	}))

	res, err := client.DualQuery(context.Background(), "q", ModeAuto)
	require.NoError(t, err)
	assert.Nil(t, res.Chart, "malformed chart must not fail the answer")
}

func TestRowCountFallsBackToResults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"response":"ok","results":[{"a":1},{"a":2}]}`))
	}))
	res, err := client.Chat(context.Background(), "q", ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowCount)
}

func TestHealthDegradedOnTransportFailure(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = "http://127.0.0.1:1" // nothing listens here
	cfg.API.MaxRetries = 0
	client := New(cfg).WithTimeout(time.Second)

	hs := client.Health(context.Background())
	assert.False(t, hs.OK())
	assert.Equal(t, "error", hs.Status)
}

func TestHealthOK(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, healthPath, r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok","services":{"nlp":"ok"}}`))
	}))
	hs := client.Health(context.Background())
	assert.True(t, hs.OK())
}

func TestSchema(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, schemaPath, r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"tables":{"furnace_kpi":{"description":"Daily KPIs","columns":["furnace","oee"]}}}`))
	}))
	si, err := client.Schema(context.Background())
	require.NoError(t, err)
	assert.Contains(t, si.Tables, "furnace_kpi")
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))

	hs := client.Health(context.Background())
	assert.True(t, hs.OK())
	assert.Equal(t, 2, attempts)
}

func TestQueriesAreNotRetried(t *testing.T) {
	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Chat(context.Background(), "q", ModeAuto)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 1, attempts, "query endpoints must not auto-retry")
}

func TestResolveAssetURL(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = "http://backend:8000"
	cfg.API.AssetBaseURL = "http://assets:9000"
	client := New(cfg)

	assert.Equal(t, "http://assets:9000/brd_images/p1.png",
		client.ResolveAssetURL(model.ImageRef{Path: "/brd_images/p1.png"}))
	assert.Equal(t, "http://assets:9000/rel.png",
		client.ResolveAssetURL(model.ImageRef{Path: "rel.png"}))
	assert.Equal(t, "https://cdn/x.png",
		client.ResolveAssetURL(model.ImageRef{Path: "https://cdn/x.png"}))
}

func TestModeCycle(t *testing.T) {
	m := ModeAuto
	seen := []Mode{m}
	for i := 0; i < 3; i++ {
		m = m.Next()
		seen = append(seen, m)
	}
	assert.Equal(t, []Mode{ModeAuto, ModeNLPSQL, ModeRAG, ModeAuto}, seen)
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.False(t, IsTimeout(errors.New("other")))
}
