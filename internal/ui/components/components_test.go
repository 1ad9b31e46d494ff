// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ignis-analytics/metalquery-tui/internal/model"
)

func rows(t *testing.T, raw string) []model.Record {
	t.Helper()
	var out []model.Record
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("rows: %v", err)
	}
	return out
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short line untouched", "hello world", 20, "hello world"},
		{"wraps at word boundary", "show oee by furnace", 10, "show oee\nby furnace"},
		{"hard breaks long word", "abcdefghij", 4, "abcd\nefgh\nij"},
		{"keeps existing newlines", "a\nb", 10, "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wordWrap(tt.in, tt.width); got != tt.want {
				t.Errorf("wordWrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestResultTableHeadersAndOrder(t *testing.T) {
	table := NewResultTable(rows(t, `[{"furnace_name":"F1","downtime_hours":3,"oee":87.5}]`), 1)
	out := table.Render()

	// Underscores become spaces in headers.
	if !strings.Contains(out, "furnace name") || !strings.Contains(out, "downtime hours") {
		t.Errorf("headers not humanized: %q", out)
	}
	// Column order follows the record's wire order.
	if strings.Index(out, "furnace name") > strings.Index(out, "downtime hours") {
		t.Errorf("column order lost: %q", out)
	}
	if !strings.Contains(out, "Data Results (1 row)") {
		t.Errorf("caption missing: %q", out)
	}
}

func TestResultTableRowLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < 25; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"n":` + string(rune('0'+i%10)) + `}`)
	}
	sb.WriteString("]")
	table := NewResultTable(rows(t, sb.String()), 25)
	table.RowLimit = 20
	out := table.Render()

	if !strings.Contains(out, "... and 5 more rows") {
		t.Errorf("overflow note missing: %q", out)
	}
	if !strings.Contains(out, "Data Results (25 rows)") {
		t.Errorf("caption missing: %q", out)
	}
}

func TestResultTableEmpty(t *testing.T) {
	if out := NewResultTable(nil, 0).Render(); out != "" {
		t.Errorf("empty table rendered %q", out)
	}
}

func TestResultTableFormatsCells(t *testing.T) {
	table := NewResultTable(rows(t, `[{"alloy":"X40","tensile_strength":1450,"poisson_ratio":0.29}]`), 1)
	out := table.Render()
	if !strings.Contains(out, "1,450 MPa") {
		t.Errorf("strength not formatted: %q", out)
	}
	if !strings.Contains(out, "0.290") {
		t.Errorf("ratio not formatted: %q", out)
	}
}

func TestMessageBubbleUser(t *testing.T) {
	msg := model.NewUserMessage("show oee by furnace")
	b := NewMessageBubble(msg)
	b.SetWidth(80)
	out := b.View()
	if !strings.Contains(out, "show oee by furnace") {
		t.Errorf("content missing: %q", out)
	}
	if !strings.Contains(out, "you") {
		t.Errorf("role header missing: %q", out)
	}
}

func TestMessageBubbleError(t *testing.T) {
	msg := model.NewErrorMessage("Sorry, I couldn't process that: no such table")
	b := NewMessageBubble(msg)
	b.SetWidth(80)
	out := b.View()
	if !strings.Contains(out, "[X]") {
		t.Errorf("error indicator missing: %q", out)
	}
	if !strings.Contains(out, "no such table") {
		t.Errorf("error text missing: %q", out)
	}
}

func TestMessageBubbleArtifacts(t *testing.T) {
	msg := model.NewAssistantMessage("Furnace 1 leads on OEE.")
	msg.SQL = "SELECT furnace, oee FROM kpi"
	msg.Results = rows(t, `[{"furnace":"F1","oee":87.5}]`)
	msg.RowCount = 1
	conf := 91.0
	msg.Confidence = &conf

	b := NewMessageBubble(msg)
	b.SetWidth(100)
	out := b.View()

	for _, want := range []string{"Furnace 1 leads on OEE.", "SQL", "Data Results", "confidence", "91%"} {
		if !strings.Contains(out, want) {
			t.Errorf("artifact %q missing", want)
		}
	}
}

func TestMessageBubbleHidesSQLWhenDisabled(t *testing.T) {
	msg := model.NewAssistantMessage("answer")
	msg.SQL = "SELECT secret FROM t"
	b := NewMessageBubble(msg)
	b.ShowSQL = false
	b.SetWidth(80)
	if strings.Contains(b.View(), "SELECT secret") {
		t.Error("SQL shown despite ShowSQL=false")
	}
}

func TestImageGallery(t *testing.T) {
	g := ImageGallery{
		Images: []model.ImageRef{
			{Path: "/brd_images/p1.png", Caption: "Furnace layout", Source: "BRD-7", Page: 12},
		},
		ResolveURL: func(r model.ImageRef) string { return "http://assets" + r.Path },
		MaxWidth:   80,
	}
	out := g.Render()
	for _, want := range []string{"Document Images (1)", "Furnace layout", "BRD-7", "p. 12", "http://assets/brd_images/p1.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("gallery missing %q: %q", want, out)
		}
	}
}

func TestRenderScores(t *testing.T) {
	if RenderScores(nil, nil) != "" {
		t.Error("no scores should render empty")
	}
	c, r := 91.0, 42.0
	out := RenderScores(&c, &r)
	if !strings.Contains(out, "confidence") || !strings.Contains(out, "91%") {
		t.Errorf("confidence missing: %q", out)
	}
	if !strings.Contains(out, "relevance") || !strings.Contains(out, "42%") {
		t.Errorf("relevance missing: %q", out)
	}
}

func TestRenderScoresKeepsScale(t *testing.T) {
	// Scores arrive in 0..100 and render as-is.
	c := 87.0
	out := RenderScores(&c, nil)
	if !strings.Contains(out, "87%") {
		t.Errorf("score rescaled: %q", out)
	}
	if strings.Contains(out, "8700%") {
		t.Errorf("score multiplied: %q", out)
	}
}

func TestRenderSuggestions(t *testing.T) {
	out := RenderSuggestions(100)
	if !strings.Contains(out, "Try asking:") {
		t.Errorf("title missing: %q", out)
	}
	for _, s := range Suggestions {
		if !strings.Contains(out, s) {
			t.Errorf("suggestion %q missing", s)
		}
	}
}

func TestStatusBar(t *testing.T) {
	bar := StatusBar{Width: 60, ModeLabel: "Auto", HealthKnow: true, Healthy: true}
	out := bar.View()
	if !strings.Contains(out, "mode:Auto") {
		t.Errorf("mode missing: %q", out)
	}
	if !strings.Contains(out, "[*] backend") {
		t.Errorf("health indicator missing: %q", out)
	}

	bar.Healthy = false
	if !strings.Contains(bar.View(), "[X] backend") {
		t.Error("unhealthy indicator missing")
	}
}
