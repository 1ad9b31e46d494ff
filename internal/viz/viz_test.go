// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viz

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ignis-analytics/metalquery-tui/internal/model"
)

func mustSpec(t *testing.T, raw string) *model.ChartSpec {
	t.Helper()
	var s model.ChartSpec
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("spec: %v", err)
	}
	return &s
}

func mustRows(t *testing.T, raw string) []model.Record {
	t.Helper()
	var rows []model.Record
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		t.Fatalf("rows: %v", err)
	}
	return rows
}

func TestRenderUnknownTypeIsEmpty(t *testing.T) {
	r := New(80)
	spec := mustSpec(t, `{"type":"scatter","data":[{"x":1,"y":2}]}`)
	if got := r.Render(spec, nil); got != "" {
		t.Errorf("unknown type rendered %q", got)
	}
}

func TestRenderEmptySeriesIsEmpty(t *testing.T) {
	r := New(80)
	for _, typ := range []string{"line", "bar", "pie", "area", "metric_grid"} {
		spec := mustSpec(t, `{"type":"`+typ+`","data":[]}`)
		if got := r.Render(spec, nil); got != "" {
			t.Errorf("%s with no data rendered %q", typ, got)
		}
	}
}

func TestRenderFallsBackToResultRows(t *testing.T) {
	r := New(80)
	spec := mustSpec(t, `{"type":"bar","options":{"title":"OEE"}}`)
	rows := mustRows(t, `[{"furnace":"F1","oee":87},{"furnace":"F2","oee":63}]`)
	out := r.Render(spec, rows)
	if out == "" {
		t.Fatal("expected output from fallback rows")
	}
	if !strings.Contains(out, "F1") || !strings.Contains(out, "F2") {
		t.Errorf("bar labels missing: %q", out)
	}
	if !strings.Contains(out, "OEE") {
		t.Errorf("title missing: %q", out)
	}
}

func TestInlineDataWinsOverFallback(t *testing.T) {
	r := New(80)
	spec := mustSpec(t, `{"type":"bar","data":[{"furnace":"F9","oee":42}]}`)
	fallback := mustRows(t, `[{"furnace":"F1","oee":87}]`)
	out := r.Render(spec, fallback)
	if !strings.Contains(out, "F9") || strings.Contains(out, "F1") {
		t.Errorf("inline data should win: %q", out)
	}
}

func TestGaugeClampsPercentage(t *testing.T) {
	r := New(80)

	over := mustSpec(t, `{"type":"gauge","data":{"value":150,"max":100}}`)
	out := r.Render(over, nil)
	if !strings.Contains(out, "100%") {
		t.Errorf("overflow gauge should clamp to 100%%: %q", out)
	}

	under := mustSpec(t, `{"type":"gauge","data":{"value":-5,"max":100}}`)
	out = r.Render(under, nil)
	if !strings.Contains(out, "0%") {
		t.Errorf("negative gauge should clamp to 0%%: %q", out)
	}
}

func TestGaugeDefaults(t *testing.T) {
	r := New(80)

	// No datum at all: value 0, max 100. Scalar charts render regardless.
	spec := mustSpec(t, `{"type":"gauge","options":{"title":"Utilization"}}`)
	out := r.Render(spec, nil)
	if out == "" {
		t.Fatal("gauge with no data must still render")
	}
	if !strings.Contains(out, "0%") || !strings.Contains(out, "Utilization") {
		t.Errorf("gauge defaults wrong: %q", out)
	}

	// Non-numeric value reads as zero; zero max reads as 100.
	spec = mustSpec(t, `{"type":"gauge","data":{"value":"n/a","max":0}}`)
	if out := r.Render(spec, nil); !strings.Contains(out, "0 / 100") {
		t.Errorf("gauge coercion wrong: %q", out)
	}
}

func TestGaugeBounds(t *testing.T) {
	spec := mustSpec(t, `{"type":"gauge","data":{"value":60}}`)
	if low, high := gaugeBounds(spec.Options.Thresholds); low != 50 || high != 80 {
		t.Errorf("default bounds = %v %v", low, high)
	}

	spec = mustSpec(t, `{"type":"gauge","options":{"thresholds":{"low":70,"medium":90}},"data":{"value":60}}`)
	if low, high := gaugeBounds(spec.Options.Thresholds); low != 70 || high != 90 {
		t.Errorf("overridden bounds = %v %v", low, high)
	}

	// Each bound overrides independently.
	spec = mustSpec(t, `{"type":"gauge","options":{"thresholds":{"medium":95}},"data":{"value":60}}`)
	if low, high := gaugeBounds(spec.Options.Thresholds); low != 50 || high != 95 {
		t.Errorf("partial override = %v %v", low, high)
	}

	spec = mustSpec(t, `{"type":"gauge","options":{"thresholds":{"high":85}},"data":{"value":60}}`)
	if _, high := gaugeBounds(spec.Options.Thresholds); high != 85 {
		t.Errorf("high alias = %v", high)
	}
}

func TestGaugeWithThresholdOptions(t *testing.T) {
	r := New(80)
	spec := mustSpec(t, `{"type":"gauge","options":{"title":"Yield","thresholds":{"low":70,"medium":90}},"data":{"value":60,"max":100}}`)
	out := r.Render(spec, nil)
	if !strings.Contains(out, "Yield") || !strings.Contains(out, "60%") {
		t.Errorf("gauge with thresholds wrong: %q", out)
	}
}

func TestProgressBarAlias(t *testing.T) {
	r := New(80)
	spec := mustSpec(t, `{"type":"progress_bar","data":{"value":50}}`)
	if out := r.Render(spec, nil); !strings.Contains(out, "50%") {
		t.Errorf("progress_bar alias should render a gauge: %q", out)
	}
}

func TestKPICard(t *testing.T) {
	r := New(80)
	spec := mustSpec(t, `{"type":"kpi_card","data":{"value":1450,"label":"Tensile Strength","unit":"MPa","trend":-2.5}}`)
	out := r.Render(spec, nil)
	for _, want := range []string{"Tensile Strength", "1,450", "MPa", "↓", "2.5%"} {
		if !strings.Contains(out, want) {
			t.Errorf("kpi card missing %q: %q", want, out)
		}
	}
}

func TestKPICardOptionFields(t *testing.T) {
	r := New(80)

	// Title, unit, and trend ride in the options bag.
	spec := mustSpec(t, `{"type":"kpi_card","options":{"title":"Avg OEE","unit":"%","trend":2.5},"data":{"value":87.5}}`)
	out := r.Render(spec, nil)
	for _, want := range []string{"Avg OEE", "87.5", "%", "↑", "2.5%"} {
		if !strings.Contains(out, want) {
			t.Errorf("kpi card missing %q: %q", want, out)
		}
	}

	// A subtitle in the data object renders under the value.
	spec = mustSpec(t, `{"type":"kpi_card","options":{"title":"Best Performer"},"data":{"value":"Furnace 1","subtitle":"87.5 %"}}`)
	out = r.Render(spec, nil)
	if !strings.Contains(out, "Furnace 1") || !strings.Contains(out, "87.5 %") {
		t.Errorf("kpi subtitle missing: %q", out)
	}
}

func TestKPITrendArrows(t *testing.T) {
	tests := []struct {
		data string
		want string
	}{
		{`{"value":1,"trend":3}`, "↑"},
		{`{"value":1,"trend":-3}`, "↓"},
		{`{"value":1,"trend":0}`, "→"},
	}
	r := New(80)
	for _, tt := range tests {
		spec := mustSpec(t, `{"type":"kpi_card","data":`+tt.data+`}`)
		if out := r.Render(spec, nil); !strings.Contains(out, tt.want) {
			t.Errorf("data %s: want arrow %q in %q", tt.data, tt.want, out)
		}
	}
}

func TestMetricGridColumns(t *testing.T) {
	r := New(120)
	spec := mustSpec(t, `{"type":"metric_grid","data":[
		{"label":"OEE","value":87,"unit":"%"},
		{"label":"Yield","value":92,"unit":"%"},
		{"label":"MTBF","value":140,"unit":"h"},
		{"label":"MTTR","value":3,"unit":"h"},
		{"label":"Downtime","value":12,"unit":"h"},
		{"label":"Energy","value":5400,"unit":"kWh"}]}`)
	out := r.Render(spec, nil)
	for _, want := range []string{"OEE", "Yield", "MTBF", "MTTR", "Downtime", "Energy", "5,400"} {
		if !strings.Contains(out, want) {
			t.Errorf("metric grid missing %q", want)
		}
	}
	// Six metrics in four default columns means two card rows; the border
	// glyph count reflects the wrap.
	if lines := strings.Count(out, "\n"); lines < 6 {
		t.Errorf("expected wrapped grid, got %d lines", lines)
	}
}

func TestPieKeyFallbacks(t *testing.T) {
	r := New(60)

	// First column labels, second column carries the value.
	spec := mustSpec(t, `{"type":"pie","data":[{"name":"F1","value":60},{"name":"F2","value":40}]}`)
	out := r.Render(spec, nil)
	if !strings.Contains(out, "F1: 60%") || !strings.Contains(out, "F2: 40%") {
		t.Errorf("pie percentages wrong: %q", out)
	}

	spec = mustSpec(t, `{"type":"pie","data":[{"furnace":"F1","downtime":30},{"furnace":"F2","downtime":10}]}`)
	out = r.Render(spec, nil)
	if !strings.Contains(out, "F1: 75%") {
		t.Errorf("pie fallback keys wrong: %q", out)
	}
}

func TestPieExplicitKeysWin(t *testing.T) {
	r := New(60)

	// nameKey/dataKey override the positional defaults even when the
	// value column comes first in the record.
	spec := mustSpec(t, `{"type":"pie","options":{"nameKey":"furnace","dataKey":"share"},"data":[{"share":60,"other":1,"furnace":"F1"},{"share":40,"other":9,"furnace":"F2"}]}`)
	out := r.Render(spec, nil)
	if !strings.Contains(out, "F1: 60%") || !strings.Contains(out, "F2: 40%") {
		t.Errorf("pie option keys ignored: %q", out)
	}
}

func TestLineChartDefaultsToSecondField(t *testing.T) {
	r := New(80)
	spec := mustSpec(t, `{"type":"line","data":[
		{"day":"Mon","oee":70,"yield":90},
		{"day":"Tue","oee":75,"yield":91},
		{"day":"Wed","oee":80,"yield":89}]}`)
	out := r.Render(spec, nil)
	if out == "" {
		t.Fatal("line chart empty")
	}
	if !strings.Contains(out, "Mon") {
		t.Errorf("axis labels missing: %q", out)
	}
	// Only the second field plots by default, so there is a single
	// series and no legend.
	if strings.Contains(out, "yield") {
		t.Errorf("third column plotted without a lines definition: %q", out)
	}
}

func TestLineChartExplicitSeries(t *testing.T) {
	r := New(80)
	spec := mustSpec(t, `{"type":"line","options":{
		"xAxis":{"dataKey":"day"},
		"lines":[
			{"dataKey":"oee","stroke":"#3B82F6","name":"OEE"},
			{"dataKey":"yield","stroke":"#22C55E"}]},
		"data":[
		{"day":"Mon","oee":70,"yield":90},
		{"day":"Tue","oee":75,"yield":91}]}`)
	out := r.Render(spec, nil)
	if out == "" {
		t.Fatal("line chart empty")
	}
	// Two defined series means a legend with the series names.
	if !strings.Contains(out, "OEE") || !strings.Contains(out, "yield") {
		t.Errorf("legend missing: %q", out)
	}
}

func TestBarChartSeriesOptions(t *testing.T) {
	r := New(80)
	spec := mustSpec(t, `{"type":"bar","options":{
		"title":"OEE by Furnace",
		"xAxis":{"dataKey":"furnace"},
		"bars":[{"dataKey":"oee","fill":"#3B82F6"}]},
		"data":[{"oee":87,"furnace":"F1"},{"oee":63,"furnace":"F2"}]}`)
	out := r.Render(spec, nil)
	if !strings.Contains(out, "OEE by Furnace") {
		t.Errorf("options title missing: %q", out)
	}
	if !strings.Contains(out, "F1") || !strings.Contains(out, "F2") {
		t.Errorf("xAxis.dataKey labels missing: %q", out)
	}
	if !strings.Contains(out, "87") || !strings.Contains(out, "63") {
		t.Errorf("bar values missing: %q", out)
	}
}

func TestAreaChartRenders(t *testing.T) {
	r := New(80)
	spec := mustSpec(t, `{"type":"area","data":[{"day":"Mon","oee":70},{"day":"Tue","oee":75}]}`)
	if out := r.Render(spec, nil); out == "" {
		t.Fatal("area chart empty")
	}
}

func TestRenderSafeNeverPanics(t *testing.T) {
	r := New(20)
	malformed := []string{
		`{"type":"line","data":[{}]}`,
		`{"type":"bar","data":[{"only_text":"a"},{"only_text":"b"}]}`,
		`{"type":"pie","data":[{"name":"x","value":0}]}`,
		`{"type":"metric_grid","data":[{"nolabel":true}]}`,
		`{"type":"kpi_card"}`,
		`{"type":"gauge"}`,
	}
	for _, raw := range malformed {
		spec := mustSpec(t, raw)
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					t.Errorf("RenderSafe leaked panic for %s: %v", raw, rec)
				}
			}()
			_, _ = r.RenderSafe(spec, nil)
		}()
	}
}

func TestRenderNilSpec(t *testing.T) {
	r := New(80)
	if got := r.Render(nil, nil); got != "" {
		t.Errorf("nil spec rendered %q", got)
	}
}
