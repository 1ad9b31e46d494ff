// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// CHART TYPE ENUM
// =============================================================================

// ChartType is the closed set of chart kinds the renderer understands.
// Anything else decodes to ChartTypeUnknown and is skipped at render time.
type ChartType int

const (
	ChartTypeUnknown ChartType = iota
	ChartTypeLine
	ChartTypeBar
	ChartTypePie
	ChartTypeArea
	ChartTypeGauge
	ChartTypeKPICard
	ChartTypeMetricGrid
)

// String returns the wire name of the chart type.
func (t ChartType) String() string {
	switch t {
	case ChartTypeLine:
		return "line"
	case ChartTypeBar:
		return "bar"
	case ChartTypePie:
		return "pie"
	case ChartTypeArea:
		return "area"
	case ChartTypeGauge:
		return "gauge"
	case ChartTypeKPICard:
		return "kpi_card"
	case ChartTypeMetricGrid:
		return "metric_grid"
	default:
		return "unknown"
	}
}

// ParseChartType maps a wire name to a ChartType. "progress_bar" is an
// alias some server versions emit for gauge.
func ParseChartType(s string) ChartType {
	switch s {
	case "line":
		return ChartTypeLine
	case "bar":
		return ChartTypeBar
	case "pie":
		return ChartTypePie
	case "area":
		return ChartTypeArea
	case "gauge", "progress_bar":
		return ChartTypeGauge
	case "kpi_card":
		return ChartTypeKPICard
	case "metric_grid":
		return ChartTypeMetricGrid
	default:
		return ChartTypeUnknown
	}
}

// IsScalar reports whether the type renders from a single data object
// rather than a series of rows. Scalar charts render even with no rows.
func (t ChartType) IsScalar() bool {
	return t == ChartTypeGauge || t == ChartTypeKPICard
}

// =============================================================================
// CHART SPECIFICATION
// =============================================================================

// AxisOptions names the record field an axis reads from.
type AxisOptions struct {
	DataKey string `json:"dataKey"`
	Label   string `json:"label,omitempty"`
}

// LineSeries defines one plotted line: the field it reads, an optional
// explicit stroke color, and a display name for the legend.
type LineSeries struct {
	DataKey     string  `json:"dataKey"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Name        string  `json:"name,omitempty"`
}

// BarSeries defines one bar series field with an optional fill color.
type BarSeries struct {
	DataKey string `json:"dataKey"`
	Fill    string `json:"fill,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Thresholds overrides the gauge color bands. Each bound is optional
// and independent of the others.
type Thresholds struct {
	Low    *float64 `json:"low,omitempty"`
	Medium *float64 `json:"medium,omitempty"`
	High   *float64 `json:"high,omitempty"`
}

// ChartOptions is the per-chart display configuration bag. Keys the
// renderer does not recognize are dropped at decode; missing keys fall
// back to per-type defaults.
type ChartOptions struct {
	Title  string   `json:"title,omitempty"`
	Unit   string   `json:"unit,omitempty"`
	Trend  *float64 `json:"trend,omitempty"`
	Color  string   `json:"color,omitempty"`
	Legend bool     `json:"legend,omitempty"`

	// Series charts.
	XAxis AxisOptions  `json:"xAxis"`
	Lines []LineSeries `json:"lines,omitempty"`
	Bars  []BarSeries  `json:"bars,omitempty"`

	// Pie slice label/value fields plus donut geometry. The geometry is
	// meaningless in a terminal band and is accepted but unused.
	NameKey     string  `json:"nameKey,omitempty"`
	DataKey     string  `json:"dataKey,omitempty"`
	InnerRadius float64 `json:"innerRadius,omitempty"`
	OuterRadius float64 `json:"outerRadius,omitempty"`

	Thresholds Thresholds `json:"thresholds"`

	// Columns overrides the metric grid column count.
	Columns int `json:"columns,omitempty"`
}

// ChartSpec describes a chart the server asked the client to draw.
// Data arrives either as an array of rows (series charts, metric grids)
// or as a single object (gauge, KPI card); exactly one of Rows and Datum
// is populated after decoding. Title is the options title hoisted out
// for the renderer.
type ChartSpec struct {
	Type    ChartType
	RawType string
	Title   string
	Rows    []Record
	Datum   *Record
	Options ChartOptions
}

// HasData reports whether there is anything to draw. Scalar charts count
// as having data whenever their datum object is present.
func (s *ChartSpec) HasData() bool {
	if s.Type.IsScalar() {
		return s.Datum != nil
	}
	return len(s.Rows) > 0
}

// UnmarshalJSON validates the chart specification at the decode boundary:
// the envelope must be an object, and data must be an array of objects or
// a single object. An unrecognized type name is not an error; it decodes
// to ChartTypeUnknown so the renderer can log and skip it.
func (s *ChartSpec) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    string          `json:"type"`
		Data    json.RawMessage `json:"data"`
		Options ChartOptions    `json:"options"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("chart spec: %w", err)
	}

	s.RawType = raw.Type
	s.Type = ParseChartType(raw.Type)
	s.Options = raw.Options
	s.Title = raw.Options.Title
	s.Rows = nil
	s.Datum = nil

	if len(raw.Data) == 0 {
		return nil
	}
	switch firstByte(raw.Data) {
	case '[':
		if err := json.Unmarshal(raw.Data, &s.Rows); err != nil {
			return fmt.Errorf("chart spec: data rows: %w", err)
		}
	case '{':
		var d Record
		if err := json.Unmarshal(raw.Data, &d); err != nil {
			return fmt.Errorf("chart spec: data object: %w", err)
		}
		s.Datum = &d
	case 'n': // null
		// No inline data; the renderer falls back to the result rows.
	default:
		return fmt.Errorf("chart spec: data must be an object or array")
	}
	return nil
}

func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
