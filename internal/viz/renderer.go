// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viz renders chart specifications as terminal graphics. Seven
// chart kinds are supported: line, bar, pie, area, gauge, KPI card, and
// metric grid. Everything is plain text plus ANSI color, sized to a
// caller-provided width.
package viz

import (
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ignis-analytics/metalquery-tui/internal/logger"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

const (
	// minWidth is the narrowest chart worth drawing.
	minWidth = 20
	// plotHeight is the row count for line and area plots.
	plotHeight = 10
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(styles.TextPrimary)

// Renderer draws chart specifications at a fixed width.
type Renderer struct {
	width int
	log   *zap.Logger
}

// New creates a renderer for the given content width.
func New(width int) *Renderer {
	if width < minWidth {
		width = minWidth
	}
	return &Renderer{
		width: width,
		log:   logger.L().Named("viz"),
	}
}

// RenderSafe renders a chart, isolating the caller from renderer panics.
// A panicking chart returns ok=false so the caller can fall back to the
// result table; a bad chart must never take down the whole view.
func (r *Renderer) RenderSafe(spec *model.ChartSpec, fallback []model.Record) (out string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("chart renderer panic",
				zap.String("type", spec.Type.String()),
				zap.Any("panic", rec))
			out = ""
			ok = false
		}
	}()
	return r.Render(spec, fallback), true
}

// Render dispatches on the chart type. Series charts with no data render
// nothing; gauge and KPI cards render from their datum object regardless
// of row data. An unknown type logs a warning and renders nothing.
func (r *Renderer) Render(spec *model.ChartSpec, fallback []model.Record) string {
	if spec == nil {
		return ""
	}

	// Inline chart data wins; otherwise fall back to the result rows.
	rows := spec.Rows
	if len(rows) == 0 {
		rows = fallback
	}

	var body string
	switch spec.Type {
	case model.ChartTypeLine:
		body = r.renderLine(rows, spec.Options, false)
	case model.ChartTypeArea:
		body = r.renderLine(rows, spec.Options, true)
	case model.ChartTypeBar:
		body = r.renderBar(rows, spec.Options)
	case model.ChartTypePie:
		body = r.renderPie(rows, spec.Options)
	case model.ChartTypeGauge:
		return r.renderGauge(spec)
	case model.ChartTypeKPICard:
		return r.renderKPICard(spec)
	case model.ChartTypeMetricGrid:
		body = r.renderMetricGrid(rows, spec.Options)
	default:
		r.log.Warn("unknown chart type", zap.String("type", spec.RawType))
		return ""
	}
	if body == "" {
		return ""
	}

	// Gauge and KPI card draw their own captions; everything else gets
	// the title above the body.
	if spec.Title != "" {
		return titleStyle.Render(spec.Title) + "\n" + body
	}
	return body
}
