// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ignis-analytics/metalquery-tui/internal/model"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

// series is one plottable value column.
type series struct {
	name  string
	color lipgloss.TerminalColor
	vals  []float64
}

// seriesDef is a resolved series request: the field to read, the legend
// name, and an explicit color (empty means palette by index).
type seriesDef struct {
	key   string
	name  string
	color string
}

func lineDefs(lines []model.LineSeries) []seriesDef {
	defs := make([]seriesDef, 0, len(lines))
	for _, l := range lines {
		defs = append(defs, seriesDef{key: l.DataKey, name: l.Name, color: l.Stroke})
	}
	return defs
}

func barDefs(bars []model.BarSeries) []seriesDef {
	defs := make([]seriesDef, 0, len(bars))
	for _, b := range bars {
		defs = append(defs, seriesDef{key: b.DataKey, name: b.Name, color: b.Fill})
	}
	return defs
}

// extractSeries splits rows into category labels and numeric series. The
// category axis is xKey when given, otherwise the first column. Explicit
// defs select the plotted fields; without them the second column is the
// single default series. A one-column result plots that column against
// row indices.
func extractSeries(rows []model.Record, xKey string, defs []seriesDef) (labels []string, out []series) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := rows[0].Columns()
	if len(cols) == 0 {
		return nil, nil
	}

	labelCol := xKey
	if labelCol == "" {
		labelCol = cols[0]
	}
	if len(defs) == 0 {
		if len(cols) == 1 {
			// No label column; index the rows.
			labelCol = ""
		}
		if key := defaultSeriesKey(cols, labelCol); key != "" {
			defs = []seriesDef{{key: key}}
		}
	}

	for i := range rows {
		if labelCol == "" {
			labels = append(labels, fmt.Sprintf("%d", i+1))
		} else {
			labels = append(labels, cellString(rows[i].Get(labelCol)))
		}
	}

	for idx, def := range defs {
		if def.key == "" {
			continue
		}
		s := series{
			name:  def.name,
			color: styles.SeriesColor(idx),
			vals:  make([]float64, len(rows)),
		}
		if s.name == "" {
			s.name = def.key
		}
		if def.color != "" {
			s.color = lipgloss.Color(def.color)
		}
		for i := range rows {
			// Cells that fail numeric coercion plot as zero.
			v, _ := rows[i].Float(def.key)
			s.vals[i] = v
		}
		out = append(out, s)
	}
	return labels, out
}

// defaultSeriesKey picks the implicit series field: the second field of
// the record, that is the first column that is not the category axis.
// Extra columns stay unplotted unless options name them explicitly.
func defaultSeriesKey(cols []string, labelCol string) string {
	for _, col := range cols {
		if col != labelCol {
			return col
		}
	}
	return ""
}

// valueRange returns the min and max across all series, widened to include
// zero so bar baselines make sense.
func valueRange(all []series) (lo, hi float64) {
	lo, hi = 0, 0
	for _, s := range all {
		for _, v := range s.vals {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

// cellString renders a category label cell.
func cellString(v any) string {
	if v == nil {
		return "-"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
