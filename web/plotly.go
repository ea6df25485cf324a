package web

import (
	"encoding/json"
	"fmt"
	"strconv"

	"vehicles-dashboard/models"
)

// EmptyMessage is shown in place of a chart whose filters match nothing.
const EmptyMessage = "No listings match the current filters."

const trendColor = "#111827"

// Figure converts a chart description into a Plotly figure with "data" and
// "layout" keys.
func Figure(spec models.ChartSpec) map[string]any {
	layout := map[string]any{
		"title":      map[string]any{"text": spec.Title},
		"margin":     map[string]any{"t": 60, "r": 20, "b": 60, "l": 70},
		"showlegend": len(spec.Series) > 1 || spec.Trend != nil,
	}
	if spec.XLabel != "" {
		layout["xaxis"] = map[string]any{"title": map[string]any{"text": spec.XLabel}}
	}
	if spec.YLabel != "" {
		layout["yaxis"] = map[string]any{"title": map[string]any{"text": spec.YLabel}}
	}
	if spec.ColorLabel != "" {
		layout["legend"] = map[string]any{"title": map[string]any{"text": spec.ColorLabel}}
	}

	if spec.IsEmpty() {
		layout["xaxis"] = map[string]any{"visible": false}
		layout["yaxis"] = map[string]any{"visible": false}
		layout["annotations"] = []map[string]any{{
			"text":      EmptyMessage,
			"showarrow": false,
			"xref":      "paper",
			"yref":      "paper",
			"x":         0.5,
			"y":         0.5,
			"font":      map[string]any{"size": 16},
		}}
		return map[string]any{"data": []any{}, "layout": layout}
	}

	var data []map[string]any
	switch spec.Kind {
	case models.KindHistogram:
		data = histogramTraces(spec)
		layout["barmode"] = "stack"
		layout["bargap"] = 0
	case models.KindScatter:
		data = scatterTraces(spec)
	case models.KindChoropleth:
		data = []map[string]any{choroplethTrace(spec)}
		layout["geo"] = map[string]any{"scope": "usa"}
	case models.KindBar:
		data = barTraces(spec)
	case models.KindLine:
		data = lineTraces(spec)
	}
	return map[string]any{"data": data, "layout": layout}
}

// FigureJSON marshals Figure(spec).
func FigureJSON(spec models.ChartSpec) ([]byte, error) {
	b, err := json.Marshal(Figure(spec))
	if err != nil {
		return nil, fmt.Errorf("web: marshal %s figure: %w", spec.ID, err)
	}
	return b, nil
}

// reactScript draws fig into the chart container of view.
func reactScript(view models.ViewID, fig []byte) string {
	return fmt.Sprintf("(function(f){Plotly.react(%s, f.data, f.layout, {responsive: true, displaylogo: false});})(%s)",
		strconv.Quote(chartID(view)), fig)
}

func histogramTraces(spec models.ChartSpec) []map[string]any {
	traces := make([]map[string]any, 0, len(spec.Series))
	for i, s := range spec.Series {
		x := make([]float64, len(s.Bins))
		y := make([]int, len(s.Bins))
		width := make([]float64, len(s.Bins))
		for j, b := range s.Bins {
			x[j] = (b.Lo + b.Hi) / 2
			y[j] = b.Count
			width[j] = b.Hi - b.Lo
		}
		traces = append(traces, map[string]any{
			"type":   "bar",
			"name":   s.Name,
			"x":      x,
			"y":      y,
			"width":  width,
			"marker": map[string]any{"color": models.SeriesColor(i)},
		})
	}
	return traces
}

func scatterTraces(spec models.ChartSpec) []map[string]any {
	traces := make([]map[string]any, 0, len(spec.Series)+1)
	for i, s := range spec.Series {
		x := make([]float64, len(s.Points))
		y := make([]float64, len(s.Points))
		for j, p := range s.Points {
			x[j], y[j] = p.X, p.Y
		}
		traces = append(traces, map[string]any{
			"type": "scattergl",
			"mode": "markers",
			"name": s.Name,
			"x":    x,
			"y":    y,
			"marker": map[string]any{
				"color":   models.SeriesColor(i),
				"opacity": spec.Opacity,
				"size":    5,
			},
		})
	}
	if t := spec.Trend; t != nil {
		traces = append(traces, map[string]any{
			"type": "scatter",
			"mode": "lines",
			"name": "trend",
			"x":    []float64{t.X0, t.X1},
			"y":    []float64{t.At(t.X0), t.At(t.X1)},
			"line": map[string]any{"color": trendColor, "width": 2},
		})
	}
	return traces
}

func choroplethTrace(spec models.ChartSpec) map[string]any {
	codes := make([]string, len(spec.Regions))
	values := make([]float64, len(spec.Regions))
	for i, r := range spec.Regions {
		codes[i], values[i] = r.Code, r.Value
	}
	return map[string]any{
		"type":         "choropleth",
		"locationmode": "USA-states",
		"locations":    codes,
		"z":            values,
		"colorscale":   "Blues",
		"colorbar":     map[string]any{"title": map[string]any{"text": spec.ColorLabel}},
	}
}

func barTraces(spec models.ChartSpec) []map[string]any {
	traces := make([]map[string]any, 0, len(spec.Series))
	for i, s := range spec.Series {
		x := make([]string, len(s.Points))
		y := make([]float64, len(s.Points))
		for j, p := range s.Points {
			x[j], y[j] = p.Label, p.Y
		}
		traces = append(traces, map[string]any{
			"type":   "bar",
			"name":   s.Name,
			"x":      x,
			"y":      y,
			"marker": map[string]any{"color": models.SeriesColor(i)},
		})
	}
	return traces
}

func lineTraces(spec models.ChartSpec) []map[string]any {
	traces := make([]map[string]any, 0, len(spec.Series))
	for i, s := range spec.Series {
		x := make([]string, len(s.Points))
		y := make([]float64, len(s.Points))
		for j, p := range s.Points {
			x[j], y[j] = p.Label, p.Y
		}
		traces = append(traces, map[string]any{
			"type": "scatter",
			"mode": "lines+markers",
			"name": s.Name,
			"x":    x,
			"y":    y,
			"line": map[string]any{"color": models.SeriesColor(i)},
		})
	}
	return traces
}
