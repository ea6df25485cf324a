// Package render draws dashboard charts and images server-side.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"vehicles-dashboard/models"
)

// Default export size.
const (
	DefaultWidth  = 1200
	DefaultHeight = 600
)

// maxBars caps the bars drawn for state charts; a static image cannot show
// fifty readable labels.
const maxBars = 20

// PNG draws spec as a PNG image. Charts without anything to draw (no data,
// only zero bars, no spread on an axis) come out as a blank image carrying
// the title. Any other drawing failure is returned.
func PNG(w io.Writer, spec models.ChartSpec, width, height int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if !drawable(spec) {
		return png.Encode(w, Blank(width, height, spec.Title))
	}

	var buf bytes.Buffer
	if err := renderChart(&buf, spec, width, height); err != nil {
		return fmt.Errorf("render: draw %s chart %q: %w", spec.Kind, spec.Title, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// drawable reports whether spec has a non-degenerate range to plot.
func drawable(spec models.ChartSpec) bool {
	if spec.IsEmpty() {
		return false
	}
	switch spec.Kind {
	case models.KindHistogram:
		for _, s := range spec.Series {
			for _, b := range s.Bins {
				if b.Count > 0 {
					return true
				}
			}
		}
		return false
	case models.KindBar:
		return maxValue(barValues(spec)) > 0
	case models.KindChoropleth:
		return maxValue(regionValues(spec)) > 0
	case models.KindScatter, models.KindLine:
		var xs, ys []float64
		for _, s := range spec.Series {
			for _, p := range s.Points {
				xs = append(xs, p.X)
				ys = append(ys, p.Y)
			}
		}
		return spread(xs) && spread(ys)
	}
	// unknown kinds reach renderChart, which reports them
	return true
}

func spread(values []float64) bool {
	for _, v := range values[min(1, len(values)):] {
		if v != values[0] {
			return true
		}
	}
	return false
}

func maxValue(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		m = max(m, v)
	}
	return m
}

func barValues(spec models.ChartSpec) []float64 {
	var out []float64
	for _, p := range spec.Series[0].Points {
		out = append(out, p.Y)
	}
	return out
}

func regionValues(spec models.ChartSpec) []float64 {
	regions := spec.Regions
	if len(regions) > maxBars {
		regions = regions[:maxBars]
	}
	out := make([]float64, len(regions))
	for i, r := range regions {
		out[i] = r.Value
	}
	return out
}

// zeroBased fixes a bar chart axis at [0, top] so equal bars still draw.
func zeroBased(name string, top float64) chart.YAxis {
	return chart.YAxis{Name: name, Range: &chart.ContinuousRange{Min: 0, Max: top}}
}

func renderChart(w io.Writer, spec models.ChartSpec, width, height int) error {
	switch spec.Kind {
	case models.KindHistogram:
		if len(spec.Series) > 1 {
			return stackedHistogram(spec, width, height).Render(chart.PNG, w)
		}
		return histogram(spec, width, height).Render(chart.PNG, w)
	case models.KindBar:
		return bars(spec, width, height).Render(chart.PNG, w)
	case models.KindChoropleth:
		return regionBars(spec, width, height).Render(chart.PNG, w)
	case models.KindScatter:
		return scatter(spec, width, height).Render(chart.PNG, w)
	case models.KindLine:
		return line(spec, width, height).Render(chart.PNG, w)
	}
	return fmt.Errorf("render: unknown chart kind %q", spec.Kind)
}

func seriesColor(i int) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(models.SeriesColor(i), "#"))
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color, opacity float64) chart.Style {
	if opacity > 0 && opacity < 1 {
		col = col.WithAlpha(uint8(opacity * 255))
	}
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col,
	}
}

func background() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
}

func barWidth(width, n int) int {
	bw := (width-160)/n - 2
	if bw < 2 {
		bw = 2
	}
	if bw > 60 {
		bw = 60
	}
	return bw
}

func histogram(spec models.ChartSpec, width, height int) chart.BarChart {
	bins := spec.Series[0].Bins
	values := make([]chart.Value, len(bins))
	for i, b := range bins {
		values[i] = chart.Value{Value: float64(b.Count), Label: binLabel(i, b), Style: chart.Style{FillColor: seriesColor(0), StrokeColor: seriesColor(0)}}
	}
	return chart.BarChart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: background(),
		BarWidth:   barWidth(width, len(bins)),
		BarSpacing: 2,
		XAxis:      chart.Style{FontSize: 8},
		YAxis:      zeroBased(spec.YLabel, maxValue(counts(bins))),
		Bars:       values,
	}
}

func counts(bins []models.Bin) []float64 {
	out := make([]float64, len(bins))
	for i, b := range bins {
		out[i] = float64(b.Count)
	}
	return out
}

func stackedHistogram(spec models.ChartSpec, width, height int) chart.StackedBarChart {
	n := len(spec.Series[0].Bins)
	stacks := make([]chart.StackedBar, n)
	for i := range stacks {
		stacks[i] = chart.StackedBar{Name: binLabel(i, spec.Series[0].Bins[i]), Width: barWidth(width, n)}
		for si, s := range spec.Series {
			if i >= len(s.Bins) || s.Bins[i].Count == 0 {
				continue
			}
			stacks[i].Values = append(stacks[i].Values, chart.Value{
				Value: float64(s.Bins[i].Count),
				Label: s.Name,
				Style: chart.Style{FillColor: seriesColor(si), StrokeColor: seriesColor(si)},
			})
		}
	}
	return chart.StackedBarChart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: background(),
		BarSpacing: 2,
		XAxis:      chart.Style{FontSize: 8},
		Bars:       stacks,
	}
}

// binLabel labels every fifth bin so the axis stays readable.
func binLabel(i int, b models.Bin) string {
	if i%5 != 0 {
		return ""
	}
	return fmt.Sprintf("%.0f", b.Lo)
}

func bars(spec models.ChartSpec, width, height int) chart.BarChart {
	points := spec.Series[0].Points
	values := make([]chart.Value, len(points))
	for i, p := range points {
		values[i] = chart.Value{Value: p.Y, Label: p.Label, Style: chart.Style{FillColor: seriesColor(i), StrokeColor: seriesColor(i)}}
	}
	return chart.BarChart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: background(),
		BarWidth:   barWidth(width, len(values)),
		BarSpacing: 4,
		XAxis:      chart.Style{FontSize: 8},
		YAxis:      zeroBased(spec.YLabel, maxValue(barValues(spec))),
		Bars:       values,
	}
}

// regionBars draws a choropleth as bars of the highest valued states.
func regionBars(spec models.ChartSpec, width, height int) chart.BarChart {
	regions := spec.Regions
	if len(regions) > maxBars {
		regions = regions[:maxBars]
	}
	values := make([]chart.Value, len(regions))
	for i, r := range regions {
		values[i] = chart.Value{Value: r.Value, Label: r.Code, Style: chart.Style{FillColor: seriesColor(0), StrokeColor: seriesColor(0)}}
	}
	return chart.BarChart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: background(),
		BarWidth:   barWidth(width, len(values)),
		BarSpacing: 4,
		YAxis:      zeroBased(spec.ColorLabel, maxValue(regionValues(spec))),
		Bars:       values,
	}
}

func scatter(spec models.ChartSpec, width, height int) chart.Chart {
	var series []chart.Series
	for i, s := range spec.Series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j], ys[j] = p.X, p.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(seriesColor(i), spec.Opacity),
		})
	}
	if t := spec.Trend; t != nil {
		series = append(series, chart.ContinuousSeries{
			Name:    "trend",
			XValues: []float64{t.X0, t.X1},
			YValues: []float64{t.At(t.X0), t.At(t.X1)},
			Style:   chart.Style{StrokeWidth: 2, StrokeColor: drawing.ColorFromHex("EF4444")},
		})
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: background(),
		XAxis:      chart.XAxis{Name: spec.XLabel},
		YAxis:      chart.YAxis{Name: spec.YLabel},
		Series:     series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch
}

func line(spec models.ChartSpec, width, height int) chart.Chart {
	var series []chart.Series
	for i, s := range spec.Series {
		var xs []time.Time
		var ys []float64
		for _, p := range s.Points {
			at, err := time.Parse(time.DateOnly, p.Label)
			if err != nil {
				continue
			}
			xs = append(xs, at)
			ys = append(ys, p.Y)
		}
		series = append(series, chart.TimeSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeWidth: 2, StrokeColor: seriesColor(i), DotWidth: 4, DotColor: seriesColor(i)},
		})
	}
	return chart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: background(),
		XAxis:      chart.XAxis{Name: spec.XLabel, ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01")},
		YAxis:      chart.YAxis{Name: spec.YLabel},
		Series:     series,
	}
}

// Blank returns a white image with title written in the top-left corner.
func Blank(width, height int, title string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if strings.TrimSpace(title) == "" {
		return img
	}

	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 55, G: 65, B: 81, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(16), Y: fixed.I(24)},
	}
	dr.DrawString(title)
	dr.Dot = fixed.Point26_6{X: fixed.I(16), Y: fixed.I(44)}
	dr.DrawString("No listings match the current filters.")
	return img
}
