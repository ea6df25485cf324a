package models

// ViewID names one dashboard view.
type ViewID string

const (
	ViewPreview       ViewID = "preview"
	ViewPrice         ViewID = "price"
	ViewAge           ViewID = "age"
	ViewGeography     ViewID = "geography"
	ViewOdometer      ViewID = "odometer"
	ViewModels        ViewID = "models"
	ViewMonthlyVolume ViewID = "monthly"
)

// ChartKind is the kind of chart a renderer should draw.
type ChartKind string

const (
	KindHistogram  ChartKind = "histogram"
	KindScatter    ChartKind = "scatter"
	KindChoropleth ChartKind = "choropleth"
	KindBar        ChartKind = "bar"
	KindLine       ChartKind = "line"
)

// ChartSpec is a renderer-agnostic chart description. Exactly one of
// Series or Regions carries the data, depending on Kind.
type ChartSpec struct {
	ID         ViewID    `json:"id"`
	Kind       ChartKind `json:"kind"`
	Title      string    `json:"title"`
	XLabel     string    `json:"xLabel,omitempty"`
	YLabel     string    `json:"yLabel,omitempty"`
	ColorLabel string    `json:"colorLabel,omitempty"`
	Opacity    float64   `json:"opacity,omitempty"`
	Series     []Series  `json:"series,omitempty"`
	Regions    []Region  `json:"regions,omitempty"`
	Trend      *Trend    `json:"trend,omitempty"`
	// Rows is the number of listings that fed the chart after filtering.
	Rows int `json:"rows"`
}

// IsEmpty reports whether the chart has nothing to draw.
func (c ChartSpec) IsEmpty() bool {
	if len(c.Regions) > 0 {
		return false
	}
	for _, s := range c.Series {
		if len(s.Points) > 0 || len(s.Bins) > 0 {
			return false
		}
	}
	return true
}

// Series is one named group of points (scatter, bar, line) or bins
// (histogram).
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points,omitempty"`
	Bins   []Bin   `json:"bins,omitempty"`
}

// Point is a single mark. Label carries the categorical x value for bar
// charts and the date for line charts.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// Bin is one histogram bucket covering [Lo, Hi); the last bin of a
// histogram is closed on both ends.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Region is one choropleth area keyed by US state code.
type Region struct {
	Code  string  `json:"code"`
	Value float64 `json:"value"`
}

// Trend is a fitted straight line y = Intercept + Slope*x drawn between
// X0 and X1.
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	X0        float64 `json:"x0"`
	X1        float64 `json:"x1"`
}

// At evaluates the trend line at x.
func (t Trend) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// Palette is the colour sequence assigned to series in order.
var Palette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// SeriesColor returns the palette colour of the i-th series.
func SeriesColor(i int) string {
	return Palette[i%len(Palette)]
}
