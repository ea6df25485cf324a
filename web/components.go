package web

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"vehicles-dashboard/dashboard"
	"vehicles-dashboard/models"
)

const (
	pageTitle = "Used vehicle listings - Craigslist Cars & Trucks"
	pageIntro = "Explore and visualise more than 400,000 used vehicle listings published on Craigslist."

	datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"
	plotlyScript   = "https://cdn.plot.ly/plotly-2.35.2.min.js"
)

// PageData is everything the full page needs.
type PageData struct {
	Profile dashboard.Profile
	Active  models.ViewID
	Banner  bool
	Report  *models.InsightReport
	Options dashboard.FilterOptions
	// Signals is the JSON object of initial widget values.
	Signals string
}

func panelID(view models.ViewID) string   { return "panel-" + string(view) }
func chartID(view models.ViewID) string   { return "chart-" + string(view) }
func captionID(view models.ViewID) string { return "caption-" + string(view) }

const previewBodyID = "preview-body"

func viewURL(view models.ViewID) string { return "/views/" + string(view) }

// html collects writes and keeps the first error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) rawf(format string, args ...any) {
	if h.err == nil {
		_, h.err = fmt.Fprintf(h.w, format, args...)
	}
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

// Page renders the whole dashboard with the active tab's panel.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
		h.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		h.rawf("<title>%s</title>\n", templ.EscapeString(pageTitle))
		h.rawf("<script type=\"module\" src=\"%s\"></script>\n", datastarScript)
		h.rawf("<script src=\"%s\" charset=\"utf-8\"></script>\n", plotlyScript)
		h.raw("<style>" + pageCSS + "</style>\n</head>\n")

		h.rawf("<body data-signals=\"%s\" data-init=\"@get('/events')\">\n", templ.EscapeString(data.Signals))
		h.render(ctx, sidebar())

		h.raw("<main>\n")
		if data.Banner {
			h.raw("<img class=\"banner\" src=\"/banner.png\" alt=\"Used cars\">\n")
		}
		h.rawf("<h1>%s</h1>\n<p class=\"intro\">%s</p>\n", templ.EscapeString(pageTitle), templ.EscapeString(pageIntro))
		h.render(ctx, KPIs(data.Report))
		h.raw("<hr>\n")
		h.render(ctx, tabs(data.Profile, data.Active))
		h.render(ctx, panel(data.Active, data.Options))
		h.render(ctx, footer())
		h.raw("</main>\n</body>\n</html>\n")
		return h.err
	})
}

func sidebar() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<aside class="sidebar">
<h2>Formation Sorbonne Data Analytics</h2>
<h3>Session 6 2025/2026</h3>
<p><strong>Project SDA 2025/2026</strong><br>Module: <em>Data Management &amp; Visualisation</em><br>
Goal: an interactive application over a large dataset (more than 200,000 rows)</p>
<p><strong>Authors:</strong></p>
<ul><li>Waï Lekone</li><li>Damien Kohler</li></ul>
<p><strong>Data:</strong> Craigslist Cars &amp; Trucks (Kaggle)</p>
<ul><li>~400,000 listings</li><li>Used vehicles, USA</li></ul>
<p><strong>Processing:</strong></p>
<ul><li>Irrelevant columns removed</li><li>Duplicates removed</li>
<li>Inconsistent prices, years and odometers filtered</li>
<li>Missing values imputed per model</li>
<li>Derived <code>vehicle_age</code> and <code>posting_year</code></li></ul>
<p><strong>Analyses:</strong></p>
<ul><li>Price distribution</li><li>Depreciation by age</li><li>Distribution by state</li>
<li>Price vs odometer</li><li>Top models</li></ul>
</aside>
`)
		return h.err
	})
}

// KPIs renders the headline metrics row.
func KPIs(r *models.InsightReport) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if r == nil {
			r = &models.InsightReport{}
		}
		mean := "-"
		if r.PricedCount > 0 {
			mean = "$" + humanize.Comma(int64(math.Round(r.AveragePrice)))
		}
		h := &html{w: w}
		h.raw("<div id=\"kpis\" class=\"kpis\">\n")
		metric(h, "Listings", humanize.Comma(int64(r.TotalListings)))
		metric(h, "Mean price", mean)
		metric(h, "Unique models", humanize.Comma(int64(r.UniqueModels)))
		h.raw("</div>\n")
		return h.err
	})
}

func metric(h *html, label, value string) {
	h.rawf("<div class=\"metric\"><span class=\"label\">%s</span><span class=\"value\">%s</span></div>\n",
		templ.EscapeString(label), templ.EscapeString(value))
}

func tabs(p dashboard.Profile, active models.ViewID) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<nav class=\"tabs\">\n")
		for _, v := range p.Views {
			class := "tab"
			if v == active {
				class += " active"
			}
			h.rawf("<a class=\"%s\" href=\"/?tab=%s\">%s</a>\n", class, templ.EscapeString(string(v)), templ.EscapeString(dashboard.Title(v)))
		}
		h.raw("</nav>\n")
		return h.err
	})
}

// panel renders the widgets and empty containers of one view. The
// containers are filled by the /views stream started on load.
func panel(view models.ViewID, opts dashboard.FilterOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.rawf("<section id=\"%s\" class=\"panel\" data-init=\"@get('%s')\">\n", panelID(view), viewURL(view))
		h.rawf("<h2>%s</h2>\n", templ.EscapeString(dashboard.Title(view)))

		if view == models.ViewPreview {
			h.rawf("<div id=\"%s\"><p class=\"loading\">Loading...</p></div>\n", previewBodyID)
			h.raw("</section>\n")
			return h.err
		}

		h.render(ctx, widgets(view, opts))
		h.rawf("<p id=\"%s\" class=\"caption\"></p>\n", captionID(view))
		h.rawf("<div id=\"%s\" class=\"chart\"></div>\n", chartID(view))
		h.raw("</section>\n")
		return h.err
	})
}

type option struct {
	value string
	label string
}

func columnOptions(columns []string) []option {
	out := make([]option, len(columns))
	for i, c := range columns {
		out[i] = option{value: c, label: dashboard.Label(c)}
	}
	return out
}

func valueOptions(values []string) []option {
	out := make([]option, len(values))
	for i, v := range values {
		out[i] = option{value: v, label: v}
	}
	return out
}

func widgets(view models.ViewID, opts dashboard.FilterOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw("<div class=\"widgets\">\n")
		switch view {
		case models.ViewPrice:
			lo, hi := opts.PriceMin, opts.PriceMax
			if hi <= lo {
				lo, hi = 0, dashboard.DefaultPriceMax
			}
			rangeInput(h, view, "Minimum price ($)", "priceMin", lo, hi, 500)
			rangeInput(h, view, "Maximum price ($)", "priceMax", lo, hi, 500)
			selectInput(h, view, "Split by", "priceSplit", false,
				append([]option{{value: "", label: "None"}}, columnOptions(dashboard.SplitColumns)...))

		case models.ViewGeography:
			selectInput(h, view, "Metric", "geoMetric", false, []option{
				{value: dashboard.GeoCount, label: "Number of listings"},
				{value: dashboard.GeoMeanPrice, label: "Mean price"},
			})

		case models.ViewOdometer:
			selectInput(h, view, "Colour by", "odometerColor", false, columnOptions(dashboard.ColorColumns))

		case models.ViewModels:
			for _, col := range dashboard.ModelFilterColumns {
				selectInput(h, view, dashboard.Label(col), col, true, valueOptions(opts.Column(col)))
			}
			rangeInput(h, view, "Number of models", "topN", dashboard.TopNMin, dashboard.TopNMax, 1)

		case models.ViewMonthlyVolume:
			years := make([]option, len(opts.Years))
			for i, y := range opts.Years {
				s := strconv.Itoa(y)
				years[i] = option{value: s, label: s}
			}
			selectInput(h, view, "Year", "year", false, years)
		}
		h.raw("</div>\n")
		return h.err
	})
}

func rangeInput(h *html, view models.ViewID, label, signal string, lo, hi, step float64) {
	h.rawf("<label class=\"widget\">%s <span data-text=\"$%s\"></span>\n", templ.EscapeString(label), signal)
	h.rawf("<input type=\"range\" min=\"%s\" max=\"%s\" step=\"%s\" data-bind=\"%s\" data-on:change=\"@get('%s')\">\n",
		formatNumber(lo), formatNumber(hi), formatNumber(step), signal, viewURL(view))
	h.raw("</label>\n")
}

func selectInput(h *html, view models.ViewID, label, signal string, multiple bool, options []option) {
	h.rawf("<label class=\"widget\">%s\n<select", templ.EscapeString(label))
	if multiple {
		h.raw(" multiple size=\"5\"")
	}
	h.rawf(" data-bind=\"%s\" data-on:change=\"@get('%s')\">\n", signal, viewURL(view))
	for _, o := range options {
		h.rawf("<option value=\"%s\">%s</option>\n", templ.EscapeString(o.value), templ.EscapeString(o.label))
	}
	h.raw("</select>\n</label>\n")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Caption renders the line above a chart.
func Caption(view models.ViewID, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.rawf("<p id=\"%s\" class=\"caption\">%s</p>", captionID(view), templ.EscapeString(text))
		return h.err
	})
}

func captionText(spec models.ChartSpec) string {
	if spec.IsEmpty() {
		return EmptyMessage
	}
	text := humanize.Comma(int64(spec.Rows)) + " listings"
	if spec.Kind == models.KindScatter {
		text = "Sample of " + text
	}
	return text
}

// PreviewBody renders the raw preview: the first rows, general information
// and descriptive statistics.
func PreviewBody(p models.Preview) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.rawf("<div id=\"%s\">\n", previewBodyID)

		h.rawf("<h3>Raw data preview</h3>\n<p class=\"caption\">First %d of %s rows</p>\n",
			p.HeadRows, humanize.Comma(int64(p.Rows)))
		h.raw("<div class=\"scroll\"><table>\n<thead><tr>")
		for _, c := range p.Columns {
			h.rawf("<th>%s</th>", templ.EscapeString(c))
		}
		h.raw("</tr></thead>\n<tbody>\n")
		for _, row := range p.Head {
			h.raw("<tr>")
			for _, cell := range row {
				h.rawf("<td>%s</td>", templ.EscapeString(cell))
			}
			h.raw("</tr>\n")
		}
		h.raw("</tbody>\n</table></div>\n")

		h.rawf("<h3>General information</h3>\n<p>%s rows, %d columns</p>\n",
			humanize.Comma(int64(p.Rows)), len(p.Columns))
		h.raw("<table>\n<thead><tr><th>Column</th><th>Non-missing</th><th>Missing</th></tr></thead>\n<tbody>\n")
		for _, s := range p.Stats {
			h.rawf("<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				templ.EscapeString(s.Column), humanize.Comma(int64(s.Count)), humanize.Comma(int64(s.Missing)))
		}
		h.raw("</tbody>\n</table>\n")

		h.raw("<h3>Descriptive statistics</h3>\n<div class=\"scroll\"><table>\n<thead><tr>")
		for _, head := range []string{"Column", "count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"} {
			h.rawf("<th>%s</th>", templ.EscapeString(head))
		}
		h.raw("</tr></thead>\n<tbody>\n")
		for _, s := range p.Stats {
			cells := statCells(s)
			h.raw("<tr>")
			for _, c := range cells {
				h.rawf("<td>%s</td>", templ.EscapeString(c))
			}
			h.raw("</tr>\n")
		}
		h.raw("</tbody>\n</table></div>\n</div>\n")
		return h.err
	})
}

// statCells formats one row of the statistics table; cells that do not
// apply to the column kind are blank.
func statCells(s models.ColumnStats) []string {
	cells := []string{s.Column, humanize.Comma(int64(s.Count))}
	if !s.Numeric {
		return append(cells, humanize.Comma(int64(s.Unique)), s.Top, humanize.Comma(int64(s.Freq)),
			"", "", "", "", "", "", "")
	}
	if s.Count == 0 {
		return append(cells, "", "", "", "", "", "", "", "", "", "")
	}
	return append(cells, "", "", "",
		humanize.CommafWithDigits(s.Mean, 2),
		humanize.CommafWithDigits(s.Std, 2),
		humanize.CommafWithDigits(s.Min, 2),
		humanize.CommafWithDigits(s.Q25, 2),
		humanize.CommafWithDigits(s.Median, 2),
		humanize.CommafWithDigits(s.Q75, 2),
		humanize.CommafWithDigits(s.Max, 2),
	)
}

func footer() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<hr>
<footer>
<div class="authors"><strong>Waï Lekone &amp; Damien Kohler</strong></div>
<div>&copy; 2025 Sorbonne Data Analytics - <a href="https://github.com/waigenius/dataviz_sda/blob/main/data_analysing.ipynb">GitHub</a></div>
</footer>
`)
		return h.err
	})
}

const pageCSS = `
body{margin:0;display:flex;font-family:system-ui,sans-serif;color:#1f2937;background:#fff}
.sidebar{width:300px;min-height:100vh;padding:1.5rem;background:#f3f4f6;font-size:.9rem;box-sizing:border-box}
main{flex:1;padding:1.5rem 2rem;min-width:0}
.banner{width:100%;max-height:150px;object-fit:cover;border-radius:6px}
.intro{color:#4b5563}
.kpis{display:flex;gap:2rem;margin:1rem 0}
.metric{display:flex;flex-direction:column}
.metric .label{font-size:.85rem;color:#6b7280}
.metric .value{font-size:1.8rem;font-weight:600}
.tabs{display:flex;gap:.25rem;border-bottom:1px solid #e5e7eb;flex-wrap:wrap}
.tab{padding:.5rem 1rem;text-decoration:none;color:#4b5563;border-bottom:2px solid transparent}
.tab.active{color:#4F46E5;border-bottom-color:#4F46E5}
.panel{padding:1rem 0}
.widgets{display:flex;gap:1.5rem;flex-wrap:wrap;margin-bottom:1rem}
.widget{display:flex;flex-direction:column;font-size:.85rem;gap:.25rem}
.caption{color:#6b7280;font-size:.85rem}
.chart{width:100%;height:560px}
.scroll{overflow-x:auto;max-height:480px}
table{border-collapse:collapse;font-size:.8rem}
th,td{border:1px solid #e5e7eb;padding:.25rem .5rem;text-align:left;white-space:nowrap}
footer{text-align:center;color:grey;font-size:.85rem}
`
