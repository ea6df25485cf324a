package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"vehicles-dashboard/dashboard"
	"vehicles-dashboard/models"
	"vehicles-dashboard/utils"
)

// TopModelsInReport is how many models the report lists.
const TopModelsInReport = dashboard.DefaultTopN

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4F46E5"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	valueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the headline KPIs of the table: listing count, price
// statistics over the priced rows, distinct models, the most expensive
// models by mean price and the listing count per state.
func (s *InsightService) Generate(t *models.Table) *models.InsightReport {
	report := &models.InsightReport{TotalListings: t.Len()}
	if t.Len() == 0 {
		return report
	}

	modelSet := make(map[string]struct{})
	states := make(map[string]int)
	var total float64

	for i := 0; i < t.Len(); i++ {
		l := t.At(i)
		if l.Model != "" {
			modelSet[l.Model] = struct{}{}
		}
		if l.State != "" {
			states[l.State]++
		}
		if !l.Price.Valid {
			continue
		}
		p := l.Price.Float64
		if report.PricedCount == 0 || p < report.MinPrice {
			report.MinPrice = p
		}
		if report.PricedCount == 0 || p > report.MaxPrice {
			report.MaxPrice = p
		}
		total += p
		report.PricedCount++
	}

	if report.PricedCount > 0 {
		report.AveragePrice = round2(total / float64(report.PricedCount))
	}
	report.UniqueModels = len(modelSet)
	report.TopModels = dashboard.TopModelMeans(t.All(), TopModelsInReport)

	for st, n := range states {
		report.ByState = append(report.ByState, models.GroupValue{Key: st, Value: float64(n), Count: n})
	}
	sort.Slice(report.ByState, func(i, j int) bool {
		if report.ByState[i].Count != report.ByState[j].Count {
			return report.ByState[i].Count > report.ByState[j].Count
		}
		return report.ByState[i].Key < report.ByState[j].Key
	})

	s.logger.Debug("Insights: %d listings, %d priced, %d models, %d states",
		report.TotalListings, report.PricedCount, report.UniqueModels, len(report.ByState))
	return report
}

// Print writes the report to w as styled text and tables. At most maxStates
// states are listed; zero or less lists them all.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport, maxStates int) {
	sep := strings.Repeat("═", 54)

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(sep))
	fmt.Fprintln(w, titleStyle.Render("  USED VEHICLE LISTINGS"))
	fmt.Fprintln(w, titleStyle.Render(sep))
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("  Overview"))
	fmt.Fprintf(w, "  Listings      : %s\n", valueStyle.Render(humanize.Comma(int64(r.TotalListings))))
	fmt.Fprintf(w, "  Unique models : %s\n", valueStyle.Render(humanize.Comma(int64(r.UniqueModels))))
	if r.PricedCount > 0 {
		fmt.Fprintf(w, "  Mean price    : %s\n", valueStyle.Render(FormatPrice(r.AveragePrice)))
		fmt.Fprintf(w, "  Price range   : %s – %s (%s priced)\n",
			FormatPrice(r.MinPrice), FormatPrice(r.MaxPrice), humanize.Comma(int64(r.PricedCount)))
	} else {
		fmt.Fprintln(w, "  No price data available")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("  Top %d models by mean price", TopModelsInReport)))
	if len(r.TopModels) == 0 {
		fmt.Fprintln(w, "  No priced models found")
	} else {
		tw := newTable(w)
		tw.AppendHeader(table.Row{"#", "Model", "Mean price", "Listings"})
		for i, g := range r.TopModels {
			tw.AppendRow(table.Row{i + 1, g.Key, FormatPrice(g.Value), humanize.Comma(int64(g.Count))})
		}
		tw.Render()
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("  Listings by state"))
	if len(r.ByState) == 0 {
		fmt.Fprintln(w, "  No state data")
	} else {
		states := r.ByState
		if maxStates > 0 && len(states) > maxStates {
			states = states[:maxStates]
		}
		tw := newTable(w)
		tw.AppendHeader(table.Row{"State", "Listings", "Share"})
		for _, g := range states {
			share := float64(g.Count) / float64(r.TotalListings) * 100
			tw.AppendRow(table.Row{g.Key, humanize.Comma(int64(g.Count)), fmt.Sprintf("%.1f%%", share)})
		}
		tw.Render()
	}
	fmt.Fprintln(w)
}

// FormatPrice renders a dollar amount with thousands separators.
func FormatPrice(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 2)
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	return tw
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}
