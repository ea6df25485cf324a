package dashboard

import (
	"fmt"
	"sort"
	"time"

	"vehicles-dashboard/models"
)

// MissingLabel names the series that collects rows without a category.
const MissingLabel = "(missing)"

var columnLabels = map[string]string{
	models.ColPrice:        "Price ($)",
	models.ColOdometer:     "Odometer (miles)",
	models.ColVehicleAge:   "Age (years)",
	models.ColCondition:    "Condition",
	models.ColTransmission: "Transmission",
	models.ColFuel:         "Fuel",
	models.ColDrive:        "Drive",
	models.ColSize:         "Size",
	models.ColType:         "Type",
	models.ColCylinders:    "Cylinders",
	models.ColModel:        "Model",
	models.ColState:        "State",
}

// Label returns the display label of a column.
func Label(column string) string {
	if l, ok := columnLabels[column]; ok {
		return l
	}
	return column
}

// PriceDistribution histograms the prices inside [s.PriceMin, s.PriceMax],
// optionally one series per value of s.PriceSplit sharing the same bins.
func PriceDistribution(t *models.Table, s State) models.ChartSpec {
	sel := PriceRange(t.All(), s.PriceMin, s.PriceMax)
	spec := models.ChartSpec{
		ID:     models.ViewPrice,
		Kind:   models.KindHistogram,
		Title:  "Filtered price histogram",
		XLabel: Label(models.ColPrice),
		YLabel: "Listings",
		Rows:   sel.Len(),
	}

	all := make([]float64, sel.Len())
	for i := range all {
		all[i] = sel.At(i).Price.Float64
	}
	edges := BinEdges(all, PriceBins)
	if edges == nil {
		return spec
	}

	if s.PriceSplit == "" {
		spec.Series = []models.Series{{Name: models.ColPrice, Bins: Histogram(all, edges)}}
		return spec
	}

	spec.ColorLabel = Label(s.PriceSplit)
	groups := make(map[string][]float64)
	for i := 0; i < sel.Len(); i++ {
		l := sel.At(i)
		key := categoryOrMissing(l, s.PriceSplit)
		groups[key] = append(groups[key], l.Price.Float64)
	}
	for _, name := range seriesOrder(groups) {
		spec.Series = append(spec.Series, models.Series{Name: name, Bins: Histogram(groups[name], edges)})
	}
	return spec
}

// AgeVsPrice scatters price against vehicle age over a seeded sample of the
// listings with a non-negative age, with a least-squares trend line.
func AgeVsPrice(t *models.Table) models.ChartSpec {
	sel := t.All().Filter(func(l *models.Listing) bool {
		return l.VehicleAge.Valid && l.VehicleAge.Int64 >= 0 && l.Price.Valid
	})
	sample := Sample(sel, AgeSampleSize, SampleSeed)

	xs := make([]float64, sample.Len())
	ys := make([]float64, sample.Len())
	points := make([]models.Point, sample.Len())
	for i := range points {
		l := sample.At(i)
		xs[i], ys[i] = float64(l.VehicleAge.Int64), l.Price.Float64
		points[i] = models.Point{X: xs[i], Y: ys[i]}
	}

	spec := models.ChartSpec{
		ID:      models.ViewAge,
		Kind:    models.KindScatter,
		Title:   "Price by vehicle age",
		XLabel:  Label(models.ColVehicleAge),
		YLabel:  Label(models.ColPrice),
		Opacity: 0.5,
		Rows:    sample.Len(),
		Trend:   FitTrend(xs, ys),
	}
	if len(points) > 0 {
		spec.Series = []models.Series{{Name: "listings", Points: points}}
	}
	return spec
}

// Geography aggregates listings per state: the row count, or the mean price
// when s.GeoMetric is GeoMeanPrice. Rows without a state are left out.
func Geography(t *models.Table, s State) models.ChartSpec {
	type acc struct {
		rows   int
		priced int
		sum    float64
	}
	byState := make(map[string]*acc)
	for i := 0; i < t.Len(); i++ {
		l := t.At(i)
		if l.State == "" {
			continue
		}
		a, ok := byState[l.State]
		if !ok {
			a = &acc{}
			byState[l.State] = a
		}
		a.rows++
		if l.Price.Valid {
			a.priced++
			a.sum += l.Price.Float64
		}
	}

	spec := models.ChartSpec{
		ID:         models.ViewGeography,
		Kind:       models.KindChoropleth,
		Title:      "Listings per state",
		ColorLabel: "Listings",
		Rows:       t.Len(),
	}
	if s.GeoMetric == GeoMeanPrice {
		spec.Title = "Mean price per state"
		spec.ColorLabel = "Mean price ($)"
	}

	for code, a := range byState {
		switch s.GeoMetric {
		case GeoMeanPrice:
			if a.priced == 0 {
				continue
			}
			spec.Regions = append(spec.Regions, models.Region{Code: code, Value: a.sum / float64(a.priced)})
		default:
			spec.Regions = append(spec.Regions, models.Region{Code: code, Value: float64(a.rows)})
		}
	}
	sort.Slice(spec.Regions, func(i, j int) bool {
		if spec.Regions[i].Value != spec.Regions[j].Value {
			return spec.Regions[i].Value > spec.Regions[j].Value
		}
		return spec.Regions[i].Code < spec.Regions[j].Code
	})
	return spec
}

// PriceVsOdometer scatters price against odometer over a seeded sample of
// the listings that have both, one series per value of s.OdometerColor.
func PriceVsOdometer(t *models.Table, s State) models.ChartSpec {
	sel := t.All().Filter(func(l *models.Listing) bool {
		return l.Price.Valid && l.Odometer.Valid
	})
	sample := Sample(sel, OdometerSampleSize, SampleSeed)

	groups := make(map[string][]models.Point)
	for i := 0; i < sample.Len(); i++ {
		l := sample.At(i)
		key := categoryOrMissing(l, s.OdometerColor)
		groups[key] = append(groups[key], models.Point{X: l.Odometer.Float64, Y: l.Price.Float64})
	}

	spec := models.ChartSpec{
		ID:         models.ViewOdometer,
		Kind:       models.KindScatter,
		Title:      "Price vs odometer by " + Label(s.OdometerColor),
		XLabel:     Label(models.ColOdometer),
		YLabel:     Label(models.ColPrice),
		ColorLabel: Label(s.OdometerColor),
		Opacity:    0.6,
		Rows:       sample.Len(),
	}
	for _, name := range seriesOrder(groups) {
		spec.Series = append(spec.Series, models.Series{Name: name, Points: groups[name]})
	}
	return spec
}

// TopModelMeans groups sel by model and returns the n models with the
// highest mean price, highest first. Rows without a model or price are
// ignored. Equal means are ordered by model name.
func TopModelMeans(sel models.Selection, n int) []models.GroupValue {
	type acc struct {
		sum   float64
		count int
	}
	byModel := make(map[string]*acc)
	for i := 0; i < sel.Len(); i++ {
		l := sel.At(i)
		if l.Model == "" || !l.Price.Valid {
			continue
		}
		a, ok := byModel[l.Model]
		if !ok {
			a = &acc{}
			byModel[l.Model] = a
		}
		a.sum += l.Price.Float64
		a.count++
	}

	groups := make([]models.GroupValue, 0, len(byModel))
	for model, a := range byModel {
		groups = append(groups, models.GroupValue{Key: model, Value: a.sum / float64(a.count), Count: a.count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Value != groups[j].Value {
			return groups[i].Value > groups[j].Value
		}
		return groups[i].Key < groups[j].Key
	})

	if n >= 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// TopModels applies the multiselect filters and charts the s.TopN models
// with the highest mean price.
func TopModels(t *models.Table, s State) models.ChartSpec {
	sel := s.ModelFilter().Apply(t.All())
	top := TopModelMeans(sel, s.TopN)

	spec := models.ChartSpec{
		ID:     models.ViewModels,
		Kind:   models.KindBar,
		Title:  fmt.Sprintf("Top %d models by mean price", s.TopN),
		XLabel: Label(models.ColModel),
		YLabel: "Mean price ($)",
		Rows:   sel.Len(),
	}
	if len(top) == 0 {
		return spec
	}

	points := make([]models.Point, len(top))
	for i, g := range top {
		points[i] = models.Point{X: float64(i), Y: g.Value, Label: g.Key}
	}
	spec.Series = []models.Series{{Name: "mean price", Points: points}}
	return spec
}

// LatestPostingYear returns the most recent posting year in the table, or 0.
func LatestPostingYear(t *models.Table) int {
	latest := 0
	for i := 0; i < t.Len(); i++ {
		if py := t.At(i).PostingYear; py.Valid && int(py.Int64) > latest {
			latest = int(py.Int64)
		}
	}
	return latest
}

// MonthlyVolume counts the listings posted in each month of s.Year (the
// latest posting year when unset). Each point is dated to the first of its
// month.
func MonthlyVolume(t *models.Table, s State) models.ChartSpec {
	year := s.Year
	if year == 0 {
		year = LatestPostingYear(t)
	}

	var counts [12]int
	rows := 0
	for i := 0; i < t.Len(); i++ {
		l := t.At(i)
		if !l.PostingYear.Valid || int(l.PostingYear.Int64) != year {
			continue
		}
		counts[l.PostingDate.Time.Month()-1]++
		rows++
	}

	spec := models.ChartSpec{
		ID:     models.ViewMonthlyVolume,
		Kind:   models.KindLine,
		Title:  fmt.Sprintf("Listings per month in %d", year),
		XLabel: "Month",
		YLabel: "Listings",
		Rows:   rows,
	}

	var points []models.Point
	for m, c := range counts {
		if c == 0 {
			continue
		}
		first := time.Date(year, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC)
		points = append(points, models.Point{X: float64(m + 1), Y: float64(c), Label: first.Format(time.DateOnly)})
	}
	if len(points) > 0 {
		spec.Series = []models.Series{{Name: "listings", Points: points}}
	}
	return spec
}

func categoryOrMissing(l *models.Listing, column string) string {
	if v, ok := l.Category(column); ok {
		return v
	}
	return MissingLabel
}

// seriesOrder sorts group names alphabetically with MissingLabel last.
func seriesOrder[T any](groups map[string]T) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if (names[i] == MissingLabel) != (names[j] == MissingLabel) {
			return names[j] == MissingLabel
		}
		return names[i] < names[j]
	})
	return names
}
