package dashboard

import (
	"sort"

	"vehicles-dashboard/models"
)

// Widget defaults and bounds.
const (
	DefaultPriceMin = 1000
	DefaultPriceMax = 50000
	PriceBins       = 40

	AgeSampleSize      = 20000
	OdometerSampleSize = 10000
	SampleSeed         = 42

	PreviewRows = 100

	TopNMin     = 5
	TopNMax     = 20
	DefaultTopN = 10

	GeoCount     = "count"
	GeoMeanPrice = "mean_price"
)

// SplitColumns are the categorical columns the price histogram can be split by.
var SplitColumns = []string{
	models.ColCondition, models.ColFuel, models.ColTransmission,
	models.ColDrive, models.ColSize, models.ColType, models.ColCylinders,
}

// ColorColumns are the columns the odometer scatter can be coloured by.
var ColorColumns = []string{models.ColCondition, models.ColTransmission}

// ModelFilterColumns are the multiselect columns of the top-N view, in
// display order.
var ModelFilterColumns = []string{
	models.ColFuel, models.ColCylinders, models.ColCondition,
	models.ColTransmission, models.ColDrive, models.ColSize,
}

// State is the current value of every widget on the page. Field names match
// the signals the browser sends.
type State struct {
	PriceMin   float64 `json:"priceMin"`
	PriceMax   float64 `json:"priceMax"`
	PriceSplit string  `json:"priceSplit"`

	GeoMetric     string `json:"geoMetric"`
	OdometerColor string `json:"odometerColor"`

	Fuel         []string `json:"fuel"`
	Cylinders    []string `json:"cylinders"`
	Condition    []string `json:"condition"`
	Transmission []string `json:"transmission"`
	Drive        []string `json:"drive"`
	Size         []string `json:"size"`
	TopN         int      `json:"topN"`

	Year int `json:"year"`
}

// DefaultState is the page state before any interaction.
func DefaultState() State {
	return State{
		PriceMin:      DefaultPriceMin,
		PriceMax:      DefaultPriceMax,
		GeoMetric:     GeoCount,
		OdometerColor: models.ColCondition,
		TopN:          DefaultTopN,
	}
}

// Normalize pulls out-of-range values back into bounds and replaces
// unknown choices with their defaults. The price range is taken as given,
// [0, 0] included; callers start from DefaultState for unset widgets.
func (s State) Normalize() State {
	if s.PriceMin > s.PriceMax {
		s.PriceMin, s.PriceMax = s.PriceMax, s.PriceMin
	}

	if !contains(SplitColumns, s.PriceSplit) {
		s.PriceSplit = ""
	}
	if s.GeoMetric != GeoMeanPrice {
		s.GeoMetric = GeoCount
	}
	if !contains(ColorColumns, s.OdometerColor) {
		s.OdometerColor = models.ColCondition
	}

	switch {
	case s.TopN == 0:
		s.TopN = DefaultTopN
	case s.TopN < TopNMin:
		s.TopN = TopNMin
	case s.TopN > TopNMax:
		s.TopN = TopNMax
	}

	s.Fuel = cleanSelection(s.Fuel)
	s.Cylinders = cleanSelection(s.Cylinders)
	s.Condition = cleanSelection(s.Condition)
	s.Transmission = cleanSelection(s.Transmission)
	s.Drive = cleanSelection(s.Drive)
	s.Size = cleanSelection(s.Size)

	if s.Year < 0 {
		s.Year = 0
	}
	return s
}

// ModelFilter returns the multiselect filters of the top-N view.
func (s State) ModelFilter() ModelFilter {
	return ModelFilter{
		models.ColFuel:         s.Fuel,
		models.ColCylinders:    s.Cylinders,
		models.ColCondition:    s.Condition,
		models.ColTransmission: s.Transmission,
		models.ColDrive:        s.Drive,
		models.ColSize:         s.Size,
	}
}

// cleanSelection drops blanks and duplicates and sorts, so that equivalent
// selections hash and compare equal. An empty result is nil.
func cleanSelection(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
