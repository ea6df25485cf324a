package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicles-dashboard/apperrors"
	"vehicles-dashboard/models"
)

func TestPriceDistributionUsesFilteredRows(t *testing.T) {
	tbl := table(row{price: 500}, row{price: 1000}, row{price: 2000}, row{price: 60000}, row{noPrice: true})

	spec := PriceDistribution(tbl, DefaultState())

	assert.Equal(t, 2, spec.Rows)
	require.Len(t, spec.Series, 1)
	require.Len(t, spec.Series[0].Bins, PriceBins)
	total := 0
	for _, b := range spec.Series[0].Bins {
		total += b.Count
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, 1000.0, spec.Series[0].Bins[0].Lo)
}

func TestPriceDistributionSplitSharesBins(t *testing.T) {
	tbl := table(
		row{price: 1000, condition: "good"},
		row{price: 3000, condition: "fair"},
		row{price: 5000},
	)
	s := DefaultState()
	s.PriceSplit = models.ColCondition

	spec := PriceDistribution(tbl, s)

	require.Len(t, spec.Series, 3)
	assert.Equal(t, []string{"fair", "good", MissingLabel},
		[]string{spec.Series[0].Name, spec.Series[1].Name, spec.Series[2].Name})
	for _, sr := range spec.Series {
		assert.Equal(t, spec.Series[0].Bins[0].Lo, sr.Bins[0].Lo)
		assert.Equal(t, spec.Series[0].Bins[PriceBins-1].Hi, sr.Bins[PriceBins-1].Hi)
	}
}

func TestPriceDistributionEmpty(t *testing.T) {
	spec := PriceDistribution(table(row{price: 10}), DefaultState())

	assert.True(t, spec.IsEmpty())
	assert.Equal(t, models.KindHistogram, spec.Kind)
}

func TestAgeVsPriceDropsNegativeAndMissingAge(t *testing.T) {
	tbl := table(
		row{price: 10000, age: 1},
		row{price: 8000, age: 3},
		row{price: 6000, age: 5},
		row{price: 9000, age: -1},
		row{price: 9000, noAge: true},
	)

	spec := AgeVsPrice(tbl)

	assert.Equal(t, 3, spec.Rows)
	require.NotNil(t, spec.Trend)
	assert.InDelta(t, -1000.0, spec.Trend.Slope, 1e-9)
	assert.Equal(t, 0.5, spec.Opacity)
}

func TestAgeVsPriceSampleIsStable(t *testing.T) {
	tbl := bigTable(AgeSampleSize + 500)

	a := AgeVsPrice(tbl)
	b := AgeVsPrice(tbl)

	assert.Equal(t, AgeSampleSize, a.Rows)
	assert.Equal(t, a.Series, b.Series)
}

func TestGeographyCountsAndOrder(t *testing.T) {
	tbl := table(
		row{price: 100, state: "TX"},
		row{price: 300, state: "CA"},
		row{price: 200, state: "TX"},
		row{price: 900, state: "NY"},
		row{noPrice: true, state: "NY"},
		row{price: 1},
	)

	spec := Geography(tbl, DefaultState())
	assert.Equal(t, []models.Region{{Code: "NY", Value: 2}, {Code: "TX", Value: 2}, {Code: "CA", Value: 1}}, spec.Regions)

	s := DefaultState()
	s.GeoMetric = GeoMeanPrice
	spec = Geography(tbl, s)
	assert.Equal(t, []models.Region{{Code: "NY", Value: 900}, {Code: "CA", Value: 300}, {Code: "TX", Value: 150}}, spec.Regions)
}

func TestPriceVsOdometerColours(t *testing.T) {
	tbl := table(
		row{price: 1, odometer: 10, trans: "manual"},
		row{price: 2, odometer: 20, trans: "automatic"},
		row{price: 3, odometer: 30},
		row{price: 4},
	)
	s := DefaultState()
	s.OdometerColor = models.ColTransmission

	spec := PriceVsOdometer(tbl, s)

	assert.Equal(t, 3, spec.Rows)
	require.Len(t, spec.Series, 3)
	assert.Equal(t, "automatic", spec.Series[0].Name)
	assert.Equal(t, MissingLabel, spec.Series[2].Name)
	assert.Equal(t, 0.6, spec.Opacity)
}

func TestPriceVsOdometerSampleCap(t *testing.T) {
	spec := PriceVsOdometer(bigTable(OdometerSampleSize+10), DefaultState())

	assert.Equal(t, OdometerSampleSize, spec.Rows)
}

func TestTopModelMeans(t *testing.T) {
	tbl := table(
		row{model: "a", price: 100},
		row{model: "a", price: 300},
		row{model: "b", price: 500},
		row{model: "c", price: 200},
		row{model: "d", noPrice: true},
		row{model: "", price: 1000},
	)

	top := TopModelMeans(tbl.All(), 10)
	assert.Equal(t, []models.GroupValue{
		{Key: "b", Value: 500, Count: 1},
		{Key: "a", Value: 200, Count: 2},
		{Key: "c", Value: 200, Count: 1},
	}, top)

	top = TopModelMeans(tbl.All(), 2)
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[1].Key)
}

func TestTopModelsRespectsFiltersAndN(t *testing.T) {
	var rows []row
	for i := 0; i < 30; i++ {
		rows = append(rows, row{model: string(rune('a' + i%26)), price: float64(i * 100), fuel: "gas"})
	}
	rows = append(rows, row{model: "zz", price: 1e6, fuel: "diesel"})
	tbl := table(rows...)

	s := State{TopN: 5, Fuel: []string{"gas"}}
	spec := TopModels(tbl, s.Normalize())

	require.Len(t, spec.Series, 1)
	pts := spec.Series[0].Points
	assert.Len(t, pts, 5)
	for i := 1; i < len(pts); i++ {
		assert.GreaterOrEqual(t, pts[i-1].Y, pts[i].Y)
	}
	assert.NotEqual(t, "zz", pts[0].Label)
	assert.Equal(t, "Top 5 models by mean price", spec.Title)
}

func TestMonthlyVolumeDefaultsToLatestYear(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }
	tbl := table(
		row{posted: day(2021, time.April, 3)},
		row{posted: day(2021, time.April, 28)},
		row{posted: day(2021, time.May, 1)},
		row{posted: day(2020, time.December, 9)},
		row{},
	)

	spec := MonthlyVolume(tbl, DefaultState())

	assert.Equal(t, 3, spec.Rows)
	require.Len(t, spec.Series, 1)
	assert.Equal(t, []models.Point{
		{X: 4, Y: 2, Label: "2021-04-01"},
		{X: 5, Y: 1, Label: "2021-05-01"},
	}, spec.Series[0].Points)

	s := DefaultState()
	s.Year = 2020
	assert.Equal(t, 1, MonthlyVolume(tbl, s).Rows)
}

func TestRenderDispatch(t *testing.T) {
	tbl := table(row{price: 2000, model: "a", state: "CA"})

	spec, err := Render(models.ViewModels, tbl, State{})
	require.NoError(t, err)
	assert.Equal(t, models.ViewModels, spec.ID)

	_, err = Render("nope", tbl, State{})
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeInvalidInput))

	_, err = Render(models.ViewPreview, tbl, State{})
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeInvalidInput))
}
