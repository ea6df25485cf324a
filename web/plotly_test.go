package web

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicles-dashboard/models"
)

func traces(t *testing.T, fig map[string]any) []map[string]any {
	t.Helper()
	data, ok := fig["data"].([]map[string]any)
	require.True(t, ok, "data should be a trace list")
	return data
}

func TestFigure_Histogram(t *testing.T) {
	spec := models.ChartSpec{
		ID:   models.ViewPrice,
		Kind: models.KindHistogram,
		Series: []models.Series{
			{Name: "gas", Bins: []models.Bin{{Lo: 0, Hi: 10, Count: 2}, {Lo: 10, Hi: 20, Count: 1}}},
			{Name: "diesel", Bins: []models.Bin{{Lo: 0, Hi: 10, Count: 0}, {Lo: 10, Hi: 20, Count: 4}}},
		},
	}

	fig := Figure(spec)
	data := traces(t, fig)

	require.Len(t, data, 2)
	assert.Equal(t, []float64{5, 15}, data[0]["x"])
	assert.Equal(t, []int{2, 1}, data[0]["y"])
	assert.Equal(t, []float64{10, 10}, data[0]["width"])
	layout := fig["layout"].(map[string]any)
	assert.Equal(t, "stack", layout["barmode"])
	assert.Equal(t, true, layout["showlegend"])
}

func TestFigure_ScatterWithTrend(t *testing.T) {
	spec := models.ChartSpec{
		Kind:    models.KindScatter,
		Opacity: 0.5,
		Series:  []models.Series{{Name: "listings", Points: []models.Point{{X: 1, Y: 10}, {X: 3, Y: 6}}}},
		Trend:   &models.Trend{Slope: -2, Intercept: 12, X0: 1, X1: 3},
	}

	data := traces(t, Figure(spec))

	require.Len(t, data, 2)
	assert.Equal(t, "scattergl", data[0]["type"])
	assert.Equal(t, "lines", data[1]["mode"])
	assert.Equal(t, []float64{10, 6}, data[1]["y"])
}

func TestFigure_Choropleth(t *testing.T) {
	spec := models.ChartSpec{
		Kind:       models.KindChoropleth,
		ColorLabel: "Listings",
		Regions:    []models.Region{{Code: "CA", Value: 2}, {Code: "TX", Value: 1}},
	}

	fig := Figure(spec)
	data := traces(t, fig)

	require.Len(t, data, 1)
	assert.Equal(t, "USA-states", data[0]["locationmode"])
	assert.Equal(t, []string{"CA", "TX"}, data[0]["locations"])
	assert.Equal(t, map[string]any{"scope": "usa"}, fig["layout"].(map[string]any)["geo"])
}

func TestFigure_BarAndLineUseLabels(t *testing.T) {
	points := []models.Point{{X: 0, Y: 5, Label: "a"}, {X: 1, Y: 4, Label: "b"}}

	bar := traces(t, Figure(models.ChartSpec{Kind: models.KindBar, Series: []models.Series{{Points: points}}}))
	line := traces(t, Figure(models.ChartSpec{Kind: models.KindLine, Series: []models.Series{{Points: points}}}))

	assert.Equal(t, []string{"a", "b"}, bar[0]["x"])
	assert.Equal(t, "lines+markers", line[0]["mode"])
	assert.Equal(t, []string{"a", "b"}, line[0]["x"])
}

func TestFigure_Empty(t *testing.T) {
	b, err := FigureJSON(models.ChartSpec{ID: models.ViewModels, Kind: models.KindBar, Title: "Top 10 models"})
	require.NoError(t, err)

	var fig struct {
		Data   []any `json:"data"`
		Layout struct {
			Annotations []struct {
				Text string `json:"text"`
			} `json:"annotations"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(b, &fig))

	assert.NotNil(t, fig.Data)
	assert.Empty(t, fig.Data)
	require.Len(t, fig.Layout.Annotations, 1)
	assert.Equal(t, EmptyMessage, fig.Layout.Annotations[0].Text)
}

func TestReactScript(t *testing.T) {
	script := reactScript(models.ViewAge, []byte(`{"data":[],"layout":{}}`))

	assert.Contains(t, script, `Plotly.react("chart-age"`)
	assert.Contains(t, script, `({"data":[],"layout":{}})`)
}
