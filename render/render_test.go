package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicles-dashboard/models"
)

func decode(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}

func TestBannerResizes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "banner.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, src, nil))
	require.NoError(t, f.Close())

	b, err := Banner(path, BannerWidth, BannerHeight)
	require.NoError(t, err)

	img := decode(t, b)
	assert.Equal(t, BannerWidth, img.Bounds().Dx())
	assert.Equal(t, BannerHeight, img.Bounds().Dy())
}

func TestBannerMissingFile(t *testing.T) {
	_, err := Banner(filepath.Join(t.TempDir(), "none.jpg"), BannerWidth, BannerHeight)
	assert.Error(t, err)
}

func TestPNGEmptySpecIsBlank(t *testing.T) {
	var buf bytes.Buffer
	err := PNG(&buf, models.ChartSpec{Kind: models.KindHistogram, Title: "Filtered price histogram"}, 320, 200)
	require.NoError(t, err)

	img := decode(t, buf.Bytes())
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestPNGCharts(t *testing.T) {
	specs := []models.ChartSpec{
		{
			Kind:  models.KindBar,
			Title: "Top models",
			Series: []models.Series{{Name: "mean price", Points: []models.Point{
				{X: 0, Y: 30000, Label: "f-150"}, {X: 1, Y: 12000, Label: "civic"},
			}}},
		},
		{
			Kind:  models.KindScatter,
			Title: "Price by age",
			Series: []models.Series{{Name: "listings", Points: []models.Point{
				{X: 1, Y: 20000}, {X: 5, Y: 12000}, {X: 9, Y: 5000},
			}}},
			Trend:   &models.Trend{Slope: -1875, Intercept: 21875, X0: 1, X1: 9},
			Opacity: 0.5,
		},
		{
			Kind:    models.KindChoropleth,
			Title:   "Listings per state",
			Regions: []models.Region{{Code: "CA", Value: 10}, {Code: "TX", Value: 4}},
		},
		{
			Kind:  models.KindLine,
			Title: "Monthly",
			Series: []models.Series{{Name: "listings", Points: []models.Point{
				{X: 4, Y: 2, Label: "2021-04-01"}, {X: 5, Y: 7, Label: "2021-05-01"},
			}}},
		},
		{
			Kind:  models.KindHistogram,
			Title: "Prices",
			Series: []models.Series{{Name: "price", Bins: []models.Bin{
				{Lo: 0, Hi: 10, Count: 3}, {Lo: 10, Hi: 20, Count: 5},
			}}},
		},
	}

	for _, spec := range specs {
		t.Run(string(spec.Kind), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, PNG(&buf, spec, 640, 400))
			img := decode(t, buf.Bytes())
			assert.Equal(t, 640, img.Bounds().Dx())
		})
	}
}

func TestPNGReportsDrawErrors(t *testing.T) {
	spec := models.ChartSpec{
		Kind:   "pie",
		Title:  "Shares",
		Series: []models.Series{{Name: "a", Points: []models.Point{{X: 0, Y: 1}, {X: 1, Y: 2}}}},
	}

	var buf bytes.Buffer
	err := PNG(&buf, spec, 320, 200)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Shares")
	assert.Zero(t, buf.Len(), "nothing is written for a failed chart")
}

func TestPNGDegenerateSpecs(t *testing.T) {
	tests := []struct {
		name     string
		spec     models.ChartSpec
		drawable bool
	}{
		{"equal bars", models.ChartSpec{Kind: models.KindBar, Series: []models.Series{{Points: []models.Point{
			{X: 0, Y: 5, Label: "a"}, {X: 1, Y: 5, Label: "b"},
		}}}}, true},
		{"zero bars", models.ChartSpec{Kind: models.KindBar, Series: []models.Series{{Points: []models.Point{
			{X: 0, Y: 0, Label: "a"},
		}}}}, false},
		{"single state", models.ChartSpec{Kind: models.KindChoropleth, Regions: []models.Region{{Code: "CA", Value: 3}}}, true},
		{"empty bins", models.ChartSpec{Kind: models.KindHistogram, Series: []models.Series{{Bins: []models.Bin{{Lo: 0, Hi: 1}}}}}, false},
		{"one scatter point", models.ChartSpec{Kind: models.KindScatter, Series: []models.Series{{Points: []models.Point{{X: 2, Y: 9}}}}}, false},
		{"flat scatter", models.ChartSpec{Kind: models.KindScatter, Series: []models.Series{{Points: []models.Point{{X: 1, Y: 9}, {X: 2, Y: 9}}}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.drawable, drawable(tt.spec))

			var buf bytes.Buffer
			require.NoError(t, PNG(&buf, tt.spec, 320, 200))
			assert.Equal(t, 320, decode(t, buf.Bytes()).Bounds().Dx())
		})
	}
}
