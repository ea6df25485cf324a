package dashboard

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"vehicles-dashboard/models"
)

// FitTrend fits an ordinary least-squares line through the points. It
// returns nil when fewer than two points exist or x has no spread.
func FitTrend(xs, ys []float64) *models.Trend {
	if len(xs) < 2 || len(ys) != len(xs) {
		return nil
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	if lo == hi {
		return nil
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return &models.Trend{Slope: slope, Intercept: intercept, X0: lo, X1: hi}
}
