// Package dashboard holds the view computations of the listings dashboard.
// Every function here is pure: it reads the shared table and the widget
// state and returns a fresh description without touching either.
package dashboard

import (
	"vehicles-dashboard/apperrors"
	"vehicles-dashboard/models"
)

// Render renders one chart view of t for the given widget state.
func Render(view models.ViewID, t *models.Table, s State) (models.ChartSpec, error) {
	s = s.Normalize()
	switch view {
	case models.ViewPrice:
		return PriceDistribution(t, s), nil
	case models.ViewAge:
		return AgeVsPrice(t), nil
	case models.ViewGeography:
		return Geography(t, s), nil
	case models.ViewOdometer:
		return PriceVsOdometer(t, s), nil
	case models.ViewModels:
		return TopModels(t, s), nil
	case models.ViewMonthlyVolume:
		return MonthlyVolume(t, s), nil
	case models.ViewPreview:
		return models.ChartSpec{}, apperrors.InvalidInput("the preview view is a table, not a chart", nil)
	}
	return models.ChartSpec{}, apperrors.InvalidInput("unknown view "+string(view), nil)
}
