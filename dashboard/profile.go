package dashboard

import (
	"strings"

	"vehicles-dashboard/apperrors"
	"vehicles-dashboard/models"
)

// Profile is one configuration of the dashboard: which views it offers and
// whether the banner is shown.
type Profile struct {
	Name   string
	Banner bool
	Views  []models.ViewID
}

var (
	// Classic shows the banner and the six analysis tabs.
	Classic = Profile{
		Name:   "classic",
		Banner: true,
		Views: []models.ViewID{
			models.ViewPreview, models.ViewPrice, models.ViewAge,
			models.ViewGeography, models.ViewOdometer, models.ViewModels,
		},
	}

	// Monthly drops the banner and adds the monthly volume tab.
	Monthly = Profile{
		Name: "monthly",
		Views: []models.ViewID{
			models.ViewPreview, models.ViewPrice, models.ViewAge,
			models.ViewGeography, models.ViewOdometer, models.ViewModels,
			models.ViewMonthlyVolume,
		},
	}
)

// ProfileByName looks a profile up by name, case-insensitively.
func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Classic.Name:
		return Classic, nil
	case Monthly.Name:
		return Monthly, nil
	}
	return Profile{}, apperrors.InvalidInput("unknown dashboard profile "+name, nil)
}

// Has reports whether the profile offers view.
func (p Profile) Has(view models.ViewID) bool {
	for _, v := range p.Views {
		if v == view {
			return true
		}
	}
	return false
}

// Charts lists the profile's views that render as charts.
func (p Profile) Charts() []models.ViewID {
	out := make([]models.ViewID, 0, len(p.Views))
	for _, v := range p.Views {
		if v != models.ViewPreview {
			out = append(out, v)
		}
	}
	return out
}

var viewTitles = map[models.ViewID]string{
	models.ViewPreview:       "Dataset exploration",
	models.ViewPrice:         "Price distribution",
	models.ViewAge:           "Depreciation by age",
	models.ViewGeography:     "Geographic distribution",
	models.ViewOdometer:      "Price vs odometer",
	models.ViewModels:        "Analysis by model",
	models.ViewMonthlyVolume: "Monthly volume",
}

// Title returns the tab title of a view.
func Title(view models.ViewID) string {
	if t, ok := viewTitles[view]; ok {
		return t
	}
	return string(view)
}
