package dashboard

import (
	"maps"
	"slices"

	"vehicles-dashboard/models"
)

// PriceRange keeps the rows whose price lies in [min, max], bounds included.
// Rows without a price never match.
func PriceRange(sel models.Selection, min, max float64) models.Selection {
	return sel.Filter(func(l *models.Listing) bool {
		return l.Price.Valid && l.Price.Float64 >= min && l.Price.Float64 <= max
	})
}

// MatchAny keeps the rows whose column value is one of allowed. An empty
// allowed list is no restriction and returns sel unchanged.
func MatchAny(sel models.Selection, column string, allowed []string) models.Selection {
	if len(allowed) == 0 {
		return sel
	}
	set := make(map[string]bool, len(allowed))
	for _, v := range allowed {
		set[v] = true
	}
	return sel.Filter(func(l *models.Listing) bool {
		v, ok := l.Category(column)
		return ok && set[v]
	})
}

// ModelFilter maps a categorical column to the values allowed for it.
// Columns are AND-combined; values within a column are OR-combined.
type ModelFilter map[string][]string

// Apply narrows sel by every non-empty column selection, one MatchAny
// per column in column-name order.
func (f ModelFilter) Apply(sel models.Selection) models.Selection {
	for _, col := range slices.Sorted(maps.Keys(f)) {
		sel = MatchAny(sel, col, f[col])
	}
	return sel
}
