package dashboard

import (
	"math"
	"sort"

	"vehicles-dashboard/models"
)

// FilterOptions are the choices offered by the page widgets for one table.
type FilterOptions struct {
	Fuel         []string
	Cylinders    []string
	Condition    []string
	Transmission []string
	Drive        []string
	Size         []string

	// Years lists the posting years present, most recent first.
	Years []int

	PriceMin float64
	PriceMax float64
}

// Options collects the distinct, sorted, non-missing values of every
// multiselect column, the posting years and the price slider bounds.
func Options(t *models.Table) FilterOptions {
	cols := ModelFilterColumns
	sets := make(map[string]map[string]bool, len(cols))
	for _, c := range cols {
		sets[c] = make(map[string]bool)
	}
	years := make(map[int]bool)
	lo, hi := math.Inf(1), math.Inf(-1)

	for i := 0; i < t.Len(); i++ {
		l := t.At(i)
		for _, c := range cols {
			if v, ok := l.Category(c); ok {
				sets[c][v] = true
			}
		}
		if l.PostingYear.Valid {
			years[int(l.PostingYear.Int64)] = true
		}
		if l.Price.Valid {
			lo = math.Min(lo, l.Price.Float64)
			hi = math.Max(hi, l.Price.Float64)
		}
	}

	opts := FilterOptions{
		Fuel:         sortedKeys(sets[models.ColFuel]),
		Cylinders:    sortedKeys(sets[models.ColCylinders]),
		Condition:    sortedKeys(sets[models.ColCondition]),
		Transmission: sortedKeys(sets[models.ColTransmission]),
		Drive:        sortedKeys(sets[models.ColDrive]),
		Size:         sortedKeys(sets[models.ColSize]),
	}
	for y := range years {
		opts.Years = append(opts.Years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(opts.Years)))

	if !math.IsInf(lo, 1) {
		opts.PriceMin = math.Trunc(lo)
		opts.PriceMax = math.Trunc(hi)
	}
	return opts
}

// Column returns the options of a multiselect column.
func (o FilterOptions) Column(column string) []string {
	switch column {
	case models.ColFuel:
		return o.Fuel
	case models.ColCylinders:
		return o.Cylinders
	case models.ColCondition:
		return o.Condition
	case models.ColTransmission:
		return o.Transmission
	case models.ColDrive:
		return o.Drive
	case models.ColSize:
		return o.Size
	}
	return nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
