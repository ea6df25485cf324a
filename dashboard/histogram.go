package dashboard

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"vehicles-dashboard/models"
)

// BinEdges returns the n+1 dividers of n equal-width bins spanning the
// extent of values. Values that are all equal get a single bin. It
// returns nil for no values.
func BinEdges(values []float64, n int) []float64 {
	if len(values) == 0 || n < 1 {
		return nil
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		return []float64{lo, hi}
	}
	edges := floats.Span(make([]float64, n+1), lo, hi)
	// exact extremes, whatever the rounding of the inner steps
	edges[0], edges[n] = lo, hi
	return edges
}

// Histogram counts values into the bins delimited by edges. Bins are
// half-open except the last, which also holds the upper edge. Values
// outside the edges are not counted.
func Histogram(values, edges []float64) []models.Bin {
	if len(edges) < 2 {
		return nil
	}
	last := len(edges) - 1

	x := slices.Clone(values)
	slices.Sort(x)
	x = x[sort.SearchFloat64s(x, edges[0]):]
	x = x[:sort.Search(len(x), func(i int) bool { return x[i] > edges[last] })]

	dividers := slices.Clone(edges)
	dividers[last] = math.Nextafter(edges[last], math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, nil)

	bins := make([]models.Bin, last)
	for i := range bins {
		bins[i] = models.Bin{Lo: edges[i], Hi: edges[i+1], Count: int(counts[i])}
	}
	return bins
}
