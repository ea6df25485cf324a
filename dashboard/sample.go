package dashboard

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"

	"vehicles-dashboard/models"
)

// Sample draws n rows from sel without replacement using a PCG source seeded
// with seed. The same selection, n and seed always give the same rows in the
// same order. When n covers the whole selection it is returned unchanged.
func Sample(sel models.Selection, n int, seed uint64) models.Selection {
	if n >= sel.Len() {
		return sel
	}
	if n <= 0 {
		return models.NewSelection(sel.Table(), nil)
	}

	picks := make([]int, n)
	sampleuv.WithoutReplacement(picks, sel.Len(), rand.NewPCG(seed, seed))

	idx := make([]int, n)
	for i, p := range picks {
		idx[i] = sel.Index(p)
	}
	return models.NewSelection(sel.Table(), idx)
}
