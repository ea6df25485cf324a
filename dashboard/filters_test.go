package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vehicles-dashboard/models"
)

func TestPriceRangeInclusive(t *testing.T) {
	tbl := table(row{price: 1000}, row{price: 2000}, row{price: 3000})

	sel := PriceRange(tbl.All(), 1500, 3000)

	assert.Equal(t, []float64{2000, 3000}, prices(sel))
}

func TestPriceRangeSkipsMissingPrice(t *testing.T) {
	tbl := table(row{price: 1000}, row{noPrice: true}, row{price: 0})

	sel := PriceRange(tbl.All(), 0, 5000)

	assert.Equal(t, []int{0, 2}, sel.Indices())
}

func TestMatchAnyEmptyIsNoFilter(t *testing.T) {
	tbl := table(row{fuel: "gas"}, row{fuel: "diesel"}, row{})

	assert.Equal(t, tbl.All().Indices(), MatchAny(tbl.All(), models.ColFuel, nil).Indices())
	assert.Equal(t, []int{1}, MatchAny(tbl.All(), models.ColFuel, []string{"diesel"}).Indices())
}

func TestModelFilterCombinesColumns(t *testing.T) {
	tbl := table(
		row{fuel: "gas", condition: "good"},
		row{fuel: "gas", condition: "fair"},
		row{fuel: "diesel", condition: "good"},
		row{fuel: "electric", condition: "good"},
		row{condition: "good"},
	)
	f := ModelFilter{
		models.ColFuel:      {"gas", "diesel"},
		models.ColCondition: {"good"},
	}

	assert.Equal(t, []int{0, 2}, f.Apply(tbl.All()).Indices())
}

func TestModelFilterEmptyEqualsUnfiltered(t *testing.T) {
	tbl := table(row{fuel: "gas"}, row{}, row{fuel: "diesel"})
	f := DefaultState().ModelFilter()

	for col, vals := range f {
		assert.Empty(t, vals, col)
	}
	assert.Equal(t, tbl.All().Indices(), f.Apply(tbl.All()).Indices())
}

func TestModelFilterMatchesChainedMatchAny(t *testing.T) {
	tbl := table(
		row{fuel: "gas", condition: "good"},
		row{fuel: "diesel", condition: "fair"},
		row{fuel: "gas", condition: "fair"},
		row{condition: "fair"},
	)
	f := ModelFilter{models.ColFuel: {"gas"}, models.ColCondition: {"fair"}, models.ColDrive: nil}

	chained := MatchAny(MatchAny(tbl.All(), models.ColFuel, []string{"gas"}), models.ColCondition, []string{"fair"})

	assert.Equal(t, []int{2}, f.Apply(tbl.All()).Indices())
	assert.Equal(t, chained.Indices(), f.Apply(tbl.All()).Indices())
}
