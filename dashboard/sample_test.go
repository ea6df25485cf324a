package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleIsDeterministic(t *testing.T) {
	tbl := bigTable(500)

	a := Sample(tbl.All(), 50, SampleSeed)
	b := Sample(tbl.All(), 50, SampleSeed)

	require.Equal(t, 50, a.Len())
	assert.Equal(t, a.Indices(), b.Indices())
}

func TestSampleWithoutReplacement(t *testing.T) {
	tbl := bigTable(200)

	s := Sample(tbl.All(), 150, 7)

	seen := make(map[int]bool)
	for _, i := range s.Indices() {
		assert.False(t, seen[i], "index %d drawn twice", i)
		assert.True(t, i >= 0 && i < 200)
		seen[i] = true
	}
}

func TestSampleBounds(t *testing.T) {
	tbl := bigTable(10)

	assert.Equal(t, tbl.All().Indices(), Sample(tbl.All(), 10, 1).Indices())
	assert.Equal(t, 10, Sample(tbl.All(), 1000, 1).Len())
	assert.Equal(t, 0, Sample(tbl.All(), 0, 1).Len())
}

func TestSampleOfFilteredSelection(t *testing.T) {
	tbl := bigTable(100)
	odd := PriceRange(tbl.All(), 1050, 2000)

	s := Sample(odd, 10, SampleSeed)

	for _, p := range prices(s) {
		assert.GreaterOrEqual(t, p, 1050.0)
	}
}
