package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSelectionHashIgnoresOrder(t *testing.T) {
	ds := NewHash([]byte("rows"))
	a := ComputeSelectionHash(ds, []string{"X", "Y"}, "beer_count")
	b := ComputeSelectionHash(ds, []string{"Y", "X"}, "beer_count")
	c := ComputeSelectionHash(ds, []string{"X", "Y"}, "avg_abv")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a.Short(), 16)
}

func TestRowHasher(t *testing.T) {
	var h1, h2 RowHasher
	h1.Add("X", "b1", 0.04)
	h2.Add("X", "b1", 0.05)
	assert.NotEqual(t, h1.Sum(), h2.Sum())
}
