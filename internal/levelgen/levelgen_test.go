package levelgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_SameSeedSameLocation(t *testing.T) {
	a := New(nil, nil)
	b := New(nil, nil)

	a.OnLevelSeedChanged("AbCd1234")
	b.OnLevelSeedChanged("AbCd1234")

	seedA, ltA := a.Current()
	seedB, ltB := b.Current()
	assert.Equal(t, "AbCd1234", seedA)
	assert.Equal(t, seedA, seedB)
	assert.Equal(t, ltA, ltB)
	assert.Contains(t, DefaultLocationTypes, ltA)
}

func TestGenerator_CustomLocationTypes(t *testing.T) {
	g := New([]string{"only"}, nil)
	g.OnLevelSeedChanged("x")
	_, lt := g.Current()
	assert.Equal(t, "only", lt)
}

func TestSeedToInt_Deterministic(t *testing.T) {
	assert.Equal(t, SeedToInt("seed"), SeedToInt("seed"))
	assert.NotEqual(t, SeedToInt("seed"), SeedToInt("Seed"))
}
