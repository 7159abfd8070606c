package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contactgo/model"
)

func TestDot(t *testing.T) {
	assert.Equal(t, float32(32), Dot([]float32{1, 2, 3}, []float32{4, 5, 6}))
}

func TestSquaredL2(t *testing.T) {
	assert.Equal(t, float32(27), SquaredL2([]float32{1, 2, 3}, []float32{4, 5, 6}))
}

func TestL2(t *testing.T) {
	assert.InDelta(t, 5.0, float64(L2([]float32{0, 0}, []float32{3, 4})), 1e-6)
}

func TestClosestAtoms(t *testing.T) {
	ra := &model.Residue{Atoms: []*model.Atom{
		{Name: "CA", X: 0, Y: 0, Z: 100},
		{Name: "NZ", X: 0, Y: 0, Z: 4},
	}}
	rb := &model.Residue{Atoms: []*model.Atom{
		{Name: "CA", X: 0, Y: 0, Z: 0},
		{Name: "CB", X: 0, Y: 0, Z: 50},
	}}

	atomA, atomB, dist, ok := ClosestAtoms(ra, rb)
	require.True(t, ok)
	assert.Equal(t, "NZ", atomA.Name)
	assert.Equal(t, "CA", atomB.Name)
	assert.InDelta(t, 4.0, float64(dist), 1e-5)
}

func TestClosestAtoms_EmptyResidue(t *testing.T) {
	ra := &model.Residue{}
	rb := &model.Residue{Atoms: []*model.Atom{{Name: "CA"}}}

	_, _, _, ok := ClosestAtoms(ra, rb)
	assert.False(t, ok)

	_, _, _, ok = ClosestAtoms(rb, ra)
	assert.False(t, ok)
}
