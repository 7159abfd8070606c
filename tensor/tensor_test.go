package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contactgo/model"
)

func TestBuild_Shape(t *testing.T) {
	m := &model.Molecule{Residues: []*model.Residue{
		{SeqNum: 2, Atoms: []*model.Atom{{Name: "CA", X: 1, Y: 2, Z: 3}}},
		{SeqNum: 5, Atoms: []*model.Atom{{Name: "CA", X: 4, Y: 5, Z: 6}}},
	}}

	tr := Build(m)
	require.Equal(t, 6, tr.ResidueSlots)

	assert.Equal(t, float32(1), tr.At(0, 2, 0))
	assert.Equal(t, float32(2), tr.At(1, 2, 0))
	assert.Equal(t, float32(3), tr.At(2, 2, 0))
	assert.Equal(t, []float32{4, 5, 6}, tr.Vec(5, 0))
}

func TestBuild_EmptyMolecule(t *testing.T) {
	tr := Build(&model.Molecule{})
	assert.Equal(t, 0, tr.ResidueSlots)
}

func TestBuild_GapsAreMissing(t *testing.T) {
	m := &model.Molecule{Residues: []*model.Residue{
		{SeqNum: 0, Atoms: []*model.Atom{{Name: "CA"}}},
		{SeqNum: 3, Atoms: []*model.Atom{{Name: "CA"}}},
	}}

	tr := Build(m)
	require.Equal(t, 4, tr.ResidueSlots)

	assert.True(t, tr.ResiduePresent(0))
	assert.False(t, tr.ResiduePresent(1))
	assert.False(t, tr.ResiduePresent(2))
	assert.True(t, tr.ResiduePresent(3))
}

func TestBuild_AtomSlotTruncation(t *testing.T) {
	atoms := make([]*model.Atom, MaxAtoms+3)
	for i := range atoms {
		atoms[i] = &model.Atom{Name: "C", X: float32(i)}
	}
	m := &model.Molecule{Residues: []*model.Residue{{SeqNum: 0, Atoms: atoms}}}

	tr := Build(m)
	for slot := 0; slot < MaxAtoms; slot++ {
		assert.True(t, tr.Present(0, slot))
		assert.Equal(t, float32(slot), tr.At(0, 0, slot))
	}
}

func TestBuild_TrailingSlotsMissing(t *testing.T) {
	m := &model.Molecule{Residues: []*model.Residue{
		{SeqNum: 0, Atoms: []*model.Atom{{Name: "CA", X: 1}, {Name: "CB", X: 2}}},
	}}

	tr := Build(m)
	assert.True(t, tr.Present(0, 0))
	assert.True(t, tr.Present(0, 1))
	for slot := 2; slot < MaxAtoms; slot++ {
		assert.False(t, tr.Present(0, slot))
	}
}

func TestMissing_NeverEqualsItself(t *testing.T) {
	assert.True(t, IsMissing(Missing))
	assert.False(t, IsMissing(0))
	assert.False(t, Missing == Missing) //nolint:staticcheck // NaN identity is the point
}

func TestBuild_ZeroOriginAtomIsPresent(t *testing.T) {
	// An atom at the origin is real data, not a missing slot.
	m := &model.Molecule{Residues: []*model.Residue{
		{SeqNum: 0, Atoms: []*model.Atom{{Name: "CA", X: 0, Y: 0, Z: 0}}},
	}}

	tr := Build(m)
	assert.True(t, tr.Present(0, 0))
}
