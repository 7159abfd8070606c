package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	assert.Equal(t, a.Float32(), b.Float32())
	assert.Equal(t, a.Intn(100), b.Intn(100))

	a.Reset()
	b.Reset()
	assert.Equal(t, a.Jitter(5), b.Jitter(5))
	assert.Equal(t, int64(4711), a.Seed())
}

func TestClusterMolecule(t *testing.T) {
	rng := NewRNG(1)
	m := ClusterMolecule(rng, "A", 10, 0, 0, 0, 2)

	require.Len(t, m.Residues, 10)
	assert.Equal(t, 1, m.Residues[0].SeqNum)
	assert.Equal(t, 10, m.MaxSeqNum())

	for _, res := range m.Residues {
		require.Len(t, res.Atoms, 1)
		atom := res.Atoms[0]
		assert.LessOrEqual(t, atom.X, float32(2))
		assert.GreaterOrEqual(t, atom.X, float32(-2))
	}
}

func TestPDBText_Columns(t *testing.T) {
	m := Molecule("A", PointResidue(1, 1.5, -2.25, 3))
	text := PDBText(m)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "END", lines[1])

	line := lines[0]
	require.GreaterOrEqual(t, len(line), 78)
	assert.Equal(t, "ATOM", line[0:4])
	assert.Equal(t, "CA", strings.TrimSpace(line[12:16]))
	assert.Equal(t, "GLY", line[17:20])
	assert.Equal(t, "1", strings.TrimSpace(line[22:26]))
	assert.Equal(t, "1.500", strings.TrimSpace(line[30:38]))
	assert.Equal(t, "-2.250", strings.TrimSpace(line[38:46]))
	assert.Equal(t, "3.000", strings.TrimSpace(line[46:54]))
	assert.Equal(t, "C", strings.TrimSpace(line[76:78]))
}
