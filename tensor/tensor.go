// Package tensor builds dense per-residue, per-atom coordinate tensors from
// molecules. The tensor is the input of the distance-field reduction.
package tensor

import (
	"math"

	"github.com/hupe1980/contactgo/model"
)

// MaxAtoms is the number of atom slots per residue. Standard amino acids have
// at most 14 heavy atoms (backbone + side chain), so residues exposing more
// atoms are truncated and shorter ones leave trailing slots missing.
const MaxAtoms = 14

// Axes is the number of spatial axes (x, y, z).
const Axes = 3

// Missing is the sentinel for absent coordinates. It is NaN, so it can never
// be confused with a real coordinate and never wins a comparison.
var Missing = float32(math.NaN())

// IsMissing reports whether v is the missing sentinel.
func IsMissing(v float32) bool {
	return v != v
}

// Tensor is a dense coordinate tensor of logical shape
// [Axes, ResidueSlots, MaxAtoms].
//
// Residue slots are indexed by sequence number, so slots for sequence numbers
// with no residue are entirely missing. Storage is xyz-contiguous per atom so
// a single atom position can be handed to distance kernels as a 3-slice
// without copying.
type Tensor struct {
	// ResidueSlots is maxSeqNum+1 (zero for an empty molecule).
	ResidueSlots int

	data []float32
}

// Build converts a molecule into a coordinate tensor.
//
// For each residue the first MaxAtoms atoms are written into the slot row at
// its sequence number; everything else stays missing. Build is a pure read of
// the molecule.
func Build(m *model.Molecule) *Tensor {
	slots := m.MaxSeqNum() + 1
	t := &Tensor{
		ResidueSlots: slots,
		data:         make([]float32, slots*MaxAtoms*Axes),
	}
	for i := range t.data {
		t.data[i] = Missing
	}

	for _, res := range m.Residues {
		if res.SeqNum < 0 || res.SeqNum >= slots {
			continue
		}
		for slot, atom := range res.Atoms {
			if slot >= MaxAtoms {
				break
			}
			base := (res.SeqNum*MaxAtoms + slot) * Axes
			t.data[base] = atom.X
			t.data[base+1] = atom.Y
			t.data[base+2] = atom.Z
		}
	}
	return t
}

// At returns the coordinate at [axis, residue slot, atom slot], mirroring the
// logical [3, maxSeq+1, 14] orientation.
func (t *Tensor) At(axis, res, slot int) float32 {
	return t.data[(res*MaxAtoms+slot)*Axes+axis]
}

// Vec returns the xyz coordinates of one atom slot as a 3-slice view into the
// tensor. The slice is valid for the lifetime of the tensor and must not be
// mutated.
func (t *Tensor) Vec(res, slot int) []float32 {
	base := (res*MaxAtoms + slot) * Axes
	return t.data[base : base+Axes]
}

// Present reports whether the atom slot holds real coordinates.
// A slot is missing as a whole; checking one axis suffices.
func (t *Tensor) Present(res, slot int) bool {
	return !IsMissing(t.data[(res*MaxAtoms+slot)*Axes])
}

// ResiduePresent reports whether any atom slot of the residue row holds real
// coordinates.
func (t *Tensor) ResiduePresent(res int) bool {
	for slot := 0; slot < MaxAtoms; slot++ {
		if t.Present(res, slot) {
			return true
		}
	}
	return false
}
