package distance

import (
	"github.com/hupe1980/contactgo/internal/math32"
	"github.com/hupe1980/contactgo/model"
)

// ClosestAtoms returns the closest atom pair between two residues and their
// Euclidean distance.
//
// This is a residue-local second pass used by bond materialization: the
// tensor reduction only keeps indices and distances, not which atoms achieved
// the minimum. ok is false if either residue has no atoms.
func ClosestAtoms(ra, rb *model.Residue) (atomA, atomB *model.Atom, dist float32, ok bool) {
	if len(ra.Atoms) == 0 || len(rb.Atoms) == 0 {
		return nil, nil, 0, false
	}

	var best float32
	for _, aa := range ra.Atoms {
		for _, ab := range rb.Atoms {
			d := math32.SquaredL2XYZ(aa.X, aa.Y, aa.Z, ab.X, ab.Y, ab.Z)
			if !ok || d < best {
				best = d
				atomA, atomB = aa, ab
				ok = true
			}
		}
	}
	return atomA, atomB, math32.Sqrt(best), true
}
