// Package testutil provides testing utilities for contactgo.
//
// This package is intended for use in tests and benchmarks only. It provides
// helpers for building small synthetic molecules, generating jittered residue
// clouds, and emitting PDB fixture text.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/hupe1980/contactgo/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Jitter returns a pseudo-random offset in [-scale, scale).
func (r *RNG) Jitter(scale float32) float32 {
	return (r.Float32()*2 - 1) * scale
}

// Atom creates a named heavy atom at the given position.
func Atom(name string, x, y, z float32) *model.Atom {
	return &model.Atom{Name: name, X: x, Y: y, Z: z}
}

// Residue creates a residue with the given sequence number and atoms.
func Residue(name string, seqNum int, atoms ...*model.Atom) *model.Residue {
	return &model.Residue{Name: name, SeqNum: seqNum, Atoms: atoms}
}

// PointResidue creates a single-atom residue at the given position. The atom
// is named CA so fixtures read like backbone-only structures.
func PointResidue(seqNum int, x, y, z float32) *model.Residue {
	return Residue("GLY", seqNum, Atom("CA", x, y, z))
}

// Molecule creates a molecule from residues.
func Molecule(id string, residues ...*model.Residue) *model.Molecule {
	return &model.Molecule{ID: id, Residues: residues}
}

// ClusterMolecule creates a molecule of n single-atom residues (sequence
// numbers 1..n) jittered around a center point. Useful for exercising larger
// matrices without hand-writing coordinates.
func ClusterMolecule(rng *RNG, id string, n int, cx, cy, cz, spread float32) *model.Molecule {
	residues := make([]*model.Residue, 0, n)
	for seq := 1; seq <= n; seq++ {
		residues = append(residues, PointResidue(seq,
			cx+rng.Jitter(spread),
			cy+rng.Jitter(spread),
			cz+rng.Jitter(spread),
		))
	}
	return Molecule(id, residues...)
}

// PDBAtomLine formats one fixed-column ATOM record.
func PDBAtomLine(serial int, atomName, resName string, seqNum int, x, y, z float32, element string) string {
	return fmt.Sprintf("ATOM  %5d %-4s %3s A%4d    %8.3f%8.3f%8.3f  1.00  0.00          %2s",
		serial, atomName, resName, seqNum, x, y, z, element)
}

// PDBText renders molecules' residues as minimal PDB text (ATOM records plus
// END). Atom elements are derived from the first letter of the atom name.
func PDBText(m *model.Molecule) string {
	var sb strings.Builder
	serial := 1
	for _, res := range m.Residues {
		for _, atom := range res.Atoms {
			element := "C"
			if atom.Name != "" {
				element = atom.Name[:1]
			}
			sb.WriteString(PDBAtomLine(serial, atom.Name, res.Name, res.SeqNum, atom.X, atom.Y, atom.Z, element))
			sb.WriteString("\n")
			serial++
		}
	}
	sb.WriteString("END\n")
	return sb.String()
}
