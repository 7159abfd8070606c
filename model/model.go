package model

import "fmt"

// BondKind classifies a bond record.
type BondKind string

const (
	// BondKindNonCovalent marks a spatial contact rather than a chemical bond.
	BondKindNonCovalent BondKind = "non-covalent"
)

// Atom is a single heavy atom with 3D coordinates (Angstrom).
type Atom struct {
	Name string
	X    float32
	Y    float32
	Z    float32
}

// Coords returns the atom position as an xyz slice.
// The slice aliases nothing; mutations do not affect the atom.
func (a *Atom) Coords() []float32 {
	return []float32{a.X, a.Y, a.Z}
}

// String returns a short representation for logging and errors.
func (a *Atom) String() string {
	return fmt.Sprintf("%s(%.3f,%.3f,%.3f)", a.Name, a.X, a.Y, a.Z)
}

// Residue is a grouped set of atoms (e.g. an amino acid) with a unique
// sequence position within its molecule.
//
// Sequence numbers are not necessarily contiguous or zero-based; gaps are
// common in experimentally determined structures.
type Residue struct {
	Name   string
	SeqNum int
	Atoms  []*Atom
}

// Bond is a derived relationship record between two atoms.
//
// Contact-map materialization creates non-covalent bonds with Order 0
// referencing the closest atom pair of each contacting residue pair.
type Bond struct {
	Kind  BondKind
	Order int
	A     *Atom
	B     *Atom
}

// NewNonCovalentBond creates a non-covalent bond (order 0) between two atoms.
func NewNonCovalentBond(a, b *Atom) *Bond {
	return &Bond{Kind: BondKindNonCovalent, Order: 0, A: a, B: b}
}

// Molecule is an ordered sequence of residues plus any bonds attached to it.
type Molecule struct {
	ID       string
	Residues []*Residue

	bonds []*Bond
}

// AddBond attaches a bond record to the molecule.
func (m *Molecule) AddBond(b *Bond) {
	m.bonds = append(m.bonds, b)
}

// Bonds returns the bonds attached to the molecule, in attachment order.
// The returned slice is shared; callers must not mutate it.
func (m *Molecule) Bonds() []*Bond {
	return m.bonds
}

// MaxSeqNum returns the maximum residue sequence number, or -1 if the
// molecule has no residues.
func (m *Molecule) MaxSeqNum() int {
	maxSeq := -1
	for _, r := range m.Residues {
		if r.SeqNum > maxSeq {
			maxSeq = r.SeqNum
		}
	}
	return maxSeq
}

// ResiduesBySeqNum builds a reverse lookup table from sequence number to
// residue. If two residues share a sequence number, the later one wins.
func (m *Molecule) ResiduesBySeqNum() map[int]*Residue {
	lookup := make(map[int]*Residue, len(m.Residues))
	for _, r := range m.Residues {
		lookup[r.SeqNum] = r
	}
	return lookup
}
