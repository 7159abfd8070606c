// Package model defines the structural domain types shared across contactgo:
// molecules, residues, atoms, and derived bond records.
//
// The types are deliberately plain. Contact-map computation reads residues and
// atoms through exported fields and attaches bonds through Molecule.AddBond;
// no behavior beyond simple lookups lives here.
package model
