// Package pdb reads molecules from PDB-formatted structure data.
//
// The reader is intentionally minimal: it consumes ATOM records of the first
// model, skips hydrogens, and groups heavy atoms into residues by sequence
// number. That is exactly what contact-map computation needs; full PDB format
// fidelity (HETATM, altloc disambiguation, anisotropic records, ...) is out of
// scope.
package pdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/contactgo/model"
)

// ErrNoAtomRecords is returned when the source contains no parseable ATOM records.
var ErrNoAtomRecords = errors.New("pdb: no ATOM records found")

// ErrMalformedRecord indicates an ATOM record that could not be parsed.
//
// The offending line number can be accessed via the Line field.
type ErrMalformedRecord struct {
	Line  int
	cause error
}

func (e *ErrMalformedRecord) Error() string {
	return fmt.Sprintf("pdb: malformed ATOM record at line %d", e.Line)
}

func (e *ErrMalformedRecord) Unwrap() error { return e.cause }

// Read parses PDB-formatted text from r into a molecule.
//
// Only ATOM records of the first model are used. Hydrogens are skipped.
// Residues appear in file order; atoms keep their record order within each
// residue.
func Read(r io.Reader) (*model.Molecule, error) {
	mol := &model.Molecule{}

	var current *model.Residue
	currentSeq := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "HEADER") && len(line) >= 66:
			if id := strings.TrimSpace(line[62:66]); id != "" {
				mol.ID = id
			}
			continue
		case strings.HasPrefix(line, "ENDMDL"):
			// First model only.
			if len(mol.Residues) > 0 {
				return mol, nil
			}
			continue
		case !strings.HasPrefix(line, "ATOM"):
			continue
		}

		atom, seq, resName, err := parseAtomRecord(line)
		if err != nil {
			return nil, &ErrMalformedRecord{Line: lineNum, cause: err}
		}
		if atom == nil {
			continue // hydrogen or alternate location
		}

		if current == nil || seq != currentSeq {
			current = &model.Residue{Name: resName, SeqNum: seq}
			currentSeq = seq
			mol.Residues = append(mol.Residues, current)
		}
		current.Atoms = append(current.Atoms, atom)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(mol.Residues) == 0 {
		return nil, ErrNoAtomRecords
	}
	return mol, nil
}

// ReadString parses PDB-formatted text into a molecule.
func ReadString(s string) (*model.Molecule, error) {
	return Read(strings.NewReader(s))
}

// ReadFile parses a PDB file into a molecule.
func ReadFile(path string) (*model.Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mol, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("pdb: read %s: %w", path, err)
	}
	return mol, nil
}

// parseAtomRecord parses a fixed-column ATOM record.
//
// Columns (1-based, per the PDB format description):
//
//	13-16 atom name, 17 altLoc, 18-20 residue name,
//	23-26 residue sequence number, 31-38 x, 39-46 y, 47-54 z, 77-78 element
//
// Returns (nil, 0, "", nil) for atoms that should be skipped.
func parseAtomRecord(line string) (*model.Atom, int, string, error) {
	if len(line) < 54 {
		return nil, 0, "", errors.New("record too short")
	}

	altLoc := line[16]
	if altLoc != ' ' && altLoc != 'A' {
		return nil, 0, "", nil
	}

	name := strings.TrimSpace(line[12:16])
	if isHydrogen(line, name) {
		return nil, 0, "", nil
	}

	resName := strings.TrimSpace(line[17:20])

	seq, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return nil, 0, "", fmt.Errorf("residue sequence number: %w", err)
	}
	if seq < 0 {
		return nil, 0, "", nil // negative seqnums cannot be tensor-indexed
	}

	coords := [3]float32{}
	for i, span := range [3][2]int{{30, 38}, {38, 46}, {46, 54}} {
		v, err := strconv.ParseFloat(strings.TrimSpace(line[span[0]:span[1]]), 32)
		if err != nil {
			return nil, 0, "", fmt.Errorf("coordinate %d: %w", i, err)
		}
		coords[i] = float32(v)
	}

	return &model.Atom{Name: name, X: coords[0], Y: coords[1], Z: coords[2]}, seq, resName, nil
}

func isHydrogen(line, name string) bool {
	if len(line) >= 78 {
		elem := strings.TrimSpace(line[76:78])
		if elem != "" {
			return elem == "H" || elem == "D"
		}
	}
	// Fall back to the atom name when the element column is absent.
	trimmed := strings.TrimLeft(name, "0123456789")
	return strings.HasPrefix(trimmed, "H") || strings.HasPrefix(trimmed, "D")
}
