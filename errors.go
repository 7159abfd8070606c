package contactgo

import (
	"errors"
	"fmt"
)

var (
	// ErrRadiusNotNumber is returned when the distance threshold is not -1
	// and not a non-negative number.
	ErrRadiusNotNumber = errors.New("Distance threshold is not a number")

	// ErrNoStructures is returned when Calculate runs without a molecule pair.
	ErrNoStructures = errors.New("no structures configured")

	// ErrNoRadius is returned when Calculate runs without a distance threshold.
	ErrNoRadius = errors.New("no distance threshold configured")

	// ErrNotCalculated is returned when derived data is read before Calculate.
	ErrNotCalculated = errors.New("contact map has not been calculated")

	// ErrRawContacts is returned when bonds are materialized from a raw
	// distance matrix (radius == -1): without a threshold, "in contact" is
	// undefined.
	ErrRawContacts = errors.New("contacts are undefined for a raw distance matrix")
)

// ErrStructureCount indicates a source collection that is not a pair.
type ErrStructureCount struct {
	Count int
}

func (e *ErrStructureCount) Error() string {
	return fmt.Sprintf("structures require exactly 2 sources, got %d", e.Count)
}

// ErrUnsupportedSource indicates a structure source of an unsupported type.
//
// Supported forms are *model.Molecule, io.Reader (PDB stream), and string
// (PDB text).
type ErrUnsupportedSource struct {
	Index int
	Value any
}

func (e *ErrUnsupportedSource) Error() string {
	return fmt.Sprintf("unsupported structure source at index %d: %T", e.Index, e.Value)
}

// ErrInvalidStructure indicates a source that could not be turned into a
// molecule (e.g. a string that is not valid PDB text).
//
// The underlying parse error can be accessed via errors.Unwrap.
type ErrInvalidStructure struct {
	Index int
	cause error
}

func (e *ErrInvalidStructure) Error() string {
	return fmt.Sprintf("structure source at index %d is not a valid molecule", e.Index)
}

func (e *ErrInvalidStructure) Unwrap() error { return e.cause }

// ErrResidueNotFound indicates a contact-matrix cell whose sequence number
// resolved to no residue. It should not occur if tensor building completed,
// but bond materialization guards against it.
type ErrResidueNotFound struct {
	SeqNum   int
	Molecule string
}

func (e *ErrResidueNotFound) Error() string {
	return fmt.Sprintf("no residue with sequence number %d in molecule %q", e.SeqNum, e.Molecule)
}
