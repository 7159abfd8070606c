package contactgo

import (
	"io"

	"github.com/hupe1980/contactgo/model"
	"github.com/hupe1980/contactgo/pdb"
)

// Builder assembles a ContactMap from heterogeneous structure sources.
//
// Builders are created by FromMolecules, FromReaders, FromStrings or
// FromSources and are not safe for concurrent use. Source errors are
// deferred: the first one encountered is returned by Build.
type Builder struct {
	sources   []any
	radius    string
	radiusSet bool
	raw       bool
	optFns    []Option
}

// FromMolecules starts a builder from two already-parsed molecules.
func FromMolecules(a, b *model.Molecule) *Builder {
	return &Builder{sources: []any{a, b}}
}

// FromReaders starts a builder from two PDB streams.
func FromReaders(a, b io.Reader) *Builder {
	return &Builder{sources: []any{a, b}}
}

// FromStrings starts a builder from two PDB texts.
func FromStrings(a, b string) *Builder {
	return &Builder{sources: []any{a, b}}
}

// FromSources starts a builder from an arbitrary source collection. Exactly
// two sources are required; each may independently be a *model.Molecule, an
// io.Reader with PDB content, or a string of PDB text. Mixing forms is fine.
func FromSources(sources ...any) *Builder {
	return &Builder{sources: sources}
}

// Radius sets the textual distance threshold. Validation happens in Build.
func (b *Builder) Radius(s string) *Builder {
	b.radius = s
	b.radiusSet = true
	b.raw = false
	return b
}

// NoThreshold selects the raw distance mode (equivalent to Radius("-1")).
func (b *Builder) NoThreshold() *Builder {
	b.raw = true
	b.radiusSet = false
	b.radius = ""
	return b
}

// Option appends configuration options applied to the contact map.
func (b *Builder) Option(optFns ...Option) *Builder {
	b.optFns = append(b.optFns, optFns...)
	return b
}

// Build validates the sources, parses streams and texts into molecules, and
// returns a configured ContactMap ready for Calculate.
func (b *Builder) Build() (*ContactMap, error) {
	if len(b.sources) != 2 {
		return nil, &ErrStructureCount{Count: len(b.sources)}
	}

	molecules := make([]*model.Molecule, 2)
	for i, src := range b.sources {
		m, err := resolveSource(i, src)
		if err != nil {
			return nil, err
		}
		molecules[i] = m
	}

	cm := New(b.optFns...)
	cm.SetStructures(molecules[0], molecules[1])

	switch {
	case b.raw:
		if err := cm.SetRadius("-1"); err != nil {
			return nil, err
		}
	case b.radiusSet:
		if err := cm.SetRadius(b.radius); err != nil {
			return nil, err
		}
	}

	return cm, nil
}

// MustBuild is like Build but panics on error. Intended for tests and
// examples with known-good inputs.
func (b *Builder) MustBuild() *ContactMap {
	cm, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cm
}

func resolveSource(index int, src any) (*model.Molecule, error) {
	switch s := src.(type) {
	case *model.Molecule:
		if s == nil {
			return nil, &ErrInvalidStructure{Index: index, cause: ErrNoStructures}
		}
		return s, nil
	case io.Reader:
		m, err := pdb.Read(s)
		if err != nil {
			return nil, &ErrInvalidStructure{Index: index, cause: err}
		}
		return m, nil
	case string:
		m, err := pdb.ReadString(s)
		if err != nil {
			return nil, &ErrInvalidStructure{Index: index, cause: err}
		}
		return m, nil
	default:
		return nil, &ErrUnsupportedSource{Index: index, Value: src}
	}
}
