package contactgo_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contactgo"
	"github.com/hupe1980/contactgo/pdb"
	"github.com/hupe1980/contactgo/testutil"
)

func fixturePDBPair(t *testing.T) (string, string) {
	t.Helper()

	a := testutil.Molecule("A", testutil.PointResidue(1, 0, 0, 0))
	b := testutil.Molecule("B", testutil.PointResidue(1, 0, 0, 3))
	return testutil.PDBText(a), testutil.PDBText(b)
}

func TestBuilder_FromStrings(t *testing.T) {
	textA, textB := fixturePDBPair(t)

	cm, err := contactgo.FromStrings(textA, textB).Radius("6").Build()
	require.NoError(t, err)
	require.NoError(t, cm.Calculate(context.Background()))

	contacts, err := cm.ContactMatrix()
	require.NoError(t, err)
	assert.True(t, contacts.Contains(1, 1))
}

func TestBuilder_FromReaders(t *testing.T) {
	textA, textB := fixturePDBPair(t)

	cm, err := contactgo.FromReaders(strings.NewReader(textA), strings.NewReader(textB)).
		Radius("6").
		Build()
	require.NoError(t, err)
	require.NoError(t, cm.Calculate(context.Background()))

	contacts, err := cm.ContactMatrix()
	require.NoError(t, err)
	assert.True(t, contacts.Contains(1, 1))
}

func TestBuilder_FromSources_Mixed(t *testing.T) {
	textB := testutil.PDBText(testutil.Molecule("B", testutil.PointResidue(1, 0, 0, 3)))
	a := testutil.Molecule("A", testutil.PointResidue(1, 0, 0, 0))

	cm, err := contactgo.FromSources(a, strings.NewReader(textB)).Radius("6").Build()
	require.NoError(t, err)
	require.NoError(t, cm.Calculate(context.Background()))

	contacts, err := cm.ContactMatrix()
	require.NoError(t, err)
	assert.True(t, contacts.Contains(1, 1))
}

func TestBuilder_SourceCount(t *testing.T) {
	a := testutil.Molecule("A", testutil.PointResidue(1, 0, 0, 0))

	_, err := contactgo.FromSources(a).Radius("6").Build()
	var countErr *contactgo.ErrStructureCount
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 1, countErr.Count)

	_, err = contactgo.FromSources(a, a, a).Radius("6").Build()
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 3, countErr.Count)
}

func TestBuilder_UnsupportedSource(t *testing.T) {
	a := testutil.Molecule("A", testutil.PointResidue(1, 0, 0, 0))

	_, err := contactgo.FromSources(a, 42).Radius("6").Build()

	var srcErr *contactgo.ErrUnsupportedSource
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, 1, srcErr.Index)
}

func TestBuilder_InvalidPDBText(t *testing.T) {
	textA, _ := fixturePDBPair(t)

	_, err := contactgo.FromStrings(textA, "this is not a structure").Build()

	var invalidErr *contactgo.ErrInvalidStructure
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, 1, invalidErr.Index)
	assert.ErrorIs(t, err, pdb.ErrNoAtomRecords)
}

func TestBuilder_InvalidRadius(t *testing.T) {
	textA, textB := fixturePDBPair(t)

	_, err := contactgo.FromStrings(textA, textB).Radius("abc").Build()
	assert.ErrorIs(t, err, contactgo.ErrRadiusNotNumber)
}

func TestBuilder_NoRadiusDefersToCalculate(t *testing.T) {
	a := testutil.Molecule("A", testutil.PointResidue(1, 0, 0, 0))
	b := testutil.Molecule("B", testutil.PointResidue(1, 0, 0, 3))

	cm, err := contactgo.FromMolecules(a, b).Build()
	require.NoError(t, err)

	assert.ErrorIs(t, cm.Calculate(context.Background()), contactgo.ErrNoRadius)
}
