package contactgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/contactgo"
	"github.com/hupe1980/contactgo/testutil"
)

// Example demonstrates computing a contact map between two structures.
func Example() {
	ctx := context.Background()

	a := testutil.Molecule("A", testutil.PointResidue(1, 0, 0, 0))
	b := testutil.Molecule("B", testutil.PointResidue(2, 0, 0, 3))

	cm, err := contactgo.FromMolecules(a, b).Radius("6").Build()
	if err != nil {
		log.Fatal(err)
	}
	if err := cm.Calculate(ctx); err != nil {
		log.Fatal(err)
	}

	contacts, _ := cm.ContactMatrix()
	for i, j := range contacts.All() {
		fmt.Printf("residue %d - residue %d\n", i, j)
	}
	// Output: residue 1 - residue 2
}

// Example_rawDistances demonstrates the raw distance mode (threshold -1).
func Example_rawDistances() {
	ctx := context.Background()

	a := testutil.Molecule("A", testutil.PointResidue(0, 0, 0, 0))
	b := testutil.Molecule("B", testutil.PointResidue(0, 0, 0, 7))

	cm, err := contactgo.FromMolecules(a, b).NoThreshold().Build()
	if err != nil {
		log.Fatal(err)
	}
	if err := cm.Calculate(ctx); err != nil {
		log.Fatal(err)
	}

	d, _ := cm.Distances()
	fmt.Printf("%.1f\n", d.At(0, 0))
	// Output: 7.0
}

// Example_bonds demonstrates materializing contacts into bond records.
func Example_bonds() {
	ctx := context.Background()

	a := testutil.Molecule("A", testutil.PointResidue(1, 0, 0, 0))
	b := testutil.Molecule("B", testutil.PointResidue(1, 0, 0, 3))

	cm, err := contactgo.FromMolecules(a, b).Radius("6").Build()
	if err != nil {
		log.Fatal(err)
	}
	if err := cm.Calculate(ctx); err != nil {
		log.Fatal(err)
	}

	bonds, err := cm.Contacts(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, bond := range bonds {
		fmt.Println(bond.Kind, bond.A.Name, bond.B.Name)
	}
	// Output: non-covalent CA CA
}
