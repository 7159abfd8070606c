package contactgo

import (
	"context"
	"time"

	"github.com/hupe1980/contactgo/distance"
	"github.com/hupe1980/contactgo/model"
)

// Contacts materializes the contact matrix into bond records.
//
// For every contacting residue pair the closest atom pair is located and a
// non-covalent bond between those atoms is created and attached to the first
// structure. Materialization runs at most once per calculated result: repeat
// calls return the cached bonds and never attach duplicates. Recalculating or
// changing inputs re-arms it.
//
// Raw-mode results (radius == -1) have no contact matrix, so materialization
// returns ErrRawContacts.
func (cm *ContactMap) Contacts(ctx context.Context) ([]*model.Bond, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if !cm.calculated {
		return nil, ErrNotCalculated
	}
	if cm.contact == nil {
		return nil, ErrRawContacts
	}
	if cm.structures[0] == nil || cm.structures[1] == nil {
		return nil, ErrNoStructures
	}

	cm.bondsOnce.Do(func() {
		start := time.Now()
		cm.bonds, cm.bondsErr = materializeBonds(ctx, cm)
		cm.metricsCollector.RecordMaterialize(len(cm.bonds), time.Since(start), cm.bondsErr)
		cm.logger.LogMaterialize(ctx, len(cm.bonds), cm.bondsErr)
	})

	return cm.bonds, cm.bondsErr
}

// materializeBonds walks the contact matrix in row-major order and derives
// one bond per contacting residue pair. Caller holds cm.mu.
func materializeBonds(ctx context.Context, cm *ContactMap) ([]*model.Bond, error) {
	a, b := cm.structures[0], cm.structures[1]

	residuesA := a.ResiduesBySeqNum()
	residuesB := b.ResiduesBySeqNum()

	bonds := make([]*model.Bond, 0, cm.contact.Count())

	for i, j := range cm.contact.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ra, ok := residuesA[i]
		if !ok {
			return nil, &ErrResidueNotFound{SeqNum: i, Molecule: a.ID}
		}
		rb, ok := residuesB[j]
		if !ok {
			return nil, &ErrResidueNotFound{SeqNum: j, Molecule: b.ID}
		}

		atomA, atomB, _, ok := distance.ClosestAtoms(ra, rb)
		if !ok {
			// A contact cell implies both residues had coordinates when the
			// tensor was built, so this only fires if a molecule was mutated
			// after Calculate.
			return nil, &ErrResidueNotFound{SeqNum: i, Molecule: a.ID}
		}

		bond := model.NewNonCovalentBond(atomA, atomB)
		a.AddBond(bond)
		bonds = append(bonds, bond)
	}

	return bonds, nil
}
