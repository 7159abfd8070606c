// Package contactgo computes residue-residue contact maps between pairs of
// molecular structures.
//
// A contact map reduces two 3D structures to a boolean matrix: cell (i, j) is
// set when the closest heavy-atom pair of residue i (structure A) and residue
// j (structure B) is nearer than a distance threshold. Contacts can then be
// materialized into explicit non-covalent bond records.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	cm, _ := contactgo.FromMolecules(receptor, ligand).Radius("6").Build()
//	_ = cm.Calculate(ctx)
//
//	contacts, _ := cm.ContactMatrix()
//	for i, j := range contacts.All() {
//	    fmt.Println(i, j)
//	}
//
// Structures can also come from PDB streams or text:
//
//	cm, _ := contactgo.FromReaders(f1, f2).Radius("6.0").Build()
//	cm, _ := contactgo.FromStrings(pdbTextA, pdbTextB).Radius("4.5").Build()
//
// # Raw Distance Mode
//
// A threshold of -1 skips thresholding and keeps the full minimum-distance
// matrix:
//
//	cm, _ := contactgo.FromMolecules(a, b).NoThreshold().Build()
//	_ = cm.Calculate(ctx)
//	d, _ := cm.Distances()
//
// # Bond Materialization
//
// Contacts() locates the closest atom pair of every contacting residue pair
// and attaches a non-covalent bond to the first structure. It is lazy and
// cached: repeat calls never create duplicates.
//
//	bonds, _ := cm.Contacts(ctx)
//
// # Snapshots
//
// Calculated maps can be saved to a checksummed binary snapshot, locally or
// in a blob store (local FS, in-memory, S3, MinIO):
//
//	_ = cm.Save(ctx, "receptor-ligand.cmap")
//	_ = cm.SaveToStore(ctx, s3Store, "maps/receptor-ligand.cmap")
//
// # Key Features
//
//   - Minimum atom-atom distances over 14 heavy-atom slots per residue
//   - Missing atoms handled as absent, never as the origin
//   - Sparse contact matrices (roaring bitmaps) with deterministic iteration
//   - Checksummed, optionally compressed (LZ4/zstd) snapshots
//   - Cloud-native snapshot storage (S3/MinIO via BlobStore)
//   - Shared resource limits for memory, workers, and snapshot IO
package contactgo
