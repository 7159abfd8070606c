package distance

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/contactgo/internal/math32"
	"github.com/hupe1980/contactgo/matrix"
	"github.com/hupe1980/contactgo/resource"
	"github.com/hupe1980/contactgo/tensor"
)

// DefaultTileRows is the default number of residue rows per work unit.
const DefaultTileRows = 64

// FieldOptions controls the execution of the distance-field reduction.
type FieldOptions struct {
	// TileRows is the number of rows of tensor A handled per work unit.
	// If 0, DefaultTileRows is used.
	TileRows int

	// Parallelism is the maximum number of concurrent tiles.
	// If 0, runtime.GOMAXPROCS(0) is used.
	Parallelism int

	// Controller, if set, gates tile workers through its background slots so
	// distance-field work shares a concurrency budget with snapshot IO.
	Controller *resource.Controller
}

// MinDistances reduces two coordinate tensors to a residue-by-residue
// minimum-distance matrix.
//
// For every residue pair (i, j) the full 14x14 atom-pair squared-distance
// field is built and min-reduced; missing atoms produce missing field cells,
// which are skipped (treated as +infinity, never as 0). The minimum survives
// the square root; residue pairs with no resolvable atom pair stay missing.
//
// Rows are tiled across goroutines. Each cell is computed independently from
// an identical reduction, so the result does not depend on the tiling.
func MinDistances(ctx context.Context, a, b *tensor.Tensor, opts FieldOptions) (*matrix.Dense, error) {
	tileRows := opts.TileRows
	if tileRows <= 0 {
		tileRows = DefaultTileRows
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	result := matrix.NewDense(a.ResidueSlots, b.ResidueSlots)
	if a.ResidueSlots == 0 || b.ResidueSlots == 0 {
		return result, nil
	}

	// Per-residue present-slot lists; skips all-missing rows up front and
	// keeps the inner loops free of per-axis sentinel checks.
	slotsA := presentSlots(a)
	slotsB := presentSlots(b)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for start := 0; start < a.ResidueSlots; start += tileRows {
		end := min(start+tileRows, a.ResidueSlots)

		g.Go(func() error {
			if opts.Controller != nil {
				if err := opts.Controller.AcquireBackground(ctx); err != nil {
					return err
				}
				defer opts.Controller.ReleaseBackground()
			} else if err := ctx.Err(); err != nil {
				return err
			}

			var field [tensor.MaxAtoms * tensor.MaxAtoms]float32

			for i := start; i < end; i++ {
				if len(slotsA[i]) == 0 {
					continue // row stays missing
				}
				row := result.Row(i)
				for j := 0; j < b.ResidueSlots; j++ {
					if len(slotsB[j]) == 0 {
						continue
					}
					row[j] = minPairDistance(a, b, i, j, slotsA[i], slotsB[j], field[:])
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// minPairDistance builds the atom-pair squared-distance field for one residue
// pair and min-reduces it, returning the minimum atom-atom distance.
//
// field is scratch of at least len(slotsA)*len(slotsB); both slot lists are
// non-empty, so a minimum always exists.
func minPairDistance(a, b *tensor.Tensor, i, j int, slotsA, slotsB []int8, field []float32) float32 {
	n := 0
	for _, k := range slotsA {
		va := a.Vec(i, int(k))
		for _, l := range slotsB {
			vb := b.Vec(j, int(l))
			field[n] = math32.SquaredL2XYZ(va[0], va[1], va[2], vb[0], vb[1], vb[2])
			n++
		}
	}

	best := field[0]
	for _, d := range field[1:n] {
		if d < best {
			best = d
		}
	}
	return math32.Sqrt(best)
}

// presentSlots returns, per residue row, the atom slots holding coordinates.
func presentSlots(t *tensor.Tensor) [][]int8 {
	out := make([][]int8, t.ResidueSlots)
	for i := 0; i < t.ResidueSlots; i++ {
		var slots []int8
		for slot := 0; slot < tensor.MaxAtoms; slot++ {
			if t.Present(i, slot) {
				slots = append(slots, int8(slot))
			}
		}
		out[i] = slots
	}
	return out
}
