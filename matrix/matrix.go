// Package matrix holds the result types of contact-map computation: the
// real-valued minimum-distance matrix and the boolean contact matrix.
package matrix

import "math"

// Missing is the sentinel for cells with no resolvable distance (a residue
// slot with no atoms on either side). It is NaN: never equal to a valid
// distance and excluded from thresholding.
var Missing = float32(math.NaN())

// IsMissingValue reports whether v is the missing sentinel.
func IsMissingValue(v float32) bool {
	return v != v
}

// Dense is a row-major real-valued matrix indexed by residue sequence numbers
// of molecule A (rows) and molecule B (columns).
type Dense struct {
	Rows int
	Cols int
	Data []float32
}

// NewDense allocates a rows x cols matrix with every cell missing.
func NewDense(rows, cols int) *Dense {
	d := &Dense{
		Rows: rows,
		Cols: cols,
		Data: make([]float32, rows*cols),
	}
	for i := range d.Data {
		d.Data[i] = Missing
	}
	return d
}

// At returns the cell value at (i, j).
func (d *Dense) At(i, j int) float32 {
	return d.Data[i*d.Cols+j]
}

// Set stores v at (i, j).
func (d *Dense) Set(i, j int, v float32) {
	d.Data[i*d.Cols+j] = v
}

// IsMissing reports whether the cell at (i, j) is missing.
func (d *Dense) IsMissing(i, j int) bool {
	return IsMissingValue(d.At(i, j))
}

// Row returns the i-th row as a slice view into the matrix.
func (d *Dense) Row(i int) []float32 {
	return d.Data[i*d.Cols : (i+1)*d.Cols]
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	out := &Dense{Rows: d.Rows, Cols: d.Cols, Data: make([]float32, len(d.Data))}
	copy(out.Data, d.Data)
	return out
}

// Equal reports whether two matrices have the same shape and cell values.
// Missing cells compare equal to missing cells (plain float comparison would
// make NaN unequal to itself).
func (d *Dense) Equal(o *Dense) bool {
	if o == nil || d.Rows != o.Rows || d.Cols != o.Cols {
		return false
	}
	for i, v := range d.Data {
		w := o.Data[i]
		if IsMissingValue(v) != IsMissingValue(w) {
			return false
		}
		if !IsMissingValue(v) && v != w {
			return false
		}
	}
	return true
}

// EqualInDelta is like Equal but allows per-cell deviation up to eps,
// for comparisons across runs that may reassociate floating point.
func (d *Dense) EqualInDelta(o *Dense, eps float32) bool {
	if o == nil || d.Rows != o.Rows || d.Cols != o.Cols {
		return false
	}
	for i, v := range d.Data {
		w := o.Data[i]
		if IsMissingValue(v) != IsMissingValue(w) {
			return false
		}
		if IsMissingValue(v) {
			continue
		}
		diff := v - w
		if diff < 0 {
			diff = -diff
		}
		if diff > eps {
			return false
		}
	}
	return true
}
