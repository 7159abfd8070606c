package matrix

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Contact is a boolean contact matrix. Rows are residue sequence numbers of
// molecule A, columns of molecule B.
//
// Contact matrices of real structures are sparse (most residue pairs are far
// apart), so each row is a roaring bitmap of contacting column indices. That
// keeps large maps small and gives cheap iteration over set cells for bond
// materialization.
type Contact struct {
	Rows int
	Cols int

	rows []*roaring.Bitmap
}

// NewContact allocates an empty rows x cols contact matrix.
func NewContact(rows, cols int) *Contact {
	return &Contact{Rows: rows, Cols: cols, rows: make([]*roaring.Bitmap, rows)}
}

// Threshold reduces a distance matrix to a contact matrix: a cell is in
// contact iff its distance is present and strictly below radius. Missing
// distances compare as not-in-contact.
func Threshold(d *Dense, radius float32) *Contact {
	c := NewContact(d.Rows, d.Cols)
	for i := 0; i < d.Rows; i++ {
		row := d.Row(i)
		for j, v := range row {
			if !IsMissingValue(v) && v < radius {
				c.Set(i, j)
			}
		}
	}
	return c
}

// Set marks (i, j) as in contact.
func (c *Contact) Set(i, j int) {
	if c.rows[i] == nil {
		c.rows[i] = roaring.New()
	}
	c.rows[i].Add(uint32(j))
}

// Contains reports whether (i, j) is in contact.
func (c *Contact) Contains(i, j int) bool {
	if i < 0 || i >= c.Rows || c.rows[i] == nil {
		return false
	}
	return c.rows[i].Contains(uint32(j))
}

// Count returns the number of contacting cells.
func (c *Contact) Count() uint64 {
	var n uint64
	for _, bm := range c.rows {
		if bm != nil {
			n += bm.GetCardinality()
		}
	}
	return n
}

// All iterates over contacting cells in row-major order.
// Iteration order is deterministic, which keeps derived bond lists stable.
func (c *Contact) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i, bm := range c.rows {
			if bm == nil {
				continue
			}
			it := bm.Iterator()
			for it.HasNext() {
				if !yield(i, int(it.Next())) {
					return
				}
			}
		}
	}
}

// RowBitmap returns the bitmap backing row i, or nil if the row is empty.
// Exposed for serialization; callers must not mutate the bitmap.
func (c *Contact) RowBitmap(i int) *roaring.Bitmap {
	return c.rows[i]
}

// SetRowBitmap installs a deserialized bitmap as row i.
func (c *Contact) SetRowBitmap(i int, bm *roaring.Bitmap) {
	c.rows[i] = bm
}

// Equal reports whether two contact matrices have the same shape and cells.
func (c *Contact) Equal(o *Contact) bool {
	if o == nil || c.Rows != o.Rows || c.Cols != o.Cols {
		return false
	}
	for i := 0; i < c.Rows; i++ {
		a, b := c.rows[i], o.rows[i]
		ae := a == nil || a.IsEmpty()
		be := b == nil || b.IsEmpty()
		if ae != be {
			return false
		}
		if ae {
			continue
		}
		if !a.Equals(b) {
			return false
		}
	}
	return true
}
