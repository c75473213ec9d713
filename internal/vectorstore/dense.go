package vectorstore

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongDimension is returned when a vector doesn't match the store dimension.
	ErrWrongDimension = errors.New("wrong vector dimension")

	// ErrDuplicateID is returned when appending an id that is already stored.
	ErrDuplicateID = errors.New("duplicate id")
)

// Dense is a row-major matrix of vectors keyed by string id.
//
// Dense is not safe for concurrent mutation; callers serialize writers.
type Dense struct {
	dim  int
	data []float32
	ids  []string
	rows map[string]int
}

// NewDense creates an empty store. A dim of 0 means the dimension is taken
// from the first appended vector.
func NewDense(dim, capacity int) *Dense {
	return &Dense{
		dim:  dim,
		data: make([]float32, 0, dim*capacity),
		ids:  make([]string, 0, capacity),
		rows: make(map[string]int, capacity),
	}
}

// Dimension returns the row width, or 0 if no dimension is set yet.
func (d *Dense) Dimension() int { return d.dim }

// Len returns the number of rows.
func (d *Dense) Len() int { return len(d.ids) }

// Matrix returns the backing row-major slice. It aliases internal memory
// and is only valid until the next mutation.
func (d *Dense) Matrix() []float32 { return d.data }

// IDs returns the ids in row order. It aliases internal memory.
func (d *Dense) IDs() []string { return d.ids }

// ID returns the id stored at row i.
func (d *Dense) ID(i int) string { return d.ids[i] }

// Row returns the vector stored at row i. It aliases internal memory.
func (d *Dense) Row(i int) []float32 {
	off := i * d.dim
	return d.data[off : off+d.dim : off+d.dim]
}

// RowOf returns the row index of id.
func (d *Dense) RowOf(id string) (int, bool) {
	r, ok := d.rows[id]
	return r, ok
}

// Append adds v as a new row for id.
func (d *Dense) Append(id string, v []float32) error {
	if d.dim == 0 {
		if len(v) == 0 {
			return fmt.Errorf("%w: empty vector", ErrWrongDimension)
		}
		d.dim = len(v)
	}
	if len(v) != d.dim {
		return fmt.Errorf("%w: expected %d, got %d", ErrWrongDimension, d.dim, len(v))
	}
	if _, ok := d.rows[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	d.rows[id] = len(d.ids)
	d.ids = append(d.ids, id)
	d.data = append(d.data, v...)
	return nil
}

// Set overwrites the row of id with v. It returns false if id is unknown.
func (d *Dense) Set(id string, v []float32) (bool, error) {
	r, ok := d.rows[id]
	if !ok {
		return false, nil
	}
	if len(v) != d.dim {
		return false, fmt.Errorf("%w: expected %d, got %d", ErrWrongDimension, d.dim, len(v))
	}
	copy(d.Row(r), v)
	return true, nil
}

// Remove deletes the row of id by moving the last row into its slot.
// It returns false if id is unknown. Removing the last row resets the
// dimension.
func (d *Dense) Remove(id string) bool {
	r, ok := d.rows[id]
	if !ok {
		return false
	}

	last := len(d.ids) - 1
	if r != last {
		lastID := d.ids[last]
		copy(d.Row(r), d.Row(last))
		d.ids[r] = lastID
		d.rows[lastID] = r
	}

	d.ids[last] = ""
	d.ids = d.ids[:last]
	d.data = d.data[:last*d.dim]
	delete(d.rows, id)

	if len(d.ids) == 0 {
		d.dim = 0
	}
	return true
}

// SizeBytes returns the approximate heap footprint of the vectors.
func (d *Dense) SizeBytes() int64 {
	return int64(cap(d.data)) * 4
}
