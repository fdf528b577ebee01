package dataset

import (
	"errors"
	"fmt"
)

// ErrWidthMismatch is returned when appended rows disagree with the width
// captured from the first append.
var ErrWidthMismatch = errors.New("row width mismatch")

// FeatureTable is a fixed-width numeric table. The width is captured from
// the first appended rows and enforced on every later append, so
// heterogeneous updates are rejected instead of silently accepted.
type FeatureTable struct {
	rows  [][]float64
	width int
	set   bool
}

// NewFeatureTable creates an empty table with no width yet.
func NewFeatureTable() *FeatureTable {
	return &FeatureTable{}
}

// Append concatenates rows along the leading axis. The first non-empty
// append fixes the table width.
func (t *FeatureTable) Append(rows [][]float64) error {
	if len(rows) == 0 {
		return nil
	}
	if !t.set {
		t.width = len(rows[0])
		t.set = true
	}
	for i, row := range rows {
		if len(row) != t.width {
			return fmt.Errorf("dataset: row %d has width %d, table width is %d: %w",
				i, len(row), t.width, ErrWidthMismatch)
		}
	}
	t.rows = append(t.rows, rows...)
	return nil
}

// Replace swaps the table content for rows of identical shape. Any shape
// change is a contract violation and panics.
func (t *FeatureTable) Replace(rows [][]float64) {
	if len(rows) != len(t.rows) {
		panic(fmt.Sprintf("dataset: replacement has %d rows, table has %d", len(rows), len(t.rows)))
	}
	for i, row := range rows {
		if len(row) != t.width {
			panic(fmt.Sprintf("dataset: replacement row %d has width %d, table width is %d",
				i, len(row), t.width))
		}
	}
	t.rows = rows
}

// Row returns one row. The slice is shared, not copied.
func (t *FeatureTable) Row(i int) []float64 {
	return t.rows[i]
}

// Rows returns the backing rows. The slice is shared, not copied.
func (t *FeatureTable) Rows() [][]float64 {
	return t.rows
}

// Gather returns a copy of the rows at the given indices.
func (t *FeatureTable) Gather(indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for k, i := range indices {
		row := make([]float64, len(t.rows[i]))
		copy(row, t.rows[i])
		out[k] = row
	}
	return out
}

// SliceRows returns a copy of rows[start:end], with end clamped to the
// table length.
func (t *FeatureTable) SliceRows(start, end int) [][]float64 {
	if end > len(t.rows) {
		end = len(t.rows)
	}
	if start > end {
		start = end
	}
	out := make([][]float64, end-start)
	for k := range out {
		row := make([]float64, len(t.rows[start+k]))
		copy(row, t.rows[start+k])
		out[k] = row
	}
	return out
}

// Len returns the row count.
func (t *FeatureTable) Len() int {
	return len(t.rows)
}

// Width returns the fixed row width, 0 until the first append.
func (t *FeatureTable) Width() int {
	return t.width
}

// Empty reports whether the table has no rows.
func (t *FeatureTable) Empty() bool {
	return len(t.rows) == 0
}
