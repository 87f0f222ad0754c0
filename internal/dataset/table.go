package dataset

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
)

var ErrDuplicateKey = errors.New("duplicate key")

// Table is a numeric table keyed uniquely by country, rows keep their
// insertion order. Missing values are NaN.
type Table struct {
	columns []string
	keys    []string
	rows    map[string][]float64
}

func NewTable(columns ...string) *Table {
	return &Table{
		columns: slices.Clone(columns),
		rows:    make(map[string][]float64),
	}
}

func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Keys returns the row keys in table order.
func (t *Table) Keys() []string {
	return slices.Clone(t.keys)
}

func (t *Table) Len() int {
	return len(t.keys)
}

func (t *Table) Has(key string) bool {
	_, ok := t.rows[key]
	return ok
}

// Insert appends a row, it fails if the key already exists.
func (t *Table) Insert(key string, values []float64) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row %q has %d values, table has %d columns", key, len(values), len(t.columns))
	}
	if t.Has(key) {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	t.keys = append(t.keys, key)
	t.rows[key] = slices.Clone(values)
	return nil
}

// Row returns a copy of the row for a key.
func (t *Table) Row(key string) ([]float64, bool) {
	row, ok := t.rows[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(row), true
}

func (t *Table) ColumnIndex(name string) (int, error) {
	idx := slices.Index(t.columns, name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return idx, nil
}

// Value returns a single cell, NaN when the key or column is absent.
func (t *Table) Value(key, column string) float64 {
	idx, err := t.ColumnIndex(column)
	if err != nil {
		return math.NaN()
	}
	row, ok := t.rows[key]
	if !ok {
		return math.NaN()
	}
	return row[idx]
}

// Column returns the values of a column in table order.
func (t *Table) Column(name string) ([]float64, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(t.keys))
	for i, key := range t.keys {
		out[i] = t.rows[key][idx]
	}
	return out, nil
}

// SetColumn overwrites a column, `values` follows table order.
func (t *Table) SetColumn(name string, values []float64) error {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return err
	}
	if len(values) != len(t.keys) {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.keys))
	}
	for i, key := range t.keys {
		t.rows[key][idx] = values[i]
	}
	return nil
}

// AddColumn appends a new column, `values` follows table order.
func (t *Table) AddColumn(name string, values []float64) error {
	if slices.Contains(t.columns, name) {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(values) != len(t.keys) {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.keys))
	}
	t.columns = append(t.columns, name)
	for i, key := range t.keys {
		t.rows[key] = append(t.rows[key], values[i])
	}
	return nil
}

// Select returns a new table holding only the given columns, in that order.
func (t *Table) Select(columns ...string) (*Table, error) {
	indices := make([]int, len(columns))
	for i, name := range columns {
		idx, err := t.ColumnIndex(name)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}

	out := NewTable(columns...)
	for _, key := range t.keys {
		row := t.rows[key]
		values := make([]float64, len(indices))
		for i, idx := range indices {
			values[i] = row[idx]
		}
		out.keys = append(out.keys, key)
		out.rows[key] = values
	}
	return out, nil
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(key string, row []float64) bool) *Table {
	out := NewTable(t.columns...)
	for _, key := range t.keys {
		row := t.rows[key]
		if !keep(key, row) {
			continue
		}
		out.keys = append(out.keys, key)
		out.rows[key] = slices.Clone(row)
	}
	return out
}

// HasMissing reports whether a row holds a NaN.
func HasMissing(row []float64) bool {
	return slices.ContainsFunc(row, math.IsNaN)
}

// Sorted returns a copy of the table with rows sorted by key.
func (t *Table) Sorted() *Table {
	out := t.Filter(func(string, []float64) bool { return true })
	sort.Strings(out.keys)
	return out
}

// Head returns a copy holding the first n rows.
func (t *Table) Head(n int) *Table {
	out := NewTable(t.columns...)
	for i, key := range t.keys {
		if i >= n {
			break
		}
		out.keys = append(out.keys, key)
		out.rows[key] = slices.Clone(t.rows[key])
	}
	return out
}

// InnerJoin keeps the keys present in both tables, in left order, with the
// left columns followed by the right columns. Both tables must not share a
// column name.
func InnerJoin(left, right *Table) (*Table, error) {
	for _, name := range right.columns {
		if slices.Contains(left.columns, name) {
			return nil, fmt.Errorf("join: column %q exists on both sides", name)
		}
	}

	out := NewTable(append(left.Columns(), right.columns...)...)
	for _, key := range left.keys {
		rightRow, ok := right.rows[key]
		if !ok {
			continue
		}
		row := append(slices.Clone(left.rows[key]), rightRow...)
		out.keys = append(out.keys, key)
		out.rows[key] = row
	}
	return out, nil
}

// KeyUnion returns the sorted union of the keys of every table.
func KeyUnion(tables ...*Table) []string {
	seen := make(map[string]struct{})
	for _, t := range tables {
		for _, key := range t.keys {
			seen[key] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
