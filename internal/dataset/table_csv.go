package dataset

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// FormatValue renders a cell the way it is written to CSV, missing values are
// left empty.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseValue parses a cell written by FormatValue, anything that is not a
// finite number is missing.
func ParseValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// Records renders the table as CSV records with the key as first column.
func (t *Table) Records() (header []string, rows [][]string) {
	header = append([]string{KeyColumn}, t.columns...)
	rows = make([][]string, len(t.keys))
	for i, key := range t.keys {
		row := make([]string, 0, len(t.columns)+1)
		row = append(row, key)
		for _, v := range t.rows[key] {
			row = append(row, FormatValue(v))
		}
		rows[i] = row
	}
	return header, rows
}

func WriteTable(path string, t *Table) error {
	header, rows := t.Records()
	return WriteRecords(path, header, rows)
}

// TableFromRaw builds a table keyed by KeyColumn from a raw table, every other
// column is parsed as numeric.
func TableFromRaw(raw Raw) (*Table, error) {
	keyIdx, err := raw.ColumnIndex(KeyColumn)
	if err != nil {
		return nil, err
	}

	var columns []string
	var indices []int
	for i, name := range raw.Header {
		if i == keyIdx {
			continue
		}
		columns = append(columns, name)
		indices = append(indices, i)
	}

	t := NewTable(columns...)
	for _, row := range raw.Rows {
		values := make([]float64, len(indices))
		for i, idx := range indices {
			values[i] = ParseValue(row[idx])
		}
		err := t.Insert(row[keyIdx], values)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func ParseTable(reader io.Reader) (*Table, error) {
	raw, err := ParseRaw(reader)
	if err != nil {
		return nil, err
	}
	return TableFromRaw(raw)
}

func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}
