package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
)

const KeyColumn = "Country"

var ErrMissingColumn = errors.New("missing column")

// Raw is an untyped table exactly as read from a CSV file, every row has as
// many cells as the header.
type Raw struct {
	Header []string
	Rows   [][]string
}

func (r Raw) ColumnIndex(name string) (int, error) {
	idx := slices.Index(r.Header, name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return idx, nil
}

// RequireColumns fails with ErrMissingColumn on the first absent column.
func (r Raw) RequireColumns(names ...string) error {
	for _, name := range names {
		_, err := r.ColumnIndex(name)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r Raw) Len() int {
	return len(r.Rows)
}

// Head returns the first n rows, sharing the underlying rows.
func (r Raw) Head(n int) Raw {
	if n > len(r.Rows) {
		n = len(r.Rows)
	}
	return Raw{Header: r.Header, Rows: r.Rows[:n]}
}

// SortedBy returns a copy of the table stably sorted by the given column.
func (r Raw) SortedBy(column string) (Raw, error) {
	idx, err := r.ColumnIndex(column)
	if err != nil {
		return Raw{}, err
	}
	rows := slices.Clone(r.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i][idx] < rows[j][idx]
	})
	return Raw{Header: r.Header, Rows: rows}, nil
}

// Empty returns a table with the same header and no rows.
func (r Raw) Empty() Raw {
	return Raw{Header: r.Header}
}

func ParseRaw(reader io.Reader) (Raw, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return Raw{}, err
	}
	if len(records) == 0 {
		return Raw{}, fmt.Errorf("csv has no header")
	}

	header := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(header))
		copy(row, record)
		rows = append(rows, row)
	}
	return Raw{Header: header, Rows: rows}, nil
}

func ReadRaw(path string) (Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return Raw{}, err
	}
	defer f.Close()

	raw, err := ParseRaw(f)
	if err != nil {
		return Raw{}, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}

func WriteRaw(path string, raw Raw) error {
	return WriteRecords(path, raw.Header, raw.Rows)
}

// WriteRecords writes a header and rows to a CSV file, replacing it.
func WriteRecords(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write(header)
	if err != nil {
		return err
	}
	err = w.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
