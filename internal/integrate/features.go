package integrate

import (
	"fmt"
	"io"
	"os"
	"slices"

	"countryfeatures/internal/dataset"
	"countryfeatures/internal/stats"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// FeatureMatrix is a z-score normalized matrix, one row per country sorted
// by name and one column per feature.
type FeatureMatrix struct {
	Countries []string
	Columns   []string
	Data      *mat.Dense
}

// NewFeatureMatrix selects `columns` from the table and normalizes each to
// zero mean and unit sample standard deviation.
func NewFeatureMatrix(t *dataset.Table, columns []string) (FeatureMatrix, error) {
	selected, err := t.Select(columns...)
	if err != nil {
		return FeatureMatrix{}, fmt.Errorf("feature matrix: %w", err)
	}
	selected = selected.Sorted()

	m := FeatureMatrix{
		Countries: selected.Keys(),
		Columns:   slices.Clone(columns),
	}
	if len(m.Countries) == 0 {
		return m, nil
	}

	m.Data = mat.NewDense(len(m.Countries), len(columns), nil)
	for j, name := range columns {
		values, err := selected.Column(name)
		if err != nil {
			return FeatureMatrix{}, err
		}
		m.Data.SetCol(j, stats.ZScores(values))
	}
	return m, nil
}

func (m FeatureMatrix) Rows() int {
	return len(m.Countries)
}

// Row returns the normalized features of the i-th country.
func (m FeatureMatrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.Data)
}

// Table converts the matrix back into a table keyed by country.
func (m FeatureMatrix) Table() *dataset.Table {
	t := dataset.NewTable(m.Columns...)
	for i, country := range m.Countries {
		t.Insert(country, m.Row(i))
	}
	return t
}

// WriteNPY writes the matrix as a float64 C-ordered NumPy array. A matrix
// without rows is written as an empty 1-D array.
func (m FeatureMatrix) WriteNPY(w io.Writer) error {
	if m.Data == nil {
		return npyio.Write(w, make([]float64, 0))
	}
	return npyio.Write(w, m.Data)
}

func (m FeatureMatrix) WriteNPYFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = m.WriteNPY(f)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// WriteCountries writes the row order of the matrix.
func (m FeatureMatrix) WriteCountries(path string) error {
	rows := make([][]string, len(m.Countries))
	for i, country := range m.Countries {
		rows[i] = []string{country}
	}
	return dataset.WriteRecords(path, []string{dataset.KeyColumn}, rows)
}
