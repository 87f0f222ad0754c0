package cleaner

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"countryfeatures/internal/components/telemetry"
	"countryfeatures/internal/countryname"
	"countryfeatures/internal/dataset"
	"countryfeatures/internal/stats"
)

const (
	report_clean_dropped   = "clean.dropped"
	report_clean_outliers  = "clean.outliers"
	report_clean_duplicate = "clean.duplicate"
	report_clean_collision = "clean.collision"
)

// Options describes how the metric column of one source table is cleaned.
type Options struct {
	// Source tags name corrections, ex. "gdp".
	Source string
	// Column is the metric column, it is the only column kept besides the
	// country key.
	Column string
	// Strip lists the characters removed from a cell before parsing.
	Strip string
	// LogScaleOutliers applies the Tukey rule to log10 of the metric.
	LogScaleOutliers bool
}

var GDP = Options{
	Source: "gdp",
	Column: "GDP_per_capita_PPP",
	Strip:  ",$",
}

var Population = Options{
	Source:           "population",
	Column:           "Population",
	Strip:            ",",
	LogScaleOutliers: true,
}

type Outlier struct {
	Country string
	Value   float64
	// Tested is the value the fences were applied to, log10(Value) when the
	// rule runs on a log scale.
	Tested float64
}

// Mismatch is a country name that changed during normalization.
type Mismatch struct {
	Source    string
	Original  string
	Corrected string
}

type Result struct {
	// Table is keyed by normalized country name and holds the metric column.
	Table *dataset.Table
	// Dropped holds the raw rows whose metric was missing or malformed.
	Dropped    dataset.Raw
	Outliers   []Outlier
	Bounds     stats.Bounds
	Mismatches []Mismatch
	// Collisions are distinct raw names that normalized to an existing key.
	Collisions []string
}

// Coerce strips `strip` from the cell and parses it, anything that is not a
// finite number is missing.
func Coerce(cell, strip string) float64 {
	cell = strings.Map(func(r rune) rune {
		if strings.ContainsRune(strip, r) {
			return -1
		}
		return r
	}, cell)
	return dataset.ParseValue(cell)
}

type kept struct {
	country string
	value   float64
}

// Clean coerces, drops, flags, deduplicates and normalizes one raw table.
// The raw table is not modified.
func Clean(raw dataset.Raw, opts Options, tel telemetry.API) (Result, error) {
	tel = telemetry.NewScopedAPI("cleaner", tel)

	keyIdx, err := raw.ColumnIndex(dataset.KeyColumn)
	if err != nil {
		return Result{}, err
	}
	valueIdx, err := raw.ColumnIndex(opts.Column)
	if err != nil {
		return Result{}, err
	}

	res := Result{Dropped: raw.Empty()}

	var rows []kept
	for _, row := range raw.Rows {
		value := Coerce(row[valueIdx], opts.Strip)
		if math.IsNaN(value) {
			res.Dropped.Rows = append(res.Dropped.Rows, row)
			continue
		}
		rows = append(rows, kept{country: row[keyIdx], value: value})
	}
	tel.ReportCount(fmt.Sprintf("%s.%s", report_clean_dropped, opts.Source), int64(res.Dropped.Len()))

	res.Outliers, res.Bounds = flagOutliers(rows, opts.LogScaleOutliers)
	tel.ReportCount(fmt.Sprintf("%s.%s", report_clean_outliers, opts.Source), int64(len(res.Outliers)))

	rows = dedupe(rows, func(country string) {
		tel.ReportDebug(report_clean_duplicate, opts.Source, country)
	})

	res.Table = dataset.NewTable(opts.Column)
	for _, r := range rows {
		name := countryname.Normalize(r.country)
		if name != r.country {
			res.Mismatches = append(res.Mismatches, Mismatch{
				Source:    opts.Source,
				Original:  r.country,
				Corrected: name,
			})
		}

		err := res.Table.Insert(name, []float64{r.value})
		if errors.Is(err, dataset.ErrDuplicateKey) {
			tel.ReportWarning(report_clean_collision, opts.Source, r.country, name)
			res.Collisions = append(res.Collisions, r.country)
			continue
		}
		if err != nil {
			return Result{}, err
		}
	}

	return res, nil
}

func flagOutliers(rows []kept, logScale bool) ([]Outlier, stats.Bounds) {
	tested := make([]float64, len(rows))
	for i, r := range rows {
		tested[i] = r.value
		if logScale {
			tested[i] = log10(r.value)
		}
	}

	indices, bounds := stats.OutlierIndices(tested)
	outliers := make([]Outlier, len(indices))
	for i, idx := range indices {
		outliers[i] = Outlier{
			Country: rows[idx].country,
			Value:   rows[idx].value,
			Tested:  tested[idx],
		}
	}
	return outliers, bounds
}

// log10 is undefined (NaN) for non-positive values.
func log10(v float64) float64 {
	if v <= 0 {
		return math.NaN()
	}
	return math.Log10(v)
}

// dedupe keeps the first row of every country in input order.
func dedupe(rows []kept, onDuplicate func(country string)) []kept {
	seen := make(map[string]struct{}, len(rows))
	out := make([]kept, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.country]; ok {
			onDuplicate(r.country)
			continue
		}
		seen[r.country] = struct{}{}
		out = append(out, r)
	}
	return out
}
