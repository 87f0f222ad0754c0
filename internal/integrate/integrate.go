package integrate

import (
	"fmt"
	"math"

	"countryfeatures/internal/components/telemetry"
	"countryfeatures/internal/countryname"
	"countryfeatures/internal/dataset"
	"countryfeatures/internal/stats"
)

const (
	report_integrate_combined = "integrate.combined"
	report_integrate_merged   = "integrate.merged"
	report_integrate_lost     = "integrate.lost"
	report_integrate_dropped  = "integrate.dropped-incomplete"
)

const (
	ColumnGDPPerCapita    = "GDP_per_capita_PPP"
	ColumnPopulation      = "Population"
	ColumnTotalGDP        = "TotalGDP"
	ColumnLogGDPPerCapita = "LogGDPperCapita"
	ColumnLogPopulation   = "LogPopulation"
	ColumnLifeExpectancy  = "Life Expectancy Both"
)

// FeatureColumns are the columns of the feature matrix, in order.
var FeatureColumns = []string{
	ColumnLifeExpectancy,
	ColumnLogGDPPerCapita,
	ColumnLogPopulation,
}

// Combine joins GDP per capita with population and derives the total GDP and
// the log scaled columns. Rows without a strictly positive total GDP and
// population are left out.
func Combine(gdp, population *dataset.Table) (*dataset.Table, error) {
	gdp, err := gdp.Select(ColumnGDPPerCapita)
	if err != nil {
		return nil, fmt.Errorf("combine: %w", err)
	}
	population, err = population.Select(ColumnPopulation)
	if err != nil {
		return nil, fmt.Errorf("combine: %w", err)
	}

	joined, err := dataset.InnerJoin(gdp, population)
	if err != nil {
		return nil, fmt.Errorf("combine: %w", err)
	}

	out := dataset.NewTable(
		ColumnGDPPerCapita,
		ColumnPopulation,
		ColumnTotalGDP,
		ColumnLogGDPPerCapita,
		ColumnLogPopulation,
	)
	for _, key := range joined.Keys() {
		row, _ := joined.Row(key)
		perCapita, pop := row[0], row[1]

		total := perCapita * pop
		if !(total > 0) || !(pop > 0) || math.IsInf(total, 0) {
			continue
		}
		err := out.Insert(key, []float64{
			perCapita,
			pop,
			total,
			math.Log10(perCapita),
			math.Log10(pop),
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LostCountries returns, sorted, every key of the inputs that does not make
// it into `final`.
func LostCountries(final *dataset.Table, inputs ...*dataset.Table) []string {
	var lost []string
	for _, key := range dataset.KeyUnion(inputs...) {
		if !final.Has(key) {
			lost = append(lost, key)
		}
	}
	return lost
}

// ImputeMean returns a copy of the table where the missing values of each
// column are replaced by the mean of the present ones. A column with no
// present value stays missing.
func ImputeMean(t *dataset.Table) *dataset.Table {
	out := t.Filter(func(string, []float64) bool { return true })
	for _, name := range out.Columns() {
		values, _ := out.Column(name)
		mean := stats.Mean(values)
		for i, v := range values {
			if math.IsNaN(v) {
				values[i] = mean
			}
		}
		out.SetColumn(name, values)
	}
	return out
}

type Options struct {
	// SuggestionThreshold is the minimum Jaro-Winkler similarity of a name
	// suggested for a lost country.
	SuggestionThreshold float64
}

type Result struct {
	Combined *dataset.Table
	// Merged holds every column of the demographics and combined tables,
	// after imputation and without incomplete rows.
	Merged      *dataset.Table
	Lost        []string
	Suggestions []countryname.Suggestion
	Features    FeatureMatrix
}

// Integrate merges the cleaned GDP and population tables with demographics
// into the normalized feature matrix.
func Integrate(gdp, population, demographics *dataset.Table, opts Options, tel telemetry.API) (Result, error) {
	tel = telemetry.NewScopedAPI("integrate", tel)
	if opts.SuggestionThreshold == 0 {
		opts.SuggestionThreshold = countryname.DefaultSuggestionThreshold
	}

	combined, err := Combine(gdp, population)
	if err != nil {
		return Result{}, err
	}
	tel.ReportCount(report_integrate_combined, int64(combined.Len()))

	joined, err := dataset.InnerJoin(demographics, combined)
	if err != nil {
		return Result{}, fmt.Errorf("merge demographics: %w", err)
	}
	tel.ReportCount(report_integrate_merged, int64(joined.Len()))

	lost := LostCountries(joined, gdp, population, demographics)
	tel.ReportCount(report_integrate_lost, int64(len(lost)))

	candidates := dataset.KeyUnion(gdp, population, demographics)
	suggestions := countryname.Suggest(lost, candidates, opts.SuggestionThreshold)

	merged := ImputeMean(joined).Filter(func(_ string, row []float64) bool {
		return !dataset.HasMissing(row)
	})
	if dropped := joined.Len() - merged.Len(); dropped > 0 {
		tel.ReportWarning(report_integrate_dropped, dropped)
	}

	features, err := NewFeatureMatrix(merged, FeatureColumns)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Combined:    combined,
		Merged:      merged,
		Lost:        lost,
		Suggestions: suggestions,
		Features:    features,
	}, nil
}
