package cleaner

import (
	"math"
	"path/filepath"
	"testing"

	"countryfeatures/internal/components/telemetry"
	"countryfeatures/internal/dataset"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func rawTable(column string, rows ...[2]string) dataset.Raw {
	raw := dataset.Raw{Header: []string{dataset.KeyColumn, column}}
	for _, r := range rows {
		raw.Rows = append(raw.Rows, []string{r[0], r[1]})
	}
	return raw
}

func TestCoerce(t *testing.T) {
	testCases := []struct {
		cell     string
		strip    string
		expected float64
	}{
		{cell: "$12,345", strip: ",$", expected: 12345},
		{cell: "1,000", strip: ",", expected: 1000},
		{cell: " 42.5 ", strip: ",", expected: 42.5},
		{cell: "abc", strip: ",$", expected: math.NaN()},
		{cell: "None", strip: ",", expected: math.NaN()},
		{cell: "", strip: ",", expected: math.NaN()},
		{cell: "$12,345", strip: ",", expected: math.NaN()},
	}

	for _, test := range testCases {
		actual := Coerce(test.cell, test.strip)
		if math.IsNaN(test.expected) {
			require.True(t, math.IsNaN(actual), test.cell)
			continue
		}
		require.Equal(t, test.expected, actual, test.cell)
	}
}

func TestCleanDropsAndDedupes(t *testing.T) {
	raw := rawTable(
		"GDP_per_capita_PPP",
		[2]string{"Chad", "$1,500"},
		[2]string{"Peru", "None"},
		[2]string{"Chad", "$9,999"},
		[2]string{"Oman", "abc"},
		[2]string{"Fiji", "$13,000"},
	)

	tel := telemetry.NewRecorder()
	res, err := Clean(raw, GDP, tel)
	require.NoError(t, err)

	require.Equal(t, []string{"Chad", "Fiji"}, res.Table.Keys())
	require.Equal(t, 1500.0, res.Table.Value("Chad", "GDP_per_capita_PPP"))

	expectedDropped := [][]string{{"Peru", "None"}, {"Oman", "abc"}}
	if diff := cmp.Diff(expectedDropped, res.Dropped.Rows); diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, "Peru", raw.Rows[1][0], "raw table is untouched")

	for _, key := range res.Table.Keys() {
		row, _ := res.Table.Row(key)
		require.False(t, dataset.HasMissing(row))
	}

	require.Len(t, tel.Reports(telemetry.REPORT_DEBUG, report_clean_duplicate), 1)
	counts := tel.Reports(telemetry.REPORT_COUNT, report_clean_dropped+".gdp")
	require.Len(t, counts, 1)
	require.Equal(t, int64(2), counts[0].Count)
}

func TestCleanNormalizesNames(t *testing.T) {
	raw := rawTable(
		"Population",
		[2]string{"  The netherlands ", "17,000,000"},
		[2]string{"Netherlands", "1"},
		[2]string{"Chad", "18,000,000"},
		[2]string{"USA", "300,000,000"},
	)

	tel := telemetry.NewRecorder()
	res, err := Clean(raw, Population, tel)
	require.NoError(t, err)

	require.Equal(t, []string{"Netherlands", "Chad", "Usa"}, res.Table.Keys())
	require.Equal(t, 17e6, res.Table.Value("Netherlands", "Population"))

	expected := []Mismatch{
		{Source: "population", Original: "  The netherlands ", Corrected: "Netherlands"},
		{Source: "population", Original: "USA", Corrected: "Usa"},
	}
	if diff := cmp.Diff(expected, res.Mismatches); diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, []string{"Netherlands"}, res.Collisions)
	require.Len(t, tel.Reports(telemetry.REPORT_WARNING, report_clean_collision), 1)
}

func TestCleanFlagsOutliersWithoutRemoving(t *testing.T) {
	raw := rawTable(
		"GDP_per_capita_PPP",
		[2]string{"A", "10"},
		[2]string{"B", "11"},
		[2]string{"C", "12"},
		[2]string{"D", "13"},
		[2]string{"E", "14"},
		[2]string{"F", "15"},
		[2]string{"G", "16"},
		[2]string{"H", "1000"},
	)

	res, err := Clean(raw, GDP, telemetry.NewRecorder())
	require.NoError(t, err)
	require.Equal(t, []Outlier{{Country: "H", Value: 1000, Tested: 1000}}, res.Outliers)
	require.True(t, res.Table.Has("H"))
	require.Equal(t, 8, res.Table.Len())
}

func TestCleanLogScaleOutliers(t *testing.T) {
	raw := rawTable(
		"Population",
		[2]string{"A", "1,000,000"},
		[2]string{"B", "2,000,000"},
		[2]string{"C", "5,000,000"},
		[2]string{"D", "10,000,000"},
		[2]string{"E", "20,000,000"},
		[2]string{"Tiny", "10"},
		[2]string{"Zero", "0"},
	)

	res, err := Clean(raw, Population, telemetry.NewRecorder())
	require.NoError(t, err)
	require.Len(t, res.Outliers, 1)
	require.Equal(t, "Tiny", res.Outliers[0].Country)
	require.InDelta(t, 1, res.Outliers[0].Tested, 1e-12)
	require.True(t, res.Table.Has("Zero"))
}

func TestCleanMissingColumn(t *testing.T) {
	raw := rawTable("Population", [2]string{"A", "1"})
	_, err := Clean(raw, GDP, telemetry.NewRecorder())
	require.ErrorIs(t, err, dataset.ErrMissingColumn)
}

func TestCleanScenario(t *testing.T) {
	gdp := rawTable(
		"GDP_per_capita_PPP",
		[2]string{"USA", "$10,000"},
		[2]string{"The Fake", "bad"},
	)
	pop := rawTable(
		"Population",
		[2]string{"USA", "300,000,000"},
		[2]string{"Fake", "1,000"},
	)

	tel := telemetry.NewRecorder()
	gdpRes, err := Clean(gdp, GDP, tel)
	require.NoError(t, err)
	popRes, err := Clean(pop, Population, tel)
	require.NoError(t, err)

	require.Equal(t, []string{"Usa"}, gdpRes.Table.Keys())
	require.Equal(t, 1, gdpRes.Dropped.Len())
	require.Equal(t, "The Fake", gdpRes.Dropped.Rows[0][0])
	require.Equal(t, []string{"Usa", "Fake"}, popRes.Table.Keys())

	joined, err := dataset.InnerJoin(gdpRes.Table, popRes.Table)
	require.NoError(t, err)
	require.Equal(t, []string{"Usa"}, joined.Keys())
}

func TestWriteReports(t *testing.T) {
	dir := t.TempDir()

	outliers := filepath.Join(dir, "pop_outliers.csv")
	err := WriteOutliers(outliers, Population, []Outlier{{Country: "Tiny", Value: 10, Tested: 1}})
	require.NoError(t, err)

	raw, err := dataset.ReadRaw(outliers)
	require.NoError(t, err)
	require.Equal(t, []string{"Country", "Population", "LogPopulation"}, raw.Header)
	require.Equal(t, [][]string{{"Tiny", "10", "1"}}, raw.Rows)

	mismatches := filepath.Join(dir, "name_mismatches.csv")
	err = WriteMismatches(mismatches, []Mismatch{{Source: "gdp", Original: "USA", Corrected: "Usa"}})
	require.NoError(t, err)

	raw, err = dataset.ReadRaw(mismatches)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"gdp", "USA", "Usa"}}, raw.Rows)
}
