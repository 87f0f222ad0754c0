package dataset

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseRawPadsRows(t *testing.T) {
	raw, err := ParseRaw(strings.NewReader("Country,Population\nA,1\nB\nC,3,extra\n"))
	require.NoError(t, err)

	expected := [][]string{{"A", "1"}, {"B", ""}, {"C", "3"}}
	if diff := cmp.Diff(expected, raw.Rows); diff != "" {
		t.Fatal(diff)
	}
	require.NoError(t, raw.RequireColumns("Country", "Population"))
	require.ErrorIs(t, raw.RequireColumns("GDP_per_capita_PPP"), ErrMissingColumn)
}

func TestRawSortedByIsStable(t *testing.T) {
	raw := Raw{
		Header: []string{"Country", "Population"},
		Rows:   [][]string{{"b", "1"}, {"a", "2"}, {"b", "3"}, {"a", "4"}},
	}
	sorted, err := raw.SortedBy("Country")
	require.NoError(t, err)

	expected := [][]string{{"a", "2"}, {"a", "4"}, {"b", "1"}, {"b", "3"}}
	if diff := cmp.Diff(expected, sorted.Rows); diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, "b", raw.Rows[0][0])
	require.Equal(t, 2, sorted.Head(2).Len())
	require.Equal(t, 4, sorted.Head(10).Len())
}

func TestTableInsertRejectsDuplicates(t *testing.T) {
	table := NewTable("x")
	require.NoError(t, table.Insert("a", []float64{1}))
	require.ErrorIs(t, table.Insert("a", []float64{2}), ErrDuplicateKey)
	require.Error(t, table.Insert("b", []float64{1, 2}))
	require.Equal(t, 1.0, table.Value("a", "x"))
	require.True(t, math.IsNaN(table.Value("missing", "x")))
}

func TestInnerJoin(t *testing.T) {
	left := NewTable("x")
	require.NoError(t, left.Insert("c", []float64{3}))
	require.NoError(t, left.Insert("a", []float64{1}))
	require.NoError(t, left.Insert("b", []float64{2}))

	right := NewTable("y")
	require.NoError(t, right.Insert("a", []float64{10}))
	require.NoError(t, right.Insert("c", []float64{30}))
	require.NoError(t, right.Insert("d", []float64{40}))

	joined, err := InnerJoin(left, right)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "a"}, joined.Keys())
	require.Equal(t, []string{"x", "y"}, joined.Columns())

	row, ok := joined.Row("c")
	require.True(t, ok)
	require.Equal(t, []float64{3, 30}, row)

	require.Equal(t, []string{"a", "b", "c", "d"}, KeyUnion(left, right))

	_, err = InnerJoin(left, left)
	require.Error(t, err)
}

func TestTableColumns(t *testing.T) {
	table := NewTable("x", "y")
	require.NoError(t, table.Insert("a", []float64{1, math.NaN()}))
	require.NoError(t, table.Insert("b", []float64{2, 4}))

	require.NoError(t, table.AddColumn("z", []float64{5, 6}))
	require.NoError(t, table.SetColumn("x", []float64{7, 8}))
	_, err := table.Column("w")
	require.ErrorIs(t, err, ErrMissingColumn)

	selected, err := table.Select("z", "x")
	require.NoError(t, err)
	row, _ := selected.Row("b")
	require.Equal(t, []float64{6, 8}, row)

	complete := table.Filter(func(_ string, row []float64) bool {
		return !HasMissing(row)
	})
	require.Equal(t, []string{"b"}, complete.Keys())
}

func TestTableCSVRoundTrip(t *testing.T) {
	table := NewTable("GDP_per_capita_PPP", "Population")
	require.NoError(t, table.Insert("Usa", []float64{10000, 3e8}))
	require.NoError(t, table.Insert("Chad", []float64{math.NaN(), 1.5}))

	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, WriteTable(path, table))

	raw, err := ReadRaw(path)
	require.NoError(t, err)
	expected := [][]string{{"Usa", "10000", "300000000"}, {"Chad", "", "1.5"}}
	if diff := cmp.Diff(expected, raw.Rows); diff != "" {
		t.Fatal(diff)
	}

	read, err := ReadTable(path)
	require.NoError(t, err)
	require.Equal(t, table.Keys(), read.Keys())
	require.Equal(t, 1.5, read.Value("Chad", "Population"))
	require.True(t, math.IsNaN(read.Value("Chad", "GDP_per_capita_PPP")))
}

func TestParseValue(t *testing.T) {
	require.Equal(t, 12.5, ParseValue(" 12.5 "))
	require.True(t, math.IsNaN(ParseValue("None")))
	require.True(t, math.IsNaN(ParseValue("")))
	require.True(t, math.IsNaN(ParseValue("Inf")))
}

func TestDescribe(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDescribe(&buf, "Population", []float64{1, 2, math.NaN(), 3, 4})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "Population")
	require.Contains(t, out, "mean")
	require.Contains(t, out, "2.5")

	_, err = Describe("Population", []float64{math.NaN()})
	require.Error(t, err)
}
