package cmd

import (
	"os"
	"strconv"

	"countryfeatures/internal/cleaner"
	"countryfeatures/internal/countryname"
	"countryfeatures/internal/dataset"
	"countryfeatures/internal/stats"

	"github.com/jedib0t/go-pretty/v6/table"
)

const previewRows = 10

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func renderOutliers(title string, res cleaner.Result) {
	t := newTable()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Country", "Value", "Tested"})
	for _, o := range res.Outliers {
		t.AppendRow(table.Row{o.Country, dataset.FormatValue(o.Value), formatFloat(o.Tested)})
	}
	t.AppendFooter(table.Row{
		"Bounds",
		formatFloat(res.Bounds.Lower),
		formatFloat(res.Bounds.Upper),
	})
	t.Render()
}

func renderCleaned(title string, res cleaner.Result) {
	t := newTable()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Kept", "Dropped", "Outliers", "Renamed", "Collisions"})
	t.AppendRow(table.Row{
		res.Table.Len(),
		res.Dropped.Len(),
		len(res.Outliers),
		len(res.Mismatches),
		len(res.Collisions),
	})
	t.Render()
}

func renderTable(title string, data *dataset.Table, limit int) {
	t := newTable()
	t.SetTitle(title)

	header := table.Row{dataset.KeyColumn}
	for _, column := range data.Columns() {
		header = append(header, column)
	}
	t.AppendHeader(header)

	for _, key := range data.Head(limit).Keys() {
		row, _ := data.Row(key)
		out := table.Row{key}
		for _, v := range row {
			out = append(out, formatFloat(v))
		}
		t.AppendRow(out)
	}
	if data.Len() > limit {
		t.AppendFooter(table.Row{"...", strconv.Itoa(data.Len()) + " rows"})
	}
	t.Render()
}

func renderLost(lost []string, suggestions []countryname.Suggestion) {
	bySuggestion := make(map[string]countryname.Suggestion, len(suggestions))
	for _, s := range suggestions {
		bySuggestion[s.Name] = s
	}

	t := newTable()
	t.SetTitle("Lost countries")
	t.AppendHeader(table.Row{"Country", "Did you mean", "Similarity"})
	for _, country := range lost {
		s, ok := bySuggestion[country]
		if !ok {
			t.AppendRow(table.Row{country, "", ""})
			continue
		}
		t.AppendRow(table.Row{country, s.Candidate, formatFloat(s.Similarity)})
	}
	t.Render()
}

func renderSummary(title string, data *dataset.Table) {
	t := newTable()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Column", "Mean", "Std"})
	for _, column := range data.Columns() {
		values, _ := data.Column(column)
		mean, std := stats.MeanStdDev(values)
		t.AppendRow(table.Row{column, formatFloat(mean), formatFloat(std)})
	}
	t.Render()
}
