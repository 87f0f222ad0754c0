package cleaner

import (
	"countryfeatures/internal/dataset"
)

func (o Options) outlierHeader() []string {
	header := []string{dataset.KeyColumn, o.Column}
	if o.LogScaleOutliers {
		header = append(header, "Log"+o.Column)
	}
	return header
}

// WriteOutliers writes the flagged rows of a cleaning result.
func WriteOutliers(path string, opts Options, outliers []Outlier) error {
	rows := make([][]string, len(outliers))
	for i, o := range outliers {
		row := []string{o.Country, dataset.FormatValue(o.Value)}
		if opts.LogScaleOutliers {
			row = append(row, dataset.FormatValue(o.Tested))
		}
		rows[i] = row
	}
	return dataset.WriteRecords(path, opts.outlierHeader(), rows)
}

func WriteMismatches(path string, mismatches []Mismatch) error {
	rows := make([][]string, len(mismatches))
	for i, m := range mismatches {
		rows[i] = []string{m.Source, m.Original, m.Corrected}
	}
	return dataset.WriteRecords(path, []string{"Source", "Original", "Corrected"}, rows)
}
