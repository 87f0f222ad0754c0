package integrate

import (
	"strconv"

	"countryfeatures/internal/countryname"
	"countryfeatures/internal/dataset"
)

func WriteLostCountries(path string, lost []string) error {
	rows := make([][]string, len(lost))
	for i, country := range lost {
		rows[i] = []string{country}
	}
	return dataset.WriteRecords(path, []string{dataset.KeyColumn}, rows)
}

func WriteSuggestions(path string, suggestions []countryname.Suggestion) error {
	rows := make([][]string, len(suggestions))
	for i, s := range suggestions {
		rows[i] = []string{
			s.Name,
			s.Candidate,
			strconv.FormatFloat(s.Similarity, 'f', 4, 64),
		}
	}
	return dataset.WriteRecords(path, []string{dataset.KeyColumn, "Suggestion", "Similarity"}, rows)
}
