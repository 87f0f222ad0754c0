package countryname

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "  The netherlands ", expected: "Netherlands"},
		{input: "the Gambia", expected: "Gambia"},
		{input: "THE BAHAMAS", expected: "Bahamas"},
		{input: "united states", expected: "United States"},
		{input: "USA", expected: "Usa"},
		{input: "Theodore Island", expected: "Theodore Island"},
		{input: "Netherlands", expected: "Netherlands"},
		{input: "   ", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Normalize(test.input), test.input)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"  The netherlands ",
		"the the gambia",
		"bosnia and herzegovina",
		"guinea-bissau",
		"Côte d'Ivoire",
		"USA",
	}
	for _, input := range inputs {
		once := Normalize(input)
		require.Equal(t, once, Normalize(once), input)
	}
}

func TestSuggest(t *testing.T) {
	testCases := []struct {
		names      []string
		candidates []string
		// if Suggestion.Similarity == 0
		// the test will not assert the similarity to be equal
		expected []Suggestion
	}{
		{
			names:      []string{"United States", "Fake"},
			candidates: []string{"United States Of America", "Canada"},
			expected: []Suggestion{
				{Name: "United States", Candidate: "United States Of America"},
			},
		},
		{
			names:      []string{"Chad"},
			candidates: []string{"Chad"},
			expected:   nil,
		},
		{
			names:      []string{"Chad"},
			candidates: []string{},
			expected:   nil,
		},
	}

	for _, test := range testCases {
		result := Suggest(test.names, test.candidates, DefaultSuggestionThreshold)
		diff := cmp.Diff(
			test.expected,
			result,
			cmpopts.IgnoreFields(Suggestion{}, "Similarity"),
		)
		if diff != "" {
			t.Fatal(diff)
		}
	}
}
