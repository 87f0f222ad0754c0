package countryname

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

const DefaultSuggestionThreshold = 0.85

type Suggestion struct {
	Name       string
	Candidate  string
	Similarity float64
}

// Suggest pairs every name with its most similar candidate by Jaro-Winkler
// similarity. Candidates identical to the name are skipped, and so are pairs
// below `threshold`. The result is sorted by name.
func Suggest(names, candidates []string, threshold float64) []Suggestion {
	var result []Suggestion
	for _, name := range names {
		lowered := strings.ToLower(name)

		var mostSimilarity float64
		var mostSimilar string
		for _, candidate := range candidates {
			if candidate == name {
				continue
			}
			similarity := matchr.JaroWinkler(lowered, strings.ToLower(candidate), false)
			if similarity > mostSimilarity {
				mostSimilarity = similarity
				mostSimilar = candidate
			}
		}

		if mostSimilar == "" || mostSimilarity < threshold {
			continue
		}
		result = append(result, Suggestion{
			Name:       name,
			Candidate:  mostSimilar,
			Similarity: mostSimilarity,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
