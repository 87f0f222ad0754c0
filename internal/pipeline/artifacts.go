package pipeline

import (
	"os"
	"path/filepath"
)

const (
	GDPBeforeSort = "gdp_before_sort.csv"
	GDPAfterSort  = "gdp_after_sort.csv"
	GDPDescribe   = "gdp_describe.csv"
	PopBeforeSort = "pop_before_sort.csv"
	PopAfterSort  = "pop_after_sort.csv"
	PopDescribe   = "pop_describe.csv"

	DroppedGDP     = "dropped_gdp.csv"
	DroppedPop     = "dropped_pop.csv"
	GDPOutliers    = "gdp_outliers.csv"
	PopOutliers    = "pop_outliers.csv"
	CleanedGDP     = "cleaned_gdp.csv"
	CleanedPop     = "cleaned_pop.csv"
	NameMismatches = "name_mismatches.csv"

	Demographics           = "demographics_data.csv"
	DemographicsBeforeSort = "demographics_before_sort.csv"
	DemographicsAfterSort  = "demographics_after_sort.csv"

	Combined               = "combined.csv"
	LostCountries          = "lost_countries.csv"
	LostCountrySuggestions = "lost_country_suggestions.csv"
	MergedFinal            = "merged_final.csv"
	FeatureMatrix          = "X.npy"
	FeatureCountries       = "X_countries.csv"
)

const (
	loadSampleSize        = 5
	demographicSampleSize = 10
)

// Artifacts is the directory every stage reads from and writes to.
type Artifacts struct {
	Dir string
}

func (a Artifacts) Path(name string) string {
	return filepath.Join(a.Dir, name)
}

func (a Artifacts) ensure() error {
	return os.MkdirAll(a.Dir, 0777)
}
