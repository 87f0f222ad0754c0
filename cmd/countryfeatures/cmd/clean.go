package cmd

import (
	"countryfeatures/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Loads and cleans the GDP and population inputs.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline()
		loaded, err := p.Load(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to load inputs", err)
		}
		cleaned, err := p.Clean(cmd.Context(), loaded)
		if err != nil {
			serviceutil.Fatal("failed to clean inputs", err)
		}

		renderCleaned("GDP per capita", cleaned.GDP)
		renderOutliers("GDP per capita outliers", cleaned.GDP)
		renderCleaned("Population", cleaned.Population)
		renderOutliers("Population outliers (log10)", cleaned.Population)
	},
}
