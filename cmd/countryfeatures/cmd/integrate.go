package cmd

import (
	"countryfeatures/internal/integrate"
	"countryfeatures/internal/pipeline"
	"countryfeatures/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(integrateCmd)
}

func renderIntegrated(res integrate.Result) {
	renderLost(res.Lost, res.Suggestions)
	features := res.Features.Table()
	renderTable("Feature matrix", features, previewRows)
	renderSummary("Feature matrix columns", features)
}

var integrateCmd = &cobra.Command{
	Use:   "integrate",
	Short: "Merges the cleaned tables and demographics of previous stages into the feature matrix.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline()

		gdp, err := p.ReadTable(pipeline.CleanedGDP)
		if err != nil {
			serviceutil.Fatal("failed to read cleaned gdp, run 'clean' first", err)
		}
		population, err := p.ReadTable(pipeline.CleanedPop)
		if err != nil {
			serviceutil.Fatal("failed to read cleaned population, run 'clean' first", err)
		}
		demographics, err := p.ReadTable(pipeline.Demographics)
		if err != nil {
			serviceutil.Fatal("failed to read demographics, run 'crawl' first", err)
		}

		res, err := p.Integrate(cmd.Context(), gdp, population, demographics)
		if err != nil {
			serviceutil.Fatal("failed to integrate", err)
		}
		renderIntegrated(res)
	},
}
