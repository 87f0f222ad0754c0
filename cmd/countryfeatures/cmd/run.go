package cmd

import (
	"log/slog"

	"countryfeatures/internal/components/chrono"
	"countryfeatures/internal/pipeline"
	"countryfeatures/internal/store"
	"countryfeatures/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var skipCrawl bool

func init() {
	runCmd.Flags().BoolVar(&skipCrawl, "skip-crawl", false, "reuse the demographics of a previous crawl")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs every stage and records the run in the snapshot database.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		runs, err := store.Open(ctx, cfg.Database, chrono.StandardImpl{}, tel)
		if err != nil {
			serviceutil.Fatal("failed to open snapshot database", err)
		}
		defer runs.Close()

		res, err := newPipeline().Run(ctx, pipeline.RunOptions{SkipCrawl: skipCrawl}, runs)
		if err != nil {
			serviceutil.Fatal("pipeline failed", err)
		}

		renderOutliers("GDP per capita outliers", res.Cleaned.GDP)
		renderOutliers("Population outliers (log10)", res.Cleaned.Population)
		renderIntegrated(res.Integrated)

		slog.Info(
			"run recorded",
			"id", res.Run.ID,
			"countries", res.Run.Countries,
			"lost", res.Run.Lost,
		)
	},
}
