package cmd

import (
	"log/slog"

	"countryfeatures/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Reads the GDP and population inputs and writes their samples and summaries.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline()
		loaded, err := p.Load(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to load inputs", err)
		}
		slog.Info(
			"loaded inputs",
			"gdp", loaded.GDP.Len(),
			"population", loaded.Population.Len(),
			"output", p.Artifacts().Dir,
		)
	},
}
