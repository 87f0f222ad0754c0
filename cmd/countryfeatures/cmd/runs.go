package cmd

import (
	"errors"
	"fmt"
	"time"

	"countryfeatures/internal/components/chrono"
	"countryfeatures/internal/store"
	"countryfeatures/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Prints the features of the latest recorded run.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		runs, err := store.Open(ctx, cfg.Database, chrono.StandardImpl{}, tel)
		if err != nil {
			serviceutil.Fatal("failed to open snapshot database", err)
		}
		defer runs.Close()

		latest, err := runs.LatestRun(ctx)
		if errors.Is(err, store.ErrNoRuns) {
			fmt.Println("no run recorded yet, use 'run' first")
			return
		}
		if err != nil {
			serviceutil.Fatal("failed to read latest run", err)
		}

		t := newTable()
		t.SetTitle("Latest run")
		t.AppendHeader(table.Row{"ID", "Started", "Finished", "Countries", "Lost"})
		t.AppendRow(table.Row{
			latest.ID,
			latest.StartedAt.Format(time.DateTime),
			latest.FinishedAt.Format(time.DateTime),
			latest.Countries,
			latest.Lost,
		})
		t.Render()

		features, err := runs.Features(ctx, latest.ID)
		if err != nil {
			serviceutil.Fatal("failed to read features", err)
		}
		renderTable("Features", features, features.Len())

		lost, err := runs.LostCountries(ctx, latest.ID)
		if err != nil {
			serviceutil.Fatal("failed to read lost countries", err)
		}
		lt := newTable()
		lt.SetTitle("Lost countries")
		lt.AppendHeader(table.Row{"Country", "Did you mean"})
		for _, l := range lost {
			lt.AppendRow(table.Row{l.Country, l.Suggestion})
		}
		lt.Render()
	},
}
