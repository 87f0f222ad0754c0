package cmd

import (
	"countryfeatures/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Scrapes the demographics of every country page linked from the index.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := newPipeline()
		demographics, err := p.Crawl(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to crawl demographics", err)
		}
		renderTable("Demographics", demographics.Sorted(), previewRows)
	},
}
