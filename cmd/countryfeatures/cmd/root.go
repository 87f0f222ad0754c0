package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"countryfeatures/internal/components/chrono"
	"countryfeatures/internal/components/telemetry"
	"countryfeatures/internal/config"
	"countryfeatures/internal/pipeline"
	"countryfeatures/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

const serviceName = "countryfeatures"

var (
	configPath string
	verbose    bool
	cfg        config.Config
)

var tel telemetry.API = telemetry.SlogAPI{}

var shutdown = func(context.Context) error { return nil }

var rootCmd = &cobra.Command{
	Use:   "countryfeatures",
	Short: "countryfeatures scrapes, cleans and merges country statistics into a normalized feature matrix.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		telemetry.InitSlog(verbose || cfg.Verbose)

		shutdown, err = telemetry.SetupTracing(cmd.Context(), serviceName, cfg.Otlp)
		if err != nil {
			serviceutil.Fatal("failed to setup tracing", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to flush traces", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the json5 config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newPipeline() pipeline.Pipeline {
	return pipeline.New(cfg, chrono.StandardImpl{}, tel)
}

func Execute() {
	if err := rootCmd.ExecuteContext(serviceutil.SignalContext()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
