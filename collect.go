package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sslratings/sslratings/config"
	"github.com/sslratings/sslratings/report"
	"github.com/sslratings/sslratings/scan"
)

// collectFlags mirror the scan section of the configuration.
type collectFlags struct {
	layout       string
	header       bool
	onIncomplete string
	onError      string
	preloadList  bool
}

func newCollectCmd(flags *globalFlags) *cobra.Command {
	var cf collectFlags

	cmd := &cobra.Command{
		Use:   "collect [outputPath]",
		Short: "Write one line per site with the final ratings",
		Long: "Write one tab-separated line per site with the final ratings to outputPath,\n" +
			"or to standard output if it is omitted or \"-\".",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags, func(cfg *config.Config) {
				if cmd.Flags().Changed("layout") {
					cfg.Scan.Layout = cf.layout
				}
				if cmd.Flags().Changed("on-observatory-incomplete") {
					cfg.Scan.OnObservatoryIncomplete = cf.onIncomplete
				}
				if cmd.Flags().Changed("on-service-error") {
					cfg.Scan.OnServiceError = cf.onError
				}
				if cmd.Flags().Changed("preload-list") {
					cfg.Scan.CheckPreloadList = cf.preloadList
				}
			})
			if err != nil {
				return err
			}
			layout, err := cfg.Layout()
			if err != nil {
				return err
			}

			runner, logger, err := newRunner(cfg, flags.debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			var out io.Writer = cmd.OutOrStdout()
			var progress io.Writer
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("could not create output file: %w", err)
				}
				defer f.Close()
				out, progress = f, cmd.OutOrStdout()
			}

			w := report.NewWriter(out, layout)
			if cf.header {
				if err := w.WriteHeader(); err != nil {
					return err
				}
			}
			return runner.Collect(cmd.Context(), cfg.SiteList(), w, progress)
		},
	}

	cmd.Flags().StringVar(&cf.layout, "layout", report.Current.String(), "criteria columns (current|legacy)")
	cmd.Flags().BoolVar(&cf.header, "header", false, "write a line with the column titles first")
	cmd.Flags().StringVar(&cf.onIncomplete, "on-observatory-incomplete", scan.ReportScoreUnavailable.String(),
		"what to do with a site whose Observatory scan has not finished (score-unavailable|fail-host)")
	cmd.Flags().StringVar(&cf.onError, "on-service-error", scan.AbortRun.String(),
		"what to do when a service call fails (abort|skip)")
	cmd.Flags().BoolVar(&cf.preloadList, "preload-list", false, "check each site against the Chromium HSTS preload list")
	return cmd
}
