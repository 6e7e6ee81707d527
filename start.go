package main

import (
	"github.com/spf13/cobra"

	"github.com/sslratings/sslratings/config"
)

func newStartCmd(flags *globalFlags) *cobra.Command {
	var (
		publish string
		maxAge  int
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start or poll the assessment of every site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags, func(cfg *config.Config) {
				if cmd.Flags().Changed("publish") {
					cfg.Scan.Publish = publish
				}
				if cmd.Flags().Changed("max-age") {
					cfg.Scan.MaxAge = maxAge
				}
			})
			if err != nil {
				return err
			}

			runner, logger, err := newRunner(cfg, flags.debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runner.Start(cmd.Context(), cfg.SiteList(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&publish, "publish", "off", "publish results on the public boards (on|off)")
	cmd.Flags().IntVar(&maxAge, "max-age", 12, "maximum age in hours of a cached SSL Labs report")
	return cmd
}
