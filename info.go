package main

import (
	"github.com/spf13/cobra"

	"github.com/sslratings/sslratings/config"
)

func newInfoCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the number of running SSL Labs assessments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags, func(*config.Config) {})
			if err != nil {
				return err
			}

			runner, logger, err := newRunner(cfg, flags.debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runner.Info(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
