package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sslratings/sslratings/config"
	"github.com/sslratings/sslratings/logging"
	"github.com/sslratings/sslratings/ratings"
	"github.com/sslratings/sslratings/ratings/observatory"
	"github.com/sslratings/sslratings/ratings/ssllabs"
	"github.com/sslratings/sslratings/scan"
)

const usage = "usage: sslratings [start|info|collect [outputPath]]"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		stop()
		os.Exit(1)
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	debug      bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "sslratings",
		Short: "Rate the TLS and HTTP security posture of a list of sites",
		// Anything that is not a command prints the usage, as does no
		// command at all.
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), usage)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "log at debug level")

	root.AddCommand(
		newStartCmd(&flags),
		newInfoCmd(&flags),
		newCollectCmd(&flags),
	)
	return root
}

// loadConfig reads the configuration file, if any, and applies override to
// it before validating.
func loadConfig(flags *globalFlags, override func(*config.Config)) (*config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		var err error
		if cfg, err = config.Load(flags.configPath); err != nil {
			return nil, err
		}
	}

	override(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newRunner wires the rating services described by cfg.
func newRunner(cfg *config.Config, debug bool) (scan.Runner, *zap.SugaredLogger, error) {
	logger, err := logging.New(debug)
	if err != nil {
		return scan.Runner{}, nil, fmt.Errorf("could not set up logging: %w", err)
	}

	opts, err := cfg.ScanOptions()
	if err != nil {
		return scan.Runner{}, nil, err
	}

	client := ratings.New(&http.Client{}, cfg.Timeout())
	labs := ssllabs.New(client, cfg.Services.SSLLabs)
	obs := observatory.New(client, cfg.Services.Observatory)

	logger.Debugw("Configured services", "ssllabs", cfg.Services.SSLLabs,
		"observatory", cfg.Services.Observatory, "timeout", cfg.Timeout())
	return scan.New(labs, obs, net.DefaultResolver, opts, logger), logger, nil
}
