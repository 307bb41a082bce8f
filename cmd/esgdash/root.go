package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"esgdash/internal/config"
	"esgdash/internal/infrastructure"
	"esgdash/pkg/contracts"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	dataset    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           config.BinaryName,
		Short:         "S&P 500 ESG risk dashboard",
		Long:          config.AppName + " explores ESG risk scores of S&P 500 companies as an interactive web page, a static snapshot or a terminal summary.",
		Version:       contracts.Build().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is config.yaml or configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.dataset, "dataset", "", "dataset path tried before the configured candidates")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(opts),
		newSnapshotCmd(opts),
		newDescribeCmd(opts),
	)
	return cmd
}

// loadConfig reads the configuration and applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFrom(o.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.dataset != "" {
		if cfg.Dataset.Path != "" {
			cfg.Dataset.Candidates = append([]string{cfg.Dataset.Path}, cfg.Dataset.Candidates...)
		}
		cfg.Dataset.Path = o.dataset
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// commandLogger logs to stderr so stdout stays free for command output.
func commandLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	return infrastructure.NewLogger(cfg.Logging, cmd.ErrOrStderr())
}
