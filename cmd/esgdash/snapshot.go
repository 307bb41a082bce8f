package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"esgdash/internal/app"
	"esgdash/internal/charts"
	"esgdash/internal/services"
	"esgdash/internal/snapshot"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write the static dashboard to a directory",
		Long:  "Render the unfiltered dashboard once as index.html with chart images and CSV exports.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := commandLogger(cmd, cfg)
			if err != nil {
				return err
			}

			svc, err := app.NewServiceContainer(cfg, logger, nil)
			if err != nil {
				return err
			}
			writer := snapshot.NewWriter(svc.Dashboard, svc.Charts, svc.Exports, logger,
				snapshot.WithChartFormat(charts.Format(cfg.Dashboard.ChartFormat)))

			res, err := writer.Write(cmd.Context(), out)
			if res != nil {
				for _, m := range res.Messages {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", m.Level, m.Text)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d files to %s\n", len(res.Files), res.Dir)
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(res.Dir, "index.html"))
			}
			if errors.Is(err, services.ErrNoDataset) {
				return fmt.Errorf("snapshot has no data: %w", err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "snapshot", "output directory")
	return cmd
}
