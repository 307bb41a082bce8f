package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"esgdash/internal/app"
	"esgdash/internal/config"
	"esgdash/internal/services"
	"esgdash/pkg/contracts/domain"
)

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON bool
		topN   int
		sortBy string
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print a summary of the dataset",
		Long:  "Load the dataset and print its source, columns, summary statistics and the top companies.",
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

			d, err := svc.Dashboard.Build(cmd.Context(), services.Query{TopN: topN, SortBy: sortBy}, services.Static)
			if err != nil && !errors.Is(err, services.ErrNoDataset) {
				return err
			}
			dto := d.DTO(svc.Dashboard.Candidates())

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(dto); encErr != nil {
					return encErr
				}
				return err
			}

			writeDescription(out, dto)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dashboard as JSON")
	cmd.Flags().IntVar(&topN, "top-n", 0, fmt.Sprintf("number of companies to list (%d-%d)", config.MinTopN, config.MaxTopN))
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "score column the companies are ranked by")
	return cmd
}

func writeDescription(out io.Writer, d domain.Dashboard) {
	fmt.Fprintf(out, "%s %s\n", config.AppName, config.AppVersion)

	for _, m := range d.Messages {
		if m.Level == domain.MessageError || m.Level == domain.MessageWarning {
			fmt.Fprintf(out, "%s: %s\n", m.Level, m.Text)
		}
	}

	meta := d.Dataset
	if meta == nil || !meta.Loaded {
		return
	}
	fmt.Fprintf(out, "Source: %s\n", meta.Source)
	fmt.Fprintf(out, "Rows: %d  Columns: %d\n\n", meta.Rows, len(meta.Columns))

	if len(d.Summary) > 0 {
		fmt.Fprintln(out, "Statistical Summary")
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
		for _, s := range d.Summary {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
				s.Column, s.Count, num(s.Mean), num(s.Std), num(s.Min),
				num(s.Q25), num(s.Median), num(s.Q75), num(s.Max))
		}
		tw.Flush()
		fmt.Fprintln(out)
	}

	if d.TopN != nil && len(d.TopN.Companies) > 0 {
		fmt.Fprintln(out, d.TopN.Title)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "#\t%s\t%s\t\n", d.TopN.LabelColumn, d.TopN.Metric)
		for _, c := range d.TopN.Companies {
			fmt.Fprintf(tw, "%d\t%s\t%s\t\n", c.Rank, c.Label, num(c.Value))
		}
		tw.Flush()
	}

	if d.SectorMeans != nil && len(d.SectorMeans.Sectors) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, d.SectorMeans.Title)
		for _, s := range d.SectorMeans.Sectors {
			fmt.Fprintf(out, "  %-28s %s\n", strings.TrimSpace(s.Sector), num(s.Value))
		}
	}
}

func num(v *float64) string {
	if v == nil {
		return "NaN"
	}
	return fmt.Sprintf("%.3f", *v)
}
