package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"beerdash/adapters/excel"
	"beerdash/adapters/postgres"
	"beerdash/app"
	"beerdash/domain/brewery"
	"beerdash/internal/config"
	"beerdash/internal/container"
	"beerdash/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	var source string
	rootCmd := &cobra.Command{
		Use:          "beerdash-cli",
		Short:        "Inspect the brewery table and render charts without the web UI",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "Row source: .csv/.xlsx path, http(s) URL or \"postgres\" (default DATA_SOURCE)")

	rootCmd.AddCommand(
		newTableCmd(&source),
		newSummaryCmd(&source),
		newChartCmd(&source),
		newExportCmd(&source),
		newSeedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadContainer reads configuration, applies the --source override and loads the table
func loadContainer(ctx context.Context, source string) (*container.Container, error) {
	if source != "" {
		os.Setenv("DATA_SOURCE", source)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Load(ctx); err != nil {
		c.Shutdown(ctx)
		return nil, err
	}
	return c, nil
}

func newTableCmd(source *string) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the per-brewery table in name order",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context(), *source)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BREWERY\tBEERS\tAVG ABV\tTIER")
			for _, e := range c.Dashboard.Stats() {
				fmt.Fprintf(w, "%s\t%d\t%.4f\t%s\n", e.Brewery, e.BeerCount, e.AvgABV, e.Tier.Label())
			}
			return w.Flush()
		},
	}
}

func newSummaryCmd(source *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print dataset statistics and the ingestion report",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context(), *source)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			sum := c.Dashboard.Summary()
			report := c.Dashboard.Report()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{"summary": sum, "ingestion": report})
			}

			fmt.Fprintf(out, "Source: %s\n", report.Source)
			fmt.Fprintf(out, "Rows read: %d, accepted: %d, rejected: %d\n", report.Read, report.Accepted, report.Rejected)
			for _, p := range report.Problems {
				fmt.Fprintf(out, "  rejected: %s\n", p)
			}
			fmt.Fprintf(out, "Beers: %d\nBreweries: %d\n", sum.Beers, sum.Breweries)
			fmt.Fprintf(out, "ABV mean %.4f, median %.4f, stddev %.4f, range %.4f to %.4f\n",
				sum.MeanABV, sum.MedianABV, sum.StdDevABV, sum.MinABV, sum.MaxABV)
			for _, tier := range brewery.Tiers {
				fmt.Fprintf(out, "%s: %d breweries\n", tier.Label(), sum.TierCounts[tier.Label()])
			}
			if sum.LargestName != "" {
				fmt.Fprintf(out, "Most beers: %s (%d)\n", sum.LargestName, sum.LargestBeers)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newChartCmd(source *string) *cobra.Command {
	var breweries []string
	var metricName string
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Build the chart for a selection and print its spec or render it",
		Long: `Build the chart for a selection. Without --brewery the configured defaults are used.

Example: beerdash-cli chart --brewery "Moab Brewery" --brewery "Big Muddy Brewing" --metric avg_abv --format svg -o chart.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			metric, err := brewery.ParseMetric(metricName)
			if err != nil {
				return err
			}

			c, err := loadContainer(cmd.Context(), *source)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			sel := c.Sessions.Defaults()
			if cmd.Flags().Changed("brewery") {
				sel.Breweries = breweries
			}
			sel.Metric = metric
			spec := app.Render(sel, c.Dashboard.Table())

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}

			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(spec)
			case "svg":
				return c.Dashboard.RenderImage(cmd.Context(), spec, ports.FormatSVG, out)
			case "png":
				if output == "" {
					return fmt.Errorf("png output needs --output")
				}
				return c.Dashboard.RenderImage(cmd.Context(), spec, ports.FormatPNG, out)
			default:
				return fmt.Errorf("unknown format %q (json, svg, png)", format)
			}
		},
	}

	cmd.Flags().StringArrayVar(&breweries, "brewery", nil, "Brewery to include (repeatable)")
	cmd.Flags().StringVar(&metricName, "metric", brewery.MetricBeerCount.Key(), "beer_count or avg_abv")
	cmd.Flags().StringVar(&format, "format", "json", "json, svg or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func newExportCmd(source *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the per-brewery table to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context(), *source)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()
			if err := excel.WriteStats(f, c.Dashboard.Stats()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d breweries to %s\n", c.Dashboard.Table().Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "breweries.xlsx", "Output workbook")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var from string
	var replace bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load rows from a file or URL into the postgres table",
		Long: `Copy accepted rows from a file or URL into BEERS_TABLE on DATABASE_URL,
creating the table when needed.

Example: beerdash-cli seed --from beers.csv --replace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			if from == "" {
				from = cfg.Data.Source
			}

			src, err := container.NewFileOrRemoteSource(config.DataConfig{Source: from, FetchTimeout: cfg.Data.FetchTimeout})
			if err != nil {
				return err
			}
			result, err := src.ReadRows(cmd.Context())
			if err != nil {
				return err
			}

			db, err := postgres.Connect(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := postgres.Seed(cmd.Context(), db, cfg.Database.Table, result.Rows, replace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d rows into %s (%d rejected)\n", n, cfg.Database.Table, result.Report.Rejected)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source file or URL (default DATA_SOURCE)")
	cmd.Flags().BoolVar(&replace, "replace", false, "Truncate the table first")
	return cmd
}
