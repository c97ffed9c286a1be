package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/compare"
	"github.com/rgehrsitz/njtax/internal/config"
	"github.com/rgehrsitz/njtax/internal/output"
	"github.com/rgehrsitz/njtax/internal/overview"
	"github.com/rgehrsitz/njtax/internal/storage"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Build and inspect per-town tax overviews",
}

var overviewBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build overviews for every town and write them back to the state file",
	Long: `Validate the data files, build an overview for every town, and persist the result.

The state file is rewritten in place unless --out is given. When a Postgres DSN is
configured (postgres.dsn or NJTAX_POSTGRES_DSN) the overviews are also upserted there.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ds, logger := mustLoad()

		outPath, _ := cmd.Flags().GetString("out")
		createTable, _ := cmd.Flags().GetBool("create-table")
		if outPath == "" {
			outPath = cfg.Data.Resolved().StateFile
		}

		writers := []storage.OverviewWriter{storage.NewStateFileWriter(outPath, logger)}
		if cfg.Postgres.DSN != "" {
			pw, err := storage.NewPostgresWriter(cfg.Postgres.DSN, cfg.Postgres.Table, logger)
			if err != nil {
				log.Fatal(err)
			}
			if createTable {
				if err := pw.CreateTable(cmd.Context()); err != nil {
					log.Fatal(err)
				}
			}
			writers = append(writers, pw)
		}

		n, err := runOverviewBuild(cmd.Context(), cfg, ds, logger, writers)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Built %d town overviews, written to %s\n", n, outPath)
	},
}

// newBuilder creates an overview builder using the configured comparison threshold
func newBuilder(cfg *config.AppConfig, logger calculation.Logger) *overview.Builder {
	b := overview.NewBuilder()
	b.Deriver = compare.NewDeriverWithThreshold(cfg.Comparison.ThresholdPct)
	b.SetLogger(logger)
	return b
}

// runOverviewBuild refuses to build from invalid data, then builds every overview and
// hands the state to each writer. Every writer is closed.
func runOverviewBuild(ctx context.Context, cfg *config.AppConfig, ds *config.Dataset, logger calculation.Logger, writers []storage.OverviewWriter) (int, error) {
	defer func() {
		for _, w := range writers {
			if err := w.Close(); err != nil {
				logger.Warnf("close writer: %v", err)
			}
		}
	}()

	issues := append(config.ValidateRateTables(ds.Rates), config.ValidateStateData(ds.State)...)
	if len(issues) > 0 {
		return 0, fmt.Errorf("refusing to build overviews: %w", config.IssuesError(issues))
	}

	n := newBuilder(cfg, logger).BuildAll(ds.State)
	for _, w := range writers {
		if err := w.WriteOverviews(ctx, ds.State); err != nil {
			return n, err
		}
	}
	return n, nil
}

var overviewShowCmd = &cobra.Command{
	Use:   "show [county] [town]",
	Short: "Show the overview for one town",
	Example: `  njtax overview show Bergen Hackensack
  njtax overview show bergen hackensack --format html > hackensack.html`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ds, logger := mustLoad()
		format, _ := cmd.Flags().GetString("format")
		if err := runOverviewShow(cmd.OutOrStdout(), cfg, ds, logger, args[0], args[1], format); err != nil {
			log.Fatal(err)
		}
	},
}

// runOverviewShow prints the stored overview; towns without one get a fresh, unsaved build.
func runOverviewShow(w io.Writer, cfg *config.AppConfig, ds *config.Dataset, logger calculation.Logger, countyName, townName, format string) error {
	county, ok := ds.State.FindCounty(countyName)
	if !ok {
		return fmt.Errorf("county %q not found", countyName)
	}
	town, ok := county.FindTown(townName)
	if !ok {
		return fmt.Errorf("town %q not found in %s County", townName, county.Name)
	}
	if town.Overview == nil {
		logger.Infof("%s has no stored overview; building one (run 'njtax overview build' to persist)", town.Name)
		town.Overview = newBuilder(cfg, logger).Build(town, county, ds.State)
	}
	return output.GenerateOverviewReport(w, output.NewOverviewReport(ds.State, county, town), format)
}

func init() {
	overviewBuildCmd.Flags().String("out", "", "Write the updated state file here instead of in place")
	overviewBuildCmd.Flags().Bool("create-table", false, "Create the Postgres overview table if it does not exist")
	overviewShowCmd.Flags().StringP("format", "f", "console", "Output format (console, json, html)")

	overviewCmd.AddCommand(overviewBuildCmd)
	overviewCmd.AddCommand(overviewShowCmd)
	rootCmd.AddCommand(overviewCmd)
}
