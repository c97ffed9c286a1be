package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/njtax/internal/compare"
	"github.com/rgehrsitz/njtax/internal/config"
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/rgehrsitz/njtax/internal/output"
)

var townsCmd = &cobra.Command{
	Use:   "towns [county]",
	Short: "List counties, or the towns of one county",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, ds, _ := mustLoad()
		format, _ := cmd.Flags().GetString("format")

		var err error
		if len(args) == 0 {
			err = writeCounties(cmd.OutOrStdout(), ds)
		} else {
			err = writeTowns(cmd.OutOrStdout(), ds, args[0], format)
		}
		if err != nil {
			log.Fatal(err)
		}
	},
}

func writeCounties(w io.Writer, ds *config.Dataset) error {
	for _, c := range ds.State.Counties {
		rate := "n/a"
		if r, ok := ds.Rates.County.Lookup(c.Name); ok {
			rate = output.FormatPercentage(r.Mul(decimal.NewFromInt(100)))
		}
		if _, err := fmt.Fprintf(w, "%-16s %-16s %8s %4d towns\n", c.Name, c.Slug, rate, len(c.Towns)); err != nil {
			return err
		}
	}
	return nil
}

func writeTowns(w io.Writer, ds *config.Dataset, countyName, format string) error {
	county, ok := ds.State.FindCounty(countyName)
	if !ok {
		return fmt.Errorf("county %q not found", countyName)
	}

	switch strings.ToLower(format) {
	case "csv":
		data, err := output.TownListCSV(county)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err

	case "table", "console", "":
		fmt.Fprintf(w, "%s COUNTY\n", strings.ToUpper(county.Name))
		fmt.Fprintf(w, "%-30s %-24s %4s %8s\n", "Town", "Slug", "Tier", "Overview")
		for _, t := range county.Towns {
			tier := ""
			if t.Tier > 0 {
				tier = fmt.Sprintf("%d", t.Tier)
			}
			built := "no"
			if t.Overview != nil {
				built = "yes"
			}
			fmt.Fprintf(w, "%-30s %-24s %4s %8s\n", t.Name, t.Slug, tier, built)
		}
		return nil

	default:
		return fmt.Errorf("unknown output format: %s (valid: table, csv)", format)
	}
}

var rankCmd = &cobra.Command{
	Use:   "rank [county]",
	Short: "Rank a county's towns by average tax bill or effective rate",
	Example: `  njtax rank Bergen
  njtax rank Bergen --metric effectiveTaxRate --format csv`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ds, _ := mustLoad()
		metric, _ := cmd.Flags().GetString("metric")
		format, _ := cmd.Flags().GetString("format")

		deriver := compare.NewDeriverWithThreshold(cfg.Comparison.ThresholdPct)
		if err := runRank(cmd.OutOrStdout(), ds, deriver, args[0], metric, format); err != nil {
			log.Fatal(err)
		}
	},
}

func runRank(w io.Writer, ds *config.Dataset, deriver *compare.Deriver, countyName, metric, format string) error {
	county, ok := ds.State.FindCounty(countyName)
	if !ok {
		return fmt.Errorf("county %q not found", countyName)
	}
	key := domain.MetricKey(metric)
	if key != domain.AverageResidentialTaxBill && key != domain.EffectiveTaxRate {
		return fmt.Errorf("unknown metric: %s (valid: %s, %s)", metric, domain.AverageResidentialTaxBill, domain.EffectiveTaxRate)
	}
	ranking := deriver.RankTowns(county, key)

	switch strings.ToLower(format) {
	case "csv":
		formatter := &compare.CSVFormatter{}
		out, err := formatter.Format(ranking)
		if err != nil {
			return fmt.Errorf("failed to format CSV: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err

	case "json":
		formatter := &compare.JSONFormatter{Pretty: true}
		out, err := formatter.Format(ranking)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err

	case "table", "console", "":
		formatter := &compare.TableFormatter{}
		_, err := io.WriteString(w, formatter.Format(ranking))
		return err

	default:
		return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", format)
	}
}

func init() {
	townsCmd.Flags().StringP("format", "f", "table", "Output format (table, csv)")
	rankCmd.Flags().String("metric", string(domain.AverageResidentialTaxBill), "Metric to rank by (averageResidentialTaxBill, effectiveTaxRate)")
	rankCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")

	rootCmd.AddCommand(townsCmd)
	rootCmd.AddCommand(rankCmd)
}
