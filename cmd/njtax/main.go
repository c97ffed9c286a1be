package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/config"
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/rgehrsitz/njtax/internal/output"
)

// simpleCLILogger implements calculation.Logger using the standard log package.
// Debug lines are only written with --debug.
type simpleCLILogger struct {
	debug bool
}

func (l simpleCLILogger) Debugf(format string, args ...any) {
	if l.debug {
		log.Printf("DEBUG: "+format, args...)
	}
}
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	configPath string
	dataDir    string
	debugMode  bool
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "njtax %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

var rootCmd = &cobra.Command{
	Use:   "njtax",
	Short: "New Jersey property tax estimator",
	Long:  "Estimate New Jersey property taxes and build per-town tax overviews from published historical metrics",
}

// loadAppConfig reads --config (or njtax.yaml when present) and applies --data-dir and --debug.
func loadAppConfig() (*config.AppConfig, error) {
	path := configPath
	if path == "" && fileExists(config.DefaultConfigFile) {
		path = config.DefaultConfigFile
	}
	cfg, err := config.LoadAppConfig(path)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if debugMode {
		cfg.Debug = true
	}
	return cfg, nil
}

func loadDataset(cfg *config.AppConfig) (*config.Dataset, error) {
	return config.NewInputParser().LoadDataset(cfg.Data.Resolved())
}

func mustLoad() (*config.AppConfig, *config.Dataset, calculation.Logger) {
	cfg, err := loadAppConfig()
	if err != nil {
		log.Fatal(err)
	}
	ds, err := loadDataset(cfg)
	if err != nil {
		log.Fatal(err)
	}
	return cfg, ds, simpleCLILogger{debug: cfg.Debug}
}

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Estimate the annual property tax for a home",
	Example: `  njtax calculate --value 400000 --county Bergen
  njtax calculate --value 400000 --county Bergen --town Hackensack --exemption senior --format json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, ds, logger := mustLoad()

		valueStr, _ := cmd.Flags().GetString("value")
		county, _ := cmd.Flags().GetString("county")
		town, _ := cmd.Flags().GetString("town")
		propertyType, _ := cmd.Flags().GetString("type")
		exemptions, _ := cmd.Flags().GetStringSlice("exemption")
		format, _ := cmd.Flags().GetString("format")

		input, err := parseTaxInput(valueStr, county, town, propertyType, exemptions)
		if err != nil {
			log.Fatal(err)
		}
		if err := runCalculate(cmd.OutOrStdout(), ds, logger, input, format); err != nil {
			log.Fatal(err)
		}
	},
}

// parseTaxInput accepts home values with $ and thousands separators.
func parseTaxInput(value, county, town, propertyType string, exemptions []string) (domain.TaxInput, error) {
	raw := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(value))
	if raw == "" {
		return domain.TaxInput{}, &calculation.ValidationError{Field: "homeValue", Message: "is required"}
	}
	homeValue, err := decimal.NewFromString(raw)
	if err != nil {
		return domain.TaxInput{}, &calculation.ValidationError{Field: "homeValue", Message: fmt.Sprintf("%q is not a number", value)}
	}
	return domain.TaxInput{
		HomeValue:    homeValue,
		County:       county,
		Town:         town,
		PropertyType: propertyType,
		Exemptions:   exemptions,
	}, nil
}

func runCalculate(w io.Writer, ds *config.Dataset, logger calculation.Logger, input domain.TaxInput, format string) error {
	calc := calculation.NewTaxCalculator(ds.Rates)
	calc.SetLogger(logger)
	result, err := calc.CalculatePropertyTax(input)
	if err != nil {
		return err
	}
	return output.GenerateReport(w, result, format)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the rate tables and state data file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, ds, _ := mustLoad()
		if n := runValidate(cmd.OutOrStdout(), ds); n > 0 {
			log.Fatalf("%d validation issue(s) found", n)
		}
	},
}

// runValidate prints every issue and returns how many were found
func runValidate(w io.Writer, ds *config.Dataset) int {
	issues := append(config.ValidateRateTables(ds.Rates), config.ValidateStateData(ds.State)...)
	for _, issue := range issues {
		fmt.Fprintf(w, "✗ %s\n", issue.Error())
	}
	if len(issues) == 0 {
		towns := 0
		for _, c := range ds.State.Counties {
			towns += len(c.Towns)
		}
		fmt.Fprintf(w, "✓ %d county rates, %d counties, %d towns are valid\n",
			len(ds.Rates.County), len(ds.State.Counties), towns)
	}
	return len(issues)
}

var exemptionsCmd = &cobra.Command{
	Use:   "exemptions",
	Short: "List the known exemption ids and their flat amounts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, ds, _ := mustLoad()
		writeExemptions(cmd.OutOrStdout(), ds.Rates.Exemptions)
	},
}

func writeExemptions(w io.Writer, table domain.ExemptionTable) {
	if len(table) == 0 {
		fmt.Fprintln(w, "No exemptions configured")
		return
	}
	ids := table.IDs()
	for _, id := range ids {
		fmt.Fprintf(w, "%-20s %12s\n", id, output.FormatCurrency(table[id]))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: njtax.yaml if it exists)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding the data files (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug output for detailed calculations")

	calculateCmd.Flags().String("value", "", "Assessed home value in USD (required)")
	calculateCmd.Flags().String("county", "", "County name (required)")
	calculateCmd.Flags().String("town", "", "Municipality name")
	calculateCmd.Flags().String("type", "", "Property type (informational)")
	calculateCmd.Flags().StringSlice("exemption", nil, "Exemption id; repeat or comma-separate for several")
	calculateCmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.FormatterNames(), ", ")+")")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exemptionsCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
