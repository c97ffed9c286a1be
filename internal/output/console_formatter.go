package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders estimates and overviews as plain text.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.TaxCalculationResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	fmt.Fprintln(&buf, "NEW JERSEY PROPERTY TAX ESTIMATE")
	fmt.Fprintln(&buf, strings.Repeat("=", 60))

	location := result.County + " County"
	if result.Town != "" {
		location = result.Town + ", " + location
	}
	fmt.Fprintf(&buf, "Location:             %s\n", location)
	if result.PropertyType != "" {
		fmt.Fprintf(&buf, "Property Type:        %s\n", result.PropertyType)
	}
	fmt.Fprintf(&buf, "Home Value:           %s\n", FormatCurrency(result.HomeValue))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "RATES:")
	fmt.Fprintf(&buf, "  County Rate:        %s\n", FormatPercentage(result.CountyRate))
	if !result.MunicipalRate.IsZero() {
		fmt.Fprintf(&buf, "  Municipal Rate:     %s\n", FormatPercentage(result.MunicipalRate))
	}
	fmt.Fprintf(&buf, "  Total Rate:         %s\n", FormatPercentage(result.TotalRate))
	fmt.Fprintln(&buf)

	b := result.Breakdown
	fmt.Fprintln(&buf, "BREAKDOWN:")
	fmt.Fprintf(&buf, "  Base Tax:           %s\n", FormatCurrency(b.Base))
	if !b.MunicipalAdjustment.IsZero() {
		fmt.Fprintf(&buf, "  Municipal:          %s\n", FormatCurrency(b.MunicipalAdjustment))
	}
	fmt.Fprintf(&buf, "  Subtotal:           %s\n", FormatCurrency(b.Subtotal))
	if !b.Exemptions.IsZero() {
		fmt.Fprintf(&buf, "  Exemptions:        -%s\n", FormatCurrency(b.Exemptions))
	}
	fmt.Fprintln(&buf, "  "+strings.Repeat("-", 30))
	fmt.Fprintf(&buf, "  ANNUAL TAX:         %s\n", FormatCurrency(result.AnnualTax))
	fmt.Fprintf(&buf, "  Monthly:            %s\n", FormatCurrency(result.MonthlyTax))
	fmt.Fprintf(&buf, "  Effective Rate:     %s\n", FormatPercentage(result.EffectiveRate))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "ASSUMPTIONS:")
	for _, a := range DefaultAssumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}

	return buf.Bytes(), nil
}

func (c ConsoleFormatter) FormatOverview(report *OverviewReport) ([]byte, error) {
	var buf bytes.Buffer
	o := report.Overview
	if o == nil {
		return nil, fmt.Errorf("no overview for %s", report.TownName)
	}

	title := fmt.Sprintf("%s, %s COUNTY (%d)", strings.ToUpper(report.TownName), strings.ToUpper(report.CountyName), o.AsOfYear)
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", len(title)))
	fmt.Fprintf(&buf, "%-32s %s, %s County\n", "Location:", report.TownName, report.CountyName)

	writeValue(&buf, "Average Residential Tax Bill", o.AvgResidentialTaxBill, FormatCurrency, o.BillScope)
	writeValue(&buf, "Effective Tax Rate", o.EffectiveTaxRatePct, FormatPercentage, o.RateScope)
	writeValue(&buf, "Median Home Value", o.MedianHomeValue, FormatCurrency, "")
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "BASELINES:")
	writeValue(&buf, "  "+report.CountyName+" County Avg Bill", o.CountyAvgTaxBill, FormatCurrency, "")
	writeValue(&buf, "  "+report.CountyName+" County Rate", o.CountyEffectiveRatePct, FormatPercentage, "")
	writeValue(&buf, "  "+report.StateName+" Avg Bill", o.StateAvgTaxBill, FormatCurrency, "")
	writeValue(&buf, "  "+report.StateName+" Avg Rate", o.StateEffectiveTaxRatePct, FormatPercentage, "")

	if o.Comparisons != nil {
		fmt.Fprintln(&buf)
		if o.Comparisons.VsCounty != "" {
			fmt.Fprintf(&buf, "Compared with %s County: %s\n", report.CountyName, ComparisonText(o.Comparisons.VsCounty))
		}
		if o.Comparisons.VsState != "" {
			fmt.Fprintf(&buf, "Compared with %s: %s\n", report.StateName, ComparisonText(o.Comparisons.VsState))
		}
	}

	if o.TrendPct != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Bill Trend %d-%d: %s%s\n", o.TrendStartYear, o.TrendEndYear, FormatSignedPercentage(*o.TrendPct), scopeSuffix(o.TrendScope))
		if o.Trend5y != nil {
			fmt.Fprintf(&buf, "5-Year Trend %d-%d: %s\n", o.Trend5y.StartYear, o.Trend5y.EndYear, FormatSignedPercentage(o.Trend5y.Pct))
		}
	}

	if len(o.Sources) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "SOURCES:")
		for _, src := range o.Sources {
			fmt.Fprintf(&buf, "• %s: %s\n", src.DisplayName(), src.LinkForYear(o.AsOfYear))
		}
	}

	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, label string, value *decimal.Decimal, format func(decimal.Decimal) string, scope domain.Scope) {
	if value == nil {
		fmt.Fprintf(buf, "%-32s n/a\n", label+":")
		return
	}
	fmt.Fprintf(buf, "%-32s %s%s\n", label+":", format(*value), scopeSuffix(scope))
}
