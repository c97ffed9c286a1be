package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/shopspring/decimal"
)

// OverviewReport is a built overview together with the names needed to title it.
type OverviewReport struct {
	StateName  string               `json:"state"`
	CountyName string               `json:"county"`
	TownName   string               `json:"town"`
	TownSlug   string               `json:"townSlug,omitempty"`
	Tier       int                  `json:"tier,omitempty"`
	Overview   *domain.TownOverview `json:"overview"`
}

// NewOverviewReport pairs a town's stored overview with its county and state names
func NewOverviewReport(state *domain.StateData, county *domain.CountyData, town *domain.TownData) *OverviewReport {
	return &OverviewReport{
		StateName:  state.Name,
		CountyName: county.Name,
		TownName:   town.Name,
		TownSlug:   town.Slug,
		Tier:       town.Tier,
		Overview:   town.Overview,
	}
}

// GenerateReport writes result to w in the named format
func GenerateReport(w io.Writer, result *domain.TaxCalculationResult, format string) error {
	formatter := GetFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("unsupported format: %s", format)
	}
	data, err := formatter.Format(result)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// GenerateOverviewReport writes an overview to w in the named format
func GenerateOverviewReport(w io.Writer, report *OverviewReport, format string) error {
	formatter := GetOverviewFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("unsupported format: %s", format)
	}
	data, err := formatter.FormatOverview(report)
	if err != nil {
		return fmt.Errorf("failed to format overview: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatSignedPercentage prefixes non-negative values with +
func FormatSignedPercentage(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return FormatPercentage(amount)
	}
	return "+" + FormatPercentage(amount)
}

// ComparisonText renders a comparison label for display
func ComparisonText(label domain.ComparisonLabel) string {
	return strings.ReplaceAll(string(label), "_", " ")
}

// scopeSuffix marks a figure that came from county context.
func scopeSuffix(scope domain.Scope) string {
	if scope == domain.ScopeCounty {
		return " (county context)"
	}
	return ""
}
