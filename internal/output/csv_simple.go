package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/rgehrsitz/njtax/internal/domain"
)

// CSVSummarizer renders an estimate as a header plus one row.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(result *domain.TaxCalculationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"County", "Town", "PropertyType", "HomeValue", "CountyRate", "MunicipalRate", "TotalRate", "Subtotal", "Exemptions", "AnnualTax", "MonthlyTax", "EffectiveRate"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	row := []string{
		result.County,
		result.Town,
		result.PropertyType,
		result.HomeValue.StringFixed(2),
		result.CountyRate.StringFixed(4),
		result.MunicipalRate.StringFixed(4),
		result.TotalRate.StringFixed(4),
		result.Breakdown.Subtotal.StringFixed(2),
		result.Exemptions.StringFixed(2),
		result.AnnualTax.StringFixed(2),
		result.MonthlyTax.StringFixed(2),
		result.EffectiveRate.StringFixed(2),
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// TownListCSV renders the towns of a county, one row per town.
func TownListCSV(county *domain.CountyData) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"County", "Town", "Slug", "Tier", "AsOfYear", "Metrics"}); err != nil {
		return nil, err
	}
	for _, town := range county.Towns {
		if err := w.Write([]string{
			county.Name,
			town.Name,
			town.Slug,
			intToString(town.Tier),
			intToString(town.AsOfYear),
			strings.Join(metricNames(town.Metrics), ";"),
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func metricNames(m *domain.TownMetrics) []string {
	var names []string
	for _, key := range []domain.MetricKey{domain.AverageResidentialTaxBill, domain.EffectiveTaxRate, domain.MedianHomeValue} {
		if len(m.Series(key)) > 0 {
			names = append(names, string(key))
		}
	}
	return names
}

func intToString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
