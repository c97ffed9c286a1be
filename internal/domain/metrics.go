package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Series bounds enforced by the ingestion validator.
const (
	MaxSeriesLength = 5
	MinDataYear     = 2000
	MaxDataYear     = 2030
)

// Unit identifies how a datapoint value is expressed
type Unit string

const (
	UnitUSD     Unit = "USD"
	UnitPercent Unit = "PERCENT"
)

// Valid reports whether the unit is one of the accepted values
func (u Unit) Valid() bool {
	return u == UnitUSD || u == UnitPercent
}

// MetricKey names a metric series on a town, county, or state.
type MetricKey string

const (
	AverageResidentialTaxBill MetricKey = "averageResidentialTaxBill"
	EffectiveTaxRate          MetricKey = "effectiveTaxRate"
	MedianHomeValue           MetricKey = "medianHomeValue"
	AverageTaxRate            MetricKey = "averageTaxRate"
)

// HasCountyFallback reports whether a missing town series may be replaced
// by the county series of the same key. Median home value is town-only.
func (k MetricKey) HasCountyFallback() bool {
	return k == AverageResidentialTaxBill || k == EffectiveTaxRate
}

// DataPoint is one annual observation of a metric.
type DataPoint struct {
	Year      int             `json:"year"`
	Value     decimal.Decimal `json:"value"`
	Unit      Unit            `json:"unit"`
	SourceRef string          `json:"sourceRef"`
}

// MetricSeries is an ascending-by-year list of at most MaxSeriesLength points.
type MetricSeries []DataPoint

// Latest returns the last element of the series.
func (s MetricSeries) Latest() (DataPoint, bool) {
	if len(s) == 0 {
		return DataPoint{}, false
	}
	return s[len(s)-1], true
}

// Sorted returns a copy ordered by year; equal years keep their input order.
func (s MetricSeries) Sorted() MetricSeries {
	out := make(MetricSeries, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// LastN returns a copy of the final n points (or all of them if shorter).
func (s MetricSeries) LastN(n int) MetricSeries {
	if n > len(s) {
		n = len(s)
	}
	out := make(MetricSeries, n)
	copy(out, s[len(s)-n:])
	return out
}
