package calculation

import (
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/shopspring/decimal"
)

// YoYStats summarizes the most recent change in a metric series.
//
// FiveYearDelta and FiveYearDeltaPct run from the first to the latest point of
// whatever the series holds (2 to 5 points), not strictly five years.
// FiveYearDeltaPct is zero whenever the previous point is zero.
type YoYStats struct {
	Latest           domain.DataPoint `json:"latest"`
	Previous         domain.DataPoint `json:"previous"`
	Delta            decimal.Decimal  `json:"delta"`
	DeltaPct         decimal.Decimal  `json:"deltaPct"`
	FirstYear        int              `json:"firstYear"`
	FiveYearDelta    decimal.Decimal  `json:"fiveYearDelta"`
	FiveYearDeltaPct decimal.Decimal  `json:"fiveYearDeltaPct"`
}

// RoundPct rounds a percentage to two places, half away from zero.
func RoundPct(pct decimal.Decimal) decimal.Decimal {
	return pct.Round(2)
}

// PercentChange returns (to-from)/from*100 rounded to two places, or zero when from is zero.
func PercentChange(from, to decimal.Decimal) decimal.Decimal {
	if from.IsZero() {
		return decimal.Zero
	}
	return RoundPct(to.Sub(from).Div(from).Mul(hundred))
}

// ComputeYoYStats returns nil for fewer than two points.
func ComputeYoYStats(series domain.MetricSeries) *YoYStats {
	if len(series) < 2 {
		return nil
	}
	sorted := series.Sorted()
	first := sorted[0]
	latest := sorted[len(sorted)-1]
	previous := sorted[len(sorted)-2]

	delta := latest.Value.Sub(previous.Value)
	deltaPct := decimal.Zero
	if !previous.Value.IsZero() {
		deltaPct = RoundPct(delta.Div(previous.Value).Mul(hundred))
	}

	fiveYearDelta := latest.Value.Sub(first.Value)
	// The first-to-latest percentage shares the previous-value guard, so a zero
	// previous point zeroes it even when the first point is non-zero. A zero first
	// point also yields zero rather than dividing by it.
	fiveYearDeltaPct := decimal.Zero
	if !previous.Value.IsZero() && !first.Value.IsZero() {
		fiveYearDeltaPct = RoundPct(fiveYearDelta.Div(first.Value).Mul(hundred))
	}

	return &YoYStats{
		Latest:           latest,
		Previous:         previous,
		Delta:            delta,
		DeltaPct:         deltaPct,
		FirstYear:        first.Year,
		FiveYearDelta:    fiveYearDelta,
		FiveYearDeltaPct: fiveYearDeltaPct,
	}
}

// AssertSorted fails when a year is lower than the one before it.
// Repeated years are tolerated.
func AssertSorted(series domain.MetricSeries) error {
	for i := 1; i < len(series); i++ {
		if series[i].Year < series[i-1].Year {
			return &SeriesOrderError{Index: i, Year: series[i].Year, PreviousYear: series[i-1].Year}
		}
	}
	return nil
}

// AssertMaxLength fails when the series holds more than MaxSeriesLength points.
func AssertMaxLength(series domain.MetricSeries) error {
	if len(series) > domain.MaxSeriesLength {
		return &SeriesLengthError{Length: len(series), Max: domain.MaxSeriesLength}
	}
	return nil
}
