package compare

import (
	"sort"

	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultThresholdPct is the band, in percent, treated as "about the same".
const DefaultThresholdPct = 5

var hundred = decimal.NewFromInt(100)

// Deriver classifies town figures against county and state baselines
type Deriver struct {
	ThresholdPct decimal.Decimal
}

// NewDeriver creates a deriver using the default threshold
func NewDeriver() *Deriver {
	return NewDeriverWithThreshold(decimal.NewFromInt(DefaultThresholdPct))
}

// NewDeriverWithThreshold creates a deriver with a custom threshold; a negative value is treated as zero.
func NewDeriverWithThreshold(thresholdPct decimal.Decimal) *Deriver {
	if thresholdPct.IsNegative() {
		thresholdPct = decimal.Zero
	}
	return &Deriver{ThresholdPct: thresholdPct}
}

// PercentFromBaseline returns (value-baseline)/baseline*100, unrounded.
// ok is false when the baseline is zero.
func PercentFromBaseline(value, baseline decimal.Decimal) (decimal.Decimal, bool) {
	if baseline.IsZero() {
		return decimal.Zero, false
	}
	return value.Sub(baseline).Div(baseline).Mul(hundred), true
}

// Classify labels value relative to baseline. The threshold is inclusive.
func (d *Deriver) Classify(value, baseline decimal.Decimal) domain.ComparisonLabel {
	pct, ok := PercentFromBaseline(value, baseline)
	if !ok {
		return domain.ComparisonSimilar
	}
	if pct.Abs().LessThanOrEqual(d.ThresholdPct) {
		return domain.ComparisonAboutTheSame
	}
	if pct.IsPositive() {
		return domain.ComparisonHigher
	}
	return domain.ComparisonLower
}

// DeriveComparisons fills in vsCounty and vsState where they are unset and
// both sides are known. Rate comparisons take precedence over bill comparisons.
// The overview is modified in place and returned.
func (d *Deriver) DeriveComparisons(o *domain.TownOverview) *domain.TownOverview {
	if o == nil {
		return nil
	}
	if o.Comparisons == nil {
		o.Comparisons = &domain.Comparisons{}
	}

	if o.Comparisons.VsCounty == "" {
		if value, base, ok := pickPair(o.EffectiveTaxRatePct, o.CountyEffectiveRatePct, o.AvgResidentialTaxBill, o.CountyAvgTaxBill); ok {
			o.Comparisons.VsCounty = d.Classify(value, base)
		}
	}
	if o.Comparisons.VsState == "" {
		if value, base, ok := pickPair(o.EffectiveTaxRatePct, o.StateEffectiveTaxRatePct, o.AvgResidentialTaxBill, o.StateAvgTaxBill); ok {
			o.Comparisons.VsState = d.Classify(value, base)
		}
	}

	if o.Comparisons.VsCounty == "" && o.Comparisons.VsState == "" {
		o.Comparisons = nil
	}
	return o
}

// DeriveComparisons applies the default deriver
func DeriveComparisons(o *domain.TownOverview) *domain.TownOverview {
	return NewDeriver().DeriveComparisons(o)
}

func pickPair(rate, rateBase, bill, billBase *decimal.Decimal) (decimal.Decimal, decimal.Decimal, bool) {
	if rate != nil && rateBase != nil {
		return *rate, *rateBase, true
	}
	if bill != nil && billBase != nil {
		return *bill, *billBase, true
	}
	return decimal.Zero, decimal.Zero, false
}

// RankTowns orders the county's towns by their own latest value for key, highest first.
func (d *Deriver) RankTowns(county *domain.CountyData, key domain.MetricKey) *Ranking {
	ranking := &Ranking{
		CountyName: county.Name,
		CountySlug: county.Slug,
		Metric:     key,
		Entries:    []TownRank{},
	}

	countyPoint, hasCounty := county.Metrics.Series(key).Latest()
	if hasCounty {
		v := countyPoint.Value
		ranking.CountyValue = &v
		ranking.CountyYear = countyPoint.Year
	}

	for i := range county.Towns {
		town := &county.Towns[i]
		res, ok := calculation.ResolveMetric(town, county, key)
		if !ok || res.IsFallback() {
			ranking.Unranked = append(ranking.Unranked, town.Name)
			continue
		}

		entry := TownRank{
			TownName: town.Name,
			TownSlug: town.Slug,
			Tier:     town.Tier,
			Year:     res.Point.Year,
			Value:    res.Point.Value,
		}
		if hasCounty {
			if pct, ok := PercentFromBaseline(res.Point.Value, countyPoint.Value); ok {
				rounded := calculation.RoundPct(pct)
				entry.PctFromCounty = &rounded
			}
			entry.VsCounty = d.Classify(res.Point.Value, countyPoint.Value)
		}
		ranking.Entries = append(ranking.Entries, entry)
	}

	sort.SliceStable(ranking.Entries, func(i, j int) bool {
		a, b := ranking.Entries[i], ranking.Entries[j]
		if !a.Value.Equal(b.Value) {
			return a.Value.GreaterThan(b.Value)
		}
		return a.TownName < b.TownName
	})
	for i := range ranking.Entries {
		ranking.Entries[i].Rank = i + 1
	}

	return ranking
}
