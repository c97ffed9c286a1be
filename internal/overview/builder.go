package overview

import (
	"time"

	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/compare"
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// minTrendPoints is the shortest series that produces a trend.
	minTrendPoints = 3
	// fiveYearWindow is the length of the fixed trend window.
	fiveYearWindow = 5
)

// Builder assembles TownOverview records at ingestion time.
type Builder struct {
	Deriver *compare.Deriver
	Now     func() time.Time
	Logger  calculation.Logger
}

// NewBuilder creates a builder with the default comparison threshold
func NewBuilder() *Builder {
	return &Builder{
		Deriver: compare.NewDeriver(),
		Now:     time.Now,
		Logger:  calculation.NopLogger{},
	}
}

// SetLogger sets the logger; nil resets to no-op.
func (b *Builder) SetLogger(l calculation.Logger) {
	if l == nil {
		b.Logger = calculation.NopLogger{}
		return
	}
	b.Logger = l
}

// BuildTownOverviewFromMetrics builds an overview with the default builder
func BuildTownOverviewFromMetrics(town *domain.TownData, county *domain.CountyData, state *domain.StateData) *domain.TownOverview {
	return NewBuilder().Build(town, county, state)
}

// Build derives the denormalized overview for town from its own metrics,
// its county, and the state baselines.
func (b *Builder) Build(town *domain.TownData, county *domain.CountyData, state *domain.StateData) *domain.TownOverview {
	o := &domain.TownOverview{AsOfYear: b.asOfYear(town, county, state)}

	bill, hasBill := calculation.ResolveMetric(town, county, domain.AverageResidentialTaxBill)
	if hasBill {
		o.AvgResidentialTaxBill = valuePtr(bill.Point.Value)
		o.BillScope = bill.Scope
		if bill.IsFallback() {
			b.Logger.Debugf("%s: average bill from county context (%d)", townName(town), bill.Point.Year)
		}
	}

	rate, hasRate := calculation.ResolveMetric(town, county, domain.EffectiveTaxRate)
	if hasRate {
		o.EffectiveTaxRatePct = valuePtr(rate.Point.Value)
		o.RateScope = rate.Scope
		if rate.IsFallback() {
			b.Logger.Debugf("%s: effective rate from county context (%d)", townName(town), rate.Point.Year)
		}
	}

	median, hasMedian := calculation.ResolveMetric(town, county, domain.MedianHomeValue)
	if hasMedian {
		o.MedianHomeValue = valuePtr(median.Point.Value)
	}

	if county != nil {
		if p, ok := county.Metrics.Series(domain.AverageResidentialTaxBill).Latest(); ok {
			o.CountyAvgTaxBill = valuePtr(p.Value)
		}
		if p, ok := county.Metrics.Series(domain.EffectiveTaxRate).Latest(); ok {
			o.CountyEffectiveRatePct = valuePtr(p.Value)
		}
	}
	if state != nil {
		if p, ok := state.Metrics.Series(domain.AverageTaxRate).Latest(); ok {
			o.StateEffectiveTaxRatePct = valuePtr(p.Value)
		}
		if p, ok := state.Metrics.Series(domain.AverageResidentialTaxBill).Latest(); ok {
			o.StateAvgTaxBill = valuePtr(p.Value)
		}
	}

	b.applyTrend(o, town, county)

	// Tax-data attribution follows whichever headline figure exists.
	taxRef := ""
	switch {
	case hasBill:
		taxRef = bill.Point.SourceRef
	case hasRate:
		taxRef = rate.Point.SourceRef
	default:
		taxRef = stateTaxRef(state)
	}
	o.Sources = b.collectSources(state, taxRef, median, hasMedian)

	b.deriver().DeriveComparisons(o)
	return o
}

// applyTrend uses the longer of the town and county bill series; ties go to the town.
func (b *Builder) applyTrend(o *domain.TownOverview, town *domain.TownData, county *domain.CountyData) {
	var series domain.MetricSeries
	scope := domain.ScopeTown
	if town != nil {
		series = town.Metrics.Series(domain.AverageResidentialTaxBill)
	}
	if county != nil {
		if cs := county.Metrics.Series(domain.AverageResidentialTaxBill); len(cs) > len(series) {
			series = cs
			scope = domain.ScopeCounty
		}
	}

	if len(series) < minTrendPoints {
		return
	}

	sorted := series.Sorted()
	first, last := sorted[0], sorted[len(sorted)-1]
	pct := calculation.PercentChange(first.Value, last.Value)
	o.TrendPct = &pct
	o.TrendStartYear = first.Year
	o.TrendEndYear = last.Year
	o.TrendSeries = sorted
	o.TrendScope = scope

	if len(sorted) < fiveYearWindow {
		return
	}

	window := sorted.LastN(fiveYearWindow)
	start, end := window[0], window[len(window)-1]
	windowPct := calculation.PercentChange(start.Value, end.Value)
	o.FiveYearTrendPct = &windowPct
	o.Trend5y = &domain.TrendWindow{
		StartYear: start.Year,
		EndYear:   end.Year,
		Pct:       windowPct,
	}
}

// stateTaxRef is the source of the statewide tax baseline, used when a town has
// no bill or rate of its own or from its county.
func stateTaxRef(state *domain.StateData) string {
	if state == nil {
		return ""
	}
	for _, key := range []domain.MetricKey{domain.AverageTaxRate, domain.AverageResidentialTaxBill} {
		if p, ok := state.Metrics.Series(key).Latest(); ok && p.SourceRef != "" {
			return p.SourceRef
		}
	}
	return ""
}

func (b *Builder) collectSources(state *domain.StateData, taxRef string, median calculation.Resolution, hasMedian bool) []domain.Source {
	var refs []string
	if taxRef != "" {
		refs = append(refs, taxRef)
	}
	if hasMedian && median.Point.SourceRef != "" && median.Point.SourceRef != taxRef {
		refs = append(refs, median.Point.SourceRef)
	}

	var sources []domain.Source
	for _, ref := range refs {
		if state == nil {
			break
		}
		src, ok := state.SourceFor(ref)
		if !ok {
			b.Logger.Warnf("unknown source reference %q", ref)
			continue
		}
		sources = append(sources, src)
	}
	return sources
}

func (b *Builder) asOfYear(town *domain.TownData, county *domain.CountyData, state *domain.StateData) int {
	switch {
	case town != nil && town.AsOfYear != 0:
		return town.AsOfYear
	case county != nil && county.AsOfYear != 0:
		return county.AsOfYear
	case state != nil && state.AsOfYear != 0:
		return state.AsOfYear
	}
	now := b.Now
	if now == nil {
		now = time.Now
	}
	return now().Year()
}

func (b *Builder) deriver() *compare.Deriver {
	if b.Deriver == nil {
		return compare.NewDeriver()
	}
	return b.Deriver
}

func valuePtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func townName(town *domain.TownData) string {
	if town == nil {
		return "(no town)"
	}
	return town.Name
}
