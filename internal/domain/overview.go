package domain

import "github.com/shopspring/decimal"

// ComparisonLabel classifies a town value against a baseline.
type ComparisonLabel string

const (
	ComparisonHigher       ComparisonLabel = "higher"
	ComparisonLower        ComparisonLabel = "lower"
	ComparisonAboutTheSame ComparisonLabel = "about_the_same"
	// ComparisonSimilar is used when the baseline is zero and no percentage exists.
	ComparisonSimilar ComparisonLabel = "similar"
)

// Comparisons holds the town-vs-baseline classifications.
type Comparisons struct {
	VsCounty ComparisonLabel `json:"vsCounty,omitempty"`
	VsState  ComparisonLabel `json:"vsState,omitempty"`
}

// Scope records which level of the hierarchy a displayed value came from.
type Scope string

const (
	ScopeTown   Scope = "town"
	ScopeCounty Scope = "county"
)

// TrendWindow is a first-to-last percent change over a fixed window.
type TrendWindow struct {
	StartYear int             `json:"startYear"`
	EndYear   int             `json:"endYear"`
	Pct       decimal.Decimal `json:"pct"`
}

// TownOverview is the denormalized per-town summary persisted alongside TownData.
type TownOverview struct {
	AsOfYear int `json:"asOfYear"`

	AvgResidentialTaxBill *decimal.Decimal `json:"avgResidentialTaxBill,omitempty"`
	EffectiveTaxRatePct   *decimal.Decimal `json:"effectiveTaxRatePct,omitempty"`
	BillScope             Scope            `json:"billScope,omitempty"`
	RateScope             Scope            `json:"rateScope,omitempty"`

	CountyAvgTaxBill         *decimal.Decimal `json:"countyAvgTaxBill,omitempty"`
	CountyEffectiveRatePct   *decimal.Decimal `json:"countyEffectiveRatePct,omitempty"`
	StateAvgTaxBill          *decimal.Decimal `json:"stateAvgTaxBill,omitempty"`
	StateEffectiveTaxRatePct *decimal.Decimal `json:"stateEffectiveTaxRatePct,omitempty"`
	MedianHomeValue          *decimal.Decimal `json:"medianHomeValue,omitempty"`

	Comparisons *Comparisons `json:"comparisons,omitempty"`

	TrendPct       *decimal.Decimal `json:"trendPct,omitempty"`
	TrendStartYear int              `json:"trendStartYear,omitempty"`
	TrendEndYear   int              `json:"trendEndYear,omitempty"`
	TrendSeries    MetricSeries     `json:"trendSeries,omitempty"`
	TrendScope     Scope            `json:"trendScope,omitempty"`

	FiveYearTrendPct *decimal.Decimal `json:"fiveYearTrendPct,omitempty"`
	Trend5y          *TrendWindow     `json:"trend5y,omitempty"`

	Sources []Source `json:"sources,omitempty"`
}

// UsesCountyContext reports whether any headline figure fell back to county data.
func (o *TownOverview) UsesCountyContext() bool {
	return o.BillScope == ScopeCounty || o.RateScope == ScopeCounty
}
