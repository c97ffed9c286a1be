package compare

import (
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/shopspring/decimal"
)

// TownRank is a single town's position in a county ranking
type TownRank struct {
	Rank     int    `json:"rank"`
	TownName string `json:"townName"`
	TownSlug string `json:"townSlug"`
	Tier     int    `json:"tier,omitempty"`

	Year  int             `json:"year"`
	Value decimal.Decimal `json:"value"`

	// Comparison to the county's own latest value
	PctFromCounty *decimal.Decimal       `json:"pctFromCounty,omitempty"`
	VsCounty      domain.ComparisonLabel `json:"vsCounty,omitempty"`
}

// Ranking orders a county's towns by a metric. Only towns with their own
// series are ranked; towns that would need county context are listed in Unranked.
type Ranking struct {
	CountyName  string           `json:"countyName"`
	CountySlug  string           `json:"countySlug"`
	Metric      domain.MetricKey `json:"metric"`
	CountyValue *decimal.Decimal `json:"countyValue,omitempty"`
	CountyYear  int              `json:"countyYear,omitempty"`
	Entries     []TownRank       `json:"entries"`
	Unranked    []string         `json:"unranked,omitempty"`
}

// IsPercent reports whether the ranked metric is a rate rather than a dollar amount.
func (r *Ranking) IsPercent() bool {
	return r.Metric == domain.EffectiveTaxRate
}
