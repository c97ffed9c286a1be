package calculation

import "github.com/rgehrsitz/njtax/internal/domain"

// Resolution is a resolved metric value tagged with the level it came from.
type Resolution struct {
	Point domain.DataPoint
	Scope domain.Scope
}

// IsFallback reports whether the value is county context standing in for a town.
func (r Resolution) IsFallback() bool {
	return r.Scope == domain.ScopeCounty
}

type candidate struct {
	scope  domain.Scope
	series domain.MetricSeries
}

// metricCandidates lists the series to try for key, most specific first.
func metricCandidates(town *domain.TownData, county *domain.CountyData, key domain.MetricKey) []candidate {
	var candidates []candidate
	if town != nil {
		candidates = append(candidates, candidate{scope: domain.ScopeTown, series: town.Metrics.Series(key)})
	}
	if county != nil && key.HasCountyFallback() {
		candidates = append(candidates, candidate{scope: domain.ScopeCounty, series: county.Metrics.Series(key)})
	}
	return candidates
}

// ResolveMetric returns the most recent point for key from the first non-empty
// candidate series: the town's own, then the county's where a fallback exists.
func ResolveMetric(town *domain.TownData, county *domain.CountyData, key domain.MetricKey) (Resolution, bool) {
	for _, c := range metricCandidates(town, county, key) {
		if point, ok := c.series.Latest(); ok {
			return Resolution{Point: point, Scope: c.scope}, true
		}
	}
	return Resolution{}, false
}

// GetMetricLatest is ResolveMetric without the scope tag.
func GetMetricLatest(town *domain.TownData, county *domain.CountyData, key domain.MetricKey) (domain.DataPoint, bool) {
	res, ok := ResolveMetric(town, county, key)
	return res.Point, ok
}
