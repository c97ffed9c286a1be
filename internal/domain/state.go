package domain

import "strings"

// TownMetrics holds the per-town metric series. Any of them may be absent.
type TownMetrics struct {
	AverageResidentialTaxBill MetricSeries `json:"averageResidentialTaxBill,omitempty"`
	EffectiveTaxRate          MetricSeries `json:"effectiveTaxRate,omitempty"`
	MedianHomeValue           MetricSeries `json:"medianHomeValue,omitempty"`
}

// Series returns the series for key, or nil when absent.
func (m *TownMetrics) Series(key MetricKey) MetricSeries {
	if m == nil {
		return nil
	}
	switch key {
	case AverageResidentialTaxBill:
		return m.AverageResidentialTaxBill
	case EffectiveTaxRate:
		return m.EffectiveTaxRate
	case MedianHomeValue:
		return m.MedianHomeValue
	}
	return nil
}

// CountyMetrics holds the county-level series used as town fallbacks and baselines.
type CountyMetrics struct {
	AverageResidentialTaxBill MetricSeries `json:"averageResidentialTaxBill,omitempty"`
	EffectiveTaxRate          MetricSeries `json:"effectiveTaxRate,omitempty"`
}

// Series returns the series for key, or nil when absent.
func (m *CountyMetrics) Series(key MetricKey) MetricSeries {
	if m == nil {
		return nil
	}
	switch key {
	case AverageResidentialTaxBill:
		return m.AverageResidentialTaxBill
	case EffectiveTaxRate:
		return m.EffectiveTaxRate
	}
	return nil
}

// StateMetrics holds statewide baselines.
type StateMetrics struct {
	AverageTaxRate            MetricSeries `json:"averageTaxRate,omitempty"`
	AverageResidentialTaxBill MetricSeries `json:"averageResidentialTaxBill,omitempty"`
}

// Series returns the series for key, or nil when absent.
func (m *StateMetrics) Series(key MetricKey) MetricSeries {
	if m == nil {
		return nil
	}
	switch key {
	case AverageTaxRate, EffectiveTaxRate:
		return m.AverageTaxRate
	case AverageResidentialTaxBill:
		return m.AverageResidentialTaxBill
	}
	return nil
}

// TownData is a municipality within a county.
type TownData struct {
	Name     string        `json:"name"`
	Slug     string        `json:"slug"`
	AsOfYear int           `json:"asOfYear"`
	Tier     int           `json:"tier,omitempty"` // rollout priority, display only
	Metrics  *TownMetrics  `json:"metrics,omitempty"`
	Overview *TownOverview `json:"overview,omitempty"`
}

// CountyData is a county and the towns it owns.
type CountyData struct {
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	AsOfYear int            `json:"asOfYear,omitempty"`
	Metrics  *CountyMetrics `json:"metrics,omitempty"`
	Towns    []TownData     `json:"towns,omitempty"`
}

// FindTown looks a town up by exact name or case-insensitive slug.
func (c *CountyData) FindTown(nameOrSlug string) (*TownData, bool) {
	for i := range c.Towns {
		if matches(c.Towns[i].Name, c.Towns[i].Slug, nameOrSlug) {
			return &c.Towns[i], true
		}
	}
	return nil, false
}

// StateData is the aggregate root for a state's counties, towns, and sources.
type StateData struct {
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	Abbreviation string            `json:"abbreviation"`
	AsOfYear     int               `json:"asOfYear,omitempty"`
	Sources      map[string]Source `json:"sources"`
	Metrics      *StateMetrics     `json:"metrics,omitempty"`
	Counties     []CountyData      `json:"counties"`
}

// FindCounty looks a county up by exact name or case-insensitive slug.
func (s *StateData) FindCounty(nameOrSlug string) (*CountyData, bool) {
	for i := range s.Counties {
		if matches(s.Counties[i].Name, s.Counties[i].Slug, nameOrSlug) {
			return &s.Counties[i], true
		}
	}
	return nil, false
}

// SourceFor resolves a datapoint's sourceRef against the state's source map.
func (s *StateData) SourceFor(ref string) (Source, bool) {
	src, ok := s.Sources[ref]
	return src, ok
}

func matches(name, slug, query string) bool {
	return name == query || (slug != "" && strings.EqualFold(slug, query))
}
