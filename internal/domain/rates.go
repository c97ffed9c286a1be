package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RateTable maps an exact county name to its decimal tax rate (0.0234 = 2.34%).
type RateTable map[string]decimal.Decimal

// MunicipalRateTable maps county name to municipality name to decimal rate.
// A county may list none, some, or all of its municipalities.
type MunicipalRateTable map[string]map[string]decimal.Decimal

// ExemptionTable maps an exemption identifier to a flat USD amount.
type ExemptionTable map[string]decimal.Decimal

// RateTables bundles the three static lookup tables used by the calculator.
// Loaded once at process start and never mutated afterwards.
type RateTables struct {
	County     RateTable          `json:"county"`
	Municipal  MunicipalRateTable `json:"municipal"`
	Exemptions ExemptionTable     `json:"exemptions"`
}

// Lookup returns the rate for a county using an exact name match.
func (rt RateTable) Lookup(county string) (decimal.Decimal, bool) {
	rate, ok := rt[county]
	return rate, ok
}

// Counties returns the county names in sorted order.
func (rt RateTable) Counties() []string {
	names := make([]string, 0, len(rt))
	for name := range rt {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the municipal rate for a town within a county.
func (mt MunicipalRateTable) Lookup(county, town string) (decimal.Decimal, bool) {
	towns, ok := mt[county]
	if !ok {
		return decimal.Zero, false
	}
	rate, ok := towns[town]
	return rate, ok
}

// Total sums the flat amounts for the given exemption ids.
// Unknown ids contribute nothing.
func (et ExemptionTable) Total(ids []string) decimal.Decimal {
	total := decimal.Zero
	for _, id := range ids {
		if amount, ok := et[id]; ok {
			total = total.Add(amount)
		}
	}
	return total
}

// IDs returns the exemption identifiers in sorted order.
func (et ExemptionTable) IDs() []string {
	ids := make([]string, 0, len(et))
	for id := range et {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
