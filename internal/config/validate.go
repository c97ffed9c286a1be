package config

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/domain"
)

// Issue is one data-integrity problem found by the validators.
type Issue struct {
	Path string
	Err  error
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %v", i.Path, i.Err)
}

func (i Issue) Unwrap() error {
	return i.Err
}

// IssuesError joins issues into a single error, or nil when there are none
func IssuesError(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}
	errs := make([]error, len(issues))
	for i, issue := range issues {
		errs[i] = issue
	}
	return errors.Join(errs...)
}

// ValidateRateTables reports negative rates or amounts and municipal rates
// for counties missing from the county table.
func ValidateRateTables(tables domain.RateTables) []Issue {
	var issues []Issue

	for _, county := range tables.County.Counties() {
		if tables.County[county].IsNegative() {
			issues = append(issues, Issue{Path: "county[" + county + "]", Err: fmt.Errorf("rate cannot be negative")})
		}
	}
	for county, towns := range tables.Municipal {
		if _, ok := tables.County.Lookup(county); !ok {
			issues = append(issues, Issue{Path: "municipal[" + county + "]", Err: fmt.Errorf("county has no county rate")})
		}
		for town, rate := range towns {
			if rate.IsNegative() {
				issues = append(issues, Issue{Path: "municipal[" + county + "][" + town + "]", Err: fmt.Errorf("rate cannot be negative")})
			}
		}
	}
	for _, id := range tables.Exemptions.IDs() {
		if tables.Exemptions[id].IsNegative() {
			issues = append(issues, Issue{Path: "exemptions[" + id + "]", Err: fmt.Errorf("amount cannot be negative")})
		}
	}

	return issues
}

// ValidateStateData checks every series in the state for order, length,
// year range, unit, and source references. It collects all issues rather than
// stopping at the first.
func ValidateStateData(state *domain.StateData) []Issue {
	v := &stateValidator{state: state}

	if state.Metrics != nil {
		v.series("state.averageTaxRate", state.Metrics.AverageTaxRate)
		v.series("state.averageResidentialTaxBill", state.Metrics.AverageResidentialTaxBill)
	}

	countySlugs := make(map[string]bool)
	for _, county := range state.Counties {
		cp := "counties[" + county.Name + "]"
		if county.Name == "" {
			v.add(cp, fmt.Errorf("county name is required"))
		}
		if county.Slug != "" && countySlugs[county.Slug] {
			v.add(cp, fmt.Errorf("duplicate county slug %q", county.Slug))
		}
		countySlugs[county.Slug] = true

		if county.Metrics != nil {
			v.series(cp+".averageResidentialTaxBill", county.Metrics.AverageResidentialTaxBill)
			v.series(cp+".effectiveTaxRate", county.Metrics.EffectiveTaxRate)
		}

		townSlugs := make(map[string]bool)
		for _, town := range county.Towns {
			tp := cp + ".towns[" + town.Name + "]"
			if town.Name == "" {
				v.add(tp, fmt.Errorf("town name is required"))
			}
			if town.Slug != "" && townSlugs[town.Slug] {
				v.add(tp, fmt.Errorf("duplicate town slug %q", town.Slug))
			}
			townSlugs[town.Slug] = true

			if town.Metrics != nil {
				v.series(tp+".averageResidentialTaxBill", town.Metrics.AverageResidentialTaxBill)
				v.series(tp+".effectiveTaxRate", town.Metrics.EffectiveTaxRate)
				v.series(tp+".medianHomeValue", town.Metrics.MedianHomeValue)
			}
		}
	}

	return v.issues
}

type stateValidator struct {
	state  *domain.StateData
	issues []Issue
}

func (v *stateValidator) add(path string, err error) {
	v.issues = append(v.issues, Issue{Path: path, Err: err})
}

func (v *stateValidator) series(path string, series domain.MetricSeries) {
	if len(series) == 0 {
		return
	}
	if err := calculation.AssertSorted(series); err != nil {
		v.add(path, err)
	}
	if err := calculation.AssertMaxLength(series); err != nil {
		v.add(path, err)
	}

	for i, p := range series {
		pp := fmt.Sprintf("%s[%d]", path, i)
		if p.Year < domain.MinDataYear || p.Year > domain.MaxDataYear {
			v.add(pp, fmt.Errorf("year %d outside %d-%d", p.Year, domain.MinDataYear, domain.MaxDataYear))
		}
		if !p.Unit.Valid() {
			v.add(pp, fmt.Errorf("unknown unit %q", p.Unit))
		}
		if p.Value.IsNegative() {
			v.add(pp, fmt.Errorf("value cannot be negative"))
		}
		if _, ok := v.state.SourceFor(p.SourceRef); !ok {
			v.add(pp, fmt.Errorf("unresolved sourceRef %q", p.SourceRef))
		}
	}
}
