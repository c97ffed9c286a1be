package calculation

import (
	"strings"

	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/shopspring/decimal"
)

// PROPERTY TAX ESTIMATE ASSUMPTIONS:
//
// 1. County rate is required and looked up by exact county name.
// 2. Municipal rate is additive and optional; an unlisted town contributes 0.
// 3. Exemptions are flat dollar amounts subtracted after rates are applied.
//    Unknown exemption ids are ignored.
// 4. The annual figure is floored at zero.
// 5. Property type is carried through for display only.

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// TaxCalculator estimates annual property tax from the static rate tables.
type TaxCalculator struct {
	Rates  domain.RateTables
	Logger Logger
}

// NewTaxCalculator creates a calculator over the given tables
func NewTaxCalculator(rates domain.RateTables) *TaxCalculator {
	return &TaxCalculator{
		Rates:  rates,
		Logger: NopLogger{},
	}
}

// SetLogger replaces the logger; nil installs a no-op logger.
func (tc *TaxCalculator) SetLogger(l Logger) {
	if l == nil {
		tc.Logger = NopLogger{}
		return
	}
	tc.Logger = l
}

// CalculatePropertyTax turns a home value, county, optional town, and exemption
// ids into an annual and monthly estimate with a full breakdown.
func (tc *TaxCalculator) CalculatePropertyTax(input domain.TaxInput) (*domain.TaxCalculationResult, error) {
	if !input.HomeValue.IsPositive() {
		return nil, &ValidationError{Field: "homeValue", Message: "must be greater than zero"}
	}
	if strings.TrimSpace(input.County) == "" {
		return nil, &ValidationError{Field: "county", Message: "is required"}
	}

	countyRate, ok := tc.Rates.County.Lookup(input.County)
	if !ok {
		return nil, &RateNotFoundError{County: input.County}
	}

	hasTown := input.Town != ""
	municipalRate := decimal.Zero
	if hasTown {
		rate, found := tc.Rates.Municipal.Lookup(input.County, input.Town)
		if found {
			municipalRate = rate
		} else {
			tc.Logger.Debugf("no municipal rate for %s, %s; using county rate only", input.Town, input.County)
		}
	}
	if input.PropertyType != "" {
		tc.Logger.Debugf("property type %q does not affect the estimate", input.PropertyType)
	}

	base := input.HomeValue.Mul(countyRate)
	municipalAdjustment := decimal.Zero
	if hasTown {
		municipalAdjustment = input.HomeValue.Mul(municipalRate)
	}
	subtotal := base.Add(municipalAdjustment)

	totalExemptions := tc.Rates.Exemptions.Total(input.Exemptions)
	annualTax := decimal.Max(subtotal.Sub(totalExemptions), decimal.Zero)
	monthlyTax := annualTax.Div(twelve)
	effectiveRate := annualTax.Div(input.HomeValue).Mul(hundred)

	tc.Logger.Debugf("estimate %s/%s: base=%s municipal=%s exemptions=%s annual=%s",
		input.County, input.Town, base.StringFixed(2), municipalAdjustment.StringFixed(2),
		totalExemptions.StringFixed(2), annualTax.StringFixed(2))

	return &domain.TaxCalculationResult{
		County:        input.County,
		Town:          input.Town,
		PropertyType:  input.PropertyType,
		HomeValue:     input.HomeValue,
		CountyRate:    countyRate.Mul(hundred),
		MunicipalRate: municipalRate.Mul(hundred),
		TotalRate:     countyRate.Add(municipalRate).Mul(hundred),
		AnnualTax:     annualTax,
		MonthlyTax:    monthlyTax,
		EffectiveRate: effectiveRate,
		Exemptions:    totalExemptions,
		FinalTax:      annualTax,
		Breakdown: domain.TaxBreakdown{
			Base:                base,
			MunicipalAdjustment: municipalAdjustment,
			Subtotal:            subtotal,
			Exemptions:          totalExemptions,
			Final:               annualTax,
		},
	}, nil
}
