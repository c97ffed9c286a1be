package domain

import "github.com/shopspring/decimal"

// TaxInput is a single estimator request.
type TaxInput struct {
	HomeValue decimal.Decimal `json:"homeValue"`
	County    string          `json:"county"`
	Town      string          `json:"town,omitempty"`
	// PropertyType is accepted for display but does not affect the estimate.
	PropertyType string   `json:"propertyType,omitempty"`
	Exemptions   []string `json:"exemptions,omitempty"`
}

// TaxBreakdown shows how the final figure was reached.
type TaxBreakdown struct {
	Base                decimal.Decimal `json:"base"`
	MunicipalAdjustment decimal.Decimal `json:"municipalAdjustment"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Exemptions          decimal.Decimal `json:"exemptions"`
	Final               decimal.Decimal `json:"final"`
}

// TaxCalculationResult is the estimator output. Rates are percentages (rate * 100).
type TaxCalculationResult struct {
	County        string          `json:"county"`
	Town          string          `json:"town,omitempty"`
	PropertyType  string          `json:"propertyType,omitempty"`
	HomeValue     decimal.Decimal `json:"homeValue"`
	CountyRate    decimal.Decimal `json:"countyRate"`
	MunicipalRate decimal.Decimal `json:"municipalRate"`
	TotalRate     decimal.Decimal `json:"totalRate"`
	AnnualTax     decimal.Decimal `json:"annualTax"`
	MonthlyTax    decimal.Decimal `json:"monthlyTax"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	Exemptions    decimal.Decimal `json:"exemptions"`
	FinalTax      decimal.Decimal `json:"finalTax"`
	Breakdown     TaxBreakdown    `json:"breakdown"`
}
