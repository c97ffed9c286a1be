package output

// DefaultAssumptions lists the estimate caveats printed under console results.
var DefaultAssumptions = []string{
	"County rates are published effective tax rates, applied to the home value you enter",
	"Municipal rates adjust the county figure where a town rate is published",
	"Exemptions are flat deductions from the annual bill",
	"Estimates are for planning only; your actual bill depends on your assessment",
}
