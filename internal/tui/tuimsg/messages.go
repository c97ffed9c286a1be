package tuimsg

import (
	"github.com/rgehrsitz/njtax/internal/domain"
)

// CalculateRequestedMsg asks the root model to run the estimator
type CalculateRequestedMsg struct {
	Input domain.TaxInput
}

// CalculationCompleteMsg carries the estimator result, or the error that replaced it
type CalculationCompleteMsg struct {
	Input  domain.TaxInput
	Result *domain.TaxCalculationResult
	Err    error
}
