package calculation

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or invalid estimator input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// RateNotFoundError reports a county with no entry in the rate table.
type RateNotFoundError struct {
	County string
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("tax rate not found for county %q", e.County)
}

// SeriesOrderError reports a year that goes backwards within a series.
type SeriesOrderError struct {
	Index        int
	Year         int
	PreviousYear int
}

func (e *SeriesOrderError) Error() string {
	return fmt.Sprintf("series not sorted: year %d at index %d follows %d", e.Year, e.Index, e.PreviousYear)
}

// SeriesLengthError reports a series holding more than the retained number of years.
type SeriesLengthError struct {
	Length int
	Max    int
}

func (e *SeriesLengthError) Error() string {
	return fmt.Sprintf("series has %d points, maximum is %d", e.Length, e.Max)
}

// IsClientError reports whether err is caused by caller input rather than a fault.
func IsClientError(err error) bool {
	var ve *ValidationError
	var nf *RateNotFoundError
	return errors.As(err, &ve) || errors.As(err, &nf)
}
