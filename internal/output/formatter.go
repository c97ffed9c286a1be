package output

import (
	"strings"

	"github.com/rgehrsitz/njtax/internal/domain"
)

// Formatter renders a tax estimate
type Formatter interface {
	Name() string
	Format(result *domain.TaxCalculationResult) ([]byte, error)
}

// OverviewFormatter renders a town overview
type OverviewFormatter interface {
	Name() string
	FormatOverview(report *OverviewReport) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(result *domain.TaxCalculationResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(result *domain.TaxCalculationResult) ([]byte, error) {
	return f.F(result)
}

var formatters = []Formatter{
	ConsoleFormatter{},
	JSONFormatter{Pretty: true},
	CSVSummarizer{},
}

var overviewFormatters = []OverviewFormatter{
	ConsoleFormatter{},
	JSONFormatter{Pretty: true},
	HTMLFormatter{},
}

// GetFormatterByName returns the estimate formatter with the given name, or nil
func GetFormatterByName(name string) Formatter {
	for _, f := range formatters {
		if f.Name() == strings.ToLower(name) {
			return f
		}
	}
	return nil
}

// GetOverviewFormatterByName returns the overview formatter with the given name, or nil
func GetOverviewFormatterByName(name string) OverviewFormatter {
	for _, f := range overviewFormatters {
		if f.Name() == strings.ToLower(name) {
			return f
		}
	}
	return nil
}

// FormatterNames lists the estimate formats for flag help text
func FormatterNames() []string {
	names := make([]string, len(formatters))
	for i, f := range formatters {
		names[i] = f.Name()
	}
	return names
}
