package output

import (
	"encoding/json"

	"github.com/rgehrsitz/njtax/internal/domain"
)

// JSONFormatter renders estimates and overviews as JSON
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.TaxCalculationResult) ([]byte, error) {
	return j.marshal(result)
}

func (j JSONFormatter) FormatOverview(report *OverviewReport) ([]byte, error) {
	return j.marshal(report)
}

func (j JSONFormatter) marshal(v any) ([]byte, error) {
	var data []byte
	var err error
	if j.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
