package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/shopspring/decimal"
)

// HTMLFormatter renders a town overview as an HTML fragment for static town pages.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/overview.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("overview").Funcs(template.FuncMap{
	"curr":       func(d *decimal.Decimal) string { return FormatCurrency(*d) },
	"pct":        func(d *decimal.Decimal) string { return FormatPercentage(*d) },
	"signed":     FormatSignedPercentage,
	"deref":      func(d *decimal.Decimal) decimal.Decimal { return *d },
	"comparison": ComparisonText,
	"scope":      scopeSuffix,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) FormatOverview(report *OverviewReport) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*OverviewReport
		Assumptions []string
	}{report, DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
