package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/rgehrsitz/njtax/internal/tui/components"
	"github.com/rgehrsitz/njtax/internal/tui/tuimsg"
	"github.com/rgehrsitz/njtax/internal/tui/tuistyles"
)

// Form field indexes
const (
	FieldHomeValue = iota
	FieldCounty
	FieldTown
	FieldExemptions
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Home Value",
	"County",
	"Town (optional)",
	"Exemptions (comma separated)",
}

var (
	nextFieldKey = key.NewBinding(key.WithKeys("tab", "down"))
	prevFieldKey = key.NewBinding(key.WithKeys("shift+tab", "up"))
	submitKey    = key.NewBinding(key.WithKeys("enter"))
	resetKey     = key.NewBinding(key.WithKeys("ctrl+r"))
)

// EstimateModel is the estimator form and its latest result
type EstimateModel struct {
	inputs  [fieldCount]textinput.Model
	focused int
	result  *domain.TaxCalculationResult
	err     error
	width   int
	height  int
}

// NewEstimateModel creates the form with the home value field focused
func NewEstimateModel() *EstimateModel {
	m := &EstimateModel{}
	placeholders := [fieldCount]string{"e.g., 400000", "e.g., Bergen", "e.g., Hackensack", "e.g., senior, veteran"}
	limits := [fieldCount]int{12, 40, 60, 120}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 40
		m.inputs[i] = ti
	}
	m.inputs[FieldHomeValue].Focus()
	return m
}

// SetSize updates the model dimensions
func (m *EstimateModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetValue fills a field, mainly for launching with preset values
func (m *EstimateModel) SetValue(field int, value string) {
	if field >= 0 && field < fieldCount {
		m.inputs[field].SetValue(value)
	}
}

// Focused returns the index of the focused field
func (m *EstimateModel) Focused() int {
	return m.focused
}

// Result returns the last successful estimate
func (m *EstimateModel) Result() *domain.TaxCalculationResult {
	return m.result
}

// Err returns the error shown inline under the form
func (m *EstimateModel) Err() error {
	return m.err
}

// SetResult records an estimator outcome; an error clears any previous result
func (m *EstimateModel) SetResult(result *domain.TaxCalculationResult, err error) {
	m.result = result
	m.err = err
	if err != nil {
		m.result = nil
	}
}

// Update handles messages for the estimate scene
func (m *EstimateModel) Update(msg tea.Msg) (*EstimateModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, nextFieldKey):
			return m, m.focus((m.focused + 1) % fieldCount)

		case key.Matches(msg, prevFieldKey):
			return m, m.focus((m.focused + fieldCount - 1) % fieldCount)

		case key.Matches(msg, resetKey):
			for i := range m.inputs {
				m.inputs[i].SetValue("")
			}
			m.result, m.err = nil, nil
			return m, m.focus(FieldHomeValue)

		case key.Matches(msg, submitKey):
			input, err := m.BuildInput()
			if err != nil {
				m.SetResult(nil, err)
				return m, nil
			}
			return m, func() tea.Msg { return tuimsg.CalculateRequestedMsg{Input: input} }
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *EstimateModel) focus(index int) tea.Cmd {
	m.inputs[m.focused].Blur()
	m.focused = index
	m.inputs[m.focused].Focus()
	return textinput.Blink
}

// BuildInput parses the form. Home value accepts $ and thousands separators.
func (m *EstimateModel) BuildInput() (domain.TaxInput, error) {
	raw := strings.NewReplacer("$", "", ",", "", " ", "").Replace(m.inputs[FieldHomeValue].Value())
	if raw == "" {
		return domain.TaxInput{}, &calculation.ValidationError{Field: "homeValue", Message: "is required"}
	}
	homeValue, err := decimal.NewFromString(raw)
	if err != nil {
		return domain.TaxInput{}, &calculation.ValidationError{Field: "homeValue", Message: fmt.Sprintf("%q is not a number", raw)}
	}

	var exemptions []string
	for _, id := range strings.Split(m.inputs[FieldExemptions].Value(), ",") {
		if id = strings.TrimSpace(id); id != "" {
			exemptions = append(exemptions, id)
		}
	}

	return domain.TaxInput{
		HomeValue:  homeValue,
		County:     strings.TrimSpace(m.inputs[FieldCounty].Value()),
		Town:       strings.TrimSpace(m.inputs[FieldTown].Value()),
		Exemptions: exemptions,
	}, nil
}

// View renders the form, the inline error, and the latest result
func (m *EstimateModel) View() string {
	var b strings.Builder

	for i, input := range m.inputs {
		labelStyle := tuistyles.BlurredLabelStyle
		if i == m.focused {
			labelStyle = tuistyles.FocusedLabelStyle
		}
		b.WriteString(labelStyle.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(tuistyles.ErrorStyle.Render("✗ " + m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	if m.result != nil {
		b.WriteString(m.renderResult())
	}
	return b.String()
}

func (m *EstimateModel) renderResult() string {
	r := m.result
	cards := []*components.MetricCard{
		components.NewMetricCard("Annual Tax", tuistyles.FormatCurrency(r.AnnualTax)),
		components.NewMetricCard("Monthly", tuistyles.FormatCurrency(r.MonthlyTax)),
		components.NewMetricCard("Effective Rate", r.EffectiveRate.StringFixed(2)+"%"),
	}
	grid := components.MetricGrid(cards, 3)

	location := r.County + " County"
	if r.Town != "" {
		location = r.Town + ", " + location
	}

	lines := []string{
		tuistyles.SubtitleStyle.Render(location),
		(&components.MetricCard{Label: "Base", Value: tuistyles.FormatCurrency(r.Breakdown.Base)}).RenderCompact(),
	}
	if !r.Breakdown.MunicipalAdjustment.IsZero() {
		lines = append(lines, (&components.MetricCard{Label: "Municipal", Value: tuistyles.FormatCurrency(r.Breakdown.MunicipalAdjustment)}).RenderCompact())
	}
	if !r.Breakdown.Exemptions.IsZero() {
		lines = append(lines, (&components.MetricCard{Label: "Exemptions", Value: "-" + tuistyles.FormatCurrency(r.Breakdown.Exemptions)}).RenderCompact())
	}

	return lipgloss.JoinVertical(lipgloss.Left, grid, strings.Join(lines, "\n"))
}
