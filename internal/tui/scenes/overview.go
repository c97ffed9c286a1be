package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/njtax/internal/output"
	"github.com/rgehrsitz/njtax/internal/tui/components"
	"github.com/rgehrsitz/njtax/internal/tui/tuistyles"
)

// OverviewModel displays the stored overview for the town last estimated
type OverviewModel struct {
	report *output.OverviewReport
	width  int
	height int
}

// NewOverviewModel creates an empty overview scene
func NewOverviewModel() *OverviewModel {
	return &OverviewModel{}
}

// SetSize updates the model dimensions
func (m *OverviewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetReport replaces the displayed overview; nil clears it
func (m *OverviewModel) SetReport(report *output.OverviewReport) {
	m.report = report
}

// Report returns the displayed overview
func (m *OverviewModel) Report() *output.OverviewReport {
	return m.report
}

// View renders the overview
func (m *OverviewModel) View() string {
	if m.report == nil || m.report.Overview == nil {
		return tuistyles.InfoStyle.Render("No town overview yet. Estimate a town with published data first.")
	}
	r := m.report
	o := r.Overview

	title := tuistyles.TitleStyle.Render(fmt.Sprintf("%s, %s County", r.TownName, r.CountyName))
	subtitle := tuistyles.SubtitleStyle.Render(fmt.Sprintf("Data as of %d", o.AsOfYear))

	var cards []*components.MetricCard
	if o.AvgResidentialTaxBill != nil {
		card := components.NewMetricCard("Average Tax Bill", tuistyles.FormatCurrency(*o.AvgResidentialTaxBill)).
			WithScope(o.BillScope)
		if o.Comparisons != nil && o.Comparisons.VsCounty != "" {
			card.WithDescription("vs county: " + output.ComparisonText(o.Comparisons.VsCounty))
		}
		cards = append(cards, card)
	}
	if o.EffectiveTaxRatePct != nil {
		card := components.NewMetricCard("Effective Rate", o.EffectiveTaxRatePct.StringFixed(2)+"%").
			WithScope(o.RateScope)
		if o.Comparisons != nil && o.Comparisons.VsState != "" {
			card.WithDescription("vs state: " + output.ComparisonText(o.Comparisons.VsState))
		}
		cards = append(cards, card)
	}
	if o.MedianHomeValue != nil {
		cards = append(cards, components.NewMetricCard("Median Home Value", tuistyles.FormatCurrency(*o.MedianHomeValue)))
	}
	if o.TrendPct != nil {
		card := components.NewMetricCard("Bill Trend", fmt.Sprintf("%d-%d", o.TrendStartYear, o.TrendEndYear)).
			WithTrend(o.TrendPct.IsPositive(), output.FormatSignedPercentage(*o.TrendPct)).
			WithScope(o.TrendScope)
		cards = append(cards, card)
	}

	sections := []string{title, subtitle, "", components.MetricGrid(cards, 2)}

	if len(o.TrendSeries) > 0 {
		chart := components.NewTrendChart("Average Residential Tax Bill")
		for _, p := range o.TrendSeries {
			chart.Add(fmt.Sprintf("%d", p.Year), p.Value)
		}
		sections = append(sections, "", chart.Render())
	}

	if len(o.Sources) > 0 {
		var lines []string
		for _, src := range o.Sources {
			lines = append(lines, tuistyles.SubtitleStyle.Render("Source: "+src.DisplayName()+" "+src.LinkForYear(o.AsOfYear)))
		}
		sections = append(sections, "", strings.Join(lines, "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
