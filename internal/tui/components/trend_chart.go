package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/njtax/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

type bar struct {
	label string
	value decimal.Decimal
}

// TrendChart draws a horizontal bar per year, scaled to the largest value.
type TrendChart struct {
	Title string
	Width int
	bars  []bar
}

// NewTrendChart creates an empty chart
func NewTrendChart(title string) *TrendChart {
	return &TrendChart{Title: title, Width: 40}
}

// Add appends a bar
func (c *TrendChart) Add(label string, value decimal.Decimal) *TrendChart {
	c.bars = append(c.bars, bar{label: label, value: value})
	return c
}

// WithWidth sets the maximum bar length in cells
func (c *TrendChart) WithWidth(width int) *TrendChart {
	c.Width = width
	return c
}

// Render returns the styled chart
func (c *TrendChart) Render() string {
	if len(c.bars) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		content.WriteString("\n")
	}

	max := decimal.Zero
	for _, b := range c.bars {
		if b.value.GreaterThan(max) {
			max = b.value
		}
	}

	barStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorAccent)
	for _, b := range c.bars {
		n := c.barLength(b.value, max)
		content.WriteString(fmt.Sprintf("%-6s %s %s\n",
			b.label,
			barStyle.Render(strings.Repeat("█", n)),
			tuistyles.FormatCurrency(b.value)))
	}

	return strings.TrimRight(content.String(), "\n")
}

// barLength scales value to the chart width; any positive value gets at least one cell.
func (c *TrendChart) barLength(value, max decimal.Decimal) int {
	if !max.IsPositive() || !value.IsPositive() {
		return 0
	}
	n := int(value.Div(max).Mul(decimal.NewFromInt(int64(c.Width))).Round(0).IntPart())
	if n < 1 {
		n = 1
	}
	return n
}
