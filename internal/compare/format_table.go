package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter formats a ranking as a console table
type TableFormatter struct{}

// Format generates a formatted table of ranked towns
func (tf *TableFormatter) Format(ranking *Ranking) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s COUNTY TOWN RANKING\n", strings.ToUpper(ranking.CountyName)))
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Metric: %s\n", ranking.Metric))
	if ranking.CountyValue != nil {
		sb.WriteString(fmt.Sprintf("County (%d): %s\n", ranking.CountyYear, tf.formatValue(ranking, *ranking.CountyValue)))
	}
	sb.WriteString("\n")

	nameWidth := 30
	numWidth := 12

	sb.WriteString(fmt.Sprintf("%4s  %-*s %6s %*s %*s  %s\n",
		"#",
		nameWidth, "Town",
		"Year",
		numWidth, "Value",
		numWidth, "vs County",
		"Label"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, entry := range ranking.Entries {
		pct := "n/a"
		if entry.PctFromCounty != nil {
			pct = tf.deltaSymbol(*entry.PctFromCounty) + entry.PctFromCounty.StringFixed(2) + "%"
		}
		sb.WriteString(fmt.Sprintf("%4d  %-*s %6d %*s %*s  %s\n",
			entry.Rank,
			nameWidth, tf.truncate(entry.TownName, nameWidth),
			entry.Year,
			numWidth, tf.formatValue(ranking, entry.Value),
			numWidth, pct,
			labelText(entry.VsCounty)))
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(ranking.Unranked) > 0 {
		sb.WriteString(fmt.Sprintf("\nNo town-level data (county context only): %s\n", strings.Join(ranking.Unranked, ", ")))
	}

	return sb.String()
}

func (tf *TableFormatter) formatValue(ranking *Ranking, d decimal.Decimal) string {
	if ranking.IsPercent() {
		return d.StringFixed(2) + "%"
	}
	return "$" + d.StringFixed(0)
}

// deltaSymbol returns a leading + for positive deltas; negatives carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func labelText(label domain.ComparisonLabel) string {
	switch label {
	case domain.ComparisonAboutTheSame:
		return "about the same"
	case "":
		return "-"
	}
	return string(label)
}
