package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats a ranking as CSV
type CSVFormatter struct{}

// Format generates CSV output, one row per ranked town
func (cf *CSVFormatter) Format(ranking *Ranking) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Rank",
		"Town",
		"Slug",
		"Tier",
		"Year",
		"Value",
		"Pct From County",
		"Vs County",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, entry := range ranking.Entries {
		if err := writer.Write(cf.formatRow(entry)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(entry TownRank) []string {
	pct := ""
	if entry.PctFromCounty != nil {
		pct = entry.PctFromCounty.StringFixed(2)
	}
	tier := ""
	if entry.Tier > 0 {
		tier = strconv.Itoa(entry.Tier)
	}
	return []string{
		strconv.Itoa(entry.Rank),
		entry.TownName,
		entry.TownSlug,
		tier,
		strconv.Itoa(entry.Year),
		entry.Value.StringFixed(2),
		pct,
		string(entry.VsCounty),
	}
}
