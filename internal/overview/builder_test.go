package overview

import (
	"fmt"
	"testing"
	"time"

	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {
	l.messages = append(l.messages, "DEBUG: "+fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Infof(format string, args ...any) {
	l.messages = append(l.messages, "INFO: "+fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Warnf(format string, args ...any) {
	l.messages = append(l.messages, "WARN: "+fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Errorf(format string, args ...any) {
	l.messages = append(l.messages, "ERROR: "+fmt.Sprintf(format, args...))
}

func usd(ref string, pairs ...any) domain.MetricSeries {
	return series(domain.UnitUSD, ref, pairs...)
}

func pct(ref string, pairs ...any) domain.MetricSeries {
	return series(domain.UnitPercent, ref, pairs...)
}

// series builds a MetricSeries from alternating year, value arguments.
func series(unit domain.Unit, ref string, pairs ...any) domain.MetricSeries {
	var s domain.MetricSeries
	for i := 0; i+1 < len(pairs); i += 2 {
		s = append(s, domain.DataPoint{
			Year:      pairs[i].(int),
			Value:     decimal.RequireFromString(pairs[i+1].(string)),
			Unit:      unit,
			SourceRef: ref,
		})
	}
	return s
}

func testState() *domain.StateData {
	return &domain.StateData{
		Name:         "New Jersey",
		Slug:         "new-jersey",
		Abbreviation: "NJ",
		AsOfYear:     2023,
		Sources: map[string]domain.Source{
			"njdca":  {Publisher: "NJ Department of Community Affairs", Title: "Property Tax Information", HomepageURL: "https://www.nj.gov/dca/"},
			"census": {Publisher: "U.S. Census Bureau", Title: "American Community Survey", HomepageURL: "https://data.census.gov/"},
		},
		Metrics: &domain.StateMetrics{
			AverageTaxRate:            pct("njdca", 2023, "1.80"),
			AverageResidentialTaxBill: usd("njdca", 2023, "9500"),
		},
		Counties: []domain.CountyData{
			{
				Name:     "Bergen",
				Slug:     "bergen",
				AsOfYear: 2023,
				Metrics: &domain.CountyMetrics{
					AverageResidentialTaxBill: usd("njdca", 2019, "11000", 2020, "11200", 2021, "11500", 2022, "11800", 2023, "12100"),
					EffectiveTaxRate:          pct("njdca", 2023, "2.00"),
				},
				Towns: []domain.TownData{
					{
						Name:     "Hackensack",
						Slug:     "hackensack",
						AsOfYear: 2023,
						Tier:     1,
						Metrics: &domain.TownMetrics{
							AverageResidentialTaxBill: usd("njdca", 2021, "10000", 2022, "10500", 2023, "11000"),
							EffectiveTaxRate:          pct("njdca", 2023, "2.10"),
							MedianHomeValue:           usd("census", 2023, "450000"),
						},
					},
					{Name: "Teaneck", Slug: "teaneck", AsOfYear: 2023},
					{
						Name:     "Ridgewood",
						Slug:     "ridgewood",
						AsOfYear: 2023,
						Metrics: &domain.TownMetrics{
							AverageResidentialTaxBill: usd("njdca", 2019, "14000", 2020, "14100", 2021, "14500", 2022, "15000", 2023, "15400"),
						},
					},
				},
			},
		},
	}
}

func assertDecimal(t *testing.T, expected string, actual *decimal.Decimal, field string) {
	t.Helper()
	require.NotNil(t, actual, "%s should be set", field)
	assert.True(t, decimal.RequireFromString(expected).Equal(*actual), "%s: expected %s, got %s", field, expected, actual.String())
}

func TestBuild_TownWithOwnData(t *testing.T) {
	state := testState()
	county := &state.Counties[0]

	o := NewBuilder().Build(&county.Towns[0], county, state)

	assert.Equal(t, 2023, o.AsOfYear)
	assertDecimal(t, "11000", o.AvgResidentialTaxBill, "AvgResidentialTaxBill")
	assertDecimal(t, "2.10", o.EffectiveTaxRatePct, "EffectiveTaxRatePct")
	assertDecimal(t, "450000", o.MedianHomeValue, "MedianHomeValue")
	assert.Equal(t, domain.ScopeTown, o.BillScope)
	assert.Equal(t, domain.ScopeTown, o.RateScope)
	assert.False(t, o.UsesCountyContext())

	assertDecimal(t, "12100", o.CountyAvgTaxBill, "CountyAvgTaxBill")
	assertDecimal(t, "2.00", o.CountyEffectiveRatePct, "CountyEffectiveRatePct")
	assertDecimal(t, "9500", o.StateAvgTaxBill, "StateAvgTaxBill")
	assertDecimal(t, "1.80", o.StateEffectiveTaxRatePct, "StateEffectiveTaxRatePct")

	require.NotNil(t, o.Comparisons)
	assert.Equal(t, domain.ComparisonAboutTheSame, o.Comparisons.VsCounty, "2.10 vs 2.00 is exactly +5%")
	assert.Equal(t, domain.ComparisonHigher, o.Comparisons.VsState)

	require.Len(t, o.Sources, 2)
	assert.Equal(t, "NJ Department of Community Affairs", o.Sources[0].DisplayName())
	assert.Equal(t, "U.S. Census Bureau", o.Sources[1].DisplayName())
}

func TestBuild_TrendUsesLongerCountySeries(t *testing.T) {
	state := testState()
	county := &state.Counties[0]

	o := NewBuilder().Build(&county.Towns[0], county, state)

	// The town has 3 points, the county 5, so the county series wins.
	assert.Equal(t, domain.ScopeCounty, o.TrendScope)
	assert.Len(t, o.TrendSeries, 5)
	assert.Equal(t, 2019, o.TrendStartYear)
	assert.Equal(t, 2023, o.TrendEndYear)
	assertDecimal(t, "10", o.TrendPct, "TrendPct")

	assertDecimal(t, "10", o.FiveYearTrendPct, "FiveYearTrendPct")
	require.NotNil(t, o.Trend5y)
	assert.Equal(t, 2019, o.Trend5y.StartYear)
	assert.Equal(t, 2023, o.Trend5y.EndYear)
}

func TestBuild_TrendTiePrefersTown(t *testing.T) {
	state := testState()
	county := &state.Counties[0]

	o := NewBuilder().Build(&county.Towns[2], county, state)

	assert.Equal(t, domain.ScopeTown, o.TrendScope)
	assertDecimal(t, "10", o.TrendPct, "TrendPct")
	assert.True(t, o.TrendSeries[0].Value.Equal(decimal.NewFromInt(14000)))
}

func TestBuild_ShortSeriesHasNoTrend(t *testing.T) {
	state := testState()
	county := &state.Counties[0]
	county.Metrics.AverageResidentialTaxBill = usd("njdca", 2022, "11800", 2023, "12100")
	town := &county.Towns[0]
	town.Metrics.AverageResidentialTaxBill = usd("njdca", 2022, "10500", 2023, "11000")

	o := NewBuilder().Build(town, county, state)

	assert.Nil(t, o.TrendPct)
	assert.Nil(t, o.TrendSeries)
	assert.Nil(t, o.FiveYearTrendPct)
	assert.Nil(t, o.Trend5y)
}

func TestBuild_ThreePointsHasTrendButNoFiveYear(t *testing.T) {
	state := testState()
	county := &state.Counties[0]
	county.Metrics.AverageResidentialTaxBill = nil

	o := NewBuilder().Build(&county.Towns[0], county, state)

	assert.Equal(t, domain.ScopeTown, o.TrendScope)
	assertDecimal(t, "10", o.TrendPct, "TrendPct")
	assert.Equal(t, 2021, o.TrendStartYear)
	assert.Nil(t, o.FiveYearTrendPct)
	assert.Nil(t, o.Trend5y)
}

func TestBuild_CountyContextFallback(t *testing.T) {
	state := testState()
	county := &state.Counties[0]
	logger := &recordingLogger{}
	b := NewBuilder()
	b.SetLogger(logger)

	o := b.Build(&county.Towns[1], county, state)

	assertDecimal(t, "12100", o.AvgResidentialTaxBill, "AvgResidentialTaxBill")
	assertDecimal(t, "2.00", o.EffectiveTaxRatePct, "EffectiveTaxRatePct")
	assert.Equal(t, domain.ScopeCounty, o.BillScope)
	assert.Equal(t, domain.ScopeCounty, o.RateScope)
	assert.True(t, o.UsesCountyContext())
	assert.Nil(t, o.MedianHomeValue, "median home value never falls back to county")

	require.Len(t, o.Sources, 1, "no census source without a median home value")
	assert.Equal(t, "njdca", sourceKey(state, o.Sources[0]))

	assert.Contains(t, logger.messages, "DEBUG: Teaneck: average bill from county context (2023)")
}

func TestBuild_AsOfYearFallbackChain(t *testing.T) {
	state := testState()
	county := &state.Counties[0]
	town := &county.Towns[1]

	b := NewBuilder()
	b.Now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	town.AsOfYear = 0
	county.AsOfYear = 2022
	assert.Equal(t, 2022, b.Build(town, county, state).AsOfYear)

	county.AsOfYear = 0
	state.AsOfYear = 2021
	assert.Equal(t, 2021, b.Build(town, county, state).AsOfYear)

	state.AsOfYear = 0
	assert.Equal(t, 2026, b.Build(town, county, state).AsOfYear)
}

func TestBuild_UnknownSourceRefIsSkipped(t *testing.T) {
	state := testState()
	county := &state.Counties[0]
	delete(state.Sources, "census")
	logger := &recordingLogger{}
	b := NewBuilder()
	b.SetLogger(logger)

	o := b.Build(&county.Towns[0], county, state)

	require.Len(t, o.Sources, 1)
	assert.Contains(t, logger.messages, `WARN: unknown source reference "census"`)
}

func TestBuild_NoTaxDataUsesStateSource(t *testing.T) {
	state := testState()
	state.Counties = append(state.Counties, domain.CountyData{
		Name:  "Salem",
		Slug:  "salem",
		Towns: []domain.TownData{{Name: "Elmer", Slug: "elmer", AsOfYear: 2023}},
	})
	county := &state.Counties[1]

	o := BuildTownOverviewFromMetrics(&county.Towns[0], county, state)

	assert.Nil(t, o.AvgResidentialTaxBill)
	assert.Nil(t, o.EffectiveTaxRatePct)
	require.Len(t, o.Sources, 1)
	assert.Equal(t, "NJ Department of Community Affairs", o.Sources[0].Publisher)
}

func TestBuild_NoBaselines(t *testing.T) {
	town := &domain.TownData{
		Name:     "Island",
		AsOfYear: 2023,
		Metrics:  &domain.TownMetrics{AverageResidentialTaxBill: usd("njdca", 2023, "8000")},
	}

	o := BuildTownOverviewFromMetrics(town, nil, nil)

	assertDecimal(t, "8000", o.AvgResidentialTaxBill, "AvgResidentialTaxBill")
	assert.Nil(t, o.Comparisons)
	assert.Empty(t, o.Sources)
}

func TestBuildAll(t *testing.T) {
	state := testState()
	logger := &recordingLogger{}
	b := NewBuilder()
	b.SetLogger(logger)

	built := b.BuildAll(state)

	assert.Equal(t, 3, built)
	for _, town := range state.Counties[0].Towns {
		assert.NotNil(t, town.Overview, "%s should have an overview", town.Name)
	}
	assert.Contains(t, logger.messages, "INFO: built 3 town overviews for Bergen County")
}

func TestSetLogger_NilResets(t *testing.T) {
	b := NewBuilder()
	b.SetLogger(&recordingLogger{})
	b.SetLogger(nil)
	assert.NotNil(t, b.Logger)
}

func sourceKey(state *domain.StateData, src domain.Source) string {
	for key, s := range state.Sources {
		if s.Publisher == src.Publisher {
			return key
		}
	}
	return ""
}
