package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func years(ys ...int) domain.MetricSeries {
	series := make(domain.MetricSeries, 0, len(ys))
	for _, y := range ys {
		series = append(series, domain.DataPoint{Year: y, Value: decimal.NewFromInt(int64(y))})
	}
	return series
}

func TestComputeYoYStats_TooShort(t *testing.T) {
	assert.Nil(t, ComputeYoYStats(nil))
	assert.Nil(t, ComputeYoYStats(domain.MetricSeries{point(2023, "100")}))
}

func TestComputeYoYStats_TwoPoints(t *testing.T) {
	stats := ComputeYoYStats(domain.MetricSeries{point(2022, "10000"), point(2023, "10350")})
	require.NotNil(t, stats)

	assert.Equal(t, 2023, stats.Latest.Year)
	assert.Equal(t, 2022, stats.Previous.Year)
	assertDecimal(t, "350", stats.Delta, "delta")
	assertDecimal(t, "3.5", stats.DeltaPct, "delta pct")
	assert.Equal(t, 2022, stats.FirstYear)
	// with two points the "five year" figures equal the year-over-year ones
	assertDecimal(t, "350", stats.FiveYearDelta, "five year delta")
	assertDecimal(t, "3.5", stats.FiveYearDeltaPct, "five year delta pct")
}

func TestComputeYoYStats_SortsDefensiveCopy(t *testing.T) {
	series := domain.MetricSeries{point(2023, "9000"), point(2020, "8000"), point(2022, "8700"), point(2021, "8200")}

	stats := ComputeYoYStats(series)
	require.NotNil(t, stats)

	assert.Equal(t, 2023, stats.Latest.Year)
	assert.Equal(t, 2022, stats.Previous.Year)
	assertDecimal(t, "300", stats.Delta, "delta")
	// 300 / 8700 * 100 = 3.448275...
	assertDecimal(t, "3.45", stats.DeltaPct, "delta pct")
	assertDecimal(t, "1000", stats.FiveYearDelta, "first-to-last delta")
	assertDecimal(t, "12.5", stats.FiveYearDeltaPct, "first-to-last pct")

	assert.Equal(t, 2023, series[0].Year, "input must not be reordered")
}

func TestComputeYoYStats_RoundsHalfAwayFromZero(t *testing.T) {
	// 0.4 / 8000 * 100 = 0.005 exactly
	up := ComputeYoYStats(domain.MetricSeries{point(2022, "8000"), point(2023, "8000.4")})
	require.NotNil(t, up)
	assertDecimal(t, "0.01", up.DeltaPct, "0.005 rounds up")

	down := ComputeYoYStats(domain.MetricSeries{point(2022, "8000"), point(2023, "7999.6")})
	require.NotNil(t, down)
	assertDecimal(t, "-0.01", down.DeltaPct, "-0.005 rounds away from zero")
}

func TestComputeYoYStats_ZeroPrevious(t *testing.T) {
	stats := ComputeYoYStats(domain.MetricSeries{point(2022, "0"), point(2023, "500")})
	require.NotNil(t, stats)
	assertDecimal(t, "500", stats.Delta, "delta")
	assertDecimal(t, "0", stats.DeltaPct, "delta pct")
	assertDecimal(t, "0", stats.FiveYearDeltaPct, "first-to-last pct")
}

func TestComputeYoYStats_ZeroPreviousNonZeroFirst(t *testing.T) {
	stats := ComputeYoYStats(domain.MetricSeries{point(2021, "100"), point(2022, "0"), point(2023, "50")})
	require.NotNil(t, stats)
	assertDecimal(t, "50", stats.Delta, "delta")
	assertDecimal(t, "0", stats.DeltaPct, "delta pct")
	assertDecimal(t, "-50", stats.FiveYearDelta, "first-to-last delta")
	assertDecimal(t, "0", stats.FiveYearDeltaPct, "first-to-last pct follows the previous-value guard")
}

func TestComputeYoYStats_ZeroFirst(t *testing.T) {
	stats := ComputeYoYStats(domain.MetricSeries{point(2021, "0"), point(2022, "100"), point(2023, "110")})
	require.NotNil(t, stats)
	assertDecimal(t, "10", stats.DeltaPct, "delta pct")
	assertDecimal(t, "110", stats.FiveYearDelta, "first-to-last delta")
	assertDecimal(t, "0", stats.FiveYearDeltaPct, "first-to-last pct")
}

func TestPercentChange(t *testing.T) {
	assertDecimal(t, "5", PercentChange(decimal.NewFromInt(200), decimal.NewFromInt(210)), "increase")
	assertDecimal(t, "-33.33", PercentChange(decimal.NewFromInt(300), decimal.NewFromInt(200)), "decrease")
	assertDecimal(t, "0", PercentChange(decimal.Zero, decimal.NewFromInt(10)), "zero base")
}

func TestAssertSorted(t *testing.T) {
	err := AssertSorted(years(2021, 2020))
	require.Error(t, err)
	var orderErr *SeriesOrderError
	require.True(t, errors.As(err, &orderErr))
	assert.Equal(t, 1, orderErr.Index)

	assert.NoError(t, AssertSorted(years(2020, 2021)))
	assert.NoError(t, AssertSorted(years(2020, 2020)), "equal years are tolerated")
	assert.NoError(t, AssertSorted(nil))
}

func TestAssertMaxLength(t *testing.T) {
	err := AssertMaxLength(years(2019, 2020, 2021, 2022, 2023, 2024))
	require.Error(t, err)
	var lengthErr *SeriesLengthError
	require.True(t, errors.As(err, &lengthErr))
	assert.Equal(t, 6, lengthErr.Length)

	assert.NoError(t, AssertMaxLength(years(2020, 2021, 2022, 2023, 2024)))
}
