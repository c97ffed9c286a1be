package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/config"
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/rgehrsitz/njtax/internal/output"
	"github.com/rgehrsitz/njtax/internal/overview"
	"github.com/rgehrsitz/njtax/internal/storage"
)

const testDataDir = "../testdata"

func loadDataset(t *testing.T) *config.Dataset {
	t.Helper()
	cfg := config.DefaultAppConfig()
	cfg.Data.Dir = testDataDir
	ds, err := config.NewInputParser().LoadDataset(cfg.Data.Resolved())
	require.NoError(t, err)
	return ds
}

func TestEndToEndCalculation(t *testing.T) {
	ds := loadDataset(t)
	calc := calculation.NewTaxCalculator(ds.Rates)

	t.Run("county_only", func(t *testing.T) {
		result, err := calc.CalculatePropertyTax(domain.TaxInput{HomeValue: decimal.NewFromInt(400000), County: "Bergen"})
		require.NoError(t, err)
		assert.True(t, result.AnnualTax.Equal(decimal.NewFromInt(9360)))
		assert.True(t, result.MonthlyTax.Equal(decimal.NewFromInt(780)))
		assert.True(t, result.EffectiveRate.Equal(decimal.RequireFromString("2.34")))
	})

	t.Run("one_exemption", func(t *testing.T) {
		result, err := calc.CalculatePropertyTax(domain.TaxInput{HomeValue: decimal.NewFromInt(400000), County: "Bergen", Exemptions: []string{"senior"}})
		require.NoError(t, err)
		assert.True(t, result.AnnualTax.Equal(decimal.NewFromInt(9110)))
	})

	t.Run("town_without_municipal_rate", func(t *testing.T) {
		result, err := calc.CalculatePropertyTax(domain.TaxInput{HomeValue: decimal.NewFromInt(400000), County: "Bergen", Town: "Teaneck"})
		require.NoError(t, err)
		assert.True(t, result.AnnualTax.Equal(decimal.NewFromInt(9360)))
		assert.True(t, result.MunicipalRate.IsZero())
	})

	t.Run("exemptions_exceed_tax", func(t *testing.T) {
		result, err := calc.CalculatePropertyTax(domain.TaxInput{HomeValue: decimal.NewFromInt(10000), County: "Cape May", Exemptions: []string{"senior", "veteran", "disabled"}})
		require.NoError(t, err)
		assert.True(t, result.AnnualTax.IsZero())
		assert.True(t, result.FinalTax.IsZero())
	})
}

func TestConfigurationValidation(t *testing.T) {
	cfg, err := config.LoadAppConfig(filepath.Join(testDataDir, "njtax.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "test/testdata", cfg.Data.Dir)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Comparison.ThresholdPct.Equal(decimal.NewFromInt(5)))

	ds := loadDataset(t)
	assert.Empty(t, config.ValidateRateTables(ds.Rates))
	assert.Empty(t, config.ValidateStateData(ds.State))
}

func TestOverviewPipeline(t *testing.T) {
	ds := loadDataset(t)

	built := overview.NewBuilder().BuildAll(ds.State)
	assert.Equal(t, 4, built)

	out := filepath.Join(t.TempDir(), "nj.json")
	w := storage.NewStateFileWriter(out, calculation.NopLogger{})
	require.NoError(t, w.WriteOverviews(context.Background(), ds.State))
	require.NoError(t, w.Close())

	reloaded, err := config.NewInputParser().LoadStateData(out)
	require.NoError(t, err)
	assert.Empty(t, config.ValidateStateData(reloaded))

	bergen, ok := reloaded.FindCounty("Bergen")
	require.True(t, ok)

	hackensack, _ := bergen.FindTown("Hackensack")
	o := hackensack.Overview
	require.NotNil(t, o)
	assert.Equal(t, 2023, o.AsOfYear)
	assert.Equal(t, domain.ScopeTown, o.BillScope)
	assert.Equal(t, domain.ScopeCounty, o.TrendScope)
	assert.True(t, o.TrendPct.Equal(decimal.NewFromInt(10)), "trend %s", o.TrendPct)
	require.NotNil(t, o.Trend5y)
	assert.Equal(t, 2019, o.Trend5y.StartYear)
	assert.Len(t, o.Sources, 2)

	teaneck, _ := bergen.FindTown("teaneck")
	require.NotNil(t, teaneck.Overview)
	assert.True(t, teaneck.Overview.UsesCountyContext())
	assert.True(t, teaneck.Overview.AvgResidentialTaxBill.Equal(decimal.NewFromInt(12100)))

	rows, err := storage.BuildOverviewRows(reloaded)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestOutputGeneration(t *testing.T) {
	ds := loadDataset(t)
	result, err := calculation.NewTaxCalculator(ds.Rates).CalculatePropertyTax(domain.TaxInput{
		HomeValue: decimal.NewFromInt(400000), County: "Bergen", Town: "Hackensack",
	})
	require.NoError(t, err)

	for _, format := range []string{"console", "json", "csv"} {
		var buf bytes.Buffer
		assert.NoError(t, output.GenerateReport(&buf, result, format), format)
		assert.NotEmpty(t, buf.String(), format)
	}

	overview.NewBuilder().BuildAll(ds.State)
	county, _ := ds.State.FindCounty("bergen")
	town, _ := county.FindTown("ridgewood")
	report := output.NewOverviewReport(ds.State, county, town)
	for _, format := range []string{"console", "json", "html"} {
		var buf bytes.Buffer
		assert.NoError(t, output.GenerateOverviewReport(&buf, report, format), format)
		assert.Contains(t, buf.String(), "Ridgewood", format)
	}
}
