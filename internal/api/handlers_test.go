package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rgehrsitz/njtax/internal/config"
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/rgehrsitz/njtax/internal/overview"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *config.Dataset {
	point := func(year int, value string, unit domain.Unit) domain.MetricSeries {
		return domain.MetricSeries{{Year: year, Value: decimal.RequireFromString(value), Unit: unit, SourceRef: "njdca"}}
	}
	state := &domain.StateData{
		Name:         "New Jersey",
		Slug:         "new-jersey",
		Abbreviation: "NJ",
		AsOfYear:     2023,
		Sources:      map[string]domain.Source{"njdca": {Publisher: "NJ DCA", HomepageURL: "https://www.nj.gov/dca/"}},
		Metrics:      &domain.StateMetrics{AverageTaxRate: point(2023, "1.80", domain.UnitPercent)},
		Counties: []domain.CountyData{
			{
				Name:    "Bergen",
				Slug:    "bergen",
				Metrics: &domain.CountyMetrics{EffectiveTaxRate: point(2023, "2.00", domain.UnitPercent), AverageResidentialTaxBill: point(2023, "12000", domain.UnitUSD)},
				Towns: []domain.TownData{
					{Name: "Hackensack", Slug: "hackensack", AsOfYear: 2023, Tier: 1, Metrics: &domain.TownMetrics{
						EffectiveTaxRate:          point(2023, "2.10", domain.UnitPercent),
						AverageResidentialTaxBill: point(2023, "9000", domain.UnitUSD),
					}},
					{Name: "Teaneck", Slug: "teaneck", AsOfYear: 2023},
				},
			},
		},
	}
	county := &state.Counties[0]
	county.Towns[0].Overview = overview.BuildTownOverviewFromMetrics(&county.Towns[0], county, state)

	return &config.Dataset{
		Rates: domain.RateTables{
			County:     domain.RateTable{"Bergen": decimal.RequireFromString("0.0234"), "Cape May": decimal.RequireFromString("0.011")},
			Municipal:  domain.MunicipalRateTable{"Bergen": {"Hackensack": decimal.RequireFromString("0.005")}},
			Exemptions: domain.ExemptionTable{"senior": decimal.NewFromInt(250), "veteran": decimal.NewFromInt(250)},
		},
		State: state,
	}
}

func setupRouter() *gin.Engine {
	return NewServer(testDataset(), nil, nil).Router(gin.TestMode)
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestHealth(t *testing.T) {
	w, body := doRequest(t, setupRouter(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err, "every response carries a request id")
}

func TestRequestID_ReusesCallerID(t *testing.T) {
	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()

	setupRouter().ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get(RequestIDHeader))
}

func TestCalculate_CountyOnly(t *testing.T) {
	w, body := doRequest(t, setupRouter(), http.MethodPost, "/api/v1/calculate", map[string]any{
		"homeValue": 400000,
		"county":    "Bergen",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9360", body["annualTax"])
	assert.Equal(t, "780", body["monthlyTax"])
	assert.Equal(t, "2.34", body["effectiveRate"])
}

func TestCalculate_WithTownAndExemption(t *testing.T) {
	w, body := doRequest(t, setupRouter(), http.MethodPost, "/api/v1/calculate", map[string]any{
		"homeValue":    "400000",
		"county":       "Bergen",
		"town":         "Hackensack",
		"propertyType": "condo",
		"exemptions":   []string{"senior", "unknown"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	// 9360 + 2000 - 250
	assert.Equal(t, "11110", body["annualTax"])
	assert.Equal(t, "condo", body["propertyType"])
}

func TestCalculate_ValidationErrors(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"missing home value", map[string]any{"county": "Bergen"}, "homeValue"},
		{"zero home value", map[string]any{"homeValue": 0, "county": "Bergen"}, "homeValue"},
		{"negative home value", map[string]any{"homeValue": -5, "county": "Bergen"}, "homeValue"},
		{"missing county", map[string]any{"homeValue": 400000}, "county"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doRequest(t, router, http.MethodPost, "/api/v1/calculate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.field, body["field"])
			assert.NotEmpty(t, body["requestId"])
		})
	}
}

func TestCalculate_MalformedBody(t *testing.T) {
	w, body := doRequest(t, setupRouter(), http.MethodPost, "/api/v1/calculate", `{"homeValue":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", body["error"])
}

func TestCalculate_UnknownCounty(t *testing.T) {
	w, body := doRequest(t, setupRouter(), http.MethodPost, "/api/v1/calculate", map[string]any{
		"homeValue": 400000,
		"county":    "Atlantis",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Atlantis", body["county"])
	assert.Contains(t, body["error"], "Atlantis")
	assert.Nil(t, body["annualTax"], "no partial result")
}

func TestExemptions(t *testing.T) {
	w, body := doRequest(t, setupRouter(), http.MethodGet, "/api/v1/exemptions", nil)

	require.Equal(t, http.StatusOK, w.Code)
	exemptions := body["exemptions"].([]any)
	require.Len(t, exemptions, 2)
	assert.Equal(t, "senior", exemptions[0].(map[string]any)["id"])
}

func TestCounties(t *testing.T) {
	w, body := doRequest(t, setupRouter(), http.MethodGet, "/api/v1/counties", nil)

	require.Equal(t, http.StatusOK, w.Code)
	counties := body["counties"].([]any)
	require.Len(t, counties, 2)

	bergen := counties[0].(map[string]any)
	assert.Equal(t, "Bergen", bergen["name"])
	assert.Equal(t, "bergen", bergen["slug"])
	assert.Equal(t, "2.34", bergen["ratePct"])
	assert.EqualValues(t, 2, bergen["townCount"])

	capeMay := counties[1].(map[string]any)
	assert.Equal(t, "Cape May", capeMay["name"])
	assert.EqualValues(t, 0, capeMay["townCount"])
}

func TestTowns(t *testing.T) {
	router := setupRouter()

	w, body := doRequest(t, router, http.MethodGet, "/api/v1/counties/BERGEN/towns", nil)
	require.Equal(t, http.StatusOK, w.Code)
	towns := body["towns"].([]any)
	require.Len(t, towns, 2)
	assert.Equal(t, true, towns[0].(map[string]any)["hasOverview"])
	assert.Equal(t, false, towns[1].(map[string]any)["hasOverview"])

	w, _ = doRequest(t, router, http.MethodGet, "/api/v1/counties/atlantis/towns", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOverview(t *testing.T) {
	router := setupRouter()

	w, body := doRequest(t, router, http.MethodGet, "/api/v1/counties/bergen/towns/hackensack/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hackensack", body["town"])
	o := body["overview"].(map[string]any)
	assert.Equal(t, "2.1", o["effectiveTaxRatePct"])
	comparisons := o["comparisons"].(map[string]any)
	assert.Equal(t, "about_the_same", comparisons["vsCounty"])
	assert.Equal(t, "higher", comparisons["vsState"])

	w, body = doRequest(t, router, http.MethodGet, "/api/v1/counties/bergen/towns/teaneck/overview", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no overview for Teaneck", body["error"])

	w, _ = doRequest(t, router, http.MethodGet, "/api/v1/counties/bergen/towns/nowhere/overview", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRanking(t *testing.T) {
	router := setupRouter()

	w, body := doRequest(t, router, http.MethodGet, "/api/v1/counties/bergen/ranking", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := body["entries"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "Hackensack", entries[0].(map[string]any)["townName"])
	assert.Equal(t, []any{"Teaneck"}, body["unranked"])

	w, body = doRequest(t, router, http.MethodGet, "/api/v1/counties/bergen/ranking?metric=medianHomeValue", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "metric", body["field"])
}
