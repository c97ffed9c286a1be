package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/rgehrsitz/njtax/internal/output"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateRequest is the estimator request body
type CalculateRequest struct {
	HomeValue    *decimal.Decimal `json:"homeValue"`
	County       string           `json:"county"`
	Town         string           `json:"town,omitempty"`
	PropertyType string           `json:"propertyType,omitempty"`
	Exemptions   []string         `json:"exemptions,omitempty"`
}

// ExemptionInfo is one entry of the exemption catalog
type ExemptionInfo struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// CountyInfo summarizes a county for listings
type CountyInfo struct {
	Name      string           `json:"name"`
	Slug      string           `json:"slug,omitempty"`
	RatePct   *decimal.Decimal `json:"ratePct,omitempty"`
	TownCount int              `json:"townCount"`
}

// TownInfo summarizes a town for listings
type TownInfo struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Tier        int    `json:"tier,omitempty"`
	AsOfYear    int    `json:"asOfYear,omitempty"`
	HasOverview bool   `json:"hasOverview"`
}

// Health reports liveness
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "state": s.dataset.State.Abbreviation})
}

// Calculate runs the estimator
func (s *Server) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "requestId": GetRequestID(c)})
		return
	}
	if req.HomeValue == nil {
		s.respondError(c, &calculation.ValidationError{Field: "homeValue", Message: "is required"})
		return
	}

	result, err := s.calculator.CalculatePropertyTax(domain.TaxInput{
		HomeValue:    *req.HomeValue,
		County:       req.County,
		Town:         req.Town,
		PropertyType: req.PropertyType,
		Exemptions:   req.Exemptions,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Exemptions lists the exemption catalog
func (s *Server) Exemptions(c *gin.Context) {
	table := s.dataset.Rates.Exemptions
	exemptions := make([]ExemptionInfo, 0, len(table))
	for _, id := range table.IDs() {
		exemptions = append(exemptions, ExemptionInfo{ID: id, Amount: table[id]})
	}
	c.JSON(http.StatusOK, gin.H{"exemptions": exemptions})
}

// Counties lists every county with a published rate
func (s *Server) Counties(c *gin.Context) {
	names := s.dataset.Rates.County.Counties()
	counties := make([]CountyInfo, 0, len(names))
	for _, name := range names {
		rate, _ := s.dataset.Rates.County.Lookup(name)
		pct := rate.Mul(hundred)
		info := CountyInfo{Name: name, RatePct: &pct}
		if county, ok := s.dataset.State.FindCounty(name); ok {
			info.Slug = county.Slug
			info.TownCount = len(county.Towns)
		}
		counties = append(counties, info)
	}
	c.JSON(http.StatusOK, gin.H{"counties": counties})
}

// Towns lists the towns of a county
func (s *Server) Towns(c *gin.Context) {
	county, ok := s.dataset.State.FindCounty(c.Param("county"))
	if !ok {
		notFound(c, "county not found: "+c.Param("county"))
		return
	}

	towns := make([]TownInfo, 0, len(county.Towns))
	for _, town := range county.Towns {
		towns = append(towns, TownInfo{
			Name:        town.Name,
			Slug:        town.Slug,
			Tier:        town.Tier,
			AsOfYear:    town.AsOfYear,
			HasOverview: town.Overview != nil,
		})
	}
	c.JSON(http.StatusOK, gin.H{"county": county.Name, "towns": towns})
}

// Overview returns the stored overview for a town
func (s *Server) Overview(c *gin.Context) {
	county, ok := s.dataset.State.FindCounty(c.Param("county"))
	if !ok {
		notFound(c, "county not found: "+c.Param("county"))
		return
	}
	town, ok := county.FindTown(c.Param("town"))
	if !ok {
		notFound(c, "town not found: "+c.Param("town"))
		return
	}
	if town.Overview == nil {
		notFound(c, "no overview for "+town.Name)
		return
	}

	c.JSON(http.StatusOK, output.NewOverviewReport(s.dataset.State, county, town))
}

// Ranking orders a county's towns by a metric, average bill by default
func (s *Server) Ranking(c *gin.Context) {
	county, ok := s.dataset.State.FindCounty(c.Param("county"))
	if !ok {
		notFound(c, "county not found: "+c.Param("county"))
		return
	}

	key := domain.MetricKey(c.DefaultQuery("metric", string(domain.AverageResidentialTaxBill)))
	if key != domain.AverageResidentialTaxBill && key != domain.EffectiveTaxRate {
		s.respondError(c, &calculation.ValidationError{Field: "metric", Message: "must be averageResidentialTaxBill or effectiveTaxRate"})
		return
	}

	c.JSON(http.StatusOK, s.deriver.RankTowns(county, key))
}
