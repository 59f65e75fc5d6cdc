package handler

import (
	"time"

	taxapp "github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/application/tax"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/tax"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxHandler handles tax rate management and resolution endpoints
type TaxHandler struct {
	BaseHandler
	tax *taxapp.Service
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(tax *taxapp.Service) *TaxHandler {
	return &TaxHandler{tax: tax}
}

// TaxRateResponse represents a tax rate in API responses
type TaxRateResponse struct {
	ID            string            `json:"id"`
	Country       string            `json:"country"`
	State         string            `json:"state,omitempty"`
	Region        string            `json:"region,omitempty"`
	Rate          string            `json:"rate"`
	RateType      string            `json:"rate_type"`
	Active        bool              `json:"active"`
	EffectiveFrom *time.Time        `json:"effective_from,omitempty"`
	EffectiveTo   *time.Time        `json:"effective_to,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Version       int               `json:"version"`
}

func toTaxRateResponse(r *tax.TaxRate) TaxRateResponse {
	return TaxRateResponse{
		ID:            r.ID.String(),
		Country:       r.Country,
		State:         r.State,
		Region:        r.Region,
		Rate:          r.Rate.StringFixed(2),
		RateType:      string(r.RateType),
		Active:        r.Active,
		EffectiveFrom: r.EffectiveFrom,
		EffectiveTo:   r.EffectiveTo,
		Metadata:      r.Metadata,
		Version:       r.Version,
	}
}

// ResolutionResponse represents a resolved rate in API responses
type ResolutionResponse struct {
	Rate         string `json:"rate"`
	RateType     string `json:"rate_type"`
	RateID       string `json:"rate_id"`
	Jurisdiction string `json:"jurisdiction"`
}

// CalculationResponse represents a tax computation in API responses
type CalculationResponse struct {
	Amount       string `json:"amount"`
	Rate         string `json:"rate"`
	TaxAmount    string `json:"tax_amount"`
	Total        string `json:"total"`
	Jurisdiction string `json:"jurisdiction"`
}

// ResolveRateRequest captures the resolve endpoint's query parameters
type ResolveRateRequest struct {
	Country string `form:"country" binding:"required"`
	State   string `form:"state"`
	Region  string `form:"region"`
	AsOf    string `form:"as_of"`
}

// CalculateTaxRequest carries the fields for a tax computation
type CalculateTaxRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Country string          `json:"country" binding:"required"`
	State   string          `json:"state"`
	Region  string          `json:"region"`
	AsOf    *time.Time      `json:"as_of"`
}

// RegisterRoutes registers tax routes on the API group
func (h *TaxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	taxes := rg.Group("/tax")
	{
		taxes.POST("/rates", h.CreateRate)
		taxes.GET("/rates", h.ListRates)
		taxes.DELETE("/rates/:id", h.DeactivateRate)
		taxes.GET("/resolve", h.Resolve)
		taxes.POST("/calculate", h.Calculate)
	}
}

// CreateRate registers a new tax rate for a jurisdiction
func (h *TaxHandler) CreateRate(c *gin.Context) {
	var input taxapp.CreateRateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	rate, err := h.tax.CreateRate(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, toTaxRateResponse(rate))
}

// ListRates returns all registered tax rates
func (h *TaxHandler) ListRates(c *gin.Context) {
	rates, err := h.tax.ListRates(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]TaxRateResponse, 0, len(rates))
	for i := range rates {
		responses = append(responses, toTaxRateResponse(&rates[i]))
	}
	h.Success(c, responses)
}

// DeactivateRate removes a rate from resolution without deleting its history
func (h *TaxHandler) DeactivateRate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, dto.ErrCodeBadRequest, "invalid rate id")
		return
	}

	if err := h.tax.DeactivateRate(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Resolve finds the applicable rate for a jurisdiction at an instant,
// defaulting to now
func (h *TaxHandler) Resolve(c *gin.Context) {
	var req ResolveRateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeBadRequest, err.Error())
		return
	}

	asOf := time.Now().UTC()
	if req.AsOf != "" {
		parsed, err := time.Parse(time.RFC3339, req.AsOf)
		if err != nil {
			h.BadRequest(c, dto.ErrCodeBadRequest, "as_of must be RFC 3339")
			return
		}
		asOf = parsed
	}

	jurisdiction := tax.NewJurisdiction(req.Country, req.State, req.Region)
	resolution, err := h.tax.ResolveRate(c.Request.Context(), jurisdiction, asOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, ResolutionResponse{
		Rate:         resolution.Rate.StringFixed(2),
		RateType:     string(resolution.RateType),
		RateID:       resolution.RateID.String(),
		Jurisdiction: resolution.AppliedFrom.Key(),
	})
}

// Calculate resolves the applicable rate and computes tax for an amount
func (h *TaxHandler) Calculate(c *gin.Context) {
	var req CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	asOf := time.Now().UTC()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	jurisdiction := tax.NewJurisdiction(req.Country, req.State, req.Region)
	calc, err := h.tax.CalculateTax(c.Request.Context(), req.Amount, jurisdiction, asOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, CalculationResponse{
		Amount:       calc.Amount.StringFixed(2),
		Rate:         calc.Rate.StringFixed(2),
		TaxAmount:    calc.TaxAmount.StringFixed(2),
		Total:        calc.Total.StringFixed(2),
		Jurisdiction: calc.AppliedFrom.Key(),
	})
}
