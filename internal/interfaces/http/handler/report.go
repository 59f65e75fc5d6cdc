package handler

import (
	"time"

	reportapp "github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/application/report"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/report"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/telemetry"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler handles financial report endpoints
type ReportHandler struct {
	BaseHandler
	reports *reportapp.Service
	metrics *telemetry.Metrics
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *reportapp.Service, metrics *telemetry.Metrics) *ReportHandler {
	return &ReportHandler{reports: reports, metrics: metrics}
}

// ReportResponse represents a financial report in API responses
type ReportResponse struct {
	Type             string    `json:"type"`
	Period           string    `json:"period"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	TotalRevenue     string    `json:"total_revenue"`
	TotalRefunds     string    `json:"total_refunds"`
	NetRevenue       string    `json:"net_revenue"`
	TransactionCount int64     `json:"transaction_count"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// GenerateReportRequest captures the report endpoint's query parameters.
// Standard types take a period label; CUSTOM takes an explicit window.
type GenerateReportRequest struct {
	Type      string `form:"type" binding:"required"`
	Period    string `form:"period"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	CourseID  string `form:"course_id"`
	StudentID string `form:"student_id"`
}

// RegisterRoutes registers report routes on the API group
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("", h.Generate)
		reports.GET("/cache/stats", h.CacheStats)
	}
}

// Generate returns the financial report for the requested period
func (h *ReportHandler) Generate(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeBadRequest, err.Error())
		return
	}

	appReq, err := req.toRequest()
	if err != nil {
		h.BadRequest(c, dto.ErrCodeBadRequest, err.Error())
		return
	}

	result, err := h.reports.Generate(c.Request.Context(), appReq)
	if err != nil {
		h.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ReportsGenerated.WithLabelValues(string(result.Type)).Inc()
	}

	h.Success(c, ReportResponse{
		Type:             string(result.Type),
		Period:           result.Period,
		StartDate:        result.StartDate,
		EndDate:          result.EndDate,
		TotalRevenue:     result.TotalRevenue.StringFixed(2),
		TotalRefunds:     result.TotalRefunds.StringFixed(2),
		NetRevenue:       result.NetRevenue.StringFixed(2),
		TransactionCount: result.TransactionCount,
		GeneratedAt:      result.GeneratedAt,
	})
}

// CacheStats returns hit and miss counters for the report cache
func (h *ReportHandler) CacheStats(c *gin.Context) {
	h.Success(c, h.reports.CacheStats())
}

func (r GenerateReportRequest) toRequest() (reportapp.Request, error) {
	req := reportapp.Request{
		Type:   report.ReportType(r.Type),
		Period: r.Period,
	}

	if r.StartDate != "" {
		start, err := time.Parse(time.RFC3339, r.StartDate)
		if err != nil {
			return req, err
		}
		req.StartDate = start
	}
	if r.EndDate != "" {
		end, err := time.Parse(time.RFC3339, r.EndDate)
		if err != nil {
			return req, err
		}
		req.EndDate = end
	}
	if r.CourseID != "" {
		id, err := uuid.Parse(r.CourseID)
		if err != nil {
			return req, err
		}
		req.Filter.CourseID = &id
	}
	if r.StudentID != "" {
		id, err := uuid.Parse(r.StudentID)
		if err != nil {
			return req, err
		}
		req.Filter.StudentID = &id
	}
	return req, nil
}
