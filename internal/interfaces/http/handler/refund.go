package handler

import (
	"fmt"
	"time"

	refundapp "github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/application/refund"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/refund"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/telemetry"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RefundHandler handles refund workflow API endpoints
type RefundHandler struct {
	BaseHandler
	refunds *refundapp.WorkflowService
	metrics *telemetry.Metrics
}

// NewRefundHandler creates a new RefundHandler
func NewRefundHandler(refunds *refundapp.WorkflowService, metrics *telemetry.Metrics) *RefundHandler {
	return &RefundHandler{refunds: refunds, metrics: metrics}
}

// RefundResponse represents a refund in API responses
type RefundResponse struct {
	ID          string            `json:"id"`
	PaymentID   string            `json:"payment_id"`
	Amount      string            `json:"amount"`
	Currency    string            `json:"currency"`
	FullRefund  bool              `json:"full_refund"`
	Reason      string            `json:"reason"`
	Notes       string            `json:"notes,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Status      string            `json:"status"`
	RetryCount  int               `json:"retry_count"`
	FailReason  string            `json:"fail_reason,omitempty"`
	RequestedAt time.Time         `json:"requested_at"`
	ApprovedAt  *time.Time        `json:"approved_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	FailedAt    *time.Time        `json:"failed_at,omitempty"`
	RejectedAt  *time.Time        `json:"rejected_at,omitempty"`
	Version     int               `json:"version"`
}

func toRefundResponse(r *refund.Refund) RefundResponse {
	return RefundResponse{
		ID:          r.ID.String(),
		PaymentID:   r.PaymentID.String(),
		Amount:      r.Amount.StringFixed(2),
		Currency:    r.Currency,
		FullRefund:  r.FullRefund,
		Reason:      r.Reason,
		Notes:       r.Notes,
		Metadata:    r.Metadata,
		Status:      r.Status.String(),
		RetryCount:  r.RetryCount,
		FailReason:  r.FailReason,
		RequestedAt: r.RequestedAt,
		ApprovedAt:  r.ApprovedAt,
		CompletedAt: r.CompletedAt,
		FailedAt:    r.FailedAt,
		RejectedAt:  r.RejectedAt,
		Version:     r.Version,
	}
}

// ApproveRefundRequest carries optional reviewer notes
type ApproveRefundRequest struct {
	Notes string `json:"notes"`
}

// RejectRefundRequest carries the rejection reason
type RejectRefundRequest struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

// AnnotateRefundRequest carries metadata entries to merge into a refund
type AnnotateRefundRequest struct {
	Metadata map[string]string `json:"metadata" binding:"required"`
}

// ListRefundsRequest captures the list endpoint's query parameters
type ListRefundsRequest struct {
	PaymentID string `form:"payment_id"`
	Status    string `form:"status"`
	From      string `form:"from"`
	To        string `form:"to"`
	Page      int    `form:"page,default=1"`
	PageSize  int    `form:"page_size,default=20"`
}

// RegisterRoutes registers refund routes on the API group
func (h *RefundHandler) RegisterRoutes(rg *gin.RouterGroup) {
	refunds := rg.Group("/refunds")
	{
		refunds.POST("", h.Request)
		refunds.GET("", h.List)
		refunds.GET("/:id", h.Get)
		refunds.POST("/:id/approve", h.Approve)
		refunds.POST("/:id/reject", h.Reject)
		refunds.POST("/:id/process", h.Process)
		refunds.POST("/:id/retry", h.Retry)
		refunds.PATCH("/:id/metadata", h.Annotate)
	}
}

// Request opens a refund request against a payment
func (h *RefundHandler) Request(c *gin.Context) {
	var input refundapp.RequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	r, err := h.refunds.RequestRefund(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, toRefundResponse(r))
}

// Get returns a single refund by ID
func (h *RefundHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	r, err := h.refunds.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, toRefundResponse(r))
}

// List returns refunds matching the query filters, paginated
func (h *RefundHandler) List(c *gin.Context) {
	var req ListRefundsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeBadRequest, err.Error())
		return
	}

	filter, err := req.toFilter()
	if err != nil {
		h.BadRequest(c, dto.ErrCodeBadRequest, err.Error())
		return
	}

	items, total, err := h.refunds.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	responses := make([]RefundResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toRefundResponse(&items[i]))
	}
	h.SuccessWithMeta(c, responses, filter.Page, filter.PageSize, total)
}

// Approve moves a refund from REQUESTED to APPROVED
func (h *RefundHandler) Approve(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req ApproveRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	r, err := h.refunds.Approve(c.Request.Context(), id, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, toRefundResponse(r))
}

// Reject terminally rejects a requested refund
func (h *RefundHandler) Reject(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req RejectRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	r, err := h.refunds.Reject(c.Request.Context(), id, req.Reason, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, toRefundResponse(r))
}

// Process executes an approved refund. A refund that fails at the
// payment provider is returned with status FAILED, not as an HTTP error.
func (h *RefundHandler) Process(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	r, err := h.refunds.ProcessWithRetry(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RefundsProcessed.WithLabelValues(r.Status.String()).Inc()
	}
	h.Success(c, toRefundResponse(r))
}

// Retry re-queues a failed refund for processing
func (h *RefundHandler) Retry(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	r, err := h.refunds.Retry(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, toRefundResponse(r))
}

// Annotate merges metadata entries into a refund in any state
func (h *RefundHandler) Annotate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req AnnotateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	r, err := h.refunds.AnnotateMetadata(c.Request.Context(), id, req.Metadata)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, toRefundResponse(r))
}

func (h *RefundHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, dto.ErrCodeBadRequest, "invalid refund id")
		return uuid.Nil, false
	}
	return id, true
}

func (r ListRefundsRequest) toFilter() (refund.Filter, error) {
	filter := refund.Filter{Page: r.Page, PageSize: r.PageSize}

	if r.PaymentID != "" {
		id, err := uuid.Parse(r.PaymentID)
		if err != nil {
			return filter, err
		}
		filter.PaymentID = &id
	}
	if r.Status != "" {
		status := refund.Status(r.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("unknown refund status %q", r.Status)
		}
		filter.Status = &status
	}
	if r.From != "" {
		from, err := time.Parse(time.RFC3339, r.From)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &from
	}
	if r.To != "" {
		to, err := time.Parse(time.RFC3339, r.To)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &to
	}
	return filter, nil
}
