package models

import (
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/refund"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundModel is the persistence model for refunds
type RefundModel struct {
	AggregateModel
	PaymentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency   string          `gorm:"type:varchar(3);not null"`
	FullRefund bool            `gorm:"not null"`
	Reason     string          `gorm:"type:text;not null"`
	Notes      string          `gorm:"type:text"`
	Metadata   JSONMap         `gorm:"type:jsonb"`
	Status     string          `gorm:"type:varchar(32);not null;index"`
	RetryCount int             `gorm:"not null;default:0"`
	FailReason string          `gorm:"type:text"`

	RequestedAt time.Time  `gorm:"not null;index"`
	ApprovedAt  *time.Time ``
	CompletedAt *time.Time ``
	FailedAt    *time.Time ``
	RejectedAt  *time.Time ``
}

// TableName returns the table name for RefundModel
func (RefundModel) TableName() string {
	return "refunds"
}

// ToDomain converts RefundModel to a domain Refund
func (m *RefundModel) ToDomain() *refund.Refund {
	return &refund.Refund{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PaymentID:         m.PaymentID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		FullRefund:        m.FullRefund,
		Reason:            m.Reason,
		Notes:             m.Notes,
		Metadata:          m.Metadata,
		Status:            refund.Status(m.Status),
		RetryCount:        m.RetryCount,
		FailReason:        m.FailReason,
		RequestedAt:       m.RequestedAt,
		ApprovedAt:        m.ApprovedAt,
		CompletedAt:       m.CompletedAt,
		FailedAt:          m.FailedAt,
		RejectedAt:        m.RejectedAt,
	}
}

// RefundModelFromDomain converts a domain Refund to RefundModel
func RefundModelFromDomain(r *refund.Refund) *RefundModel {
	m := &RefundModel{
		PaymentID:   r.PaymentID,
		Amount:      r.Amount,
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
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}
