package models

import (
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for payments
type PaymentModel struct {
	AggregateModel
	StudentID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CourseID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	RefundedAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null"`
	Status         string          `gorm:"type:varchar(32);not null;index"`
	PaidAt         *time.Time      `gorm:"index"`
}

// TableName returns the table name for PaymentModel
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts PaymentModel to a domain Payment
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		StudentID:         m.StudentID,
		CourseID:          m.CourseID,
		Amount:            m.Amount,
		RefundedAmount:    m.RefundedAmount,
		Currency:          m.Currency,
		Status:            payment.Status(m.Status),
		PaidAt:            m.PaidAt,
	}
}

// PaymentModelFromDomain converts a domain Payment to PaymentModel
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{
		StudentID:      p.StudentID,
		CourseID:       p.CourseID,
		Amount:         p.Amount,
		RefundedAmount: p.RefundedAmount,
		Currency:       p.Currency,
		Status:         p.Status.String(),
		PaidAt:         p.PaidAt,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
