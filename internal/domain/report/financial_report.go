package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportType classifies the reporting window shape
type ReportType string

const (
	ReportTypeMonthly   ReportType = "MONTHLY"
	ReportTypeQuarterly ReportType = "QUARTERLY"
	ReportTypeAnnual    ReportType = "ANNUAL"
	ReportTypeCustom    ReportType = "CUSTOM"
)

// IsValid checks if the report type is known
func (t ReportType) IsValid() bool {
	switch t {
	case ReportTypeMonthly, ReportTypeQuarterly, ReportTypeAnnual, ReportTypeCustom:
		return true
	}
	return false
}

// String returns the string representation of ReportType
func (t ReportType) String() string {
	return string(t)
}

// FinancialReport is a derived, cacheable read model aggregating revenue,
// refunds and transaction counts over [StartDate, EndDate). It is never
// hand-edited and is safely rebuildable from payment and refund records.
type FinancialReport struct {
	Type             ReportType      `json:"type"`
	Period           string          `json:"period"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalRefunds     decimal.Decimal `json:"total_refunds"`
	NetRevenue       decimal.Decimal `json:"net_revenue"`
	TransactionCount int64           `json:"transaction_count"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// Filter defines optional dimensions a report can be narrowed by
type Filter struct {
	CourseID  *uuid.UUID `json:"course_id,omitempty"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
}

// MonthLabel returns the monthly period label for a date, e.g. "2024-06"
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// QuarterLabel returns the quarterly period label for a date, e.g. "2024-Q2"
func QuarterLabel(t time.Time) string {
	return fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
}

// YearLabel returns the annual period label for a date, e.g. "2024"
func YearLabel(t time.Time) string {
	return fmt.Sprintf("%04d", t.Year())
}

// PeriodLabelsContaining returns every standard period label whose window
// contains the given date. A completed refund against a payment dated t
// staleness-marks the cached reports for each of these labels.
func PeriodLabelsContaining(t time.Time) []string {
	return []string{MonthLabel(t), QuarterLabel(t), YearLabel(t)}
}
