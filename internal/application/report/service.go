package report

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/report"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/cache"
	"go.uber.org/zap"
)

const (
	defaultHotTTL = 5 * time.Minute
	// Closed periods never expire on their own; only a completed refund
	// against the period invalidates them
	defaultClosedTTL = 0

	keyPrefix    = "report:"
	customPeriod = "custom"
)

// Service generates financial reports through a read-through cache.
// Reports over closed periods are immutable until a refund against the
// period completes, so they cache without expiry; reports whose window
// is still open cache briefly.
type Service struct {
	payments report.PaymentQueryRepository
	refunds  report.RefundQueryRepository
	cache    *cache.ReadThroughCache
	logger   *zap.Logger

	hotTTL    time.Duration
	closedTTL time.Duration

	// now is replaceable in tests
	now func() time.Time
}

// ServiceOption is a functional option for configuring the report Service
type ServiceOption func(*Service)

// WithTTLs overrides the cache lifetimes for open and closed periods
func WithTTLs(hot, closed time.Duration) ServiceOption {
	return func(s *Service) {
		s.hotTTL = hot
		s.closedTTL = closed
	}
}

// NewService creates a new report Service
func NewService(
	payments report.PaymentQueryRepository,
	refunds report.RefundQueryRepository,
	c *cache.ReadThroughCache,
	logger *zap.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		payments:  payments,
		refunds:   refunds,
		cache:     c,
		logger:    logger,
		hotTTL:    defaultHotTTL,
		closedTTL: defaultClosedTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request identifies the report to generate. Standard types name a period
// label; CUSTOM supplies an explicit [StartDate, EndDate) window.
type Request struct {
	Type      report.ReportType `json:"type"`
	Period    string            `json:"period"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	Filter    report.Filter     `json:"filter"`
}

// Generate returns the financial report for the request, computing and
// caching it on a miss
func (s *Service) Generate(ctx context.Context, req Request) (*report.FinancialReport, error) {
	period, start, end, err := s.resolveWindow(req)
	if err != nil {
		return nil, err
	}

	key := cacheKey(period, req.Type, start, end, req.Filter)
	ttl := s.closedTTL
	if end.After(s.now()) {
		ttl = s.hotTTL
	}

	data, err := s.cache.GetOrCompute(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		result, err := s.aggregate(ctx, req.Type, period, start, end, req.Filter)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	})
	if err != nil {
		return nil, err
	}

	var result report.FinancialReport
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode cached report %s: %w", key, err)
	}
	return &result, nil
}

// CacheStats exposes the report cache's hit and miss counters
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

func (s *Service) aggregate(ctx context.Context, reportType report.ReportType, period string, start, end time.Time, filter report.Filter) (*report.FinancialReport, error) {
	revenue, err := s.payments.SumCompleted(ctx, start, end, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.payments.CountCompleted(ctx, start, end, filter)
	if err != nil {
		return nil, err
	}
	refunded, err := s.refunds.SumCompleted(ctx, start, end, filter)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("report aggregated",
		zap.String("period", period),
		zap.String("type", reportType.String()),
		zap.Int64("transactions", count))

	return &report.FinancialReport{
		Type:             reportType,
		Period:           period,
		StartDate:        start,
		EndDate:          end,
		TotalRevenue:     revenue,
		TotalRefunds:     refunded,
		NetRevenue:       revenue.Sub(refunded),
		TransactionCount: count,
		GeneratedAt:      s.now(),
	}, nil
}

// resolveWindow turns the request into a canonical (period, start, end)
// triple with a half-open [start, end) window in UTC
func (s *Service) resolveWindow(req Request) (string, time.Time, time.Time, error) {
	var zero time.Time

	switch req.Type {
	case report.ReportTypeMonthly:
		start, err := time.ParseInLocation("2006-01", req.Period, time.UTC)
		if err != nil {
			return "", zero, zero, shared.NewDomainError("INVALID_INPUT", "Monthly period must look like 2024-06")
		}
		return req.Period, start, start.AddDate(0, 1, 0), nil

	case report.ReportTypeQuarterly:
		var year, quarter int
		if _, err := fmt.Sscanf(req.Period, "%4d-Q%1d", &year, &quarter); err != nil || quarter < 1 || quarter > 4 {
			return "", zero, zero, shared.NewDomainError("INVALID_INPUT", "Quarterly period must look like 2024-Q2")
		}
		start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return req.Period, start, start.AddDate(0, 3, 0), nil

	case report.ReportTypeAnnual:
		start, err := time.ParseInLocation("2006", req.Period, time.UTC)
		if err != nil {
			return "", zero, zero, shared.NewDomainError("INVALID_INPUT", "Annual period must look like 2024")
		}
		return req.Period, start, start.AddDate(1, 0, 0), nil

	case report.ReportTypeCustom:
		if req.StartDate.IsZero() || req.EndDate.IsZero() || !req.StartDate.Before(req.EndDate) {
			return "", zero, zero, shared.NewDomainError("INVALID_INPUT", "Custom reports need a non-empty date range")
		}
		return customPeriod, req.StartDate.UTC(), req.EndDate.UTC(), nil

	default:
		return "", zero, zero, shared.NewDomainError("INVALID_INPUT", "Unknown report type")
	}
}

// cacheKey builds the canonical cache key for a report. The period label
// leads so invalidation can target everything in a period by prefix.
func cacheKey(period string, reportType report.ReportType, start, end time.Time, filter report.Filter) string {
	return fmt.Sprintf("%s%s:%s:%d:%d:%s",
		keyPrefix, period, reportType, start.Unix(), end.Unix(), filterHash(filter))
}

func filterHash(filter report.Filter) string {
	if filter.CourseID == nil && filter.StudentID == nil {
		return "none"
	}
	h := fnv.New64a()
	if filter.CourseID != nil {
		h.Write([]byte("c=" + filter.CourseID.String()))
	}
	if filter.StudentID != nil {
		h.Write([]byte("s=" + filter.StudentID.String()))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
