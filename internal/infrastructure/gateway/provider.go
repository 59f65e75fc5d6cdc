// Package gateway moves funds back to students through the payment
// provider's API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	refundapp "github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/application/refund"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const reversalPath = "/v1/reversals"

// ProviderGateway reverses funds by calling the payment provider's
// reversal endpoint. Amounts are sent in minor units.
type ProviderGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

var _ refundapp.FundsMover = (*ProviderGateway)(nil)

// NewProviderGateway creates a gateway from configuration
func NewProviderGateway(cfg config.GatewayConfig, logger *zap.Logger) *ProviderGateway {
	return &ProviderGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type reversalRequest struct {
	Reference   string `json:"reference"`
	PaymentID   string `json:"payment_id"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

type reversalError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Reverse sends the reversal and treats any non-2xx reply as failure.
// The caller records failures on the refund; nothing is retried here.
func (g *ProviderGateway) Reverse(ctx context.Context, refundID, paymentID uuid.UUID, amount decimal.Decimal, currency string) error {
	body, err := json.Marshal(reversalRequest{
		Reference:   refundID.String(),
		PaymentID:   paymentID.String(),
		AmountMinor: amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:    currency,
	})
	if err != nil {
		return fmt.Errorf("marshal reversal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+reversalPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build reversal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	// Keyed on the refund so a retried movement never double-pays while
	// two distinct refunds of equal amounts each move funds
	req.Header.Set("Idempotency-Key", refundID.String())

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("call payment provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		g.logger.Info("funds reversed",
			zap.String("refund_id", refundID.String()),
			zap.String("payment_id", paymentID.String()),
			zap.String("amount", amount.StringFixed(2)),
			zap.String("currency", currency),
			zap.Duration("elapsed", time.Since(start)))
		return nil
	}

	var provErr reversalError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if unmarshalErr := json.Unmarshal(raw, &provErr); unmarshalErr != nil || provErr.Message == "" {
		provErr.Message = string(raw)
	}
	g.logger.Warn("provider rejected reversal",
		zap.String("refund_id", refundID.String()),
		zap.String("payment_id", paymentID.String()),
		zap.Int("status", resp.StatusCode),
		zap.String("provider_code", provErr.Code),
		zap.String("provider_message", provErr.Message))
	return fmt.Errorf("provider rejected reversal (status %d): %s", resp.StatusCode, provErr.Message)
}
