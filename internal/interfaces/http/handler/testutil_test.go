package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/payment"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/refund"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/shared"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/tax"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, engine *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func dataField(t *testing.T, resp dto.Response, key string) interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is not an object: %#v", resp.Data)
	return data[key]
}

// ---- in-memory repository fakes ----

type fakeRefundRepo struct {
	items map[uuid.UUID]*refund.Refund
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{items: make(map[uuid.UUID]*refund.Refund)}
}

func (f *fakeRefundRepo) FindByID(_ context.Context, id uuid.UUID) (*refund.Refund, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRefundRepo) FindByPayment(_ context.Context, paymentID uuid.UUID) ([]refund.Refund, error) {
	var out []refund.Refund
	for _, r := range f.items {
		if r.PaymentID == paymentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRefundRepo) List(_ context.Context, filter refund.Filter) ([]refund.Refund, error) {
	var out []refund.Refund
	for _, r := range f.items {
		if filter.PaymentID != nil && r.PaymentID != *filter.PaymentID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRefundRepo) Count(ctx context.Context, filter refund.Filter) (int64, error) {
	items, err := f.List(ctx, filter)
	return int64(len(items)), err
}

func (f *fakeRefundRepo) Save(_ context.Context, r *refund.Refund) error {
	clone := *r
	f.items[r.ID] = &clone
	return nil
}

func (f *fakeRefundRepo) SaveWithLock(_ context.Context, r *refund.Refund) error {
	stored, ok := f.items[r.ID]
	if !ok || stored.Version != r.Version {
		return shared.ErrConcurrentModification
	}
	r.IncrementVersion()
	clone := *r
	f.items[r.ID] = &clone
	return nil
}

type fakePaymentRepo struct {
	items map[uuid.UUID]*payment.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{items: make(map[uuid.UUID]*payment.Payment)}
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*payment.Payment, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentRepo) Save(_ context.Context, p *payment.Payment) error {
	clone := *p
	f.items[p.ID] = &clone
	return nil
}

func (f *fakePaymentRepo) SaveWithLock(_ context.Context, p *payment.Payment) error {
	stored, ok := f.items[p.ID]
	if !ok || stored.Version != p.Version {
		return shared.ErrConcurrentModification
	}
	p.IncrementVersion()
	clone := *p
	f.items[p.ID] = &clone
	return nil
}

type fakeFundsMover struct {
	calls int
	err   error
}

func (f *fakeFundsMover) Reverse(context.Context, uuid.UUID, uuid.UUID, decimal.Decimal, string) error {
	f.calls++
	return f.err
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...shared.DomainEvent) error { return nil }

type fakeTaxRepo struct {
	items map[uuid.UUID]*tax.TaxRate
}

func newFakeTaxRepo() *fakeTaxRepo {
	return &fakeTaxRepo{items: make(map[uuid.UUID]*tax.TaxRate)}
}

func (f *fakeTaxRepo) FindByID(_ context.Context, id uuid.UUID) (*tax.TaxRate, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (f *fakeTaxRepo) FindActiveByJurisdiction(_ context.Context, j tax.Jurisdiction) ([]tax.TaxRate, error) {
	var out []tax.TaxRate
	for _, r := range f.items {
		if r.Active && r.Country == j.Country && r.State == j.State && r.Region == j.Region {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeTaxRepo) List(_ context.Context) ([]tax.TaxRate, error) {
	var out []tax.TaxRate
	for _, r := range f.items {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeTaxRepo) Save(_ context.Context, r *tax.TaxRate) error {
	clone := *r
	f.items[r.ID] = &clone
	return nil
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Equal(t, code, resp.Error.Code)
}
