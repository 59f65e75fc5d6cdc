package handler

import (
	"context"
	"net/http"
	"testing"

	taxapp "github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/application/tax"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/domain/tax"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaxHandlerFixture(t *testing.T) (*gin.Engine, *fakeTaxRepo) {
	t.Helper()
	repo := newFakeTaxRepo()
	engine := gin.New()
	NewTaxHandler(taxapp.NewService(repo)).RegisterRoutes(engine.Group("/api/v1"))
	return engine, repo
}

func seedHandlerRate(t *testing.T, repo *fakeTaxRepo, country, state, region string, rate float64) *tax.TaxRate {
	t.Helper()
	r, err := tax.NewTaxRate(tax.NewJurisdiction(country, state, region),
		decimal.NewFromFloat(rate), tax.RateTypeSalesTax, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), r))
	return r
}

func TestCreateAndListRatesOverHTTP(t *testing.T) {
	engine, _ := newTaxHandlerFixture(t)

	rec := performRequest(t, engine, http.MethodPost, "/api/v1/tax/rates",
		`{"country":"us","state":"ca","rate":"7.25","rate_type":"SALES_TAX"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	assert.Equal(t, "US", dataField(t, resp, "country"))
	assert.Equal(t, "CA", dataField(t, resp, "state"))
	assert.Equal(t, "7.25", dataField(t, resp, "rate"))

	rec = performRequest(t, engine, http.MethodGet, "/api/v1/tax/rates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	items, ok := decodeResponse(t, rec).Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)

	t.Run("overlapping window is rejected", func(t *testing.T) {
		rec := performRequest(t, engine, http.MethodPost, "/api/v1/tax/rates",
			`{"country":"US","state":"CA","rate":"8.00","rate_type":"SALES_TAX"}`)
		assertErrorCode(t, rec, http.StatusConflict, "AMBIGUOUS_RATE")
	})

	t.Run("unknown rate type is rejected", func(t *testing.T) {
		rec := performRequest(t, engine, http.MethodPost, "/api/v1/tax/rates",
			`{"country":"DE","rate":"19","rate_type":"FANCY"}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})
}

func TestResolveRateOverHTTP(t *testing.T) {
	engine, repo := newTaxHandlerFixture(t)
	seedHandlerRate(t, repo, "US", "CA", "", 7.25)

	t.Run("falls back to the state rate", func(t *testing.T) {
		rec := performRequest(t, engine, http.MethodGet,
			"/api/v1/tax/resolve?country=US&state=CA&region=San+Francisco", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeResponse(t, rec)
		assert.Equal(t, "7.25", dataField(t, resp, "rate"))
		assert.Equal(t, "US/CA/", dataField(t, resp, "jurisdiction"))
	})

	t.Run("no applicable rate", func(t *testing.T) {
		rec := performRequest(t, engine, http.MethodGet, "/api/v1/tax/resolve?country=FR", "")
		assertErrorCode(t, rec, http.StatusNotFound, "NO_APPLICABLE_RATE")
	})

	t.Run("missing country", func(t *testing.T) {
		rec := performRequest(t, engine, http.MethodGet, "/api/v1/tax/resolve", "")
		assertErrorCode(t, rec, http.StatusBadRequest, "BAD_REQUEST")
	})

	t.Run("bad as_of", func(t *testing.T) {
		rec := performRequest(t, engine, http.MethodGet,
			"/api/v1/tax/resolve?country=US&as_of=yesterday", "")
		assertErrorCode(t, rec, http.StatusBadRequest, "BAD_REQUEST")
	})
}

func TestCalculateTaxOverHTTP(t *testing.T) {
	engine, repo := newTaxHandlerFixture(t)
	seedHandlerRate(t, repo, "US", "CA", "", 7.25)

	rec := performRequest(t, engine, http.MethodPost, "/api/v1/tax/calculate",
		`{"amount":"19.99","country":"US","state":"CA"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeResponse(t, rec)
	assert.Equal(t, "1.45", dataField(t, resp, "tax_amount"))
	assert.Equal(t, "21.44", dataField(t, resp, "total"))
}

func TestDeactivateRateOverHTTP(t *testing.T) {
	engine, repo := newTaxHandlerFixture(t)
	rate := seedHandlerRate(t, repo, "US", "CA", "", 7.25)

	rec := performRequest(t, engine, http.MethodDelete, "/api/v1/tax/rates/"+rate.ID.String(), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = performRequest(t, engine, http.MethodGet, "/api/v1/tax/resolve?country=US&state=CA", "")
	assertErrorCode(t, rec, http.StatusNotFound, "NO_APPLICABLE_RATE")

	t.Run("deactivation is idempotent", func(t *testing.T) {
		rec := performRequest(t, engine, http.MethodDelete, "/api/v1/tax/rates/"+rate.ID.String(), "")
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown rate id", func(t *testing.T) {
		rec := performRequest(t, engine, http.MethodDelete, "/api/v1/tax/rates/"+uuid.NewString(), "")
		assertErrorCode(t, rec, http.StatusNotFound, "NOT_FOUND")
	})
}
