package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/gamestore-backend/internal/pricing"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type countingObserver struct{ results []string }

func (o *countingObserver) ObservePromoAttempt(result string) {
	o.results = append(o.results, result)
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	h := HealthReady("test", map[string]Pinger{
		"db":    stubPinger{},
		"redis": stubPinger{err: errors.New("connection refused")},
	}, logger.Nop())

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	require.Contains(t, rec.Body.String(), `"redis":"down"`)
	require.Contains(t, rec.Body.String(), `"db":"up"`)
}

func TestParseListInputDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
	input, err := parseListInput(req)
	require.NoError(t, err)
	require.Equal(t, 1, input.Page)
	require.Equal(t, 0, input.PageSize)
	require.Nil(t, input.Filter.PriceRange)
	require.Nil(t, input.Filter.MinRatingBucket)
	require.Equal(t, enums.SortRelevance, input.Filter.SortKey)
}

func TestParseListInputFilters(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/games?q=ring&category=action,rpg&platform=PC&min_price=20&rating=4&on_sale=true&sort=newest&page=2", nil)
	input, err := parseListInput(req)
	require.NoError(t, err)
	require.Equal(t, "ring", input.Filter.SearchText)
	require.Equal(t, []string{"action", "rpg"}, input.Filter.Categories)
	require.Equal(t, []string{"PC"}, input.Filter.Platforms)
	require.True(t, input.Filter.PriceRange.Min.Equal(decimal.NewFromInt(20)))
	require.True(t, input.Filter.PriceRange.Max.Equal(decimal.NewFromInt(1_000_000)))
	require.Equal(t, 4, *input.Filter.MinRatingBucket)
	require.True(t, input.Filter.ShowOnly.OnSale)
	require.False(t, input.Filter.ShowOnly.Featured)
	require.Equal(t, enums.SortNewest, input.Filter.SortKey)
	require.Equal(t, 2, input.Page)
}

func TestParseListInputRejectsBadValues(t *testing.T) {
	for _, target := range []string{
		"/api/v1/games?page=0",
		"/api/v1/games?rating=9",
		"/api/v1/games?min_price=-1",
		"/api/v1/games?featured=maybe",
		"/api/v1/games?sort=cheapest",
	} {
		_, err := parseListInput(httptest.NewRequest(http.MethodGet, target, nil))
		if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", target, err)
		}
	}
}

func TestPromoLookupCountsOutcomes(t *testing.T) {
	observer := &countingObserver{}
	h := PromoLookup(pricing.Default(), observer, logger.Nop())

	for _, code := range []string{"gamer10", "FREESTUFF"} {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("code", code)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/promos/"+code, nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rec := httptest.NewRecorder()
		h(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, []string{"accepted", "rejected"}, observer.results)
}
