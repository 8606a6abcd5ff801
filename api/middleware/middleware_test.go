package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/gamestore-backend/pkg/logger"
)

var demoShopper = uuid.MustParse("00000000-0000-4000-8000-000000000001")

func TestShopperFallsBackToDemo(t *testing.T) {
	var got uuid.UUID
	handler := Shopper(demoShopper, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ShopperIDFromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	require.Equal(t, demoShopper, got)
}

func TestShopperReadsHeader(t *testing.T) {
	other := uuid.New()
	var got uuid.UUID
	handler := Shopper(demoShopper, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ShopperIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(ShopperHeader, other.String())
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, other, got)
}

func TestShopperRejectsMalformedHeader(t *testing.T) {
	called := false
	handler := Shopper(demoShopper, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(ShopperHeader, "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.False(t, called)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDEchoesOrGenerates(t *testing.T) {
	handler := RequestID(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
}

func TestRecovererWritesInternalError(t *testing.T) {
	handler := Recoverer(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

type fakeLimiter struct {
	counts map[string]int64
	err    error
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func TestRateLimitPerShopper(t *testing.T) {
	limiter := &fakeLimiter{counts: map[string]int64{}}
	policy := NewRateLimitPolicy("checkout", time.Minute, 1)
	handler := Shopper(demoShopper, nil)(RateLimit(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "60", rec.Header().Get("Retry-After"))
	require.Contains(t, limiter.counts, "checkout:"+demoShopper.String())

	other := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	other.Header.Set(ShopperHeader, uuid.NewString())
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	handler := RateLimit(NewRateLimitPolicy("promo", time.Minute, 1), limiter, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/promo", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

type recordingHTTPObserver struct {
	route string
	code  int
}

func (r *recordingHTTPObserver) ObserveHTTPRequest(route, method string, code int, _ time.Duration) {
	r.route = route
	r.code = code
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	observer := &recordingHTTPObserver{}
	handler := Metrics(observer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), requestWithPattern(http.MethodGet, "/api/v1/games/42", "/api/v1/games/{gameID}", nil))
	require.Equal(t, "/api/v1/games/{gameID}", observer.route)
	require.Equal(t, http.StatusNotFound, observer.code)
}
