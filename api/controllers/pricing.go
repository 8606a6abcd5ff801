package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pixelforge/gamestore-backend/api/responses"
	"github.com/pixelforge/gamestore-backend/api/validators"
	"github.com/pixelforge/gamestore-backend/internal/cart"
	"github.com/pixelforge/gamestore-backend/internal/pricing"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
)

// PromoObserver counts promo code attempts by outcome.
type PromoObserver interface {
	ObservePromoAttempt(result string)
}

type promoResolver interface {
	ResolvePromo(code string) (int, error)
}

type quoteRequest struct {
	Lines     []quoteLine `json:"lines" validate:"dive"`
	PromoCode string      `json:"promo_code" validate:"max=32"`
}

type quoteLine struct {
	ProductRef      int             `json:"product_ref"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent int             `json:"discount_percent" validate:"gte=0,lte=100"`
	Quantity        int             `json:"quantity" validate:"gte=1"`
}

type quoteResponse struct {
	Pricing pricing.Result `json:"pricing"`
	Exact   pricing.Result `json:"exact"`
}

// PricingQuote prices an ad-hoc line list. The response carries both the
// display-rounded and the unrounded result.
func PricingQuote(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lines := make([]pricing.Line, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			lines = append(lines, pricing.Line{
				ProductRef:      line.ProductRef,
				UnitPrice:       line.UnitPrice,
				DiscountPercent: line.DiscountPercent,
				Quantity:        line.Quantity,
			})
		}
		result, err := svc.Quote(lines, payload.PromoCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quoteResponse{Pricing: result.Rounded(), Exact: result})
	}
}

type promoResponse struct {
	Code    string `json:"code"`
	Percent int    `json:"percent"`
	Valid   bool   `json:"valid"`
}

// PromoLookup reports whether a code is recognized. Unknown codes answer
// 200 with valid=false.
func PromoLookup(resolver promoResolver, observer PromoObserver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := pricing.NormalizeCode(chi.URLParam(r, "code"))
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required"))
			return
		}
		pct, err := resolver.ResolvePromo(code)
		switch {
		case errors.Is(err, pricing.ErrPromoNotRecognized):
			observePromo(observer, "rejected")
			responses.WriteSuccess(w, promoResponse{Code: code})
		case err != nil:
			responses.WriteError(r.Context(), logg, w, err)
		default:
			observePromo(observer, "accepted")
			responses.WriteSuccess(w, promoResponse{Code: code, Percent: pct, Valid: true})
		}
	}
}

func observePromo(observer PromoObserver, result string) {
	if observer == nil {
		return
	}
	observer.ObservePromoAttempt(strings.ToLower(result))
}
