package controllers

import (
	"net/http"

	"github.com/pixelforge/gamestore-backend/api/responses"
	"github.com/pixelforge/gamestore-backend/api/validators"
	"github.com/pixelforge/gamestore-backend/internal/checkout"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
)

type checkoutRequest struct {
	Email         string `json:"email" validate:"max=254"`
	PaymentMethod string `json:"payment_method" validate:"max=16"`
}

// Checkout turns the shopper's cart into an order and returns the receipt.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		receipt, err := svc.Checkout(r.Context(), shopperID, checkout.Input{
			Email:         payload.Email,
			PaymentMethod: payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
