package controllers

import (
	"net/http"
	"strings"

	"github.com/pixelforge/gamestore-backend/api/responses"
	"github.com/pixelforge/gamestore-backend/api/validators"
	"github.com/pixelforge/gamestore-backend/internal/cart"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
)

func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Get(r.Context(), shopperID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type addCartItemRequest struct {
	GameID   int    `json:"game_id" validate:"required,gt=0"`
	Platform string `json:"platform" validate:"max=40"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.AddItem(r.Context(), shopperID, cart.AddItemInput{
			GameID:   payload.GameID,
			Platform: strings.TrimSpace(payload.Platform),
			Quantity: payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// quantity may be zero or negative: that removes the line. It is capped like adds.
type updateCartItemRequest struct {
	Quantity *int   `json:"quantity" validate:"required,max=99"`
	Platform string `json:"platform" validate:"max=40"`
}

func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		gameID, err := validators.ParsePathInt(r, "gameID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.UpdateQuantity(r.Context(), shopperID, gameID, strings.TrimSpace(payload.Platform), *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem takes the platform from the optional ?platform= query.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		gameID, err := validators.ParsePathInt(r, "gameID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		platform := validators.SanitizeString(r.URL.Query().Get("platform"), 40)
		view, err := svc.RemoveItem(r.Context(), shopperID, gameID, platform)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type applyPromoRequest struct {
	Code string `json:"code" validate:"required,max=32"`
}

func CartApplyPromo(svc cart.Service, observer PromoObserver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload applyPromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ApplyPromo(r.Context(), shopperID, payload.Code)
		if err != nil {
			if pkgerrors.CodeOf(err) == pkgerrors.CodePromoRejected {
				observePromo(observer, "rejected")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		observePromo(observer, "accepted")
		responses.WriteSuccess(w, view)
	}
}

func CartClearPromo(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ClearPromo(r.Context(), shopperID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
