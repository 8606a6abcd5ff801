package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pixelforge/gamestore-backend/api/middleware"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
)

func shopperFrom(r *http.Request) (uuid.UUID, error) {
	id := middleware.ShopperIDFromContext(r.Context())
	if id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "shopper context missing")
	}
	return id, nil
}
