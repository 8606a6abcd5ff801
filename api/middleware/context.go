package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ctxShopperID contextKey = "shopper_id"

// ShopperIDFromContext returns the shopper resolved by the Shopper middleware.
func ShopperIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxShopperID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// WithShopperID injects the shopper identifier into the context.
func WithShopperID(ctx context.Context, shopperID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxShopperID, shopperID)
}
