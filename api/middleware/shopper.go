package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pixelforge/gamestore-backend/api/responses"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
)

const ShopperHeader = "X-Shopper-Id"

// Shopper resolves the acting shopper from the X-Shopper-Id header. Requests
// without the header act as fallback, the seeded demo shopper.
func Shopper(fallback uuid.UUID, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shopperID := fallback
			if raw := strings.TrimSpace(r.Header.Get(ShopperHeader)); raw != "" {
				parsed, err := uuid.Parse(raw)
				if err != nil || parsed == uuid.Nil {
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.New(pkgerrors.CodeValidation, "invalid shopper id").
							WithDetails(map[string]string{"header": ShopperHeader}))
					return
				}
				shopperID = parsed
			}

			ctx := WithShopperID(r.Context(), shopperID)
			if logg != nil {
				ctx = logg.WithShopperID(ctx, shopperID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
