package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pixelforge/gamestore-backend/api/controllers"
	"github.com/pixelforge/gamestore-backend/api/middleware"
	"github.com/pixelforge/gamestore-backend/api/responses"
	"github.com/pixelforge/gamestore-backend/internal/cart"
	"github.com/pixelforge/gamestore-backend/internal/catalog"
	"github.com/pixelforge/gamestore-backend/internal/checkout"
	"github.com/pixelforge/gamestore-backend/internal/orders"
	"github.com/pixelforge/gamestore-backend/internal/pricing"
	"github.com/pixelforge/gamestore-backend/internal/profile"
	"github.com/pixelforge/gamestore-backend/internal/wishlist"
	"github.com/pixelforge/gamestore-backend/pkg/config"
	pkgerrors "github.com/pixelforge/gamestore-backend/pkg/errors"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
	"github.com/pixelforge/gamestore-backend/pkg/metrics"
	"github.com/pixelforge/gamestore-backend/pkg/redis"
)

// Services are the domain services mounted under /api/v1.
type Services struct {
	Catalog  catalog.Service
	Cart     cart.Service
	Pricing  pricing.Engine
	Checkout checkout.Service
	Orders   orders.Service
	Wishlist wishlist.Service
	Profile  profile.Service
}

// Infra are the shared clients the router needs. Redis and Metrics may be nil.
type Infra struct {
	DB       controllers.Pinger
	Redis    *redis.Client
	Metrics  *metrics.Storefront
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()

	demoShopper, err := uuid.Parse(cfg.App.DemoShopperID)
	if err != nil {
		demoShopper = uuid.Nil
	}

	// typed nil pointers must not reach the middleware as non-nil interfaces
	var (
		idemStore   middleware.IdempotencyStore
		rateLimiter redis.RateLimiter
		redisPinger controllers.Pinger
	)
	if infra.Redis != nil {
		idemStore = infra.Redis
		rateLimiter = infra.Redis
		redisPinger = infra.Redis
	}
	var promoObserver controllers.PromoObserver
	if infra.Metrics != nil {
		promoObserver = infra.Metrics
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Logging(logg),
	)
	if infra.Metrics != nil {
		r.Use(middleware.Metrics(infra.Metrics))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, map[string]controllers.Pinger{
			"db":    infra.DB,
			"redis": redisPinger,
		}, logg))
	})

	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler(infra.Gatherer))
	}

	checkoutPolicy := middleware.NewRateLimitPolicy("checkout", cfg.Checkout.RateLimitWindow, cfg.Checkout.RateLimit)
	promoPolicy := middleware.NewRateLimitPolicy("promo", cfg.Checkout.PromoWindow, cfg.Checkout.PromoLimit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Shopper(demoShopper, logg))
		// inline so the full route pattern is resolved when the rules match
		idempotent := middleware.Idempotency(idemStore, cfg.Checkout.IdempotencyTTL, logg)

		r.Get("/games", controllers.GamesList(svc.Catalog, logg))
		r.Get("/games/{gameID}", controllers.GameGet(svc.Catalog, logg))
		r.Get("/categories", controllers.CategoriesList(svc.Catalog, logg))
		r.Get("/platforms", controllers.PlatformsList(svc.Catalog))

		r.Post("/pricing/quote", controllers.PricingQuote(svc.Cart, logg))
		r.With(middleware.RateLimit(promoPolicy, rateLimiter, logg)).
			Get("/promos/{code}", controllers.PromoLookup(svc.Pricing, promoObserver, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(svc.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svc.Cart, logg))
			r.Patch("/items/{gameID}", controllers.CartUpdateItem(svc.Cart, logg))
			r.Delete("/items/{gameID}", controllers.CartRemoveItem(svc.Cart, logg))
			r.With(middleware.RateLimit(promoPolicy, rateLimiter, logg)).
				Post("/promo", controllers.CartApplyPromo(svc.Cart, promoObserver, logg))
			r.Delete("/promo", controllers.CartClearPromo(svc.Cart, logg))
		})

		r.With(middleware.RateLimit(checkoutPolicy, rateLimiter, logg), idempotent).
			Post("/checkout", controllers.Checkout(svc.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(svc.Orders, logg))
			r.Get("/{orderID}", controllers.OrderGet(svc.Orders, logg))
			r.Get("/{orderID}/invoice", controllers.OrderInvoice(svc.Orders, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(svc.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(svc.Wishlist, logg))
			r.Post("/cart", controllers.WishlistMoveAllToCart(svc.Wishlist, logg))
			r.Delete("/{gameID}", controllers.WishlistRemove(svc.Wishlist, logg))
			r.Post("/{gameID}/cart", controllers.WishlistMoveToCart(svc.Wishlist, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(svc.Profile, logg))
			r.Put("/", controllers.ProfileUpdatePersonal(svc.Profile, logg))
			r.Put("/notifications", controllers.ProfileUpdateNotifications(svc.Profile, logg))
			r.Put("/privacy", controllers.ProfileUpdatePrivacy(svc.Profile, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/games", controllers.AdminGamesList(svc.Catalog, logg))
			r.Post("/games", controllers.AdminGameCreate(svc.Catalog, logg))
			r.Put("/games/{gameID}", controllers.AdminGameUpdate(svc.Catalog, logg))
			r.Delete("/games/{gameID}", controllers.AdminGameDelete(svc.Catalog, logg))
			r.With(idempotent).Post("/games/{gameID}/keys", controllers.AdminGameUploadKeys(svc.Catalog, logg))
			r.Get("/alerts/low-stock", controllers.AdminLowStock(svc.Catalog, logg))
			r.Get("/orders", controllers.AdminOrdersList(svc.Orders, logg))
			r.With(idempotent).Post("/orders/{orderID}/{action}", controllers.AdminOrderAction(svc.Orders, logg))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "method not allowed for route"))
	})

	return r
}
