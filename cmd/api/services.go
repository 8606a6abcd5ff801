package main

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pixelforge/gamestore-backend/api/routes"
	"github.com/pixelforge/gamestore-backend/internal/cart"
	"github.com/pixelforge/gamestore-backend/internal/catalog"
	"github.com/pixelforge/gamestore-backend/internal/checkout"
	"github.com/pixelforge/gamestore-backend/internal/orders"
	"github.com/pixelforge/gamestore-backend/internal/pricing"
	"github.com/pixelforge/gamestore-backend/internal/profile"
	"github.com/pixelforge/gamestore-backend/internal/wishlist"
	"github.com/pixelforge/gamestore-backend/pkg/config"
	"github.com/pixelforge/gamestore-backend/pkg/db"
	"github.com/pixelforge/gamestore-backend/pkg/logger"
	"github.com/pixelforge/gamestore-backend/pkg/metrics"
)

// buildServices wires the domain services onto one database client.
// storefront may be nil when metrics are disabled.
func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, storefront *metrics.Storefront) (routes.Services, error) {
	engine := pricing.NewEngine(pricing.Rules{
		TaxRate:               cfg.Pricing.TaxRate,
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		ShippingFee:           cfg.Pricing.ShippingFee,
		WaiveEmptyCart:        cfg.Pricing.WaiveEmptyCartShipping(),
	}, pricing.NewPromoTable(cfg.Pricing.PromoCodes))

	var (
		queryObserver      catalog.QueryObserver
		checkoutObserver   checkout.Observer
		transitionObserver orders.TransitionObserver
	)
	if storefront != nil {
		queryObserver = storefront
		checkoutObserver = storefront
		transitionObserver = storefront
	}

	games := catalog.NewRepository(dbClient.DB())
	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		Repo:              games,
		Tx:                dbClient,
		DefaultPageSize:   cfg.Catalog.PageSize,
		MaxPageSize:       cfg.Catalog.MaxPageSize,
		LowStockThreshold: cfg.Catalog.LowStockThreshold,
		Observer:          queryObserver,
		Now:               time.Now,
	})
	if err != nil {
		return routes.Services{}, fmt.Errorf("catalog service: %w", err)
	}

	carts := cart.NewRepository(dbClient.DB())
	cartSvc, err := cart.NewService(carts, dbClient, games, engine)
	if err != nil {
		return routes.Services{}, fmt.Errorf("cart service: %w", err)
	}

	keys := orders.RandomKeys{}
	invoices := orders.InvoiceRenderer{TaxRate: cfg.Pricing.TaxRate}
	orderRepo := orders.NewRepository(dbClient.DB())

	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Carts:    carts,
		Games:    games,
		Orders:   orderRepo,
		Tx:       dbClient,
		Engine:   engine,
		Keys:     keys,
		Invoices: invoices,
		Mailer:   checkout.LogMailer{Logger: logg},
		Observer: checkoutObserver,
		Logger:   logg,
		Now:      time.Now,
	})
	if err != nil {
		return routes.Services{}, fmt.Errorf("checkout service: %w", err)
	}

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Repo:     orderRepo,
		Tx:       dbClient,
		Stock:    func(tx *gorm.DB) orders.StockTaker { return catalog.NewRepository(tx) },
		Keys:     keys,
		Invoices: invoices,
		Observer: transitionObserver,
		Now:      time.Now,
	})
	if err != nil {
		return routes.Services{}, fmt.Errorf("orders service: %w", err)
	}

	wishlistSvc, err := wishlist.NewService(wishlist.NewRepository(dbClient.DB()), games, cartSvc, time.Now)
	if err != nil {
		return routes.Services{}, fmt.Errorf("wishlist service: %w", err)
	}

	profileSvc, err := profile.NewService(dbClient.DB())
	if err != nil {
		return routes.Services{}, fmt.Errorf("profile service: %w", err)
	}

	return routes.Services{
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Pricing:  engine,
		Checkout: checkoutSvc,
		Orders:   ordersSvc,
		Wishlist: wishlistSvc,
		Profile:  profileSvc,
	}, nil
}
