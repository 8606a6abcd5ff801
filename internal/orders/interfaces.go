package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelforge/gamestore-backend/pkg/db/models"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
)

// Repository captures order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	NextID(ctx context.Context) (string, error)
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	ListByShopper(ctx context.Context, shopperID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error)
	ListAll(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to enums.OrderStatus, licenseKey string, at time.Time) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockTaker decrements license key stock for fulfilled lines.
type StockTaker interface {
	TakeStock(ctx context.Context, id int, n int) (bool, error)
}

// StockBinder returns a StockTaker that runs inside tx.
type StockBinder func(tx *gorm.DB) StockTaker
