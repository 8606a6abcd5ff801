package orders

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelforge/gamestore-backend/pkg/db/models"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
)

// IDPrefix starts every order number.
const IDPrefix = "ORD-"

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// NextID returns ORD-<n> where n is one past the largest numeric order number.
func (r *repository) NextID(ctx context.Context) (string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id LIKE ?", IDPrefix+"%").
		Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	var max int64
	for _, id := range ids {
		n, err := strconv.ParseInt(strings.TrimPrefix(id, IDPrefix), 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%d", IDPrefix, max+1), nil
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByShopper(ctx context.Context, shopperID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Where("shopper_id = ?", shopperID)
	return r.list(q, status)
}

func (r *repository) ListAll(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error) {
	return r.list(r.db.WithContext(ctx), status)
}

func (r *repository) list(q *gorm.DB, status *enums.OrderStatus) ([]models.Order, error) {
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var rows []models.Order
	err := q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

// UpdateStatus moves an order from one status to another. The row count is zero
// when the order is missing or no longer in from.
func (r *repository) UpdateStatus(ctx context.Context, id string, from, to enums.OrderStatus, licenseKey string, at time.Time) (int64, error) {
	updates := map[string]any{"status": to, "updated_at": at}
	if licenseKey != "" {
		updates["license_key"] = licenseKey
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}
