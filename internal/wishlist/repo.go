package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixelforge/gamestore-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the shopper's rows, most recently added first.
func (r *Repository) List(ctx context.Context, shopperID uuid.UUID) ([]models.WishlistItem, error) {
	var rows []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("shopper_id = ?", shopperID).
		Order("added_at DESC, game_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Find(ctx context.Context, shopperID uuid.UUID, gameID int) (*models.WishlistItem, error) {
	var row models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("shopper_id = ? AND game_id = ?", shopperID, gameID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Add(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) Remove(ctx context.Context, shopperID uuid.UUID, gameID int) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("shopper_id = ? AND game_id = ?", shopperID, gameID).
		Delete(&models.WishlistItem{})
	return res.RowsAffected, res.Error
}
