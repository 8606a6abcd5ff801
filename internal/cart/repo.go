package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pixelforge/gamestore-backend/pkg/db/models"
)

// Repository persists carts as a header row plus ordered lines.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Load returns the shopper's cart. A shopper with no rows has an empty cart.
func (r *Repository) Load(ctx context.Context, shopperID uuid.UUID) (Cart, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).First(&record, "shopper_id = ?", shopperID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Cart{}, err
	}

	var rows []models.CartLine
	if err := r.db.WithContext(ctx).
		Where("shopper_id = ?", shopperID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return Cart{}, err
	}

	cart := Cart{PromoCode: record.PromoCode}
	for _, row := range rows {
		cart.Lines = append(cart.Lines, Line{
			GameID:    row.GameID,
			Platform:  row.Platform,
			Title:     row.Title,
			UnitPrice: row.UnitPrice,
			Discount:  row.Discount,
			Quantity:  row.Quantity,
		})
	}
	return cart, nil
}

// Save replaces the stored cart with cart.
func (r *Repository) Save(ctx context.Context, shopperID uuid.UUID, cart Cart) error {
	db := r.db.WithContext(ctx)

	record := models.CartRecord{ShopperID: shopperID, PromoCode: cart.PromoCode}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shopper_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"promo_code", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return err
	}

	if err := db.Where("shopper_id = ?", shopperID).Delete(&models.CartLine{}).Error; err != nil {
		return err
	}
	if cart.IsEmpty() {
		return nil
	}

	rows := make([]models.CartLine, 0, len(cart.Lines))
	for i, line := range cart.Lines {
		rows = append(rows, models.CartLine{
			ShopperID: shopperID,
			GameID:    line.GameID,
			Platform:  line.Platform,
			Position:  i + 1,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
			Discount:  line.Discount,
			Quantity:  line.Quantity,
		})
	}
	return db.Create(&rows).Error
}
