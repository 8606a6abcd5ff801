package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a shopper to a saved game.
type WishlistItem struct {
	ShopperID uuid.UUID `gorm:"column:shopper_id;type:text;primaryKey"`
	GameID    int       `gorm:"column:game_id;primaryKey;autoIncrement:false"`
	Platform  string    `gorm:"column:platform;not null;default:''"`
	AddedAt   time.Time `gorm:"column:added_at;not null"`
}

func (WishlistItem) TableName() string { return "wishlist_items" }
