package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartRecord holds per-shopper cart state that is not line specific.
type CartRecord struct {
	ShopperID uuid.UUID `gorm:"column:shopper_id;type:text;primaryKey"`
	PromoCode string    `gorm:"column:promo_code;not null;default:''"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartRecord) TableName() string { return "carts" }

// CartLine is one game/platform entry in a shopper cart. Price fields are
// captured when the line is added.
type CartLine struct {
	ShopperID uuid.UUID       `gorm:"column:shopper_id;type:text;primaryKey"`
	GameID    int             `gorm:"column:game_id;primaryKey;autoIncrement:false"`
	Platform  string          `gorm:"column:platform;primaryKey"`
	Position  int             `gorm:"column:position;not null"`
	Title     string          `gorm:"column:title;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Discount  int             `gorm:"column:discount;not null;default:0"`
	Quantity  int             `gorm:"column:quantity;not null"`
}

func (CartLine) TableName() string { return "cart_lines" }
