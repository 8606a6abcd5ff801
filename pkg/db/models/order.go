package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/pixelforge/gamestore-backend/pkg/db/types"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
)

// Order is a placed storefront order with its pricing snapshot.
type Order struct {
	ID                 string              `gorm:"column:id;primaryKey"`
	ShopperID          uuid.UUID           `gorm:"column:shopper_id;type:text;not null;index"`
	CustomerEmail      string              `gorm:"column:customer_email;not null"`
	PaymentMethod      enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Status             enums.OrderStatus   `gorm:"column:status;not null"`
	Platform           string              `gorm:"column:platform;not null;default:''"`
	Games              dbtypes.StringArray `gorm:"column:games;type:text;not null"`
	ItemCount          int                 `gorm:"column:item_count;not null"`
	Subtotal           decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,4);not null"`
	ItemDiscountTotal  decimal.Decimal     `gorm:"column:item_discount_total;type:numeric(12,4);not null"`
	PromoCode          string              `gorm:"column:promo_code;not null;default:''"`
	PromoDiscountTotal decimal.Decimal     `gorm:"column:promo_discount_total;type:numeric(12,4);not null"`
	Shipping           decimal.Decimal     `gorm:"column:shipping;type:numeric(12,4);not null"`
	Tax                decimal.Decimal     `gorm:"column:tax;type:numeric(12,4);not null"`
	Total              decimal.Decimal     `gorm:"column:total;type:numeric(12,4);not null"`
	LicenseKey         string              `gorm:"column:license_key;not null;default:''"`
	Items              []OrderItem         `gorm:"foreignKey:OrderID;references:ID"`
	CreatedAt          time.Time           `gorm:"column:created_at;not null"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;not null"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots one purchased line.
type OrderItem struct {
	OrderID   string          `gorm:"column:order_id;primaryKey"`
	LineNo    int             `gorm:"column:line_no;primaryKey;autoIncrement:false"`
	GameID    int             `gorm:"column:game_id;not null"`
	Title     string          `gorm:"column:title;not null"`
	Platform  string          `gorm:"column:platform;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Discount  int             `gorm:"column:discount;not null;default:0"`
	Quantity  int             `gorm:"column:quantity;not null"`
}

func (OrderItem) TableName() string { return "order_items" }
