package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixelforge/gamestore-backend/pkg/db/models"
	"github.com/pixelforge/gamestore-backend/pkg/enums"
)

// Order is the API view of a placed order.
type Order struct {
	ID                 string              `json:"id"`
	ShopperID          uuid.UUID           `json:"shopper_id"`
	CustomerEmail      string              `json:"customer_email"`
	PaymentMethod      enums.PaymentMethod `json:"payment_method"`
	Status             enums.OrderStatus   `json:"status"`
	Platform           string              `json:"platform"`
	Games              []string            `json:"games"`
	ItemCount          int                 `json:"item_count"`
	Items              []Item              `json:"items"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	ItemDiscountTotal  decimal.Decimal     `json:"item_discount_total"`
	PromoCode          string              `json:"promo_code,omitempty"`
	PromoDiscountTotal decimal.Decimal     `json:"promo_discount_total"`
	Shipping           decimal.Decimal     `json:"shipping"`
	Tax                decimal.Decimal     `json:"tax"`
	Total              decimal.Decimal     `json:"total"`
	LicenseKey         string              `json:"license_key,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// Item is one purchased line.
type Item struct {
	GameID    int             `json:"game_id"`
	Title     string          `json:"title"`
	Platform  string          `json:"platform"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  int             `json:"discount"`
	Quantity  int             `json:"quantity"`
}

// EffectiveUnitPrice is the unit price after the line discount.
func (i Item) EffectiveUnitPrice() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return i.UnitPrice.Mul(hundred.Sub(decimal.NewFromInt(int64(i.Discount)))).Div(hundred)
}

// Summary aggregates a shopper's order history.
type Summary struct {
	TotalOrders       int             `json:"total_orders"`
	CompletedOrders   int             `json:"completed_orders"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// History is a filtered order list plus the summary of all the shopper's orders.
type History struct {
	Orders  []Order `json:"orders"`
	Summary Summary `json:"summary"`
}

// FromModel converts a stored order into its API view.
func FromModel(m models.Order) Order {
	items := make([]Item, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, Item{
			GameID:    it.GameID,
			Title:     it.Title,
			Platform:  it.Platform,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			Quantity:  it.Quantity,
		})
	}
	games := []string(m.Games)
	if games == nil {
		games = []string{}
	}
	return Order{
		ID:                 m.ID,
		ShopperID:          m.ShopperID,
		CustomerEmail:      m.CustomerEmail,
		PaymentMethod:      m.PaymentMethod,
		Status:             m.Status,
		Platform:           m.Platform,
		Games:              games,
		ItemCount:          m.ItemCount,
		Items:              items,
		Subtotal:           m.Subtotal,
		ItemDiscountTotal:  m.ItemDiscountTotal,
		PromoCode:          m.PromoCode,
		PromoDiscountTotal: m.PromoDiscountTotal,
		Shipping:           m.Shipping,
		Tax:                m.Tax,
		Total:              m.Total,
		LicenseKey:         m.LicenseKey,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func summarize(orders []Order) Summary {
	sum := Summary{TotalOrders: len(orders), TotalSpent: decimal.Zero, AverageOrderValue: decimal.Zero}
	for _, o := range orders {
		if o.Status != enums.OrderStatusCompleted {
			continue
		}
		sum.CompletedOrders++
		sum.TotalSpent = sum.TotalSpent.Add(o.Total)
	}
	if sum.CompletedOrders > 0 {
		sum.AverageOrderValue = sum.TotalSpent.Div(decimal.NewFromInt(int64(sum.CompletedOrders))).Round(2)
	}
	sum.TotalSpent = sum.TotalSpent.Round(2)
	return sum
}
