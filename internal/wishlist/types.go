package wishlist

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pixelforge/gamestore-backend/internal/catalog"
)

// Item is a saved game with the platform the shopper wants it on.
type Item struct {
	Game     catalog.Product `json:"game"`
	Platform string          `json:"platform"`
	AddedAt  time.Time       `json:"added_at"`
}

// Summary aggregates the wishlist sidebar figures.
type Summary struct {
	Count            int             `json:"count"`
	OnSaleCount      int             `json:"on_sale_count"`
	TotalValue       decimal.Decimal `json:"total_value"`
	PotentialSavings decimal.Decimal `json:"potential_savings"`
}

// List is a sorted wishlist.
type List struct {
	Items   []Item  `json:"items"`
	Summary Summary `json:"summary"`
}

// MoveResult reports a move-to-cart outcome.
type MoveResult struct {
	Moved   []int `json:"moved"`
	Skipped []int `json:"skipped"`
}

func summarize(items []Item) Summary {
	hundred := decimal.NewFromInt(100)
	sum := Summary{Count: len(items), TotalValue: decimal.Zero, PotentialSavings: decimal.Zero}
	for _, it := range items {
		if it.Game.OnSale {
			sum.OnSaleCount++
		}
		sum.TotalValue = sum.TotalValue.Add(it.Game.Price)
		sum.PotentialSavings = sum.PotentialSavings.Add(it.Game.Price.Mul(decimal.NewFromInt(int64(it.Game.Discount))).Div(hundred))
	}
	sum.TotalValue = sum.TotalValue.Round(2)
	sum.PotentialSavings = sum.PotentialSavings.Round(2)
	return sum
}
