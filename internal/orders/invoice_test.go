package orders

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/gamestore-backend/pkg/enums"
)

func TestRenderInvoice(t *testing.T) {
	order := Order{
		ID:            "ORD-1",
		CustomerEmail: "gamer@example.com",
		PaymentMethod: enums.PaymentMethodPayPal,
		CreatedAt:     time.Date(2026, 1, 12, 10, 15, 0, 0, time.UTC),
		Items: []Item{
			{Title: "Cyberpunk 2077", Platform: "PC", UnitPrice: decimal.RequireFromString("49.99"), Discount: 20, Quantity: 1},
			{Title: "The Witcher 3: Wild Hunt", Platform: "PC", UnitPrice: decimal.RequireFromString("39.99"), Discount: 50, Quantity: 2},
		},
		Subtotal:           decimal.RequireFromString("79.98"),
		ItemDiscountTotal:  decimal.RequireFromString("49.99"),
		PromoCode:          "GAMER10",
		PromoDiscountTotal: decimal.RequireFromString("8.00"),
		Shipping:           decimal.RequireFromString("4.99"),
		Tax:                decimal.RequireFromString("6.40"),
		Total:              decimal.RequireFromString("83.37"),
		LicenseKey:         "ABCD-EFGH-IJKL-MNOP",
	}

	text := InvoiceRenderer{TaxRate: decimal.RequireFromString("0.08")}.Render(order)
	lines := strings.Split(text, "\n")

	require.Equal(t, "INVOICE", lines[0])
	require.Contains(t, text, "Date: 2026-01-12 10:15:00 UTC")
	require.Contains(t, text, "Payment Method: paypal")
	require.Contains(t, text, "- Cyberpunk 2077 (PC) x1  @ $39.99  = $39.99")
	require.Contains(t, text, "- The Witcher 3: Wild Hunt (PC) x2  @ $20.00  = $39.99")
	require.Contains(t, text, "Promo (GAMER10): -$8.00")
	require.Contains(t, text, "Tax (8%): $6.40")
	require.Contains(t, text, "TOTAL: $83.37")
	require.Contains(t, text, "GAME KEY: ABCD-EFGH-IJKL-MNOP")
	require.Equal(t, "Thank you for your purchase!", lines[len(lines)-1])
}

func TestRenderInvoiceOmitsZeroPromoAndMarksPendingKey(t *testing.T) {
	order := Order{
		ID:       "ORD-2",
		Games:    []string{"Elden Ring"},
		Platform: "PlayStation 5",
		Total:    decimal.RequireFromString("59.99"),
	}
	text := InvoiceRenderer{TaxRate: decimal.RequireFromString("0.08")}.Render(order)
	require.NotContains(t, text, "Promo (")
	require.Contains(t, text, "- Elden Ring (PlayStation 5)")
	require.Contains(t, text, "GAME KEY: pending fulfillment")
}
