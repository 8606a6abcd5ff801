package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	invoiceRule       = "-----------------------------"
	invoiceTimeLayout = "2006-01-02 15:04:05 MST"
	pendingKey        = "pending fulfillment"
)

// InvoiceRenderer formats orders as the plain text invoice handed to shoppers.
type InvoiceRenderer struct {
	TaxRate  decimal.Decimal
	Location *time.Location
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Render returns the invoice text for order.
func (r InvoiceRenderer) Render(order Order) string {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("INVOICE")
	line("Order: %s", order.ID)
	line("Date: %s", order.CreatedAt.In(loc).Format(invoiceTimeLayout))
	line("Email: %s", order.CustomerEmail)
	line("Payment Method: %s", order.PaymentMethod)
	line("")
	line("Items:")
	if len(order.Items) == 0 {
		for _, title := range order.Games {
			line("- %s (%s)", title, order.Platform)
		}
	}
	for _, it := range order.Items {
		unit := it.EffectiveUnitPrice()
		lineTotal := unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
		line("- %s (%s) x%d  @ %s  = %s", it.Title, it.Platform, it.Quantity, money(unit), money(lineTotal))
	}
	line("")
	line("Subtotal: %s", money(order.Subtotal))
	line("Item Discounts: -%s", money(order.ItemDiscountTotal))
	if order.PromoDiscountTotal.IsPositive() {
		line("Promo (%s): -%s", order.PromoCode, money(order.PromoDiscountTotal))
	}
	line("Shipping: %s", money(order.Shipping))
	line("Tax (%s%%): %s", r.TaxRate.Shift(2).String(), money(order.Tax))
	line(invoiceRule)
	line("TOTAL: %s", money(order.Total))
	line("")
	key := order.LicenseKey
	if key == "" {
		key = pendingKey
	}
	line("GAME KEY: %s", key)
	line("")
	b.WriteString("Thank you for your purchase!")
	return b.String()
}
