// Package pricing computes cart totals. Every function here is pure: callers
// pass the full cart in and get a fresh Result back.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrPromoNotRecognized is returned by ResolvePromo for unknown codes. It is
	// informational; pricing proceeds with no promo discount.
	ErrPromoNotRecognized = errors.New("promo code not recognized")
	// ErrInvalidLine flags a line that cannot be priced.
	ErrInvalidLine = errors.New("invalid cart line")
)

var (
	hundred = decimal.NewFromInt(100)
	// DisplayPlaces is the number of decimals money is rounded to for display.
	DisplayPlaces int32 = 2
)

// Line is one priced cart entry.
type Line struct {
	ProductRef      int             `json:"product_ref"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent int             `json:"discount_percent"`
	Quantity        int             `json:"quantity"`
}

// EffectiveUnitPrice is the unit price after the per-item discount.
func (l Line) EffectiveUnitPrice() decimal.Decimal {
	return l.UnitPrice.Mul(hundred.Sub(decimal.NewFromInt(int64(l.DiscountPercent)))).Div(hundred)
}

// LineTotal is the effective unit price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ItemDiscount is the amount saved on this line by its discount.
func (l Line) ItemDiscount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.DiscountPercent))).Div(hundred).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) validate() error {
	if l.Quantity < 1 {
		return fmt.Errorf("%w: product %d quantity %d must be at least 1", ErrInvalidLine, l.ProductRef, l.Quantity)
	}
	if l.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: product %d has negative unit price", ErrInvalidLine, l.ProductRef)
	}
	if l.DiscountPercent < 0 || l.DiscountPercent > 100 {
		return fmt.Errorf("%w: product %d discount %d outside [0,100]", ErrInvalidLine, l.ProductRef, l.DiscountPercent)
	}
	return nil
}

// Result holds unrounded totals. Use Rounded for display.
type Result struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	ItemDiscountTotal  decimal.Decimal `json:"item_discount_total"`
	PromoCode          string          `json:"promo_code,omitempty"`
	PromoPercent       int             `json:"promo_percent"`
	PromoRejected      bool            `json:"promo_rejected"`
	PromoDiscountTotal decimal.Decimal `json:"promo_discount_total"`
	Shipping           decimal.Decimal `json:"shipping"`
	Tax                decimal.Decimal `json:"tax"`
	Total              decimal.Decimal `json:"total"`
}

// Rounded returns a copy with every amount rounded to DisplayPlaces.
func (r Result) Rounded() Result {
	out := r
	out.Subtotal = r.Subtotal.Round(DisplayPlaces)
	out.ItemDiscountTotal = r.ItemDiscountTotal.Round(DisplayPlaces)
	out.PromoDiscountTotal = r.PromoDiscountTotal.Round(DisplayPlaces)
	out.Shipping = r.Shipping.Round(DisplayPlaces)
	out.Tax = r.Tax.Round(DisplayPlaces)
	out.Total = r.Total.Round(DisplayPlaces)
	return out
}

// Rules are the storewide pricing parameters.
type Rules struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	// WaiveEmptyCart quotes an empty cart at zero instead of charging shipping.
	WaiveEmptyCart bool
}

// DefaultRules mirror the storefront: 8% tax, free shipping strictly above 100, 4.99 otherwise.
func DefaultRules() Rules {
	return Rules{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.NewFromInt(100),
		ShippingFee:           decimal.RequireFromString("4.99"),
	}
}

// PromoTable maps normalized codes to a percent off.
type PromoTable map[string]int

// NewPromoTable normalizes the given codes. Entries outside [0,100] are dropped.
func NewPromoTable(codes map[string]int) PromoTable {
	table := make(PromoTable, len(codes))
	for code, pct := range codes {
		if pct < 0 || pct > 100 {
			continue
		}
		if key := NormalizeCode(code); key != "" {
			table[key] = pct
		}
	}
	return table
}

// DefaultPromos is the storefront's single promo.
func DefaultPromos() PromoTable {
	return PromoTable{"GAMER10": 10}
}

// NormalizeCode trims and upper-cases a promo code. A Caser holds state, so
// each call builds its own.
func NormalizeCode(code string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}

// Resolve returns the percent for code. Empty input resolves to 0 with no
// error; unknown codes resolve to 0 with ErrPromoNotRecognized.
func (t PromoTable) Resolve(code string) (int, error) {
	key := NormalizeCode(code)
	if key == "" {
		return 0, nil
	}
	if pct, ok := t[key]; ok {
		return pct, nil
	}
	return 0, ErrPromoNotRecognized
}

// Engine prices carts under fixed rules and promos.
type Engine struct {
	rules  Rules
	promos PromoTable
}

func NewEngine(rules Rules, promos PromoTable) Engine {
	if promos == nil {
		promos = PromoTable{}
	}
	return Engine{rules: rules, promos: promos}
}

// Default builds an engine with DefaultRules and DefaultPromos.
func Default() Engine {
	return NewEngine(DefaultRules(), DefaultPromos())
}

// ResolvePromo resolves a code against the engine's promo table.
func (e Engine) ResolvePromo(code string) (int, error) {
	return e.promos.Resolve(code)
}

// Price computes the totals for lines and an optional promo code. An unknown
// promo is not an error: the result carries PromoRejected and no discount.
func (e Engine) Price(lines []Line, promoCode string) (Result, error) {
	subtotal := decimal.Zero
	itemDiscounts := decimal.Zero
	for _, line := range lines {
		if err := line.validate(); err != nil {
			return Result{}, err
		}
		subtotal = subtotal.Add(line.LineTotal())
		itemDiscounts = itemDiscounts.Add(line.ItemDiscount())
	}

	res := Result{
		Subtotal:          subtotal,
		ItemDiscountTotal: itemDiscounts,
	}

	pct, err := e.promos.Resolve(promoCode)
	switch {
	case errors.Is(err, ErrPromoNotRecognized):
		res.PromoRejected = true
	case pct > 0:
		res.PromoCode = NormalizeCode(promoCode)
		res.PromoPercent = pct
	}
	res.PromoDiscountTotal = subtotal.Mul(decimal.NewFromInt(int64(pct))).Div(hundred)

	if len(lines) == 0 && e.rules.WaiveEmptyCart {
		res.Shipping = decimal.Zero
		res.Tax = decimal.Zero
		res.Total = decimal.Zero
		return res, nil
	}

	if subtotal.GreaterThan(e.rules.FreeShippingThreshold) {
		res.Shipping = decimal.Zero
	} else {
		res.Shipping = e.rules.ShippingFee
	}
	// tax applies to the pre-promo subtotal
	res.Tax = subtotal.Mul(e.rules.TaxRate)
	res.Total = subtotal.Sub(res.PromoDiscountTotal).Add(res.Shipping).Add(res.Tax)
	return res, nil
}
