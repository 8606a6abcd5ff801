package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func requireDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: expected %s, got %s", field, want, got.String())
	}
}

var (
	cyberpunk = Line{ProductRef: 1, UnitPrice: dec("49.99"), DiscountPercent: 20, Quantity: 1}
	witcher   = Line{ProductRef: 3, UnitPrice: dec("39.99"), DiscountPercent: 50, Quantity: 1}
)

func TestPriceSingleDiscountedLine(t *testing.T) {
	res, err := Default().Price([]Line{cyberpunk}, "")
	require.NoError(t, err)

	requireDecimal(t, "39.992", res.Subtotal, "subtotal")
	requireDecimal(t, "9.998", res.ItemDiscountTotal, "item discounts")
	requireDecimal(t, "0", res.PromoDiscountTotal, "promo")
	requireDecimal(t, "4.99", res.Shipping, "shipping")
	requireDecimal(t, "3.19936", res.Tax, "tax")
	requireDecimal(t, "48.18136", res.Total, "total")
	requireDecimal(t, "48.18", res.Rounded().Total, "rounded total")
	assert.False(t, res.PromoRejected)
}

func TestPriceWithPromoFollowsFormula(t *testing.T) {
	lines := []Line{cyberpunk, witcher}
	engine := Default()

	res, err := engine.Price(lines, "GAMER10")
	require.NoError(t, err)

	requireDecimal(t, "59.987", res.Subtotal, "subtotal")
	requireDecimal(t, "29.993", res.ItemDiscountTotal, "item discounts")
	requireDecimal(t, "5.9987", res.PromoDiscountTotal, "promo")
	requireDecimal(t, "4.99", res.Shipping, "shipping")
	requireDecimal(t, "4.79896", res.Tax, "tax")

	want := res.Subtotal.Sub(res.PromoDiscountTotal).Add(res.Shipping).Add(res.Tax)
	requireDecimal(t, want.String(), res.Total, "total")
	requireDecimal(t, "63.77726", res.Total, "total literal")
	assert.Equal(t, "GAMER10", res.PromoCode)
	assert.Equal(t, 10, res.PromoPercent)

	plain, err := engine.Price(lines, "")
	require.NoError(t, err)
	tenPercent := plain.Subtotal.Mul(dec("0.1"))
	requireDecimal(t, plain.Total.Sub(tenPercent).String(), res.Total, "promo reduces exactly 10% of subtotal")
}

func TestPriceEmptyCartChargesShippingByDefault(t *testing.T) {
	res, err := Default().Price(nil, "")
	require.NoError(t, err)
	requireDecimal(t, "0", res.Subtotal, "subtotal")
	requireDecimal(t, "0", res.Tax, "tax")
	requireDecimal(t, "4.99", res.Shipping, "shipping")
	requireDecimal(t, "4.99", res.Total, "total")
}

func TestPriceEmptyCartWaivedPolicy(t *testing.T) {
	rules := DefaultRules()
	rules.WaiveEmptyCart = true
	res, err := NewEngine(rules, DefaultPromos()).Price(nil, "GAMER10")
	require.NoError(t, err)
	requireDecimal(t, "0", res.Shipping, "shipping")
	requireDecimal(t, "0", res.Total, "total")
}

func TestPriceFreeShippingStrictlyAboveThreshold(t *testing.T) {
	exactly := Line{ProductRef: 9, UnitPrice: dec("100"), Quantity: 1}
	res, err := Default().Price([]Line{exactly}, "")
	require.NoError(t, err)
	requireDecimal(t, "4.99", res.Shipping, "shipping at threshold")

	above := Line{ProductRef: 9, UnitPrice: dec("100.01"), Quantity: 1}
	res, err = Default().Price([]Line{above}, "")
	require.NoError(t, err)
	requireDecimal(t, "0", res.Shipping, "shipping above threshold")
}

func TestPriceUsesPrePromoSubtotalForTaxAndShipping(t *testing.T) {
	// 105 subtotal drops below 100 after the promo but still ships free
	line := Line{ProductRef: 5, UnitPrice: dec("105"), Quantity: 1}
	res, err := Default().Price([]Line{line}, "gamer10")
	require.NoError(t, err)
	requireDecimal(t, "0", res.Shipping, "shipping")
	requireDecimal(t, "8.4", res.Tax, "tax")
	requireDecimal(t, "102.9", res.Total, "total")
}

func TestPriceUnknownPromoIsSignalledNotFatal(t *testing.T) {
	res, err := Default().Price([]Line{cyberpunk}, "SAVE50")
	require.NoError(t, err)
	assert.True(t, res.PromoRejected)
	assert.Empty(t, res.PromoCode)
	requireDecimal(t, "0", res.PromoDiscountTotal, "promo")
}

func TestPriceIsIdempotent(t *testing.T) {
	lines := []Line{cyberpunk, witcher, {ProductRef: 6, UnitPrice: dec("26.95"), Quantity: 3}}
	engine := Default()
	first, err := engine.Price(lines, "GAMER10")
	require.NoError(t, err)
	second, err := engine.Price(lines, "GAMER10")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPriceRejectsInvalidLines(t *testing.T) {
	cases := []Line{
		{ProductRef: 1, UnitPrice: dec("10"), Quantity: 0},
		{ProductRef: 1, UnitPrice: dec("-1"), Quantity: 1},
		{ProductRef: 1, UnitPrice: dec("10"), DiscountPercent: 101, Quantity: 1},
	}
	for _, line := range cases {
		_, err := Default().Price([]Line{line}, "")
		if !errors.Is(err, ErrInvalidLine) {
			t.Fatalf("expected ErrInvalidLine for %+v, got %v", line, err)
		}
	}
}

func TestResolvePromo(t *testing.T) {
	engine := Default()

	for _, code := range []string{"GAMER10", "gamer10", "Gamer10", "  GAMER10 "} {
		pct, err := engine.ResolvePromo(code)
		require.NoError(t, err, code)
		assert.Equal(t, 10, pct, code)
	}

	pct, err := engine.ResolvePromo("")
	require.NoError(t, err)
	assert.Zero(t, pct)

	pct, err = engine.ResolvePromo("GAMER20")
	assert.ErrorIs(t, err, ErrPromoNotRecognized)
	assert.Zero(t, pct)
}

func TestNewPromoTableNormalizesAndDropsInvalid(t *testing.T) {
	table := NewPromoTable(map[string]int{" spring5 ": 5, "BAD": 120, "": 10})
	assert.Equal(t, PromoTable{"SPRING5": 5}, table)
}

func TestNormalizeCodeFoldsUnicode(t *testing.T) {
	assert.Equal(t, "GAMER10", NormalizeCode("\tgamer10\n"))
	assert.Equal(t, "STRASSE", NormalizeCode("straße"))
	assert.Equal(t, "ÉTÉ20", NormalizeCode(" été20"))

	pct, err := NewPromoTable(map[string]int{"été20": 20}).Resolve("ÉTÉ20")
	require.NoError(t, err)
	assert.Equal(t, 20, pct)
}

func TestLineHelpers(t *testing.T) {
	line := Line{UnitPrice: dec("26.95"), DiscountPercent: 0, Quantity: 2}
	requireDecimal(t, "26.95", line.EffectiveUnitPrice(), "effective")
	requireDecimal(t, "53.9", line.LineTotal(), "line total")
	requireDecimal(t, "0", line.ItemDiscount(), "discount")
}
