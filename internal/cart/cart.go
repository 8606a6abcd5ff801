package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pixelforge/gamestore-backend/internal/pricing"
)

var (
	ErrLineNotFound    = errors.New("cart line not found")
	ErrAmbiguousLine   = errors.New("game is in the cart on several platforms")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// LineKey identifies a cart line. A game bought for two platforms is two lines.
type LineKey struct {
	GameID   int    `json:"game_id"`
	Platform string `json:"platform"`
}

func (k LineKey) matches(other LineKey) bool {
	return k.GameID == other.GameID && strings.EqualFold(k.Platform, other.Platform)
}

// Line is one cart entry with the price captured when it was added.
type Line struct {
	GameID    int             `json:"game_id"`
	Platform  string          `json:"platform"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  int             `json:"discount"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Key() LineKey {
	return LineKey{GameID: l.GameID, Platform: l.Platform}
}

// PricingLine converts the line for the pricing engine.
func (l Line) PricingLine() pricing.Line {
	return pricing.Line{
		ProductRef:      l.GameID,
		UnitPrice:       l.UnitPrice,
		DiscountPercent: l.Discount,
		Quantity:        l.Quantity,
	}
}

// Cart is an immutable cart value. Every command returns a new Cart and leaves
// the receiver untouched.
type Cart struct {
	Lines     []Line `json:"lines"`
	PromoCode string `json:"promo_code,omitempty"`
}

func (c Cart) clone() Cart {
	return Cart{Lines: append([]Line(nil), c.Lines...), PromoCode: c.PromoCode}
}

func (c Cart) index(key LineKey) int {
	for i, line := range c.Lines {
		if line.Key().matches(key) {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the sum of line quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, line := range c.Lines {
		n += line.Quantity
	}
	return n
}

// Add appends line, or sums its quantity into an existing line for the same
// game and platform.
func (c Cart) Add(line Line) (Cart, error) {
	if line.Quantity < 1 {
		return c, fmt.Errorf("%w: got %d", ErrInvalidQuantity, line.Quantity)
	}
	next := c.clone()
	if i := next.index(line.Key()); i >= 0 {
		next.Lines[i].Quantity += line.Quantity
		return next, nil
	}
	next.Lines = append(next.Lines, line)
	return next, nil
}

// SetQuantity replaces a line's quantity. Below 1 the line is removed.
func (c Cart) SetQuantity(key LineKey, quantity int) (Cart, error) {
	i := c.index(key)
	if i < 0 {
		return c, ErrLineNotFound
	}
	if quantity < 1 {
		return c.Remove(key)
	}
	next := c.clone()
	next.Lines[i].Quantity = quantity
	return next, nil
}

// Remove drops the line for key.
func (c Cart) Remove(key LineKey) (Cart, error) {
	i := c.index(key)
	if i < 0 {
		return c, ErrLineNotFound
	}
	next := c.clone()
	next.Lines = append(next.Lines[:i], next.Lines[i+1:]...)
	return next, nil
}

// WithPromo stores a normalized promo code. Resolution happens at pricing time.
func (c Cart) WithPromo(code string) Cart {
	next := c.clone()
	next.PromoCode = pricing.NormalizeCode(code)
	return next
}

// Clear empties the cart and drops its promo.
func (c Cart) Clear() Cart {
	return Cart{}
}

// Resolve finds the key for gameID. An empty platform matches the game's only
// line and is ambiguous when the game sits in the cart on several platforms.
func (c Cart) Resolve(gameID int, platform string) (LineKey, error) {
	platform = strings.TrimSpace(platform)
	if platform != "" {
		key := LineKey{GameID: gameID, Platform: platform}
		if i := c.index(key); i >= 0 {
			return c.Lines[i].Key(), nil
		}
		return LineKey{}, ErrLineNotFound
	}

	var found []LineKey
	for _, line := range c.Lines {
		if line.GameID == gameID {
			found = append(found, line.Key())
		}
	}
	switch len(found) {
	case 0:
		return LineKey{}, ErrLineNotFound
	case 1:
		return found[0], nil
	default:
		return LineKey{}, ErrAmbiguousLine
	}
}

// PricingLines converts every line for the pricing engine.
func (c Cart) PricingLines() []pricing.Line {
	out := make([]pricing.Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		out = append(out, line.PricingLine())
	}
	return out
}
