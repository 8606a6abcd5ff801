package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pixelforge/gamestore-backend/pkg/db/models"
)

var (
	hundred    = decimal.NewFromInt(100)
	whitespace = regexp.MustCompile(`\s+`)
)

// KnownPlatforms lists the platforms the storefront filters on.
var KnownPlatforms = []string{
	"PC",
	"PlayStation 5",
	"PlayStation 4",
	"Xbox Series X",
	"Xbox One",
	"Nintendo Switch",
	"Mobile",
}

// Flags are the independent merchandising booleans on a product.
type Flags struct {
	Featured   bool `json:"is_featured"`
	OnSale     bool `json:"is_on_sale"`
	NewRelease bool `json:"is_new_release"`
}

// Product is the read-only view of a game the query engine works on.
type Product struct {
	ID              int             `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	LongDescription string          `json:"long_description,omitempty"`
	Category        string          `json:"category"`
	Price           decimal.Decimal `json:"price"`
	Discount        int             `json:"discount"`
	Rating          float64         `json:"rating"`
	Reviews         int             `json:"reviews"`
	Platforms       []string        `json:"platforms"`
	Tags            []string        `json:"tags"`
	ReleaseDate     time.Time       `json:"release_date"`
	Developer       string          `json:"developer,omitempty"`
	Publisher       string          `json:"publisher,omitempty"`
	Image           string          `json:"image,omitempty"`
	Stock           int             `json:"stock"`
	Flags
}

// EffectivePrice is price * (1 - discount/100), unrounded.
func (p Product) EffectivePrice() decimal.Decimal {
	return p.Price.Mul(hundred.Sub(decimal.NewFromInt(int64(p.Discount)))).Div(hundred)
}

// CategorySlug is the category lower-cased with whitespace runs replaced by "-".
func (p Product) CategorySlug() string {
	return Slugify(p.Category)
}

// HasPlatform reports whether the product ships on platform.
func (p Product) HasPlatform(platform string) bool {
	for _, candidate := range p.Platforms {
		if strings.EqualFold(candidate, platform) {
			return true
		}
	}
	return false
}

// Slugify normalizes a category name into its slug.
func Slugify(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Category is a browsable genre with the number of games filed under it.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	GameCount   int    `json:"game_count"`
}

// FromModel converts a stored game into the engine view.
func FromModel(m models.Game) Product {
	return Product{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		LongDescription: m.LongDescription,
		Category:        m.Category,
		Price:           m.Price,
		Discount:        m.Discount,
		Rating:          m.Rating,
		Reviews:         m.Reviews,
		Platforms:       append([]string(nil), m.Platforms...),
		Tags:            append([]string(nil), m.Tags...),
		ReleaseDate:     m.ReleaseDate,
		Developer:       m.Developer,
		Publisher:       m.Publisher,
		Image:           m.Image,
		Stock:           m.Stock,
		Flags: Flags{
			Featured:   m.IsFeatured,
			OnSale:     m.IsOnSale,
			NewRelease: m.IsNewRelease,
		},
	}
}
