package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/pixelforge/gamestore-backend/pkg/enums"
	"github.com/pixelforge/gamestore-backend/pkg/pagination"
)

var (
	ErrInvalidPage     = errors.New("page must be 1 or greater")
	ErrInvalidPageSize = errors.New("page size must be 1 or greater")
	ErrInvalidRange    = errors.New("price range minimum exceeds maximum")
	ErrInvalidRating   = errors.New("rating bucket must be between 0 and 5")
)

// PriceRange is a closed interval on effective price.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// ShowOnly flags narrow results to products with every set flag.
type ShowOnly struct {
	OnSale     bool `json:"on_sale"`
	NewRelease bool `json:"new_release"`
	Featured   bool `json:"featured"`
}

// FilterConfig is the full set of catalog filters for one query.
type FilterConfig struct {
	SearchText string   `json:"search_text"`
	Categories []string `json:"categories"`
	Platforms  []string `json:"platforms"`
	// nil means unbounded
	PriceRange *PriceRange `json:"price_range,omitempty"`
	// nil means any rating; N keeps ratings in [N, N+1)
	MinRatingBucket *int          `json:"min_rating_bucket,omitempty"`
	ShowOnly        ShowOnly      `json:"show_only"`
	SortKey         enums.SortKey `json:"sort_key"`
}

// Validate reports configuration errors that Query would reject.
func (c FilterConfig) Validate() error {
	if c.PriceRange != nil && c.PriceRange.Min.GreaterThan(c.PriceRange.Max) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, c.PriceRange.Min, c.PriceRange.Max)
	}
	if c.MinRatingBucket != nil && (*c.MinRatingBucket < 0 || *c.MinRatingBucket > 5) {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, *c.MinRatingBucket)
	}
	if c.SortKey != "" && !c.SortKey.IsValid() {
		return fmt.Errorf("unknown sort key %q", c.SortKey)
	}
	return nil
}

// Result is the outcome of one catalog query.
type Result struct {
	Matched      []Product
	TotalMatched int
	PageCount    int
	Page         []Product
}

// Query filters, sorts and pages products. The input slice is not modified and
// its order is the tie-break for every sort.
func Query(products []Product, cfg FilterConfig, page, pageSize int) (Result, error) {
	if page < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}
	if pageSize < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	matched := Filter(products, cfg)
	Sort(matched, cfg.SortKey)

	total := len(matched)
	start, end := pagination.Bounds(page, pageSize, total)
	return Result{
		Matched:      matched,
		TotalMatched: total,
		PageCount:    pagination.PageCount(total, pageSize),
		Page:         matched[start:end:end],
	}, nil
}

// Filter returns the products that pass every active predicate, in input order.
func Filter(products []Product, cfg FilterConfig) []Product {
	p := newPredicate(cfg)
	out := make([]Product, 0, len(products))
	for _, product := range products {
		if p.keep(product) {
			out = append(out, product)
		}
	}
	return out
}

// Sort orders products in place using a stable sort for key.
func Sort(products []Product, key enums.SortKey) {
	var less func(a, b Product) bool
	switch key {
	case enums.SortPriceAsc:
		less = func(a, b Product) bool { return a.EffectivePrice().LessThan(b.EffectivePrice()) }
	case enums.SortPriceDesc:
		less = func(a, b Product) bool { return a.EffectivePrice().GreaterThan(b.EffectivePrice()) }
	case enums.SortNewest:
		less = func(a, b Product) bool { return a.ReleaseDate.After(b.ReleaseDate) }
	case enums.SortRatingDesc:
		less = func(a, b Product) bool { return a.Rating > b.Rating }
	default:
		less = func(a, b Product) bool { return a.Featured && !b.Featured }
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

type predicate struct {
	fold       cases.Caser
	search     string
	categories map[string]struct{}
	platforms  []string
	priceRange *PriceRange
	rating     *int
	showOnly   ShowOnly
}

func newPredicate(cfg FilterConfig) *predicate {
	// a Caser carries state, so each query gets its own
	fold := cases.Fold()
	p := &predicate{
		fold:       fold,
		search:     fold.String(cfg.SearchText),
		platforms:  cfg.Platforms,
		priceRange: cfg.PriceRange,
		rating:     cfg.MinRatingBucket,
		showOnly:   cfg.ShowOnly,
	}
	if len(cfg.Categories) > 0 {
		p.categories = make(map[string]struct{}, len(cfg.Categories))
		for _, c := range cfg.Categories {
			p.categories[Slugify(c)] = struct{}{}
		}
	}
	return p
}

func (p *predicate) keep(product Product) bool {
	return p.matchesSearch(product) &&
		p.matchesCategory(product) &&
		p.matchesPlatform(product) &&
		p.matchesPrice(product) &&
		p.matchesRating(product) &&
		p.matchesFlags(product)
}

func (p *predicate) matchesSearch(product Product) bool {
	if p.search == "" {
		return true
	}
	if p.contains(product.Title) || p.contains(product.Description) {
		return true
	}
	for _, tag := range product.Tags {
		if p.contains(tag) {
			return true
		}
	}
	return false
}

func (p *predicate) contains(field string) bool {
	return strings.Contains(p.fold.String(field), p.search)
}

func (p *predicate) matchesCategory(product Product) bool {
	if len(p.categories) == 0 {
		return true
	}
	_, ok := p.categories[product.CategorySlug()]
	return ok
}

func (p *predicate) matchesPlatform(product Product) bool {
	if len(p.platforms) == 0 {
		return true
	}
	for _, platform := range p.platforms {
		if product.HasPlatform(platform) {
			return true
		}
	}
	return false
}

func (p *predicate) matchesPrice(product Product) bool {
	if p.priceRange == nil {
		return true
	}
	price := product.EffectivePrice()
	return price.GreaterThanOrEqual(p.priceRange.Min) && price.LessThanOrEqual(p.priceRange.Max)
}

func (p *predicate) matchesRating(product Product) bool {
	if p.rating == nil {
		return true
	}
	bucket := float64(*p.rating)
	return product.Rating >= bucket && product.Rating < bucket+1
}

func (p *predicate) matchesFlags(product Product) bool {
	if p.showOnly.OnSale && !product.OnSale {
		return false
	}
	if p.showOnly.NewRelease && !product.NewRelease {
		return false
	}
	if p.showOnly.Featured && !product.Featured {
		return false
	}
	return true
}
