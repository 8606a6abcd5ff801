package enums

import (
	"fmt"
	"strings"
)

// WishlistSort selects the wishlist ordering.
type WishlistSort string

const (
	WishlistSortRecent    WishlistSort = "recent"
	WishlistSortPriceLow  WishlistSort = "price-low"
	WishlistSortPriceHigh WishlistSort = "price-high"
	WishlistSortRating    WishlistSort = "rating"
)

var validWishlistSorts = []WishlistSort{
	WishlistSortRecent,
	WishlistSortPriceLow,
	WishlistSortPriceHigh,
	WishlistSortRating,
}

func (s WishlistSort) String() string {
	return string(s)
}

// ParseWishlistSort converts raw input into a WishlistSort. Empty input means recent.
func ParseWishlistSort(value string) (WishlistSort, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return WishlistSortRecent, nil
	}
	for _, candidate := range validWishlistSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wishlist sort %q", value)
}
