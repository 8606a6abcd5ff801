package enums

import (
	"fmt"
	"strings"
)

// SortKey selects the ordering applied to catalog results.
type SortKey string

const (
	SortRelevance  SortKey = "relevance"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortNewest     SortKey = "newest"
	SortRatingDesc SortKey = "rating-desc"
)

var validSortKeys = []SortKey{
	SortRelevance,
	SortPriceAsc,
	SortPriceDesc,
	SortNewest,
	SortRatingDesc,
}

// storefront query strings use the shorter names
var sortKeyAliases = map[string]SortKey{
	"price-low":  SortPriceAsc,
	"price-high": SortPriceDesc,
	"rating":     SortRatingDesc,
}

// String implements fmt.Stringer.
func (s SortKey) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortKey.
func (s SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortKey converts raw input into a SortKey. Empty input means relevance.
func ParseSortKey(value string) (SortKey, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return SortRelevance, nil
	}
	for _, candidate := range validSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	if alias, ok := sortKeyAliases[value]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}
