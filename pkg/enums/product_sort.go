package enums

import (
	"fmt"
	"strings"
)

// ProductSort names the orderings offered by the product listing.
type ProductSort string

const (
	ProductSortNameAsc   ProductSort = "name-asc"
	ProductSortNameDesc  ProductSort = "name-desc"
	ProductSortPriceAsc  ProductSort = "price-asc"
	ProductSortPriceDesc ProductSort = "price-desc"
)

// DefaultProductSort is applied when the caller does not pick one.
const DefaultProductSort = ProductSortNameAsc

var validProductSorts = []ProductSort{
	ProductSortNameAsc,
	ProductSortNameDesc,
	ProductSortPriceAsc,
	ProductSortPriceDesc,
}

// String implements fmt.Stringer.
func (s ProductSort) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductSort.
func (s ProductSort) IsValid() bool {
	for _, candidate := range validProductSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductSort converts raw input into a ProductSort. Blank input yields the default.
func ParseProductSort(value string) (ProductSort, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultProductSort, nil
	}
	for _, candidate := range validProductSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product sort %q", value)
}

// ProductSorts lists every supported ordering.
func ProductSorts() []ProductSort {
	out := make([]ProductSort, len(validProductSorts))
	copy(out, validProductSorts)
	return out
}
