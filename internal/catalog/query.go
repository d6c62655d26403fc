package catalog

import (
	"cmp"
	"fmt"
	"strings"
)

// SortKey orders a listing.
type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

// SortKeys lists the sort orders in the order the UI cycles through them.
var SortKeys = []SortKey{SortName, SortPriceLow, SortPriceHigh}

// ParseSortKey accepts a sort key name. Empty selects SortName.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortName:
		return SortName, nil
	case SortPriceLow:
		return SortPriceLow, nil
	case SortPriceHigh:
		return SortPriceHigh, nil
	}
	return SortName, fmt.Errorf("unknown sort %q (want name, price-low or price-high)", s)
}

// Label is the human readable name of the sort order.
func (k SortKey) Label() string {
	switch k {
	case SortPriceLow:
		return "Price: Low to High"
	case SortPriceHigh:
		return "Price: High to Low"
	default:
		return "Name"
	}
}

// Next returns the following sort key, wrapping around.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortName
}

func (k SortKey) compare(a, b Item) int {
	switch k {
	case SortPriceLow:
		return cmp.Compare(a.Price, b.Price)
	case SortPriceHigh:
		return cmp.Compare(b.Price, a.Price)
	default:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}

// Query holds the catalog view's search state.
type Query struct {
	Text     string
	Category string // "All" or empty disables the filter
	Sort     SortKey
}

func (q Query) matchesCategory(it Item) bool {
	return q.Category == "" || q.Category == AllCategories || it.Category == q.Category
}
