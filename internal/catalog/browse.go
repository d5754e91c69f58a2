package catalog

import (
	"sort"
	"strings"

	"github.com/angelmondragon/bazaar-backend/pkg/enums"
)

// ProductFilter narrows the product listing. Zero values match everything.
type ProductFilter struct {
	Query    string
	Category string
	Tags     []string
	Sort     enums.ProductSort
}

// BundleFilter narrows the bundle listing. Zero values match everything.
type BundleFilter struct {
	Query        string
	Tags         []string
	FeaturedOnly bool
}

// ListProducts filters and sorts products with a linear scan.
func (c *Catalog) ListProducts(filter ProductFilter) []Product {
	term := strings.ToLower(strings.TrimSpace(filter.Query))
	category := strings.TrimSpace(filter.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}

	var out []Product
	for _, p := range c.products {
		if term != "" && !productMatches(p, term) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if len(filter.Tags) > 0 && !anyTag(p.HasTag, filter.Tags) {
			continue
		}
		out = append(out, p.Clone())
	}

	sortProducts(out, filter.Sort)
	return out
}

// ListBundles filters bundles with a linear scan, keeping catalog order.
func (c *Catalog) ListBundles(filter BundleFilter) []Bundle {
	term := strings.ToLower(strings.TrimSpace(filter.Query))

	var out []Bundle
	for _, b := range c.bundles {
		if filter.FeaturedOnly && !b.Featured {
			continue
		}
		if term != "" && !bundleMatches(b, term) {
			continue
		}
		if len(filter.Tags) > 0 && !anyTag(b.HasTag, filter.Tags) {
			continue
		}
		out = append(out, b.Clone())
	}
	return out
}

func productMatches(p Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	return tagMatches(p.Tags, term)
}

func bundleMatches(b Bundle, term string) bool {
	if strings.Contains(strings.ToLower(b.Name), term) || strings.Contains(strings.ToLower(b.Description), term) {
		return true
	}
	if tagMatches(b.Tags, term) {
		return true
	}
	for _, p := range b.Products {
		if strings.Contains(strings.ToLower(p.Name), term) {
			return true
		}
	}
	return false
}

func tagMatches(tags []string, term string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func anyTag(has func(string) bool, wanted []string) bool {
	for _, tag := range wanted {
		if has(tag) {
			return true
		}
	}
	return false
}

func sortProducts(products []Product, order enums.ProductSort) {
	if !order.IsValid() {
		order = enums.DefaultProductSort
	}
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch order {
		case enums.ProductSortNameDesc:
			return compareNames(b.Name, a.Name) < 0
		case enums.ProductSortPriceAsc:
			return a.Price.LessThan(b.Price)
		case enums.ProductSortPriceDesc:
			return a.Price.GreaterThan(b.Price)
		default:
			return compareNames(a.Name, b.Name) < 0
		}
	})
}

func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
