package catalog

import (
	"slices"

	"github.com/angelmondragon/bazaar-backend/pkg/enums"
)

// Bundle groups products sold together at a percentage discount.
type Bundle struct {
	ID          string           `json:"id" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Products    []Product        `json:"products" validate:"min=1,dive"`
	Discount    int              `json:"discount" validate:"gte=0,lte=100"`
	Tags        []string         `json:"tags"`
	Image       string           `json:"image"`
	Featured    bool             `json:"featured"`
	Type        enums.BundleType `json:"type" validate:"required"`
}

// Clone returns a deep copy of b, including its nested products.
func (b Bundle) Clone() Bundle {
	products := make([]Product, len(b.Products))
	for i, p := range b.Products {
		products[i] = p.Clone()
	}
	b.Products = products
	b.Tags = slices.Clone(b.Tags)
	return b
}

// HasTag reports whether the bundle carries tag exactly.
func (b Bundle) HasTag(tag string) bool {
	return slices.Contains(b.Tags, tag)
}

// ContainsProduct reports whether a product with id is part of the bundle.
func (b Bundle) ContainsProduct(id string) bool {
	for _, p := range b.Products {
		if p.ID == id {
			return true
		}
	}
	return false
}
