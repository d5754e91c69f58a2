package catalog

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Product is an individually purchasable catalog item. Values are treated as
// immutable once they leave the catalog.
type Product struct {
	ID          string          `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required"`
	Tags        []string        `json:"tags"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	p.Tags = slices.Clone(p.Tags)
	return p
}

// Available reports whether the product can be purchased.
func (p Product) Available() bool {
	return p.Stock > 0
}

// HasTag reports whether the product carries tag exactly.
func (p Product) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}
