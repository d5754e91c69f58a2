package catalog

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Catalog is a read-only provider of products and curated bundles.
// Every accessor hands out copies so callers cannot mutate catalog state.
type Catalog struct {
	products   []Product
	bundles    []Bundle
	productIdx map[string]int
	bundleIdx  map[string]int
}

var validate = validator.New()

// New validates the provided data and builds a catalog from it.
func New(products []Product, bundles []Bundle) (*Catalog, error) {
	c := &Catalog{
		productIdx: make(map[string]int, len(products)),
		bundleIdx:  make(map[string]int, len(bundles)),
	}

	for _, p := range products {
		if err := validateProduct(p); err != nil {
			return nil, err
		}
		if _, dup := c.productIdx[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.productIdx[p.ID] = len(c.products)
		c.products = append(c.products, p.Clone())
	}

	for _, b := range bundles {
		if err := validate.Struct(b); err != nil {
			return nil, fmt.Errorf("bundle %q: %w", b.ID, err)
		}
		if !b.Type.IsValid() {
			return nil, fmt.Errorf("bundle %q: invalid type %q", b.ID, b.Type)
		}
		for _, p := range b.Products {
			if _, ok := c.productIdx[p.ID]; !ok {
				return nil, fmt.Errorf("bundle %q references unknown product %q", b.ID, p.ID)
			}
			if err := validateProduct(p); err != nil {
				return nil, fmt.Errorf("bundle %q: %w", b.ID, err)
			}
		}
		if _, dup := c.bundleIdx[b.ID]; dup {
			return nil, fmt.Errorf("duplicate bundle id %q", b.ID)
		}
		c.bundleIdx[b.ID] = len(c.bundles)
		c.bundles = append(c.bundles, b.Clone())
	}

	return c, nil
}

// Default builds the catalog from the storefront seed data.
func Default() (*Catalog, error) {
	products := SeedProducts()
	return New(products, SeedBundles(products))
}

func validateProduct(p Product) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("product %q: %w", p.ID, err)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %q: price must be non-negative", p.ID)
	}
	return nil
}

// Products returns every product in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.Clone()
	}
	return out
}

// Bundles returns every curated bundle in catalog order.
func (c *Catalog) Bundles() []Bundle {
	out := make([]Bundle, len(c.bundles))
	for i, b := range c.bundles {
		out[i] = b.Clone()
	}
	return out
}

// FeaturedBundles returns the bundles promoted on the storefront home page.
func (c *Catalog) FeaturedBundles() []Bundle {
	var out []Bundle
	for _, b := range c.bundles {
		if b.Featured {
			out = append(out, b.Clone())
		}
	}
	return out
}

func (c *Catalog) ProductByID(id string) (Product, error) {
	idx, ok := c.productIdx[id]
	if !ok {
		return Product{}, pkgerrors.NotFound(fmt.Sprintf("product %q not found", id))
	}
	return c.products[idx].Clone(), nil
}

func (c *Catalog) BundleByID(id string) (Bundle, error) {
	idx, ok := c.bundleIdx[id]
	if !ok {
		return Bundle{}, pkgerrors.NotFound(fmt.Sprintf("bundle %q not found", id))
	}
	return c.bundles[idx].Clone(), nil
}

// Categories lists distinct product categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Tags lists distinct product tags in first-seen order.
func (c *Catalog) Tags() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range c.products {
		for _, tag := range p.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
