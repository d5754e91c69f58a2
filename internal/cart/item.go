package cart

import (
	"fmt"

	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Item is what a cart line carries: exactly one of Product or Bundle, selected by Kind.
type Item struct {
	Kind    enums.LineKind
	Product *catalog.Product
	Bundle  *catalog.Bundle
}

// ProductItem wraps a product for the cart.
func ProductItem(p catalog.Product) Item {
	p = p.Clone()
	return Item{Kind: enums.LineKindProduct, Product: &p}
}

// BundleItem wraps a bundle for the cart.
func BundleItem(b catalog.Bundle) Item {
	b = b.Clone()
	return Item{Kind: enums.LineKindBundle, Bundle: &b}
}

// Validate checks that the payload matches the kind.
func (i Item) Validate() error {
	switch i.Kind {
	case enums.LineKindProduct:
		if i.Product == nil || i.Bundle != nil {
			return fmt.Errorf("product line must carry only a product")
		}
		if i.Product.ID == "" {
			return fmt.Errorf("product id is required")
		}
		if i.Product.Price.IsNegative() {
			return fmt.Errorf("product %q has a negative price", i.Product.ID)
		}
	case enums.LineKindBundle:
		if i.Bundle == nil || i.Product != nil {
			return fmt.Errorf("bundle line must carry only a bundle")
		}
		if i.Bundle.ID == "" {
			return fmt.Errorf("bundle id is required")
		}
		if len(i.Bundle.Products) == 0 {
			return fmt.Errorf("bundle %q has no products", i.Bundle.ID)
		}
		if i.Bundle.Discount < 0 || i.Bundle.Discount > 100 {
			return fmt.Errorf("bundle %q discount %d out of range", i.Bundle.ID, i.Bundle.Discount)
		}
		for _, p := range i.Bundle.Products {
			if p.Price.IsNegative() {
				return fmt.Errorf("bundle %q product %q has a negative price", i.Bundle.ID, p.ID)
			}
		}
	default:
		return fmt.Errorf("unknown line kind %q", i.Kind)
	}
	return nil
}

func (i Item) ID() string {
	switch i.Kind {
	case enums.LineKindProduct:
		return i.Product.ID
	case enums.LineKindBundle:
		return i.Bundle.ID
	}
	return ""
}

func (i Item) Name() string {
	switch i.Kind {
	case enums.LineKindProduct:
		return i.Product.Name
	case enums.LineKindBundle:
		return i.Bundle.Name
	}
	return ""
}

// UnitPrice is the product price or the discounted bundle price.
func (i Item) UnitPrice() decimal.Decimal {
	switch i.Kind {
	case enums.LineKindProduct:
		return i.Product.Price
	case enums.LineKindBundle:
		return catalog.Price(*i.Bundle)
	}
	return decimal.Zero
}

func (i Item) key() lineKey {
	return lineKey{id: i.ID(), kind: i.Kind}
}

func (i Item) clone() Item {
	switch i.Kind {
	case enums.LineKindProduct:
		return ProductItem(*i.Product)
	case enums.LineKindBundle:
		return BundleItem(*i.Bundle)
	}
	return i
}

type lineKey struct {
	id   string
	kind enums.LineKind
}
