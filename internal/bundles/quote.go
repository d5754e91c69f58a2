package bundles

import (
	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

// Quote previews what the current selection would cost as a bundle.
type Quote struct {
	Count         int             `json:"count"`
	Discount      int             `json:"discount"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Price         decimal.Decimal `json:"price"`
	Savings       decimal.Decimal `json:"savings"`
	Ready         bool            `json:"ready"`
}

// QuoteFor prices sel at its discount tier without building a bundle.
func QuoteFor(sel *Selection) Quote {
	preview := catalog.Bundle{
		Products: sel.products,
		Discount: Tier(sel.Len()),
	}
	pricing := catalog.PricingFor(preview)
	return Quote{
		Count:         sel.Len(),
		Discount:      preview.Discount,
		OriginalPrice: pricing.OriginalPrice,
		Price:         pricing.Price,
		Savings:       pricing.Savings,
		Ready:         sel.Len() >= MinProducts,
	}
}
