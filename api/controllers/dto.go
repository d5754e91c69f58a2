package controllers

import (
	"github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// BundleDTO is a bundle with its derived prices.
type BundleDTO struct {
	catalog.Bundle
	Pricing catalog.BundlePricing `json:"pricing"`
}

func bundleDTO(b catalog.Bundle) BundleDTO {
	return BundleDTO{Bundle: b, Pricing: catalog.PricingFor(b)}
}

func bundleDTOs(bundles []catalog.Bundle) []BundleDTO {
	out := make([]BundleDTO, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, bundleDTO(b))
	}
	return out
}

// CartLineDTO is one cart line as returned to the storefront.
type CartLineDTO struct {
	Kind      enums.LineKind  `json:"kind"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Item      any             `json:"item"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartDTO is the cart with its derived count and total.
type CartDTO struct {
	Session string          `json:"session"`
	Lines   []CartLineDTO   `json:"lines"`
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
}

// CartMutationDTO pairs the updated cart with feedback for the shopper.
type CartMutationDTO struct {
	Cart   CartDTO      `json:"cart"`
	Notice *cart.Notice `json:"notice,omitempty"`
}

func cartDTO(session string, snap cart.Snapshot) CartDTO {
	lines := make([]CartLineDTO, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		var item any
		switch l.Item.Kind {
		case enums.LineKindProduct:
			item = l.Item.Product
		case enums.LineKindBundle:
			item = bundleDTO(*l.Item.Bundle)
		}
		lines = append(lines, CartLineDTO{
			Kind:      l.Item.Kind,
			ID:        l.Item.ID(),
			Name:      l.Item.Name(),
			Item:      item,
			Quantity:  l.Quantity,
			UnitPrice: catalog.RoundCents(l.Item.UnitPrice()),
			LineTotal: catalog.RoundCents(l.Total()),
		})
	}
	return CartDTO{
		Session: session,
		Lines:   lines,
		Count:   snap.Count,
		Total:   catalog.RoundCents(snap.Total),
	}
}

func mutationDTO(session string, snap cart.Snapshot, notice cart.Notice) CartMutationDTO {
	out := CartMutationDTO{Cart: cartDTO(session, snap)}
	if !notice.IsZero() {
		out.Notice = &notice
	}
	return out
}

// FacetsDTO lists the values the storefront filters on.
type FacetsDTO struct {
	Categories []string            `json:"categories"`
	Tags       []string            `json:"tags"`
	Sorts      []enums.ProductSort `json:"sorts"`
}
