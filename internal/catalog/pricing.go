package catalog

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// BundlePricing is the derived price breakdown of a bundle.
type BundlePricing struct {
	OriginalPrice decimal.Decimal `json:"original_price"`
	Price         decimal.Decimal `json:"price"`
	Savings       decimal.Decimal `json:"savings"`
}

// OriginalPrice is the sum of the contained product prices.
func OriginalPrice(b Bundle) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range b.Products {
		sum = sum.Add(p.Price)
	}
	return sum
}

// Price applies the bundle discount to its original price.
func Price(b Bundle) decimal.Decimal {
	return discounted(OriginalPrice(b), b.Discount)
}

// Savings is the amount taken off by the discount.
func Savings(b Bundle) decimal.Decimal {
	original := OriginalPrice(b)
	return original.Sub(discounted(original, b.Discount))
}

// PricingFor computes every derived price of b at once.
func PricingFor(b Bundle) BundlePricing {
	original := OriginalPrice(b)
	price := discounted(original, b.Discount)
	return BundlePricing{
		OriginalPrice: original,
		Price:         price,
		Savings:       original.Sub(price),
	}
}

// RoundCents rounds an amount half away from zero to two decimals for display.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func discounted(original decimal.Decimal, discount int) decimal.Decimal {
	remaining := decimal.NewFromInt(int64(100 - discount))
	return original.Mul(remaining).Div(hundred)
}
