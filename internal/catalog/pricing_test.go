package catalog

import (
	"testing"

	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func priced(id string, price string) Product {
	return Product{ID: id, Name: id, Category: "Test", Price: decimal.RequireFromString(price), Stock: 1}
}

func TestBundlePricing(t *testing.T) {
	b := Bundle{
		ID:       "custom",
		Products: []Product{priced("a", "10"), priced("b", "15"), priced("c", "20")},
		Discount: 10,
		Type:     enums.BundleTypeCustom,
	}

	if got := OriginalPrice(b); !got.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("expected original 45, got %s", got)
	}
	if got := Price(b); !got.Equal(decimal.RequireFromString("40.5")) {
		t.Fatalf("expected price 40.5, got %s", got)
	}
	if got := Savings(b); !got.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("expected savings 4.5, got %s", got)
	}

	pricing := PricingFor(b)
	if !pricing.Price.Equal(Price(b)) || !pricing.Savings.Equal(Savings(b)) || !pricing.OriginalPrice.Equal(OriginalPrice(b)) {
		t.Fatalf("PricingFor disagrees with individual functions: %+v", pricing)
	}
}

func TestPriceBoundsAcrossDiscounts(t *testing.T) {
	products := []Product{priced("a", "14.99"), priced("b", "12.99"), priced("c", "24.99")}
	for discount := 0; discount <= 100; discount++ {
		b := Bundle{Products: products, Discount: discount}
		original := OriginalPrice(b)
		price := Price(b)
		if price.IsNegative() || price.GreaterThan(original) {
			t.Fatalf("discount %d: price %s out of [0, %s]", discount, price, original)
		}
		if !Savings(b).Equal(original.Sub(price)) {
			t.Fatalf("discount %d: savings mismatch", discount)
		}
	}

	full := Bundle{Products: products, Discount: 100}
	if !Price(full).IsZero() {
		t.Fatalf("expected 100%% discount to be free, got %s", Price(full))
	}
	none := Bundle{Products: products, Discount: 0}
	if !Price(none).Equal(OriginalPrice(none)) {
		t.Fatalf("expected 0%% discount to keep original price")
	}
}

func TestPricingIsDeterministic(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	b, err := c.BundleByID("b1")
	if err != nil {
		t.Fatalf("BundleByID: %v", err)
	}
	first := Price(b)
	for i := 0; i < 5; i++ {
		if !Price(b).Equal(first) {
			t.Fatalf("price changed between calls")
		}
	}
	// 14.99 + 12.99 + 24.99 = 52.97, 15% off
	if !OriginalPrice(b).Equal(decimal.RequireFromString("52.97")) {
		t.Fatalf("unexpected original price %s", OriginalPrice(b))
	}
	if got := RoundCents(Price(b)); !got.Equal(decimal.RequireFromString("45.02")) {
		t.Fatalf("unexpected rounded price %s", got)
	}
}

func TestEmptyBundlePricesToZero(t *testing.T) {
	if !Price(Bundle{Discount: 20}).IsZero() {
		t.Fatal("expected empty bundle to price at zero")
	}
}
