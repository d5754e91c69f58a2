package bundles

import (
	"testing"

	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

func product(id, price string, tags ...string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Category: "Test",
		Tags:     tags,
		Image:    "https://img.example/" + id,
		Stock:    10,
	}
}

func selectionIDs(s *Selection) []string {
	var out []string
	for _, p := range s.Products() {
		out = append(out, p.ID)
	}
	return out
}

func TestSelectionAddIsIdempotent(t *testing.T) {
	var s Selection
	if !s.Add(product("a", "1")) {
		t.Fatal("expected first add to change selection")
	}
	if s.Add(product("a", "1")) {
		t.Fatal("expected duplicate add to be a no-op")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 product, got %d", s.Len())
	}
}

func TestSelectionRemoveKeepsOrder(t *testing.T) {
	s := NewSelection(product("a", "1"), product("b", "2"), product("c", "3"), product("b", "2"))
	if s.Len() != 3 {
		t.Fatalf("expected duplicates to be skipped, got %d", s.Len())
	}
	if !s.Remove("b") {
		t.Fatal("expected remove to succeed")
	}
	if s.Remove("b") {
		t.Fatal("expected second remove to be a no-op")
	}
	got := selectionIDs(s)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("unexpected order %v", got)
	}
	if !s.Contains("c") || s.Contains("b") {
		t.Fatal("index out of sync after remove")
	}

	s.Add(product("d", "4"))
	s.Remove("a")
	got = selectionIDs(s)
	if len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Fatalf("unexpected order after second remove %v", got)
	}

	s.Reset()
	if s.Len() != 0 || s.Contains("c") {
		t.Fatal("expected reset to clear selection")
	}
}

func TestQuoteFor(t *testing.T) {
	s := NewSelection(product("a", "10"), product("b", "15"), product("c", "20"))
	q := QuoteFor(s)
	if q.Count != 3 || q.Discount != 10 || !q.Ready {
		t.Fatalf("unexpected quote %+v", q)
	}
	if !q.OriginalPrice.Equal(decimal.NewFromInt(45)) || !q.Price.Equal(decimal.RequireFromString("40.5")) || !q.Savings.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("unexpected prices %+v", q)
	}

	single := QuoteFor(NewSelection(product("a", "10")))
	if single.Ready || single.Discount != 0 || !single.Price.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected single-product quote %+v", single)
	}
}
