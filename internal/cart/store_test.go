package cart

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func TestAddToCartMergesSameItem(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend().Storage("k"))
	mug := testProduct("p1", "14.99")

	notice, err := s.AddToCart(ProductItem(mug))
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if notice.Type != NoticeItemAdded || notice.Description != "Product p1 added to your cart" {
		t.Fatalf("unexpected first notice %+v", notice)
	}

	notice, err = s.AddToCart(ProductItem(mug))
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if notice.Type != NoticeQuantityUpdated || notice.Description != "Product p1 quantity increased to 2" {
		t.Fatalf("unexpected merge notice %+v", notice)
	}

	lines := s.Lines()
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", lines)
	}
	if s.Count() != 2 {
		t.Fatalf("expected count 2, got %d", s.Count())
	}
	if !s.Total().Equal(decimal.RequireFromString("29.98")) {
		t.Fatalf("expected total 29.98, got %s", s.Total())
	}
}

func TestAddToCartKeepsProductAndBundleWithSameIDApart(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend().Storage("k"))
	p := testProduct("x1", "10")
	b := testBundle("x1", 10, testProduct("a", "10"), testProduct("b", "10"))

	if _, err := s.AddToCart(ProductItem(p)); err != nil {
		t.Fatalf("add product: %v", err)
	}
	if _, err := s.AddToCart(BundleItem(b)); err != nil {
		t.Fatalf("add bundle: %v", err)
	}

	lines := s.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Item.Kind != enums.LineKindProduct || lines[1].Item.Kind != enums.LineKindBundle {
		t.Fatalf("unexpected line order %+v", lines)
	}
	// 10 + (20 * 0.9)
	if !s.Total().Equal(decimal.RequireFromString("28")) {
		t.Fatalf("expected total 28, got %s", s.Total())
	}
}

func TestAddToCartRejectsInvalidItem(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend().Storage("k"))
	empty := testBundle("b", 10)
	p := testProduct("p1", "1")

	cases := []Item{
		{Kind: enums.LineKindProduct},
		{Kind: enums.LineKindBundle, Bundle: &empty},
		{Kind: enums.LineKindBundle, Product: &p},
		{Kind: "gift-card"},
	}
	for _, item := range cases {
		if _, err := s.AddToCart(item); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %+v, got %v", item, err)
		}
	}
	if s.Count() != 0 || len(s.Lines()) != 0 {
		t.Fatal("rejected items must not change the cart")
	}
}

func TestUpdateQuantity(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend().Storage("k"))
	if _, err := s.AddToCart(ProductItem(testProduct("p1", "5"))); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	notice, ok := s.UpdateQuantity("p1", enums.LineKindProduct, 4)
	if !ok || !notice.IsZero() {
		t.Fatalf("expected silent update, got %+v ok=%v", notice, ok)
	}
	if s.Count() != 4 || !s.Total().Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected count/total %d/%s", s.Count(), s.Total())
	}

	if _, ok := s.UpdateQuantity("missing", enums.LineKindProduct, 3); ok {
		t.Fatal("updating an absent line must be a no-op")
	}
	if _, ok := s.UpdateQuantity("p1", enums.LineKindBundle, 3); ok {
		t.Fatal("kind must be part of the line identity")
	}

	notice, ok = s.UpdateQuantity("p1", enums.LineKindProduct, 0)
	if !ok || notice.Type != NoticeItemRemoved {
		t.Fatalf("expected removal notice, got %+v ok=%v", notice, ok)
	}
	if len(s.Lines()) != 0 || s.Count() != 0 || !s.Total().IsZero() {
		t.Fatal("expected empty cart after quantity 0")
	}
}

func TestRemoveFromCart(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend().Storage("k"))
	for _, id := range []string{"p1", "p2", "p3"} {
		if _, err := s.AddToCart(ProductItem(testProduct(id, "1"))); err != nil {
			t.Fatalf("AddToCart: %v", err)
		}
	}

	notice, ok := s.RemoveFromCart("p2", enums.LineKindProduct)
	if !ok || notice.Title != "Item removed" {
		t.Fatalf("unexpected remove result %+v ok=%v", notice, ok)
	}
	lines := s.Lines()
	if len(lines) != 2 || lines[0].Item.ID() != "p1" || lines[1].Item.ID() != "p3" {
		t.Fatalf("unexpected lines after remove %+v", lines)
	}

	if _, ok := s.RemoveFromCart("p2", enums.LineKindProduct); ok {
		t.Fatal("second remove must be a no-op")
	}
}

func TestClearCart(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend().Storage("k"))
	if _, err := s.AddToCart(ProductItem(testProduct("p1", "3"))); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	notice := s.ClearCart()
	if notice.Type != NoticeCartCleared {
		t.Fatalf("unexpected notice %+v", notice)
	}
	snap := s.Snapshot()
	if len(snap.Lines) != 0 || snap.Count != 0 || !snap.Total.IsZero() {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}

	// Clearing an empty cart still reports.
	if s.ClearCart().Type != NoticeCartCleared {
		t.Fatal("expected notice when clearing an empty cart")
	}
}

func TestLinesAreDeepCopies(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend().Storage("k"))
	p := testProduct("p1", "9.50")
	item := ProductItem(p)
	if _, err := s.AddToCart(item); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	item.Product.Price = decimal.NewFromInt(1)
	lines := s.Lines()
	lines[0].Item.Product.Name = "mutated"
	lines[0].Item.Product.Tags[0] = "mutated"
	lines[0].Quantity = 99

	fresh := s.Lines()[0]
	if fresh.Item.Product.Name != "Product p1" || fresh.Item.Product.Tags[0] != "test" || fresh.Quantity != 1 {
		t.Fatalf("store state leaked through copies: %+v", fresh.Item.Product)
	}
	if !s.Total().Equal(decimal.RequireFromString("9.5")) {
		t.Fatalf("caller mutation changed total: %s", s.Total())
	}
}

func TestStorePersistsAndRestores(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	first, err := NewStore(ctx, backend.Storage("bazaar_cart:s1"), Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	b := testBundle("b1", 15, testProduct("a", "10"), testProduct("b", "30"))
	if _, err := first.AddToCart(BundleItem(b)); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if _, err := first.AddToCart(ProductItem(testProduct("p1", "2.25"))); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	first.UpdateQuantity("p1", enums.LineKindProduct, 3)
	if err := first.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := newTestStore(t, backend.Storage("bazaar_cart:s1"))
	if second.Count() != 4 {
		t.Fatalf("expected restored count 4, got %d", second.Count())
	}
	// 40 * 0.85 + 2.25 * 3
	if !second.Total().Equal(decimal.RequireFromString("40.75")) {
		t.Fatalf("expected restored total 40.75, got %s", second.Total())
	}
	lines := second.Lines()
	if lines[0].Item.Kind != enums.LineKindBundle || len(lines[0].Item.Bundle.Products) != 2 {
		t.Fatalf("bundle line not restored intact: %+v", lines[0])
	}
}

func TestStoreStartsEmptyOnCorruptState(t *testing.T) {
	backend := NewMemoryBackend()
	backend.Put("k", []byte(`{"not":"an array"}`))

	s := newTestStore(t, backend.Storage("k"))
	if s.Count() != 0 || len(s.Lines()) != 0 {
		t.Fatal("expected empty cart from corrupt state")
	}

	if _, err := s.AddToCart(ProductItem(testProduct("p1", "1"))); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	raw, _ := backend.Raw("k")
	state, err := DecodeState(raw)
	if err != nil || state.Len() != 1 {
		t.Fatalf("expected corrupt state to be overwritten, got %s (%v)", raw, err)
	}
}

func TestStoreStartsEmptyWhenLoadFails(t *testing.T) {
	s := newTestStore(t, &recordingStorage{loadErr: errBackendDown})
	if s.Count() != 0 {
		t.Fatal("expected empty cart when storage is unavailable")
	}
}

func TestStoreKeepsWorkingWhenSavesFail(t *testing.T) {
	storage := &recordingStorage{failErr: errBackendDown}
	s := newTestStore(t, storage)

	if _, err := s.AddToCart(ProductItem(testProduct("p1", "4"))); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if err := s.Flush(context.Background()); err != errBackendDown {
		t.Fatalf("expected flush to report save error, got %v", err)
	}
	if s.Count() != 1 {
		t.Fatal("in-memory cart must survive a failed save")
	}
}

func TestSettleClearsOnlyWhenAccepted(t *testing.T) {
	s := newTestStore(t, NewMemoryBackend().Storage("k"))
	if _, err := s.AddToCart(ProductItem(testProduct("p1", "2.50"))); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	errRejected := pkgerrors.Validation("rejected")
	err := s.Settle(func(snap Snapshot) error {
		if snap.Count != 1 {
			t.Fatalf("unexpected snapshot %+v", snap)
		}
		return errRejected
	})
	if err != errRejected || s.Count() != 1 {
		t.Fatalf("rejected settle must keep the cart, err=%v count=%d", err, s.Count())
	}

	var settled Snapshot
	if err := s.Settle(func(snap Snapshot) error {
		settled = snap
		return nil
	}); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if !settled.Total.Equal(decimal.RequireFromString("2.50")) || len(settled.Lines) != 1 {
		t.Fatalf("unexpected settled snapshot %+v", settled)
	}
	if s.Count() != 0 || len(s.Lines()) != 0 || !s.Total().IsZero() {
		t.Fatal("accepted settle must empty the cart")
	}
}

func TestMutationsAfterCloseAreWrittenThrough(t *testing.T) {
	backend := NewMemoryBackend()
	s, err := NewStore(context.Background(), backend.Storage("k"), Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := s.AddToCart(ProductItem(testProduct("p1", "1"))); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if s.Count() != 1 {
		t.Fatal("expected mutation after close to apply")
	}

	reopened := newTestStore(t, backend.Storage("k"))
	if reopened.Count() != 1 {
		t.Fatalf("expected write-through state to reload, got count %d", reopened.Count())
	}
}
