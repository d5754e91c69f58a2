package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func testProduct(id, price string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Category: "Test",
		Tags:     []string{"test"},
		Stock:    10,
	}
}

func testBundle(id string, discount int, products ...catalog.Product) catalog.Bundle {
	return catalog.Bundle{
		ID:       id,
		Name:     "Bundle " + id,
		Products: products,
		Discount: discount,
		Type:     enums.BundleTypeThemed,
	}
}

func newTestStore(t *testing.T, storage Storage) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), storage, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Close(ctx)
	})
	return s
}

// recordingStorage captures saves and can be told to fail or block.
type recordingStorage struct {
	mu      sync.Mutex
	saves   []State
	loadErr error
	state   *State
	failErr error
	gate    chan struct{}
}

func (r *recordingStorage) Load(context.Context) (State, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return State{}, false, r.loadErr
	}
	if r.state == nil {
		return State{}, false, nil
	}
	return *r.state, true, nil
}

func (r *recordingStorage) Save(ctx context.Context, state State) error {
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, state)
	return r.failErr
}

func (r *recordingStorage) saved() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.saves))
	copy(out, r.saves)
	return out
}

var errBackendDown = errors.New("backend down")
