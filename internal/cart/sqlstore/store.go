// Package sqlstore persists cart states in the cart_states table.
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/internal/repo"
	"gorm.io/gorm"
)

// Record is one persisted cart.
type Record struct {
	StorageKey string    `gorm:"column:storage_key;primaryKey"`
	Payload    string    `gorm:"column:payload;not null"`
	LineCount  int       `gorm:"column:line_count;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Record) TableName() string { return "cart_states" }

// Backend hands out cart storages backed by a gorm connection.
type Backend struct {
	rows repo.Table[Record]
	now  func() time.Time
}

func New(db *gorm.DB) (*Backend, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db required")
	}
	return &Backend{rows: repo.NewTable[Record](db), now: time.Now}, nil
}

// Factory adapts the backend to a cart.StorageFactory.
func (b *Backend) Factory() cart.StorageFactory {
	return func(key string) (cart.Storage, error) {
		if key == "" {
			return nil, fmt.Errorf("cart storage key required")
		}
		return &storage{backend: b, key: key}, nil
	}
}

// Ping checks the underlying connection.
func (b *Backend) Ping(ctx context.Context) error {
	return b.rows.Ping(ctx)
}

// PurgeBefore deletes carts untouched since cutoff and reports how many went.
func (b *Backend) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return b.rows.DeleteWhere(ctx, "updated_at < ?", cutoff)
}

type storage struct {
	backend *Backend
	key     string
}

func (s *storage) Load(ctx context.Context) (cart.State, bool, error) {
	rec, found, err := s.backend.rows.Find(ctx, "storage_key = ?", s.key)
	if err != nil {
		return cart.State{}, false, fmt.Errorf("load cart state: %w", err)
	}
	if !found {
		return cart.State{}, false, nil
	}
	state, err := cart.DecodeState([]byte(rec.Payload))
	if err != nil {
		return cart.State{}, true, err
	}
	return state, true, nil
}

func (s *storage) Save(ctx context.Context, state cart.State) error {
	raw, err := cart.EncodeState(state)
	if err != nil {
		return err
	}
	rec := Record{
		StorageKey: s.key,
		Payload:    string(raw),
		LineCount:  state.Len(),
		UpdatedAt:  s.backend.now().UTC(),
	}
	if err := s.backend.rows.Upsert(ctx, &rec, []string{"storage_key"}, []string{"payload", "line_count", "updated_at"}); err != nil {
		return fmt.Errorf("save cart state: %w", err)
	}
	return nil
}
