// Package redisstore persists cart states as Redis strings with a sliding TTL.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/pkg/redis"
)

// kv is the slice of the Redis client the cart storage needs.
type kv interface {
	Fetch(ctx context.Context, key string, refresh time.Duration) ([]byte, error)
	Store(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Key(parts ...string) string
	Ping(ctx context.Context) error
}

var _ kv = (*redis.Client)(nil)

// Backend hands out Redis-backed cart storages.
type Backend struct {
	client kv
	ttl    time.Duration
}

// New wraps client. A ttl of zero keeps carts forever.
func New(client kv, ttl time.Duration) (*Backend, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("cart ttl must not be negative")
	}
	return &Backend{client: client, ttl: ttl}, nil
}

func (b *Backend) Factory() cart.StorageFactory {
	return func(key string) (cart.Storage, error) {
		if key == "" {
			return nil, fmt.Errorf("cart storage key required")
		}
		return &storage{backend: b, key: b.client.Key("cart", key)}, nil
	}
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx)
}

type storage struct {
	backend *Backend
	key     string
}

func (s *storage) Load(ctx context.Context) (cart.State, bool, error) {
	// Reading a cart counts as activity, so the fetch also slides the TTL.
	raw, err := s.backend.client.Fetch(ctx, s.key, s.backend.ttl)
	if redis.IsNil(err) {
		return cart.State{}, false, nil
	}
	if err != nil {
		return cart.State{}, false, fmt.Errorf("load cart state: %w", err)
	}
	state, err := cart.DecodeState(raw)
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
	if err := s.backend.client.Store(ctx, s.key, raw, s.backend.ttl); err != nil {
		return fmt.Errorf("save cart state: %w", err)
	}
	return nil
}
