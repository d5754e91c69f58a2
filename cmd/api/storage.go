package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/internal/cart/redisstore"
	"github.com/angelmondragon/bazaar-backend/internal/cart/sqlstore"
	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/angelmondragon/bazaar-backend/pkg/db"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/migrate"
	"github.com/angelmondragon/bazaar-backend/pkg/redis"
)

// cartStorage is the backend selected by BAZAAR_CART_STORAGE.
type cartStorage struct {
	factory cart.StorageFactory
	ping    func(ctx context.Context) error
	purger  *sqlstore.Backend
	closers []func() error
}

func (s *cartStorage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *cartStorage) Close(ctx context.Context, logg *logger.Logger) {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			logg.Error(ctx, "error closing cart storage", err)
		}
	}
}

func openCartStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*cartStorage, error) {
	switch cfg.Cart.Backend() {
	case enums.CartStorageMemory:
		mem := cart.NewMemoryBackend()
		return &cartStorage{factory: mem.Factory(), ping: mem.Ping}, nil

	case enums.CartStorageRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		backend, err := redisstore.New(client, cfg.Cart.TTL)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &cartStorage{
			factory: backend.Factory(),
			ping:    backend.Ping,
			closers: []func() error{client.Close},
		}, nil

	case enums.CartStorageSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, err
		}
		backend, err := sqlstore.New(client.DB())
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &cartStorage{
			factory: backend.Factory(),
			ping:    backend.Ping,
			purger:  backend,
			closers: []func() error{client.Close},
		}, nil
	}
	return nil, fmt.Errorf("unsupported cart storage %q", cfg.Cart.Storage)
}
