package cart

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"go.uber.org/multierr"
)

// DefaultStorageKey matches the key the browser storefront used for its cart.
const DefaultStorageKey = "bazaar_cart"

var sessionIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidSessionID reports whether id can key a cart.
func ValidSessionID(id string) bool {
	return sessionIDRe.MatchString(id)
}

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// Registry hands out one Store per anonymous cart session, creating them lazily.
type Registry struct {
	factory    StorageFactory
	storageKey string
	opts       Options
	now        func() time.Time

	mu     sync.Mutex
	stores map[string]*registryEntry
}

// NewRegistry builds a registry whose stores persist through factory.
// An empty storageKey falls back to DefaultStorageKey.
func NewRegistry(factory StorageFactory, storageKey string, opts Options) (*Registry, error) {
	if factory == nil {
		return nil, fmt.Errorf("cart storage factory required")
	}
	if storageKey == "" {
		storageKey = DefaultStorageKey
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Registry{
		factory:    factory,
		storageKey: storageKey,
		opts:       opts,
		now:        time.Now,
		stores:     map[string]*registryEntry{},
	}, nil
}

// StorageKey returns the persistence key for a session's cart.
func (r *Registry) StorageKey(session string) string {
	return r.storageKey + ":" + session
}

// Get returns the session's store, loading it from storage on first use.
func (r *Registry) Get(ctx context.Context, session string) (*Store, error) {
	if !ValidSessionID(session) {
		return nil, pkgerrors.Validation("invalid cart session id")
	}

	if store := r.touch(session); store != nil {
		return store, nil
	}

	storage, err := r.factory(r.StorageKey(session))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open cart storage")
	}
	ctx = r.opts.Logger.WithCartSession(ctx, session)
	store, err := NewStore(ctx, storage, r.opts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart store")
	}

	r.mu.Lock()
	if existing, ok := r.stores[session]; ok {
		r.mu.Unlock()
		// Lost a race with a concurrent first request; the loser holds no changes.
		_ = store.Close(ctx)
		return existing.store, nil
	}
	r.stores[session] = &registryEntry{store: store, lastSeen: r.now()}
	live := len(r.stores)
	r.mu.Unlock()

	r.opts.Metrics.SetLive(live)
	return store, nil
}

func (r *Registry) touch(session string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.stores[session]
	if !ok {
		return nil
	}
	entry.lastSeen = r.now()
	return entry.store
}

// Len reports how many carts are held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Sweep closes and forgets carts idle since before cutoff. Their state stays
// in storage and is reloaded on the next request.
func (r *Registry) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	var idle []*Store
	for session, entry := range r.stores {
		if entry.lastSeen.Before(cutoff) {
			idle = append(idle, entry.store)
			delete(r.stores, session)
		}
	}
	live := len(r.stores)
	r.mu.Unlock()

	r.opts.Metrics.SetLive(live)

	var err error
	for _, store := range idle {
		err = multierr.Append(err, store.Close(ctx))
	}
	return len(idle), err
}

// Close flushes and stops every cart, combining their errors.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	stores := make([]*Store, 0, len(r.stores))
	for _, entry := range r.stores {
		stores = append(stores, entry.store)
	}
	r.stores = map[string]*registryEntry{}
	r.mu.Unlock()

	r.opts.Metrics.SetLive(0)

	var err error
	for _, store := range stores {
		err = multierr.Append(err, store.Close(ctx))
	}
	return err
}
