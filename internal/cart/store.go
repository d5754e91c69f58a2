package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Options tunes a Store. Zero values are valid.
type Options struct {
	Logger      *logger.Logger
	Metrics     *metrics.CartMetrics
	SaveTimeout time.Duration
}

// Snapshot is a consistent read of the cart: lines with their derived totals.
type Snapshot struct {
	Lines []Line
	Count int
	Total decimal.Decimal
}

// Store owns one shopper's cart. Mutations are serialized and the derived
// count and total are recomputed before the next caller observes the cart.
type Store struct {
	logg    *logger.Logger
	metrics *metrics.CartMetrics
	persist *persister

	mu    sync.Mutex
	lines []Line
	count int
	total decimal.Decimal
}

// NewStore loads the saved state once and starts persisting changes to storage.
// Unreadable state is logged and the cart starts empty.
func NewStore(ctx context.Context, storage Storage, opts Options) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	s := &Store{
		logg:    logg,
		metrics: opts.Metrics,
		total:   decimal.Zero,
	}
	s.restore(ctx, storage)
	s.persist = newPersister(ctx, storage, opts.SaveTimeout, logg, opts.Metrics)
	return s, nil
}

func (s *Store) restore(ctx context.Context, storage Storage) {
	state, found, err := storage.Load(ctx)
	switch {
	case err != nil && errors.Is(err, ErrCorruptState):
		s.metrics.IncPersist(metrics.OutcomeCorrupt)
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "discarding corrupt cart state")
		return
	case err != nil:
		s.metrics.IncPersist(metrics.OutcomeLoadError)
		s.logg.Warn(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "cart state unavailable, starting empty")
		return
	case !found:
		s.metrics.IncPersist(metrics.OutcomeEmpty)
		return
	}

	s.metrics.IncPersist(metrics.OutcomeLoaded)
	s.lines = state.Lines
	s.recompute()
}

// AddToCart merges item into an existing line with the same id and kind,
// or appends a new line with quantity 1.
func (s *Store) AddToCart(item Item) (Notice, error) {
	if err := item.Validate(); err != nil {
		return Notice{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart item")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var notice Notice
	if idx := s.indexOf(item.key()); idx >= 0 {
		s.lines[idx].Quantity++
		notice = quantityUpdated(item.Name(), s.lines[idx].Quantity)
	} else {
		s.lines = append(s.lines, Line{Item: item.clone(), Quantity: 1})
		notice = itemAdded(item.Name())
	}
	s.commitLocked("add")
	return notice, nil
}

// RemoveFromCart drops the line identified by id and kind. It reports
// whether a line was removed; removing an absent line is a silent no-op.
func (s *Store) RemoveFromCart(id string, kind enums.LineKind) (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(lineKey{id: id, kind: kind})
}

// UpdateQuantity sets an absolute quantity. Quantities below 1 remove the line.
// Absent lines are left alone.
func (s *Store) UpdateQuantity(id string, kind enums.LineKind, quantity int) (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lineKey{id: id, kind: kind}
	if quantity < 1 {
		return s.removeLocked(key)
	}
	idx := s.indexOf(key)
	if idx < 0 {
		return Notice{}, false
	}
	s.lines[idx].Quantity = quantity
	s.commitLocked("update")
	return Notice{}, true
}

// ClearCart empties the cart unconditionally.
func (s *Store) ClearCart() Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.commitLocked("clear")
	return cartCleared()
}

// Settle hands a snapshot to accept and empties the cart when accept returns
// nil. No mutation can land between the read and the clear. When accept fails
// the cart is left as it was and its error is returned.
func (s *Store) Settle(accept func(Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Lines: cloneLines(s.lines), Count: s.count, Total: s.total}
	if err := accept(snap); err != nil {
		return err
	}
	s.lines = nil
	s.commitLocked("clear")
	return nil
}

// Lines returns deep copies of the current lines in cart order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.lines)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Lines: cloneLines(s.lines), Count: s.count, Total: s.total}
}

// Flush waits until every change made so far has been handed to storage.
func (s *Store) Flush(ctx context.Context) error {
	return s.persist.flush(ctx)
}

// Close flushes pending state and stops background persistence. Mutations made
// afterwards through a stale handle are saved synchronously.
func (s *Store) Close(ctx context.Context) error {
	return s.persist.close(ctx)
}

func (s *Store) removeLocked(key lineKey) (Notice, bool) {
	idx := s.indexOf(key)
	if idx < 0 {
		return Notice{}, false
	}
	s.lines = append(s.lines[:idx:idx], s.lines[idx+1:]...)
	s.commitLocked("remove")
	return itemRemoved(), true
}

func (s *Store) commitLocked(operation string) {
	s.recompute()
	s.metrics.IncMutation(operation)
	s.persist.enqueue(State{Lines: cloneLines(s.lines)})
}

func (s *Store) recompute() {
	count := 0
	total := decimal.Zero
	for _, l := range s.lines {
		count += l.Quantity
		total = total.Add(l.Total())
	}
	s.count = count
	s.total = total
}

func (s *Store) indexOf(key lineKey) int {
	for i, l := range s.lines {
		if l.Item.key() == key {
			return i
		}
	}
	return -1
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.clone()
	}
	return out
}
