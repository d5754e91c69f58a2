package cron

import (
	"context"
	"sync"
)

// Lock coordinates exclusive job cycles.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// LocalLock keeps cycles from overlapping inside one process. Carts and
// drafts live in process memory, so there is nothing to coordinate across
// instances.
type LocalLock struct {
	mu sync.Mutex
}

// Acquire reports false while another cycle holds the lock.
func (l *LocalLock) Acquire(context.Context) (bool, error) {
	return l.mu.TryLock(), nil
}

func (l *LocalLock) Release(context.Context) error {
	l.mu.Unlock()
	return nil
}
