package cart

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/metrics"
)

const defaultSaveTimeout = 3 * time.Second

// persister writes cart states on its own goroutine. Pending states coalesce:
// only the most recent one is written.
type persister struct {
	storage Storage
	timeout time.Duration
	logg    *logger.Logger
	metrics *metrics.CartMetrics
	baseCtx context.Context

	mu       sync.Mutex
	latest   State
	pending  bool
	queued   uint64
	written  uint64
	lastErr  error
	progress chan struct{}
	closed   bool

	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newPersister(ctx context.Context, storage Storage, timeout time.Duration, logg *logger.Logger, m *metrics.CartMetrics) *persister {
	if timeout <= 0 {
		timeout = defaultSaveTimeout
	}
	p := &persister{
		storage:  storage,
		timeout:  timeout,
		logg:     logg,
		metrics:  m,
		baseCtx:  context.WithoutCancel(ctx),
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// enqueue schedules state to be written, replacing any state not yet picked up.
// Once closed, states are written synchronously after the final drain.
func (p *persister) enqueue(state State) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.writeThrough(state)
		return
	}
	p.latest = state
	p.pending = true
	p.queued++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) writeThrough(state State) {
	<-p.done
	err := p.save(state)

	p.mu.Lock()
	p.queued++
	p.written = p.queued
	p.lastErr = err
	p.mu.Unlock()
}

func (p *persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.drain()
		case <-p.stop:
			p.drain()
			return
		}
	}
}

func (p *persister) drain() {
	for {
		p.mu.Lock()
		if !p.pending {
			p.mu.Unlock()
			return
		}
		state, version := p.latest, p.queued
		p.pending = false
		p.mu.Unlock()

		err := p.save(state)

		p.mu.Lock()
		p.written = version
		p.lastErr = err
		close(p.progress)
		p.progress = make(chan struct{})
		p.mu.Unlock()
	}
}

func (p *persister) save(state State) error {
	ctx, cancel := context.WithTimeout(p.baseCtx, p.timeout)
	defer cancel()

	started := time.Now()
	err := p.storage.Save(ctx, state)
	p.metrics.ObserveSave(time.Since(started))
	if err != nil {
		p.metrics.IncPersist(metrics.OutcomeFailed)
		p.logg.Error(p.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "failed to save cart state", err)
		return err
	}
	p.metrics.IncPersist(metrics.OutcomeSaved)
	return nil
}

// flush blocks until every state enqueued before the call has been written,
// returning the error of the last write.
func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.queued
	p.mu.Unlock()

	for {
		p.mu.Lock()
		if p.written >= target {
			err := p.lastErr
			p.mu.Unlock()
			return err
		}
		progress := p.progress
		p.mu.Unlock()

		select {
		case <-progress:
		case <-p.done:
			p.mu.Lock()
			written, err := p.written, p.lastErr
			p.mu.Unlock()
			if written >= target {
				return err
			}
			return context.Canceled
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// close flushes outstanding state and stops the goroutine.
func (p *persister) close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.stopOnce.Do(func() { close(p.stop) })

	select {
	case <-p.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.written < p.queued {
		return context.Canceled
	}
	return p.lastErr
}
