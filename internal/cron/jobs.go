package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/metrics"
)

const (
	JobCartSweep  = "cart_sweep"
	JobDraftSweep = "draft_sweep"
	JobCartPurge  = "cart_purge"
)

type cartSweeper interface {
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

type draftSweeper interface {
	Sweep(cutoff time.Time) int
}

type statePurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type jobBase struct {
	logg    *logger.Logger
	metrics *metrics.JobMetrics
	now     func() time.Time
}

func newJobBase(logg *logger.Logger, m *metrics.JobMetrics) jobBase {
	if logg == nil {
		logg = logger.Nop()
	}
	return jobBase{logg: logg, metrics: m, now: time.Now}
}

func (b jobBase) report(ctx context.Context, job string, removed int) {
	b.metrics.AddEvicted(job, removed)
	if removed > 0 {
		b.logg.Info(b.logg.WithField(ctx, "removed", removed), "idle state evicted")
	}
}

// CartSweepJob flushes and unloads carts nobody touched within the idle window.
type CartSweepJob struct {
	jobBase
	carts cartSweeper
	idle  time.Duration
}

func NewCartSweepJob(carts cartSweeper, idle time.Duration, logg *logger.Logger, m *metrics.JobMetrics) (*CartSweepJob, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart registry required")
	}
	if idle <= 0 {
		return nil, fmt.Errorf("idle window must be positive")
	}
	return &CartSweepJob{jobBase: newJobBase(logg, m), carts: carts, idle: idle}, nil
}

func (j *CartSweepJob) Name() string { return JobCartSweep }

func (j *CartSweepJob) Run(ctx context.Context) error {
	removed, err := j.carts.Sweep(ctx, j.now().Add(-j.idle))
	j.report(ctx, JobCartSweep, removed)
	return err
}

// DraftSweepJob drops bundle builder drafts idle past the window.
type DraftSweepJob struct {
	jobBase
	drafts draftSweeper
	idle   time.Duration
}

func NewDraftSweepJob(drafts draftSweeper, idle time.Duration, logg *logger.Logger, m *metrics.JobMetrics) (*DraftSweepJob, error) {
	if drafts == nil {
		return nil, fmt.Errorf("bundle builder required")
	}
	if idle <= 0 {
		return nil, fmt.Errorf("idle window must be positive")
	}
	return &DraftSweepJob{jobBase: newJobBase(logg, m), drafts: drafts, idle: idle}, nil
}

func (j *DraftSweepJob) Name() string { return JobDraftSweep }

func (j *DraftSweepJob) Run(ctx context.Context) error {
	j.report(ctx, JobDraftSweep, j.drafts.Sweep(j.now().Add(-j.idle)))
	return nil
}

// CartPurgeJob deletes persisted cart states older than the retention window.
// Only the SQL backend needs it; Redis expires keys on its own.
type CartPurgeJob struct {
	jobBase
	store     statePurger
	retention time.Duration
}

func NewCartPurgeJob(store statePurger, retention time.Duration, logg *logger.Logger, m *metrics.JobMetrics) (*CartPurgeJob, error) {
	if store == nil {
		return nil, fmt.Errorf("cart state store required")
	}
	if retention <= 0 {
		return nil, fmt.Errorf("retention must be positive")
	}
	return &CartPurgeJob{jobBase: newJobBase(logg, m), store: store, retention: retention}, nil
}

func (j *CartPurgeJob) Name() string { return JobCartPurge }

func (j *CartPurgeJob) Run(ctx context.Context) error {
	removed, err := j.store.PurgeBefore(ctx, j.now().Add(-j.retention))
	if err != nil {
		return fmt.Errorf("purge cart states: %w", err)
	}
	j.report(ctx, JobCartPurge, int(removed))
	return nil
}
