package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/bazaar-backend/pkg/logger"
)

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

type heldLock struct{}

func (heldLock) Acquire(context.Context) (bool, error) { return false, nil }
func (heldLock) Release(context.Context) error         { return nil }

func TestServiceRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	success := &testJob{name: "success"}
	failure := &testJob{name: "fail", err: errors.New("boom")}
	registry, err := NewRegistry(failure, success)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	service, err := NewService(ServiceParams{Logger: logger.Nop(), Registry: registry})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	err = service.RunCycle(context.Background())
	if !errors.Is(err, failure.err) || !strings.Contains(err.Error(), "fail: boom") {
		t.Fatalf("expected the failing job's error, got %v", err)
	}
	if success.runs != 1 || failure.runs != 1 {
		t.Fatalf("expected both jobs to run once, got success=%d fail=%d", success.runs, failure.runs)
	}

	failure.err = nil
	if err := service.RunCycle(context.Background()); err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if success.runs != 2 {
		t.Fatalf("expected lock to be released between cycles")
	}
}

type panicJob struct{}

func (panicJob) Name() string              { return "panicky" }
func (panicJob) Run(context.Context) error { panic("nil map") }

type deadlineJob struct{ remaining time.Duration }

func (d *deadlineJob) Name() string { return "deadline" }
func (d *deadlineJob) Run(ctx context.Context) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		return errors.New("no deadline")
	}
	d.remaining = time.Until(deadline)
	return nil
}

func TestServiceIsolatesPanicsAndBoundsJobs(t *testing.T) {
	after := &deadlineJob{}
	registry, _ := NewRegistry(panicJob{}, after)
	service, err := NewService(ServiceParams{Registry: registry, JobTimeout: time.Second})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	err = service.RunCycle(context.Background())
	if err == nil || !strings.Contains(err.Error(), "job panicked: nil map") {
		t.Fatalf("expected panic to surface as error, got %v", err)
	}
	if after.remaining <= 0 || after.remaining > time.Second {
		t.Fatalf("expected a one second job deadline, got %v", after.remaining)
	}
}

func TestServiceSkipsCycleWhenLocked(t *testing.T) {
	job := &testJob{name: "job"}
	registry, _ := NewRegistry(job)
	service, err := NewService(ServiceParams{Logger: logger.Nop(), Registry: registry, Lock: heldLock{}})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.RunCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected no runs while locked, got %d", job.runs)
	}
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	job := &testJob{name: "job"}
	registry, _ := NewRegistry(job)
	service, err := NewService(ServiceParams{Logger: logger.Nop(), Registry: registry, Interval: 5 * time.Millisecond})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	if err := service.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if job.runs == 0 {
		t.Fatal("expected at least one tick")
	}
}

func TestNewServiceDefaults(t *testing.T) {
	if _, err := NewService(ServiceParams{Logger: logger.Nop()}); err == nil {
		t.Fatal("expected registry error")
	}
	registry, _ := NewRegistry()
	service, err := NewService(ServiceParams{Registry: registry})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if service.interval != defaultInterval || service.jobTimeout != defaultInterval {
		t.Fatalf("unexpected defaults interval=%v timeout=%v", service.interval, service.jobTimeout)
	}
	if _, ok := service.lock.(*LocalLock); !ok {
		t.Fatalf("expected LocalLock default, got %T", service.lock)
	}
}
