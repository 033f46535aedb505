package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"homezy_backend/platform/logger"
)

type countingJob struct {
	mu    sync.Mutex
	runs  int
	err   error
	panic bool
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) (int, int, error) {
	j.mu.Lock()
	j.runs++
	j.mu.Unlock()
	if j.panic {
		panic("job blew up")
	}
	return 1, 0, j.err
}

func (j *countingJob) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

func TestRunnerRegisterRejectsBadSpec(t *testing.T) {
	runner := NewRunner(nil, logger.New("test"))

	if err := runner.Register("not a cron spec", &countingJob{}); err == nil {
		t.Fatal("expected invalid cron spec to be rejected")
	}
	if err := runner.Register("*/5 * * * *", &countingJob{}); err != nil {
		t.Fatalf("expected valid cron spec to register, got %v", err)
	}
}

func TestRunnerRunsJobWithNilLock(t *testing.T) {
	runner := NewRunner(nil, logger.New("test"))
	job := &countingJob{}

	runner.runOnce(job)

	if job.count() != 1 {
		t.Fatalf("expected 1 run, got %d", job.count())
	}
}

func TestRunnerSkipsWhenLockHeldElsewhere(t *testing.T) {
	lock, _ := newTestLock(t, time.Minute)
	runner := NewRunner(lock, logger.New("test"))
	job := &countingJob{}

	if _, ok := lock.Acquire(context.Background(), job.Name()); !ok {
		t.Fatal("expected acquire to succeed")
	}

	runner.runOnce(job)

	if job.count() != 0 {
		t.Fatalf("expected job to be skipped, got %d runs", job.count())
	}
}

func TestRunnerReleasesLockAfterRun(t *testing.T) {
	lock, _ := newTestLock(t, time.Minute)
	runner := NewRunner(lock, logger.New("test"))
	job := &countingJob{err: errors.New("tick aborted")}

	runner.runOnce(job)
	runner.runOnce(job)

	if job.count() != 2 {
		t.Fatalf("expected both runs to acquire the lock, got %d", job.count())
	}
}

func TestRunnerRecoversFromPanickingJob(t *testing.T) {
	lock, _ := newTestLock(t, time.Minute)
	runner := NewRunner(lock, logger.New("test"))
	job := &countingJob{panic: true}

	runner.runOnce(job)

	// The deferred release must have run despite the panic.
	release, ok := lock.Acquire(context.Background(), job.Name())
	if !ok {
		t.Fatal("expected lock to be free after a panicking job")
	}
	release()
}
