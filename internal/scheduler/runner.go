package scheduler

import (
	"context"
	"fmt"
	"time"

	"homezy_backend/platform/logger"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled sweep. Run reports how many entities it processed and
// how many of them failed; a returned error means the whole tick aborted.
type Job interface {
	Name() string
	Run(ctx context.Context) (processed, failed int, err error)
}

// jobTimeout bounds a single tick so a stuck sweep cannot outlive its lock
// lease indefinitely.
const jobTimeout = 10 * time.Minute

// Runner drives the periodic sweeps on cron schedules. Each tick takes the
// distributed lock for its job name, so overlapping instances skip instead of
// doubling up.
type Runner struct {
	cron *cron.Cron
	lock *Lock
	log  *logger.Logger

	baseCtx context.Context
}

func NewRunner(lock *Lock, log *logger.Logger) *Runner {
	return &Runner{
		cron:    cron.New(),
		lock:    lock,
		log:     log,
		baseCtx: context.Background(),
	}
}

func (r *Runner) Register(spec string, job Job) error {
	if _, err := r.cron.AddFunc(spec, func() { r.runOnce(job) }); err != nil {
		return fmt.Errorf("register job %s: %w", job.Name(), err)
	}
	return nil
}

// Run starts the cron loop and blocks until ctx is cancelled. Ticks already
// in flight finish before Run returns.
func (r *Runner) Run(ctx context.Context) {
	r.baseCtx = ctx
	r.cron.Start()
	r.log.Info("cron runner started", "jobs", len(r.cron.Entries()))

	<-ctx.Done()

	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.log.Info("cron runner stopped")
}

func (r *Runner) runOnce(job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.JobError(job.Name(), fmt.Errorf("panic: %v", rec))
		}
	}()

	ctx, cancel := context.WithTimeout(r.baseCtx, jobTimeout)
	defer cancel()

	release, ok := r.lock.Acquire(ctx, job.Name())
	if !ok {
		r.log.Debug("job skipped, lock held elsewhere", "job", job.Name())
		return
	}
	defer release()

	start := time.Now()
	processed, failed, err := job.Run(ctx)
	if err != nil {
		r.log.JobError(job.Name(), err)
		return
	}

	r.log.JobCompleted(job.Name(), time.Since(start), processed, failed)
}
