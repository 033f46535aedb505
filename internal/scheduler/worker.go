package scheduler

import (
	"context"
	"fmt"

	leadservice "homezy_backend/internal/leads/service"
	"homezy_backend/platform/config"
	"homezy_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Worker consumes the exact-time tasks. Each handler re-checks the lead's
// current state through the service, so a task that arrives after a sweep or
// an answer is a clean no-op.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	leads  *leadservice.Service
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads *leadservice.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		leads:  leads,
		log:    log,
	}

	mux.HandleFunc(TaskDirectLeadExpire, w.handleDirectLeadExpire)
	mux.HandleFunc(TaskDirectLeadReminder, w.handleDirectLeadReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleDirectLeadExpire(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDirectLeadExpirePayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	return w.leads.ExpireLead(ctx, leadID)
}

func (w *Worker) handleDirectLeadReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDirectLeadReminderPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	return w.leads.RemindLead(ctx, leadID, payload.Stage)
}
