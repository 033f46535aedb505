package scheduler

import (
	"context"

	reminderservice "homezy_backend/internal/reminders/service"
	"homezy_backend/platform/logger"

	"github.com/google/uuid"
)

type serviceHistorySource interface {
	ListHomeownersWithHistory(ctx context.Context) ([]uuid.UUID, error)
}

// PatternSyncJob re-derives pattern-based reminders from completed service
// history for every homeowner with enough of it. Runs weekly; the per-category
// upsert in the service keeps repeated runs stable.
type PatternSyncJob struct {
	source    serviceHistorySource
	reminders *reminderservice.Service
	history   reminderservice.ServiceHistory
	log       *logger.Logger
}

func NewPatternSyncJob(source serviceHistorySource, reminders *reminderservice.Service, history reminderservice.ServiceHistory, log *logger.Logger) *PatternSyncJob {
	return &PatternSyncJob{source: source, reminders: reminders, history: history, log: log}
}

func (j *PatternSyncJob) Name() string { return "pattern-sync" }

func (j *PatternSyncJob) Run(ctx context.Context) (int, int, error) {
	homeowners, err := j.source.ListHomeownersWithHistory(ctx)
	if err != nil {
		return 0, 0, err
	}

	var processed, failed int
	for _, homeownerID := range homeowners {
		result, err := j.reminders.SyncPatternReminders(ctx, j.history, homeownerID, nil)
		if err != nil {
			j.log.Warn("pattern sync failed for homeowner", "homeownerId", homeownerID, "error", err)
			failed++
			continue
		}
		if result.Created > 0 || result.Updated > 0 {
			j.log.Debug("pattern reminders synced",
				"homeownerId", homeownerID, "created", result.Created, "updated", result.Updated)
		}
		processed++
	}
	return processed, failed, nil
}
