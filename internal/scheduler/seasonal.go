package scheduler

import (
	"context"
	"fmt"
	"time"

	reminderservice "homezy_backend/internal/reminders/service"
	"homezy_backend/platform/logger"
)

// SeasonalRemindersJob creates next-month seasonal reminders for opted-in
// homeowners on the first of each month. The calendar is loaded once at
// construction; a broken calendar fails fast instead of silently skipping
// every run.
type SeasonalRemindersJob struct {
	reminders *reminderservice.Service
	directory reminderservice.HomeownerDirectory
	calendar  map[time.Month][]reminderservice.SeasonalEntry
	log       *logger.Logger
}

func NewSeasonalRemindersJob(reminders *reminderservice.Service, directory reminderservice.HomeownerDirectory, log *logger.Logger) (*SeasonalRemindersJob, error) {
	calendar, err := reminderservice.LoadSeasonalCalendar()
	if err != nil {
		return nil, fmt.Errorf("load seasonal calendar: %w", err)
	}
	return &SeasonalRemindersJob{reminders: reminders, directory: directory, calendar: calendar, log: log}, nil
}

func (j *SeasonalRemindersJob) Name() string { return "seasonal-reminders" }

func (j *SeasonalRemindersJob) Run(ctx context.Context) (int, int, error) {
	result, err := j.reminders.GenerateSeasonalReminders(ctx, j.directory, j.calendar)
	if err != nil {
		return 0, 0, err
	}
	if result.Created > 0 || result.Skipped > 0 {
		j.log.Info("seasonal reminders generated",
			"homeowners", result.Homeowners, "created", result.Created, "skipped", result.Skipped)
	}
	return result.Created, 0, nil
}
