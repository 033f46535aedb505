package scheduler

import (
	"context"
	"time"

	"homezy_backend/internal/events"
	"homezy_backend/internal/reminders/domain"
	"homezy_backend/internal/reminders/repository"

	"github.com/google/uuid"
)

// dueHorizon covers the largest default lead-day offset plus a day of slack,
// so a reminder is fetched as soon as its earliest notification could fire.
const dueHorizon = 31 * 24 * time.Hour

type dueReminderStore interface {
	ListDueForNotification(ctx context.Context, now time.Time, horizon time.Duration) ([]repository.Reminder, error)
	AppendReminderSent(ctx context.Context, id uuid.UUID, record repository.SentRecord) (bool, error)
}

// ReminderNotificationsJob sweeps active reminders and publishes a due event
// for each lead-day offset crossed since the last run. The sent-record guard
// in the store makes re-runs and overlapping instances idempotent, and a
// catch-up after downtime collapses several crossed offsets into one event.
type ReminderNotificationsJob struct {
	repo dueReminderStore
	bus  events.Bus
	now  func() time.Time
}

func NewReminderNotificationsJob(repo dueReminderStore, bus events.Bus) *ReminderNotificationsJob {
	return &ReminderNotificationsJob{repo: repo, bus: bus, now: time.Now}
}

// SetClock overrides the time source. Test hook.
func (j *ReminderNotificationsJob) SetClock(now func() time.Time) {
	j.now = now
}

func (j *ReminderNotificationsJob) Name() string { return "reminder-notifications" }

func (j *ReminderNotificationsJob) Run(ctx context.Context) (int, int, error) {
	now := j.now()

	due, err := j.repo.ListDueForNotification(ctx, now, dueHorizon)
	if err != nil {
		return 0, 0, err
	}

	var processed, failed int
	for _, rem := range due {
		fired, err := j.notify(ctx, rem, now)
		if err != nil {
			failed++
			continue
		}
		if fired {
			processed++
		}
	}
	return processed, failed, nil
}

// notify records every crossed offset and publishes at most one event per
// reminder per tick, carrying the real distance to the due date.
func (j *ReminderNotificationsJob) notify(ctx context.Context, rem repository.Reminder, now time.Time) (bool, error) {
	daysLeft := calendarDaysUntil(now, rem.NextDueDate)

	leadDays := rem.ReminderLeadDays
	if len(leadDays) == 0 {
		leadDays = domain.DefaultLeadDays
	}

	recorded := false
	for _, leadDay := range leadDays {
		if daysLeft > leadDay {
			continue
		}
		ok, err := j.repo.AppendReminderSent(ctx, rem.ID, repository.SentRecord{
			SentAt:        now,
			Channel:       string(domain.ChannelEmail),
			DaysBeforeDue: leadDay,
		})
		if err != nil {
			return false, err
		}
		if ok {
			recorded = true
		}
	}

	if !recorded {
		return false, nil
	}

	if daysLeft < 0 {
		daysLeft = 0
	}
	j.bus.Publish(ctx, events.ServiceReminderDue{
		BaseEvent:     events.NewBaseEvent(),
		ReminderID:    rem.ID,
		HomeownerID:   rem.HomeownerID,
		Category:      string(rem.Category),
		Title:         rem.Title,
		Description:   rem.Description,
		TriggerType:   string(rem.TriggerType),
		NextDueDate:   rem.NextDueDate,
		DaysBeforeDue: daysLeft,
	})
	return true, nil
}

// calendarDaysUntil counts whole calendar days from now to due, negative when
// the due date has passed.
func calendarDaysUntil(now, due time.Time) int {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(nowDay).Hours() / 24)
}
