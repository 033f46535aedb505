package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"homezy_backend/internal/events"
	"homezy_backend/internal/reminders/domain"
	"homezy_backend/internal/reminders/repository"
	"homezy_backend/platform/logger"

	"github.com/google/uuid"
)

// eventRecorder captures published events synchronously.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return nil
}

func (r *eventRecorder) byName(name string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, event := range r.events {
		if event.EventName() == name {
			out = append(out, event)
		}
	}
	return out
}

type fakeDueStore struct {
	mu        sync.Mutex
	reminders []repository.Reminder
	sent      map[uuid.UUID][]repository.SentRecord
}

func newFakeDueStore() *fakeDueStore {
	return &fakeDueStore{sent: make(map[uuid.UUID][]repository.SentRecord)}
}

func (f *fakeDueStore) ListDueForNotification(_ context.Context, now time.Time, horizon time.Duration) ([]repository.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Reminder
	for _, rem := range f.reminders {
		if rem.Status == domain.StatusActive && !rem.NextDueDate.After(now.Add(horizon)) {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (f *fakeDueStore) AppendReminderSent(_ context.Context, id uuid.UUID, record repository.SentRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.sent[id] {
		if existing.Channel == record.Channel && existing.DaysBeforeDue == record.DaysBeforeDue {
			return false, nil
		}
	}
	f.sent[id] = append(f.sent[id], record)
	return true, nil
}

func (f *fakeDueStore) add(dueIn time.Duration, now time.Time) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	rem := repository.Reminder{
		ID:          uuid.New(),
		HomeownerID: uuid.New(),
		Category:    domain.CategoryPlumbing,
		Title:       "Annual plumbing inspection",
		TriggerType: domain.TriggerCustom,
		Status:      domain.StatusActive,
		NextDueDate: now.Add(dueIn),
	}
	f.reminders = append(f.reminders, rem)
	return rem.ID
}

func newReminderJob(t *testing.T, now time.Time) (*ReminderNotificationsJob, *fakeDueStore, *eventRecorder, *events.InMemoryBus) {
	t.Helper()
	store := newFakeDueStore()
	bus := events.NewInMemoryBus(logger.New("test"))
	recorder := &eventRecorder{}
	bus.Subscribe(events.ServiceReminderDue{}.EventName(), recorder)

	job := NewReminderNotificationsJob(store, bus)
	job.SetClock(func() time.Time { return now })
	return job, store, recorder, bus
}

func TestReminderJobFiresWhenLeadDayCrossed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	job, store, recorder, bus := newReminderJob(t, now)

	id := store.add(6*24*time.Hour, now)

	processed, failed, err := job.Run(context.Background())
	bus.Wait()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if processed != 1 || failed != 0 {
		t.Fatalf("expected 1 processed, 0 failed, got %d/%d", processed, failed)
	}

	fired := recorder.byName("reminders.due")
	if len(fired) != 1 {
		t.Fatalf("expected 1 event, got %d", len(fired))
	}
	event := fired[0].(events.ServiceReminderDue)
	if event.ReminderID != id {
		t.Fatalf("expected event for %s, got %s", id, event.ReminderID)
	}
	if event.DaysBeforeDue != 6 {
		t.Fatalf("expected 6 days before due, got %d", event.DaysBeforeDue)
	}

	// Both the 30-day and the 7-day offsets are behind us; each gets a
	// record but only one event goes out.
	if len(store.sent[id]) != 2 {
		t.Fatalf("expected 2 sent records, got %d", len(store.sent[id]))
	}
}

func TestReminderJobIsIdempotentAcrossRuns(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	job, store, recorder, bus := newReminderJob(t, now)

	store.add(6*24*time.Hour, now)

	for i := 0; i < 3; i++ {
		if _, _, err := job.Run(context.Background()); err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
	}
	bus.Wait()

	if fired := recorder.byName("reminders.due"); len(fired) != 1 {
		t.Fatalf("expected 1 event across repeated runs, got %d", len(fired))
	}
}

func TestReminderJobSkipsRemindersOutsideLeadDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	job, store, recorder, bus := newReminderJob(t, now)

	// 25 days out sits between the 30-day (already fired below) and 7-day
	// offsets, so a second run right after must stay quiet.
	store.add(25*24*time.Hour, now)

	if _, _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	processed, _, err := job.Run(context.Background())
	bus.Wait()
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if processed != 0 {
		t.Fatalf("expected no reminders processed on second run, got %d", processed)
	}
	if fired := recorder.byName("reminders.due"); len(fired) != 1 {
		t.Fatalf("expected 1 event total, got %d", len(fired))
	}
}

func TestReminderJobClampsOverdueToZeroDays(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	job, store, recorder, bus := newReminderJob(t, now)

	store.add(-3*24*time.Hour, now)

	if _, _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	bus.Wait()

	fired := recorder.byName("reminders.due")
	if len(fired) != 1 {
		t.Fatalf("expected 1 event, got %d", len(fired))
	}
	if event := fired[0].(events.ServiceReminderDue); event.DaysBeforeDue != 0 {
		t.Fatalf("expected overdue reminder clamped to 0 days, got %d", event.DaysBeforeDue)
	}
}
