package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"homezy_backend/internal/reminders/domain"
	"homezy_backend/internal/reminders/repository"
	"homezy_backend/platform/apperr"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store used across the service tests.
type fakeStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]repository.Reminder
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[uuid.UUID]repository.Reminder)}
}

func (f *fakeStore) Create(_ context.Context, reminder repository.Reminder) (repository.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reminder.ID = uuid.New()
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = reminder.CreatedAt
	if reminder.RemindersSent == nil {
		reminder.RemindersSent = []repository.SentRecord{}
	}
	f.items[reminder.ID] = reminder
	return reminder, nil
}

func (f *fakeStore) GetByID(_ context.Context, id, homeownerID uuid.UUID) (repository.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reminder, ok := f.items[id]
	if !ok || reminder.HomeownerID != homeownerID {
		return repository.Reminder{}, apperr.NotFound("reminder not found")
	}
	return reminder, nil
}

func (f *fakeStore) List(_ context.Context, homeownerID uuid.UUID, filter repository.ListFilter) ([]repository.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]repository.Reminder, 0)
	for _, reminder := range f.items {
		if reminder.HomeownerID != homeownerID {
			continue
		}
		if filter.PropertyID != nil && (reminder.PropertyID == nil || *reminder.PropertyID != *filter.PropertyID) {
			continue
		}
		if filter.Category != nil && reminder.Category != *filter.Category {
			continue
		}
		if filter.Status != nil && reminder.Status != *filter.Status {
			continue
		}
		out = append(out, reminder)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextDueDate.Before(out[j].NextDueDate) })
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, reminder repository.Reminder) (repository.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.items[reminder.ID]
	if !ok || existing.HomeownerID != reminder.HomeownerID {
		return repository.Reminder{}, apperr.NotFound("reminder not found")
	}
	reminder.CreatedAt = existing.CreatedAt
	reminder.UpdatedAt = time.Now()
	f.items[reminder.ID] = reminder
	return reminder, nil
}

func (f *fakeStore) Delete(_ context.Context, id, homeownerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	reminder, ok := f.items[id]
	if !ok || reminder.HomeownerID != homeownerID {
		return apperr.NotFound("reminder not found")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeStore) ReactivateIfSnoozeElapsed(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reminder, ok := f.items[id]
	if !ok || reminder.Status != domain.StatusSnoozed || reminder.SnoozeUntil == nil || reminder.SnoozeUntil.After(now) {
		return false, nil
	}
	reminder.Status = domain.StatusActive
	reminder.SnoozeUntil = nil
	f.items[id] = reminder
	return true, nil
}

func (f *fakeStore) FindPatternReminder(_ context.Context, homeownerID uuid.UUID, category domain.ServiceCategory, propertyID *uuid.UUID) (*repository.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, reminder := range f.items {
		if reminder.HomeownerID != homeownerID || reminder.Category != category || reminder.TriggerType != domain.TriggerPatternBased {
			continue
		}
		if propertyID == nil {
			if reminder.PropertyID != nil {
				continue
			}
		} else if reminder.PropertyID == nil || *reminder.PropertyID != *propertyID {
			continue
		}
		found := reminder
		return &found, nil
	}
	return nil, nil
}

func (f *fakeStore) HasSeasonalReminderDueBetween(_ context.Context, homeownerID uuid.UUID, category domain.ServiceCategory, from, to time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, reminder := range f.items {
		if reminder.HomeownerID != homeownerID || reminder.Category != category || reminder.TriggerType != domain.TriggerSeasonal {
			continue
		}
		if !reminder.NextDueDate.Before(from) && reminder.NextDueDate.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListDueForNotification(_ context.Context, now time.Time, horizon time.Duration) ([]repository.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]repository.Reminder, 0)
	for _, reminder := range f.items {
		if reminder.Status == domain.StatusActive && !reminder.NextDueDate.After(now.Add(horizon)) {
			out = append(out, reminder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextDueDate.Before(out[j].NextDueDate) })
	return out, nil
}

func (f *fakeStore) AppendReminderSent(_ context.Context, id uuid.UUID, record repository.SentRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reminder, ok := f.items[id]
	if !ok {
		return false, apperr.NotFound("reminder not found")
	}
	for _, sent := range reminder.RemindersSent {
		if sent.Channel == record.Channel && sent.DaysBeforeDue == record.DaysBeforeDue {
			return false, nil
		}
	}
	reminder.RemindersSent = append(reminder.RemindersSent, record)
	f.items[id] = reminder
	return true, nil
}

var _ repository.Store = (*fakeStore)(nil)
