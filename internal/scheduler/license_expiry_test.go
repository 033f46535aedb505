package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	accountrepo "homezy_backend/internal/accounts/repository"
	"homezy_backend/internal/events"
	"homezy_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLicenseStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*accountrepo.User
	notified map[uuid.UUID]time.Time
}

func newFakeLicenseStore() *fakeLicenseStore {
	return &fakeLicenseStore{
		users:    make(map[uuid.UUID]*accountrepo.User),
		notified: make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeLicenseStore) add(expiry time.Time) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := "Cool Air Services"
	u := &accountrepo.User{
		ID:                 uuid.New(),
		Role:               accountrepo.RoleProfessional,
		BusinessName:       &name,
		TradeLicenseExpiry: &expiry,
	}
	f.users[u.ID] = u
	return u.ID
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func (f *fakeLicenseStore) ListLicenseExpiringOn(_ context.Context, day time.Time) ([]accountrepo.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []accountrepo.User
	for _, u := range f.users {
		if u.TradeLicenseExpiry != nil && !u.LicenseExpiryWarned && sameDay(*u.TradeLicenseExpiry, day) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeLicenseStore) ListLicenseExpiredBefore(_ context.Context, day time.Time) ([]accountrepo.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []accountrepo.User
	for _, u := range f.users {
		if u.TradeLicenseExpiry != nil && u.TradeLicenseExpiry.Before(day) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeLicenseStore) MarkLicenseExpiryWarned(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.LicenseExpiryWarned {
		return false, nil
	}
	u.LicenseExpiryWarned = true
	return true, nil
}

func (f *fakeLicenseStore) MarkLicenseExpiredNotified(_ context.Context, id uuid.UUID, day time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if last, ok := f.notified[id]; ok && sameDay(last, day) {
		return false, nil
	}
	f.notified[id] = day
	return true, nil
}

func newLicenseJob(t *testing.T, now time.Time) (*LicenseExpiryJob, *fakeLicenseStore, *eventRecorder, *events.InMemoryBus) {
	t.Helper()
	store := newFakeLicenseStore()
	bus := events.NewInMemoryBus(logger.New("test"))
	recorder := &eventRecorder{}
	bus.Subscribe(events.TradeLicenseExpiring{}.EventName(), recorder)
	bus.Subscribe(events.TradeLicenseExpired{}.EventName(), recorder)

	job := NewLicenseExpiryJob(store, bus)
	job.SetClock(func() time.Time { return now })
	return job, store, recorder, bus
}

func TestLicenseWarningFiresOnce(t *testing.T) {
	now := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	job, store, recorder, bus := newLicenseJob(t, now)

	id := store.add(now.AddDate(0, 0, 7))

	for i := 0; i < 3; i++ {
		if _, _, err := job.Run(context.Background()); err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
	}
	bus.Wait()

	fired := recorder.byName("accounts.license.expiring")
	if len(fired) != 1 {
		t.Fatalf("expected 1 warning across repeated runs, got %d", len(fired))
	}
	event := fired[0].(events.TradeLicenseExpiring)
	if event.ProfessionalID != id {
		t.Fatalf("expected warning for %s, got %s", id, event.ProfessionalID)
	}
	if event.BusinessName != "Cool Air Services" {
		t.Fatalf("unexpected business name %q", event.BusinessName)
	}
}

func TestExpiredLicenseNotifiesDaily(t *testing.T) {
	now := time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC)
	job, store, recorder, bus := newLicenseJob(t, now)

	store.add(now.AddDate(0, 0, -2))

	// Two runs on the same day, then one the next morning.
	if _, _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	job.SetClock(func() time.Time { return now.AddDate(0, 0, 1) })
	if _, _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("next-day Run: %v", err)
	}
	bus.Wait()

	if fired := recorder.byName("accounts.license.expired"); len(fired) != 2 {
		t.Fatalf("expected 2 expired notices over 2 days, got %d", len(fired))
	}
}

func TestExpiredLicenseAdminEscalationDays(t *testing.T) {
	cases := []struct {
		days int
		want bool
	}{
		{0, false}, {1, true}, {2, false}, {7, true}, {14, true},
		{21, false}, {30, true}, {45, false}, {60, true}, {90, true},
	}
	for _, tc := range cases {
		if got := adminEscalationDay(tc.days); got != tc.want {
			t.Errorf("adminEscalationDay(%d) = %v, want %v", tc.days, got, tc.want)
		}
	}
}

func TestExpiredLicenseEventCarriesDaysSinceExpiry(t *testing.T) {
	now := time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC)
	job, store, recorder, bus := newLicenseJob(t, now)

	store.add(now.AddDate(0, 0, -7))

	if _, _, err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	bus.Wait()

	fired := recorder.byName("accounts.license.expired")
	if len(fired) != 1 {
		t.Fatalf("expected 1 expired notice, got %d", len(fired))
	}
	event := fired[0].(events.TradeLicenseExpired)
	if event.DaysSinceExpiry != 7 {
		t.Fatalf("expected 7 days since expiry, got %d", event.DaysSinceExpiry)
	}
	if !event.NotifyAdmins {
		t.Fatal("expected day 7 to escalate to admins")
	}
}
