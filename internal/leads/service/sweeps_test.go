package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"homezy_backend/internal/events"
	"homezy_backend/internal/leads/domain"
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

func (r *eventRecorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, event := range r.events {
		if event.EventName() == name {
			n++
		}
	}
	return n
}

func newSweepService(t *testing.T) (*Service, *fakeStore, *events.InMemoryBus) {
	t.Helper()
	store := newFakeStore()
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	svc := New(store, &fakeDirectory{pros: make(map[uuid.UUID]Professional)}, bus, stubConfig{}, log)
	return svc, store, bus
}

func seedDirectLead(t *testing.T, svc *Service, pros *fakeDirectory, createdAt time.Time) uuid.UUID {
	t.Helper()
	proID := uuid.New()
	pros.pros[proID] = Professional{ID: proID}
	svc.SetClock(func() time.Time { return createdAt })

	resp, err := svc.Submit(context.Background(), nil, submitRequest(&proID))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return resp.ID
}

func TestExpireDueLeadsConvertsExactlyOnce(t *testing.T) {
	svc, store, bus := newSweepService(t)
	pros := &fakeDirectory{pros: make(map[uuid.UUID]Professional)}
	svc.pros = pros

	recorder := &eventRecorder{}
	bus.Subscribe("leads.direct.expired", recorder)

	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	leadID := seedDirectLead(t, svc, pros, created)

	// The window has closed; run two sweeps concurrently.
	after := created.Add(25 * time.Hour)
	svc.SetClock(func() time.Time { return after })

	var wg sync.WaitGroup
	results := make([]SweepResult, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			result, err := svc.ExpireDueLeads(context.Background())
			if err != nil {
				t.Errorf("ExpireDueLeads: %v", err)
			}
			results[slot] = result
		}(i)
	}
	wg.Wait()
	bus.Wait()

	if total := results[0].Converted + results[1].Converted; total != 1 {
		t.Errorf("total conversions = %d, want exactly 1 across concurrent sweeps", total)
	}
	if got := recorder.count("leads.direct.expired"); got != 1 {
		t.Errorf("expired events = %d, want 1", got)
	}

	lead, err := store.GetByID(context.Background(), leadID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if lead.LeadType != domain.LeadTypeIndirect {
		t.Errorf("LeadType = %q, want indirect after conversion", lead.LeadType)
	}
	if *lead.DirectLeadStatus != domain.DirectLeadExpired {
		t.Errorf("DirectLeadStatus = %q, want expired", *lead.DirectLeadStatus)
	}
	if lead.ClaimCount != 0 || lead.MaxClaims != 3 {
		t.Errorf("claims = %d/%d, want 0/3 after conversion", lead.ClaimCount, lead.MaxClaims)
	}

	// A later sweep finds nothing left to do.
	result, err := svc.ExpireDueLeads(context.Background())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if result.Processed != 0 {
		t.Errorf("second sweep processed %d, want 0", result.Processed)
	}
}

func TestEmitRemindersFirstStageOnlyAt11Hours(t *testing.T) {
	svc, store, bus := newSweepService(t)
	pros := &fakeDirectory{pros: make(map[uuid.UUID]Professional)}
	svc.pros = pros

	recorder := &eventRecorder{}
	bus.Subscribe("leads.direct.reminder_due", recorder)

	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	leadID := seedDirectLead(t, svc, pros, created)

	// 13 hours in: 11 hours until expiry, inside the 12h lead but not the 1h.
	svc.SetClock(func() time.Time { return created.Add(13 * time.Hour) })

	result, err := svc.EmitDirectLeadReminders(context.Background())
	if err != nil {
		t.Fatalf("EmitDirectLeadReminders: %v", err)
	}
	bus.Wait()

	if result.Reminders != 1 {
		t.Errorf("Reminders = %d, want 1", result.Reminders)
	}
	if got := recorder.count("leads.direct.reminder_due"); got != 1 {
		t.Errorf("reminder events = %d, want 1", got)
	}

	lead, _ := store.GetByID(context.Background(), leadID)
	if !lead.Reminder1Sent || lead.Reminder2Sent {
		t.Errorf("flags = (%v, %v), want (true, false)", lead.Reminder1Sent, lead.Reminder2Sent)
	}

	// The next tick must not re-send.
	if _, err := svc.EmitDirectLeadReminders(context.Background()); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	bus.Wait()
	if got := recorder.count("leads.direct.reminder_due"); got != 1 {
		t.Errorf("reminder events after second tick = %d, want still 1", got)
	}
}

func TestEmitRemindersBothStagesInsideFinalHour(t *testing.T) {
	svc, store, bus := newSweepService(t)
	pros := &fakeDirectory{pros: make(map[uuid.UUID]Professional)}
	svc.pros = pros

	recorder := &eventRecorder{}
	bus.Subscribe("leads.direct.reminder_due", recorder)

	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	leadID := seedDirectLead(t, svc, pros, created)

	// First seen 30 minutes before expiry: both stages fire in one pass.
	svc.SetClock(func() time.Time { return created.Add(23*time.Hour + 30*time.Minute) })

	result, err := svc.EmitDirectLeadReminders(context.Background())
	if err != nil {
		t.Fatalf("EmitDirectLeadReminders: %v", err)
	}
	bus.Wait()

	if result.Reminders != 2 {
		t.Errorf("Reminders = %d, want both stages in one pass", result.Reminders)
	}
	if got := recorder.count("leads.direct.reminder_due"); got != 2 {
		t.Errorf("reminder events = %d, want 2", got)
	}

	lead, _ := store.GetByID(context.Background(), leadID)
	if !lead.Reminder1Sent || !lead.Reminder2Sent {
		t.Errorf("flags = (%v, %v), want both true", lead.Reminder1Sent, lead.Reminder2Sent)
	}
}

func TestRemindLeadNoOpWhenAnswered(t *testing.T) {
	svc, _, bus := newSweepService(t)
	pros := &fakeDirectory{pros: make(map[uuid.UUID]Professional)}
	svc.pros = pros

	recorder := &eventRecorder{}
	bus.Subscribe("leads.direct.reminder_due", recorder)

	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	leadID := seedDirectLead(t, svc, pros, created)

	// Find the targeted professional and accept before the task fires.
	var proID uuid.UUID
	for id := range pros.pros {
		proID = id
	}
	svc.SetClock(func() time.Time { return created.Add(2 * time.Hour) })
	if _, err := svc.Accept(context.Background(), proID, leadID); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	svc.SetClock(func() time.Time { return created.Add(13 * time.Hour) })
	if err := svc.RemindLead(context.Background(), leadID, domain.ReminderStageFirst); err != nil {
		t.Fatalf("RemindLead: %v", err)
	}
	bus.Wait()

	if got := recorder.count("leads.direct.reminder_due"); got != 0 {
		t.Errorf("reminder events = %d, want 0 for answered lead", got)
	}
}
