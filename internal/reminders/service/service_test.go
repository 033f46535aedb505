package service

import (
	"context"
	"testing"
	"time"

	"homezy_backend/internal/events"
	"homezy_backend/internal/reminders/domain"
	"homezy_backend/internal/reminders/repository"
	"homezy_backend/internal/reminders/transport"
	"homezy_backend/platform/apperr"
	"homezy_backend/platform/logger"

	"github.com/google/uuid"
)

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	log := logger.New("test")
	svc := New(store, events.NewInMemoryBus(log), log)
	return svc, store
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestCreateComputesDueDateFromLastService(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SetClock(fixedClock(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)))
	homeowner := uuid.New()

	lastService := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	resp, err := svc.Create(context.Background(), homeowner, transport.CreateReminderRequest{
		Category:        string(domain.CategoryACCleaning),
		Title:           "AC cleaning",
		Frequency:       string(domain.FrequencyQuarterly),
		LastServiceDate: &lastService,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	wantDue := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	if !resp.NextDueDate.Equal(wantDue) {
		t.Errorf("NextDueDate = %v, want %v", resp.NextDueDate, wantDue)
	}
	if resp.Status != string(domain.StatusActive) {
		t.Errorf("Status = %q, want active", resp.Status)
	}
	if len(resp.ReminderLeadDays) != 3 || resp.ReminderLeadDays[0] != 30 {
		t.Errorf("ReminderLeadDays = %v, want default [30 7 1]", resp.ReminderLeadDays)
	}
}

func TestCreateRejectsCustomWithoutInterval(t *testing.T) {
	svc, _ := newTestService(t)
	homeowner := uuid.New()

	_, err := svc.Create(context.Background(), homeowner, transport.CreateReminderRequest{
		Category:  string(domain.CategoryPlumbing),
		Title:     "Pipe check",
		Frequency: string(domain.FrequencyCustom),
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetFailsClosedForOtherHomeowner(t *testing.T) {
	svc, store := newTestService(t)
	owner := uuid.New()

	created, _ := store.Create(context.Background(), repository.Reminder{
		HomeownerID: owner,
		Category:    domain.CategoryPlumbing,
		TriggerType: domain.TriggerCustom,
		Frequency:   domain.FrequencyAnnual,
		NextDueDate: time.Now().AddDate(0, 6, 0),
		Status:      domain.StatusActive,
	})

	_, err := svc.Get(context.Background(), uuid.New(), created.ID)
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not-found for foreign homeowner, got %v", err)
	}
}

func TestSnoozeThenAutoReactivateOnRead(t *testing.T) {
	svc, store := newTestService(t)
	homeowner := uuid.New()
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.SetClock(fixedClock(start))

	created, _ := store.Create(context.Background(), repository.Reminder{
		HomeownerID: homeowner,
		Category:    domain.CategoryPestControl,
		TriggerType: domain.TriggerCustom,
		Frequency:   domain.FrequencyQuarterly,
		NextDueDate: start.AddDate(0, 0, 5),
		Status:      domain.StatusActive,
	})

	snoozed, err := svc.Snooze(context.Background(), homeowner, created.ID, 7)
	if err != nil {
		t.Fatalf("Snooze: %v", err)
	}
	if snoozed.Status != string(domain.StatusSnoozed) {
		t.Fatalf("Status = %q, want snoozed", snoozed.Status)
	}
	wantUntil := start.AddDate(0, 0, 7)
	if snoozed.SnoozeUntil == nil || !snoozed.SnoozeUntil.Equal(wantUntil) {
		t.Fatalf("SnoozeUntil = %v, want %v", snoozed.SnoozeUntil, wantUntil)
	}

	// Before the window ends, the snooze holds.
	svc.SetClock(fixedClock(start.AddDate(0, 0, 6)))
	got, err := svc.Get(context.Background(), homeowner, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != string(domain.StatusSnoozed) {
		t.Errorf("Status before window end = %q, want snoozed", got.Status)
	}

	// After the window, a plain read flips it back to active.
	svc.SetClock(fixedClock(start.AddDate(0, 0, 8)))
	got, err = svc.Get(context.Background(), homeowner, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != string(domain.StatusActive) {
		t.Errorf("Status after window end = %q, want active", got.Status)
	}
	if got.SnoozeUntil != nil {
		t.Errorf("SnoozeUntil = %v, want cleared", got.SnoozeUntil)
	}
}

func TestResumeOnlyLegalFromPaused(t *testing.T) {
	svc, store := newTestService(t)
	homeowner := uuid.New()

	created, _ := store.Create(context.Background(), repository.Reminder{
		HomeownerID: homeowner,
		Category:    domain.CategoryDeepCleaning,
		TriggerType: domain.TriggerCustom,
		Frequency:   domain.FrequencyMonthly,
		NextDueDate: time.Now().AddDate(0, 1, 0),
		Status:      domain.StatusActive,
	})

	// Resuming an already-active reminder is a silent no-op.
	unchanged, err := svc.Resume(context.Background(), homeowner, created.ID)
	if err != nil {
		t.Fatalf("Resume on active reminder: %v", err)
	}
	if unchanged.Status != string(domain.StatusActive) {
		t.Errorf("Status = %q, want active", unchanged.Status)
	}

	if _, err := svc.Pause(context.Background(), homeowner, created.ID); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	resumed, err := svc.Resume(context.Background(), homeowner, created.ID)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resumed.Status != string(domain.StatusActive) {
		t.Errorf("Status = %q, want active", resumed.Status)
	}

	// A converted reminder is terminal; Resume leaves it converted.
	converted, _ := store.Create(context.Background(), repository.Reminder{
		HomeownerID: homeowner,
		Category:    domain.CategoryDeepCleaning,
		TriggerType: domain.TriggerCustom,
		Frequency:   domain.FrequencyMonthly,
		NextDueDate: time.Now().AddDate(0, 1, 0),
		Status:      domain.StatusConvertedToQuote,
	})
	resp, err := svc.Resume(context.Background(), homeowner, converted.ID)
	if err != nil {
		t.Fatalf("Resume on converted reminder: %v", err)
	}
	if resp.Status != string(domain.StatusConvertedToQuote) {
		t.Errorf("Status = %q, want converted_to_quote", resp.Status)
	}
}

func TestCompleteRollsCycleForwardAndClearsSentList(t *testing.T) {
	svc, store := newTestService(t)
	homeowner := uuid.New()
	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	svc.SetClock(fixedClock(now))

	created, _ := store.Create(context.Background(), repository.Reminder{
		HomeownerID: homeowner,
		Category:    domain.CategoryACCleaning,
		TriggerType: domain.TriggerPatternBased,
		Frequency:   domain.FrequencyQuarterly,
		NextDueDate: time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		RemindersSent: []repository.SentRecord{
			{SentAt: now.AddDate(0, 0, -30), Channel: "email", DaysBeforeDue: 30},
			{SentAt: now.AddDate(0, 0, -7), Channel: "email", DaysBeforeDue: 7},
		},
		Status: domain.StatusActive,
	})

	resp, err := svc.Complete(context.Background(), homeowner, created.ID, transport.CompleteReminderRequest{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	wantDue := time.Date(2024, 7, 20, 12, 0, 0, 0, time.UTC)
	if !resp.NextDueDate.Equal(wantDue) {
		t.Errorf("NextDueDate = %v, want %v", resp.NextDueDate, wantDue)
	}
	if resp.LastServiceDate == nil || !resp.LastServiceDate.Equal(now) {
		t.Errorf("LastServiceDate = %v, want %v", resp.LastServiceDate, now)
	}
	if len(resp.RemindersSent) != 0 {
		t.Errorf("RemindersSent has %d entries after complete, want 0", len(resp.RemindersSent))
	}
	if resp.Status != string(domain.StatusActive) {
		t.Errorf("Status = %q, want active", resp.Status)
	}
}

type fakeLeadCreator struct {
	leadID  uuid.UUID
	created int
}

func (f *fakeLeadCreator) CreateFromReminder(_ context.Context, _ uuid.UUID, _ domain.ServiceCategory, _, _ string) (uuid.UUID, error) {
	f.created++
	return f.leadID, nil
}

func TestConvertToQuoteIsTerminal(t *testing.T) {
	svc, store := newTestService(t)
	homeowner := uuid.New()
	leads := &fakeLeadCreator{leadID: uuid.New()}
	svc.SetLeadCreator(leads)

	created, _ := store.Create(context.Background(), repository.Reminder{
		HomeownerID: homeowner,
		Category:    domain.CategoryWaterHeater,
		TriggerType: domain.TriggerSeasonal,
		Frequency:   domain.FrequencyAnnual,
		NextDueDate: time.Now().AddDate(0, 0, 3),
		Status:      domain.StatusActive,
	})

	resp, err := svc.ConvertToQuote(context.Background(), homeowner, created.ID)
	if err != nil {
		t.Fatalf("ConvertToQuote: %v", err)
	}
	if resp.Status != string(domain.StatusConvertedToQuote) {
		t.Errorf("Status = %q, want converted_to_quote", resp.Status)
	}
	if resp.ConvertedLeadID == nil || *resp.ConvertedLeadID != leads.leadID {
		t.Errorf("ConvertedLeadID = %v, want %v", resp.ConvertedLeadID, leads.leadID)
	}

	if _, err := svc.ConvertToQuote(context.Background(), homeowner, created.ID); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("second convert: expected conflict, got %v", err)
	}
	if _, err := svc.Complete(context.Background(), homeowner, created.ID, transport.CompleteReminderRequest{}); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("complete after convert: expected conflict, got %v", err)
	}
	if leads.created != 1 {
		t.Errorf("lead created %d times, want 1", leads.created)
	}
}

func TestUpdateFrequencyRecomputesDueDate(t *testing.T) {
	svc, store := newTestService(t)
	homeowner := uuid.New()

	lastService := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	created, _ := store.Create(context.Background(), repository.Reminder{
		HomeownerID:     homeowner,
		Category:        domain.CategoryLandscaping,
		TriggerType:     domain.TriggerCustom,
		Frequency:       domain.FrequencyQuarterly,
		LastServiceDate: &lastService,
		NextDueDate:     time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		Status:          domain.StatusActive,
	})

	monthly := string(domain.FrequencyMonthly)
	resp, err := svc.Update(context.Background(), homeowner, created.ID, transport.UpdateReminderRequest{
		Frequency: &monthly,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	wantDue := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	if !resp.NextDueDate.Equal(wantDue) {
		t.Errorf("NextDueDate = %v, want %v", resp.NextDueDate, wantDue)
	}
}
