package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"homezy_backend/internal/leads/domain"
	"homezy_backend/internal/leads/repository"
	reminderdomain "homezy_backend/internal/reminders/domain"
	"homezy_backend/platform/apperr"

	"github.com/google/uuid"
)

// fakeStore is an in-memory lead Store with the same guarded-update
// semantics as the SQL implementation.
type fakeStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]repository.Lead
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[uuid.UUID]repository.Lead)}
}

func (f *fakeStore) Create(_ context.Context, lead repository.Lead) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead.ID = uuid.New()
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt
	f.items[lead.ID] = lead
	return lead, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.items[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeStore) ListForHomeowner(_ context.Context, homeownerID uuid.UUID) ([]repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]repository.Lead, 0)
	for _, lead := range f.items {
		if lead.HomeownerID != nil && *lead.HomeownerID == homeownerID {
			out = append(out, lead)
		}
	}
	sortNewest(out)
	return out, nil
}

func (f *fakeStore) ListForProfessional(_ context.Context, professionalID uuid.UUID) ([]repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]repository.Lead, 0)
	for _, lead := range f.items {
		if lead.TargetProfessionalID != nil && *lead.TargetProfessionalID == professionalID {
			out = append(out, lead)
		}
	}
	sortNewest(out)
	return out, nil
}

func (f *fakeStore) AcceptDirectLead(_ context.Context, id, professionalID uuid.UUID, now time.Time) (repository.Lead, bool, error) {
	return f.answer(id, professionalID, now, domain.DirectLeadAccepted)
}

func (f *fakeStore) DeclineDirectLead(_ context.Context, id, professionalID uuid.UUID, now time.Time) (repository.Lead, bool, error) {
	return f.answer(id, professionalID, now, domain.DirectLeadDeclined)
}

func (f *fakeStore) answer(id, professionalID uuid.UUID, now time.Time, target domain.DirectLeadStatus) (repository.Lead, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.items[id]
	if !ok || lead.DirectLeadStatus == nil || !domain.CanTransition(*lead.DirectLeadStatus, target) {
		return repository.Lead{}, false, nil
	}
	if lead.TargetProfessionalID == nil || *lead.TargetProfessionalID != professionalID {
		return repository.Lead{}, false, nil
	}
	if lead.DirectLeadExpiresAt == nil || !lead.DirectLeadExpiresAt.After(now) {
		return repository.Lead{}, false, nil
	}

	lead.DirectLeadStatus = &target
	f.items[id] = lead
	return lead, true, nil
}

func (f *fakeStore) ExpireDirectLead(_ context.Context, id uuid.UUID, maxClaims int) (repository.Lead, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.items[id]
	if !ok || lead.DirectLeadStatus == nil || !domain.CanTransition(*lead.DirectLeadStatus, domain.DirectLeadExpired) {
		return repository.Lead{}, false, nil
	}

	expired := domain.DirectLeadExpired
	lead.DirectLeadStatus = &expired
	lead.LeadType = domain.LeadTypeIndirect
	lead.ClaimCount = 0
	lead.MaxClaims = maxClaims
	f.items[id] = lead
	return lead, true, nil
}

func (f *fakeStore) ListExpiredPending(_ context.Context, now time.Time) ([]repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]repository.Lead, 0)
	for _, lead := range f.items {
		if lead.LeadType == domain.LeadTypeDirect &&
			lead.DirectLeadStatus != nil && *lead.DirectLeadStatus == domain.DirectLeadPending &&
			lead.DirectLeadExpiresAt != nil && !lead.DirectLeadExpiresAt.After(now) {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPendingDirectLeads(_ context.Context, now time.Time) ([]repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]repository.Lead, 0)
	for _, lead := range f.items {
		if lead.LeadType == domain.LeadTypeDirect &&
			lead.DirectLeadStatus != nil && *lead.DirectLeadStatus == domain.DirectLeadPending &&
			lead.DirectLeadExpiresAt != nil && lead.DirectLeadExpiresAt.After(now) {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkReminderSent(_ context.Context, id uuid.UUID, stage int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.items[id]
	if !ok || lead.DirectLeadStatus == nil || *lead.DirectLeadStatus != domain.DirectLeadPending {
		return false, nil
	}

	switch stage {
	case domain.ReminderStageFirst:
		if lead.Reminder1Sent {
			return false, nil
		}
		lead.Reminder1Sent = true
	case domain.ReminderStageSecond:
		if lead.Reminder2Sent {
			return false, nil
		}
		lead.Reminder2Sent = true
	default:
		return false, apperr.Validation("unknown reminder stage")
	}

	f.items[id] = lead
	return true, nil
}

func (f *fakeStore) MarkCompleted(_ context.Context, id, homeownerID uuid.UUID, completedAt time.Time) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.items[id]
	if !ok || lead.HomeownerID == nil || *lead.HomeownerID != homeownerID || lead.Status == domain.StatusCancelled {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}

	lead.Status = domain.StatusCompleted
	lead.CompletedAt = &completedAt
	f.items[id] = lead
	return lead, nil
}

func (f *fakeStore) IncrementClaim(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.items[id]
	if !ok || lead.LeadType != domain.LeadTypeIndirect || lead.ClaimCount >= lead.MaxClaims {
		return false, nil
	}
	lead.ClaimCount++
	f.items[id] = lead
	return true, nil
}

func (f *fakeStore) ServicePattern(_ context.Context, homeownerID uuid.UUID, category reminderdomain.ServiceCategory, propertyID *uuid.UUID) (repository.ServicePatternRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var completions []time.Time
	for _, lead := range f.items {
		if lead.HomeownerID == nil || *lead.HomeownerID != homeownerID {
			continue
		}
		if lead.Category != category || lead.Status != domain.StatusCompleted || lead.CompletedAt == nil {
			continue
		}
		if propertyID != nil && (lead.PropertyID == nil || *lead.PropertyID != *propertyID) {
			continue
		}
		completions = append(completions, *lead.CompletedAt)
	}

	row := repository.ServicePatternRow{ServiceCount: len(completions)}
	if len(completions) == 0 {
		return row, nil
	}

	sort.Slice(completions, func(i, j int) bool { return completions[i].Before(completions[j]) })
	last := completions[len(completions)-1]
	row.LastCompletedAt = &last
	if len(completions) > 1 {
		span := completions[len(completions)-1].Sub(completions[0])
		avg := span.Hours() / 24 / float64(len(completions)-1)
		row.AvgIntervalDays = &avg
	}
	return row, nil
}

func (f *fakeStore) ListHomeownersWithHistory(_ context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[uuid.UUID]map[reminderdomain.ServiceCategory]int)
	for _, lead := range f.items {
		if lead.HomeownerID == nil || lead.Status != domain.StatusCompleted || lead.CompletedAt == nil {
			continue
		}
		if counts[*lead.HomeownerID] == nil {
			counts[*lead.HomeownerID] = make(map[reminderdomain.ServiceCategory]int)
		}
		counts[*lead.HomeownerID][lead.Category]++
	}

	ids := make([]uuid.UUID, 0)
	for id, perCategory := range counts {
		for _, n := range perCategory {
			if n >= 2 {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids, nil
}

func sortNewest(items []repository.Lead) {
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
}

var _ repository.Store = (*fakeStore)(nil)
