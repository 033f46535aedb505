// Package service implements service reminder lifecycle operations.
package service

import (
	"context"
	"fmt"
	"time"

	"homezy_backend/internal/events"
	"homezy_backend/internal/reminders/domain"
	"homezy_backend/internal/reminders/repository"
	"homezy_backend/internal/reminders/transport"
	"homezy_backend/platform/apperr"
	"homezy_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides business logic for service reminders.
type Service struct {
	repo  repository.Store
	bus   events.Bus
	log   *logger.Logger
	leads LeadCreator // optional, set after construction to break circular deps
	now   func() time.Time
}

// New creates a new reminders service.
func New(repo repository.Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log,
		now:  time.Now,
	}
}

// SetLeadCreator injects the lead creator used by ConvertToQuote.
func (s *Service) SetLeadCreator(lc LeadCreator) {
	s.leads = lc
}

// SetClock overrides the time source. Used in tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Create creates a custom reminder for the homeowner. The due date is taken
// from the request when present, otherwise computed from the last service
// date and frequency, otherwise one interval from now.
func (s *Service) Create(ctx context.Context, homeownerID uuid.UUID, req transport.CreateReminderRequest) (*transport.ReminderResponse, error) {
	category := domain.ServiceCategory(req.Category)
	if !domain.ValidCategory(category) {
		return nil, apperr.Validation(fmt.Sprintf("unknown service category %q", req.Category))
	}
	frequency := domain.Frequency(req.Frequency)
	if frequency == domain.FrequencyCustom && req.CustomIntervalDays == nil {
		return nil, apperr.Validation("customIntervalDays is required for custom frequency")
	}

	customDays := 0
	if req.CustomIntervalDays != nil {
		customDays = *req.CustomIntervalDays
	}

	nextDue := s.now()
	switch {
	case req.NextDueDate != nil:
		nextDue = *req.NextDueDate
	case req.LastServiceDate != nil:
		nextDue = domain.NextDueDate(*req.LastServiceDate, frequency, customDays)
	default:
		nextDue = domain.NextDueDate(nextDue, frequency, customDays)
	}

	leadDays := req.ReminderLeadDays
	if len(leadDays) == 0 {
		leadDays = append([]int(nil), domain.DefaultLeadDays...)
	}

	created, err := s.repo.Create(ctx, repository.Reminder{
		HomeownerID:        homeownerID,
		PropertyID:         req.PropertyID,
		Category:           category,
		Title:              req.Title,
		Description:        req.Description,
		TriggerType:        domain.TriggerCustom,
		Frequency:          frequency,
		CustomIntervalDays: req.CustomIntervalDays,
		LastServiceDate:    req.LastServiceDate,
		NextDueDate:        nextDue,
		ReminderLeadDays:   leadDays,
		Status:             domain.StatusActive,
	})
	if err != nil {
		return nil, err
	}

	resp := transport.ToReminderResponse(created)
	return &resp, nil
}

// Get returns a single reminder owned by the homeowner, reactivating it first
// if its snooze window has elapsed.
func (s *Service) Get(ctx context.Context, homeownerID, id uuid.UUID) (*transport.ReminderResponse, error) {
	reminder, err := s.getFresh(ctx, homeownerID, id)
	if err != nil {
		return nil, err
	}
	resp := transport.ToReminderResponse(*reminder)
	return &resp, nil
}

// List returns the homeowner's reminders, optionally filtered.
func (s *Service) List(ctx context.Context, homeownerID uuid.UUID, req transport.ListRemindersRequest) ([]transport.ReminderResponse, error) {
	filter := repository.ListFilter{}
	if req.PropertyID != "" {
		propertyID, err := uuid.Parse(req.PropertyID)
		if err != nil {
			return nil, apperr.Validation("invalid propertyId")
		}
		filter.PropertyID = &propertyID
	}
	if req.Category != "" {
		category := domain.ServiceCategory(req.Category)
		if !domain.ValidCategory(category) {
			return nil, apperr.Validation(fmt.Sprintf("unknown service category %q", req.Category))
		}
		filter.Category = &category
	}
	if req.Status != "" {
		status := domain.Status(req.Status)
		filter.Status = &status
	}

	items, err := s.repo.List(ctx, homeownerID, filter)
	if err != nil {
		return nil, err
	}

	// Snoozed reminders whose window has passed flip back to active on read.
	now := s.now()
	for i := range items {
		if items[i].Status == domain.StatusSnoozed && items[i].SnoozeUntil != nil && !items[i].SnoozeUntil.After(now) {
			reactivated, raErr := s.repo.ReactivateIfSnoozeElapsed(ctx, items[i].ID, now)
			if raErr != nil {
				return nil, raErr
			}
			if reactivated {
				items[i].Status = domain.StatusActive
				items[i].SnoozeUntil = nil
			}
		}
	}

	return transport.ToReminderListResponse(items), nil
}

// Update modifies reminder fields. Frequency changes recompute the due date
// from the last service date when no explicit due date is provided.
func (s *Service) Update(ctx context.Context, homeownerID, id uuid.UUID, req transport.UpdateReminderRequest) (*transport.ReminderResponse, error) {
	reminder, err := s.getFresh(ctx, homeownerID, id)
	if err != nil {
		return nil, err
	}

	if req.PropertyID != nil {
		reminder.PropertyID = req.PropertyID
	}
	if req.Title != nil {
		reminder.Title = *req.Title
	}
	if req.Description != nil {
		reminder.Description = *req.Description
	}
	if req.CustomIntervalDays != nil {
		reminder.CustomIntervalDays = req.CustomIntervalDays
	}
	if len(req.ReminderLeadDays) > 0 {
		reminder.ReminderLeadDays = req.ReminderLeadDays
	}

	if req.Frequency != nil {
		frequency := domain.Frequency(*req.Frequency)
		if frequency == domain.FrequencyCustom && reminder.CustomIntervalDays == nil {
			return nil, apperr.Validation("customIntervalDays is required for custom frequency")
		}
		reminder.Frequency = frequency
		if req.NextDueDate == nil && reminder.LastServiceDate != nil {
			customDays := 0
			if reminder.CustomIntervalDays != nil {
				customDays = *reminder.CustomIntervalDays
			}
			reminder.NextDueDate = domain.NextDueDate(*reminder.LastServiceDate, frequency, customDays)
		}
	}
	if req.NextDueDate != nil {
		reminder.NextDueDate = *req.NextDueDate
	}

	updated, err := s.repo.Update(ctx, *reminder)
	if err != nil {
		return nil, err
	}
	resp := transport.ToReminderResponse(updated)
	return &resp, nil
}

// Delete removes a reminder owned by the homeowner.
func (s *Service) Delete(ctx context.Context, homeownerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, homeownerID)
}

// Snooze pauses notifications for the given number of days. Only active or
// already snoozed reminders can be snoozed.
func (s *Service) Snooze(ctx context.Context, homeownerID, id uuid.UUID, days int) (*transport.ReminderResponse, error) {
	reminder, err := s.getFresh(ctx, homeownerID, id)
	if err != nil {
		return nil, err
	}
	if days < 1 {
		return nil, apperr.Validation("snooze days must be at least 1")
	}
	if reminder.Status != domain.StatusActive && reminder.Status != domain.StatusSnoozed {
		return nil, apperr.Conflict(fmt.Sprintf("cannot snooze a %s reminder", reminder.Status))
	}

	until := s.now().AddDate(0, 0, days)
	reminder.Status = domain.StatusSnoozed
	reminder.SnoozeUntil = &until

	updated, err := s.repo.Update(ctx, *reminder)
	if err != nil {
		return nil, err
	}
	resp := transport.ToReminderResponse(updated)
	return &resp, nil
}

// Pause stops notifications indefinitely. Pausing a paused reminder is a no-op.
func (s *Service) Pause(ctx context.Context, homeownerID, id uuid.UUID) (*transport.ReminderResponse, error) {
	return s.setStatus(ctx, homeownerID, id, domain.StatusPaused, domain.StatusActive, domain.StatusSnoozed, domain.StatusPaused)
}

// Resume reactivates a paused reminder. Resuming a reminder in any other
// state leaves it unchanged.
func (s *Service) Resume(ctx context.Context, homeownerID, id uuid.UUID) (*transport.ReminderResponse, error) {
	return s.setStatus(ctx, homeownerID, id, domain.StatusActive, domain.StatusPaused)
}

func (s *Service) setStatus(ctx context.Context, homeownerID, id uuid.UUID, target domain.Status, allowedFrom ...domain.Status) (*transport.ReminderResponse, error) {
	reminder, err := s.getFresh(ctx, homeownerID, id)
	if err != nil {
		return nil, err
	}

	// A transition from a state outside allowedFrom is a silent no-op: the
	// reminder comes back unchanged.
	allowed := false
	for _, from := range allowedFrom {
		if reminder.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		resp := transport.ToReminderResponse(*reminder)
		return &resp, nil
	}

	if reminder.Status != target {
		reminder.Status = target
		reminder.SnoozeUntil = nil
		updated, upErr := s.repo.Update(ctx, *reminder)
		if upErr != nil {
			return nil, upErr
		}
		reminder = &updated
	}

	resp := transport.ToReminderResponse(*reminder)
	return &resp, nil
}

// Complete records a completed service and rolls the reminder forward one
// interval: last service date is set, the sent-notification list is cleared,
// and the reminder returns to active.
func (s *Service) Complete(ctx context.Context, homeownerID, id uuid.UUID, req transport.CompleteReminderRequest) (*transport.ReminderResponse, error) {
	reminder, err := s.getFresh(ctx, homeownerID, id)
	if err != nil {
		return nil, err
	}
	if reminder.Status == domain.StatusConvertedToQuote {
		return nil, apperr.Conflict("reminder was already converted to a quote request")
	}

	servicedAt := s.now()
	if req.ServicedAt != nil {
		servicedAt = *req.ServicedAt
	}

	customDays := 0
	if reminder.CustomIntervalDays != nil {
		customDays = *reminder.CustomIntervalDays
	}

	reminder.LastServiceDate = &servicedAt
	reminder.NextDueDate = domain.NextDueDate(servicedAt, reminder.Frequency, customDays)
	reminder.RemindersSent = []repository.SentRecord{}
	reminder.Status = domain.StatusActive
	reminder.SnoozeUntil = nil

	updated, err := s.repo.Update(ctx, *reminder)
	if err != nil {
		return nil, err
	}
	resp := transport.ToReminderResponse(updated)
	return &resp, nil
}

// ConvertToQuote opens a lead from the reminder and marks the reminder as
// converted. The linked lead ID is stored on the reminder.
func (s *Service) ConvertToQuote(ctx context.Context, homeownerID, id uuid.UUID) (*transport.ReminderResponse, error) {
	if s.leads == nil {
		return nil, apperr.Internal("lead creation is not configured")
	}

	reminder, err := s.getFresh(ctx, homeownerID, id)
	if err != nil {
		return nil, err
	}
	if reminder.Status == domain.StatusConvertedToQuote {
		return nil, apperr.Conflict("reminder was already converted to a quote request")
	}

	leadID, err := s.leads.CreateFromReminder(ctx, homeownerID, reminder.Category, reminder.Title, reminder.Description)
	if err != nil {
		return nil, fmt.Errorf("create lead from reminder: %w", err)
	}

	reminder.Status = domain.StatusConvertedToQuote
	reminder.ConvertedLeadID = &leadID
	reminder.SnoozeUntil = nil

	updated, err := s.repo.Update(ctx, *reminder)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.ReminderConvertedToQuote{
		ReminderID:  updated.ID,
		HomeownerID: homeownerID,
		LeadID:      leadID,
		Category:    string(updated.Category),
	})

	resp := transport.ToReminderResponse(updated)
	return &resp, nil
}

// getFresh loads an owned reminder and applies the snooze-elapsed guard so
// callers always see the current status.
func (s *Service) getFresh(ctx context.Context, homeownerID, id uuid.UUID) (*repository.Reminder, error) {
	reminder, err := s.repo.GetByID(ctx, id, homeownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if reminder.Status == domain.StatusSnoozed && reminder.SnoozeUntil != nil && !reminder.SnoozeUntil.After(now) {
		reactivated, raErr := s.repo.ReactivateIfSnoozeElapsed(ctx, reminder.ID, now)
		if raErr != nil {
			return nil, raErr
		}
		if reactivated {
			reminder.Status = domain.StatusActive
			reminder.SnoozeUntil = nil
		}
	}

	return &reminder, nil
}
