package repository

import (
	"context"
	"time"

	"homezy_backend/internal/reminders/domain"

	"github.com/google/uuid"
)

// ListFilter narrows a homeowner's reminder listing.
type ListFilter struct {
	PropertyID *uuid.UUID
	Category   *domain.ServiceCategory
	Status     *domain.Status
}

// Store is the persistence contract for service reminders. The service layer
// and the scheduled jobs depend on this interface so tests can substitute
// in-memory fakes.
type Store interface {
	Create(ctx context.Context, reminder Reminder) (Reminder, error)
	// GetByID is scoped to the owning homeowner and fails closed: a reminder
	// owned by someone else surfaces as not-found, never forbidden.
	GetByID(ctx context.Context, id, homeownerID uuid.UUID) (Reminder, error)
	List(ctx context.Context, homeownerID uuid.UUID, filter ListFilter) ([]Reminder, error)
	Update(ctx context.Context, reminder Reminder) (Reminder, error)
	Delete(ctx context.Context, id, homeownerID uuid.UUID) error

	// ReactivateIfSnoozeElapsed flips a snoozed reminder whose snooze window
	// has passed back to active. Safe to call on any reminder; returns true
	// when a flip happened.
	ReactivateIfSnoozeElapsed(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)

	// FindPatternReminder returns the pattern-based reminder for the
	// (homeowner, category, property) triple, or nil. Reminders of other
	// trigger types never match.
	FindPatternReminder(ctx context.Context, homeownerID uuid.UUID, category domain.ServiceCategory, propertyID *uuid.UUID) (*Reminder, error)

	// HasSeasonalReminderDueBetween reports whether a seasonal reminder for
	// the category already falls due inside [from, to).
	HasSeasonalReminderDueBetween(ctx context.Context, homeownerID uuid.UUID, category domain.ServiceCategory, from, to time.Time) (bool, error)

	// ListDueForNotification returns active reminders whose due date is close
	// enough that a lead-day offset may have been crossed.
	ListDueForNotification(ctx context.Context, now time.Time, horizon time.Duration) ([]Reminder, error)

	// AppendReminderSent appends a sent record, guarded so the same
	// (channel, daysBeforeDue) pair is recorded at most once per cycle.
	// Returns false when the pair was already present.
	AppendReminderSent(ctx context.Context, id uuid.UUID, record SentRecord) (bool, error)
}
