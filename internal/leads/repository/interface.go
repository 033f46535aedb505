package repository

import (
	"context"
	"time"

	reminderdomain "homezy_backend/internal/reminders/domain"

	"github.com/google/uuid"
)

// ServicePatternRow is the aggregate the pattern sync engine consumes: how
// often a homeowner books one category and when they last completed it.
type ServicePatternRow struct {
	ServiceCount    int
	AvgIntervalDays *float64
	LastCompletedAt *time.Time
}

// Store is the persistence contract for leads. Scheduled jobs and the
// service layer depend on this interface so tests can use in-memory fakes.
type Store interface {
	Create(ctx context.Context, lead Lead) (Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	ListForHomeowner(ctx context.Context, homeownerID uuid.UUID) ([]Lead, error)
	ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]Lead, error)

	// AcceptDirectLead flips a pending direct lead to accepted, guarded on
	// the targeted professional and the window not having been consumed.
	// Returns false when the lead was not pending for that professional.
	AcceptDirectLead(ctx context.Context, id, professionalID uuid.UUID, now time.Time) (Lead, bool, error)
	// DeclineDirectLead mirrors AcceptDirectLead for the declined edge.
	DeclineDirectLead(ctx context.Context, id, professionalID uuid.UUID, now time.Time) (Lead, bool, error)

	// ExpireDirectLead atomically converts a still-pending direct lead into a
	// public marketplace lead: status expired, type indirect, claim count
	// zeroed, max claims set. The status=pending predicate makes the
	// conversion happen at most once even across concurrent sweeps.
	ExpireDirectLead(ctx context.Context, id uuid.UUID, maxClaims int) (Lead, bool, error)

	// ListExpiredPending returns direct leads still pending whose window has
	// closed, oldest first.
	ListExpiredPending(ctx context.Context, now time.Time) ([]Lead, error)
	// ListPendingDirectLeads returns direct leads still pending and inside
	// their window, for the reminder sweep.
	ListPendingDirectLeads(ctx context.Context, now time.Time) ([]Lead, error)

	// MarkReminderSent flips one of the two reminder flags, guarded so each
	// fires at most once per lead. Returns false when already sent or the
	// lead is no longer pending.
	MarkReminderSent(ctx context.Context, id uuid.UUID, stage int) (bool, error)

	// MarkCompleted records a finished job, guarded on the owning homeowner.
	// Feeds the completed-service history behind pattern detection.
	MarkCompleted(ctx context.Context, id, homeownerID uuid.UUID, completedAt time.Time) (Lead, error)

	// IncrementClaim counts a professional claim on a marketplace lead,
	// guarded against exceeding max claims. Returns false when full.
	IncrementClaim(ctx context.Context, id uuid.UUID) (bool, error)

	// ServicePattern aggregates completed leads for one homeowner/category,
	// optionally scoped to a property.
	ServicePattern(ctx context.Context, homeownerID uuid.UUID, category reminderdomain.ServiceCategory, propertyID *uuid.UUID) (ServicePatternRow, error)

	// ListHomeownersWithHistory returns homeowner ids that have at least two
	// completed leads in some category, for the weekly pattern sync.
	ListHomeownersWithHistory(ctx context.Context) ([]uuid.UUID, error)
}
