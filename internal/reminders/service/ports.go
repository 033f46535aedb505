package service

import (
	"context"
	"time"

	"homezy_backend/internal/reminders/domain"

	"github.com/google/uuid"
)

// PatternResult summarises a homeowner's completed-service history in one
// category. FrequencyDays is nil when fewer than two services exist.
type PatternResult struct {
	ServiceCount  int
	FrequencyDays *float64
}

// ServiceHistory exposes completed-lead history for pattern detection.
// The leads context implements it through an adapter.
type ServiceHistory interface {
	DetectServicePattern(ctx context.Context, homeownerID uuid.UUID, category domain.ServiceCategory, propertyID *uuid.UUID) (PatternResult, error)
	LastServiceByCategory(ctx context.Context, homeownerID uuid.UUID, category domain.ServiceCategory, propertyID *uuid.UUID) (*time.Time, error)
}

// LeadCreator opens a lead from a due reminder. Implemented by the leads
// context so a reminder can be converted into a quote request.
type LeadCreator interface {
	CreateFromReminder(ctx context.Context, homeownerID uuid.UUID, category domain.ServiceCategory, title, description string) (uuid.UUID, error)
}
