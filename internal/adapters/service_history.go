package adapters

import (
	"context"
	"time"

	leadrepo "homezy_backend/internal/leads/repository"
	"homezy_backend/internal/reminders/domain"
	reminderservice "homezy_backend/internal/reminders/service"

	"github.com/google/uuid"
)

// ServiceHistoryAdapter implements the reminders ServiceHistory port over the
// leads repository's completed-job aggregates.
type ServiceHistoryAdapter struct {
	leads leadrepo.Store
}

func NewServiceHistoryAdapter(leads leadrepo.Store) *ServiceHistoryAdapter {
	return &ServiceHistoryAdapter{leads: leads}
}

var _ reminderservice.ServiceHistory = (*ServiceHistoryAdapter)(nil)

func (a *ServiceHistoryAdapter) DetectServicePattern(ctx context.Context, homeownerID uuid.UUID, category domain.ServiceCategory, propertyID *uuid.UUID) (reminderservice.PatternResult, error) {
	row, err := a.leads.ServicePattern(ctx, homeownerID, category, propertyID)
	if err != nil {
		return reminderservice.PatternResult{}, err
	}
	return reminderservice.PatternResult{
		ServiceCount:  row.ServiceCount,
		FrequencyDays: row.AvgIntervalDays,
	}, nil
}

func (a *ServiceHistoryAdapter) LastServiceByCategory(ctx context.Context, homeownerID uuid.UUID, category domain.ServiceCategory, propertyID *uuid.UUID) (*time.Time, error) {
	row, err := a.leads.ServicePattern(ctx, homeownerID, category, propertyID)
	if err != nil {
		return nil, err
	}
	return row.LastCompletedAt, nil
}
