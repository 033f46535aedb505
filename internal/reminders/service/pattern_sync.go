package service

import (
	"context"
	"fmt"

	"homezy_backend/internal/reminders/domain"
	"homezy_backend/internal/reminders/repository"

	"github.com/google/uuid"
)

// SyncResult reports how many pattern reminders a sync run touched.
type SyncResult struct {
	Created int
	Updated int
}

// SyncPatternReminders walks every service category for one homeowner,
// derives a recurring pattern from completed service history where at least
// two services exist, and upserts a pattern-based reminder per category.
// Seasonal and custom reminders in the same category are never touched, and
// existing pattern reminders in a non-active state keep the homeowner's
// choice.
func (s *Service) SyncPatternReminders(ctx context.Context, history ServiceHistory, homeownerID uuid.UUID, propertyID *uuid.UUID) (SyncResult, error) {
	var result SyncResult

	for _, category := range domain.AllCategories {
		pattern, err := history.DetectServicePattern(ctx, homeownerID, category, propertyID)
		if err != nil {
			return result, fmt.Errorf("detect pattern for %s: %w", category, err)
		}
		if pattern.ServiceCount < 2 || pattern.FrequencyDays == nil {
			continue
		}

		lastService, err := history.LastServiceByCategory(ctx, homeownerID, category, propertyID)
		if err != nil {
			return result, fmt.Errorf("last service for %s: %w", category, err)
		}
		if lastService == nil {
			continue
		}

		frequency := domain.ClassifyInterval(*pattern.FrequencyDays)
		nextDue := domain.NextDueDate(*lastService, frequency, 0)

		existing, err := s.repo.FindPatternReminder(ctx, homeownerID, category, propertyID)
		if err != nil {
			return result, err
		}

		if existing == nil {
			_, createErr := s.repo.Create(ctx, repository.Reminder{
				HomeownerID:      homeownerID,
				PropertyID:       propertyID,
				Category:         category,
				Title:            patternTitle(category),
				Description:      fmt.Sprintf("Scheduled from your %s service history.", category.Label()),
				TriggerType:      domain.TriggerPatternBased,
				Frequency:        frequency,
				LastServiceDate:  lastService,
				NextDueDate:      nextDue,
				ReminderLeadDays: append([]int(nil), domain.DefaultLeadDays...),
				Status:           domain.StatusActive,
			})
			if createErr != nil {
				return result, createErr
			}
			result.Created++
			continue
		}

		if existing.Status != domain.StatusActive {
			continue
		}
		if existing.Frequency == frequency && existing.NextDueDate.Equal(nextDue) {
			continue
		}

		existing.Frequency = frequency
		existing.LastServiceDate = lastService
		existing.NextDueDate = nextDue
		if _, upErr := s.repo.Update(ctx, *existing); upErr != nil {
			return result, upErr
		}
		result.Updated++
	}

	return result, nil
}

func patternTitle(category domain.ServiceCategory) string {
	return fmt.Sprintf("Time for your regular %s", category.Label())
}
