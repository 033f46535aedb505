package service

import (
	"context"

	"homezy_backend/internal/events"
	"homezy_backend/internal/leads/domain"
	"homezy_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// SweepResult tallies one sweep run. Errors counts per-lead failures that
// were logged and skipped rather than aborting the batch.
type SweepResult struct {
	Processed int
	Converted int
	Reminders int
	Errors    int
}

// ExpireDueLeads converts every direct lead whose window closed while still
// pending into a public marketplace lead. Each conversion is guarded on the
// pending status, so overlapping runs (or the exact-time task racing a sweep)
// convert each lead exactly once.
func (s *Service) ExpireDueLeads(ctx context.Context) (SweepResult, error) {
	due, err := s.repo.ListExpiredPending(ctx, s.now())
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for _, lead := range due {
		result.Processed++
		if convertErr := s.expireLead(ctx, lead.ID); convertErr != nil {
			result.Errors++
			s.log.Error("direct lead expiry failed", "lead_id", lead.ID, "error", convertErr)
			continue
		}
		result.Converted++
	}
	return result, nil
}

// ExpireLead converts one direct lead if it is still pending and past its
// window. Used by the exact-time task worker; a no-op when a sweep got there
// first or the professional answered in time.
func (s *Service) ExpireLead(ctx context.Context, leadID uuid.UUID) error {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead.DirectLeadStatus == nil || *lead.DirectLeadStatus != domain.DirectLeadPending {
		return nil
	}
	if lead.DirectLeadExpiresAt != nil && lead.DirectLeadExpiresAt.After(s.now()) {
		return nil
	}
	return s.expireLead(ctx, leadID)
}

func (s *Service) expireLead(ctx context.Context, leadID uuid.UUID) error {
	converted, ok, err := s.repo.ExpireDirectLead(ctx, leadID, s.cfg.GetMarketplaceMaxClaims())
	if err != nil {
		return err
	}
	if !ok {
		// Another tick or the professional got there first.
		return nil
	}

	var professionalID = converted.TargetProfessionalID
	event := events.DirectLeadExpired{
		LeadID:         converted.ID,
		HomeownerID:    converted.HomeownerID,
		HomeownerEmail: converted.ContactEmail,
		Category:       string(converted.Category),
	}
	if professionalID != nil {
		event.ProfessionalID = *professionalID
	}
	s.bus.Publish(ctx, event)

	s.log.Info("direct lead moved to marketplace",
		"lead_id", converted.ID,
		"max_claims", converted.MaxClaims)
	return nil
}

// EmitDirectLeadReminders walks pending direct leads and fires the 12h and 1h
// nudges. The two checks run independently per lead: a lead first seen inside
// the final hour fires both in the same pass, first reminder first. Each flag
// flip is guarded in the store, so overlapping ticks send each stage at most
// once, and one lead's failure never blocks the rest.
func (s *Service) EmitDirectLeadReminders(ctx context.Context) (SweepResult, error) {
	now := s.now()
	pending, err := s.repo.ListPendingDirectLeads(ctx, now)
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for _, lead := range pending {
		result.Processed++

		if lead.DirectLeadExpiresAt == nil {
			continue
		}
		untilExpiry := lead.DirectLeadExpiresAt.Sub(now)

		if untilExpiry <= s.cfg.GetDirectLeadFirstReminderLead() && !lead.Reminder1Sent {
			if s.emitReminder(ctx, lead, domain.ReminderStageFirst) {
				result.Reminders++
			} else {
				result.Errors++
			}
		}
		if untilExpiry <= s.cfg.GetDirectLeadSecondReminderLead() && !lead.Reminder2Sent {
			if s.emitReminder(ctx, lead, domain.ReminderStageSecond) {
				result.Reminders++
			} else {
				result.Errors++
			}
		}
	}
	return result, nil
}

// RemindLead fires one reminder stage for one lead if still applicable. Used
// by the exact-time task worker.
func (s *Service) RemindLead(ctx context.Context, leadID uuid.UUID, stage int) error {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead.DirectLeadStatus == nil || *lead.DirectLeadStatus != domain.DirectLeadPending {
		return nil
	}
	if lead.DirectLeadExpiresAt == nil || !lead.DirectLeadExpiresAt.After(s.now()) {
		return nil
	}
	s.emitReminder(ctx, lead, stage)
	return nil
}

func (s *Service) emitReminder(ctx context.Context, lead repository.Lead, stage int) bool {
	flipped, err := s.repo.MarkReminderSent(ctx, lead.ID, stage)
	if err != nil {
		s.log.Error("mark reminder sent failed", "lead_id", lead.ID, "stage", stage, "error", err)
		return false
	}
	if !flipped {
		return true
	}

	event := events.DirectLeadReminderDue{
		LeadID:    lead.ID,
		Category:  string(lead.Category),
		Stage:     stage,
		ExpiresAt: *lead.DirectLeadExpiresAt,
	}
	if lead.TargetProfessionalID != nil {
		event.ProfessionalID = *lead.TargetProfessionalID
	}
	s.bus.Publish(ctx, event)
	return true
}
