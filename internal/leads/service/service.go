// Package service implements lead submission and the direct-lead state
// machine.
package service

import (
	"context"
	"fmt"
	"time"

	"homezy_backend/internal/events"
	"homezy_backend/internal/leads/domain"
	"homezy_backend/internal/leads/repository"
	"homezy_backend/internal/leads/transport"
	reminderdomain "homezy_backend/internal/reminders/domain"
	"homezy_backend/platform/apperr"
	"homezy_backend/platform/config"
	"homezy_backend/platform/logger"
	"homezy_backend/platform/phone"

	"github.com/google/uuid"
)

// Professional is the slice of an account the leads service needs when
// routing a direct lead.
type Professional struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// ProfessionalDirectory resolves targeted professionals. Implemented by an
// adapter over the accounts repository.
type ProfessionalDirectory interface {
	// GetProfessional returns a not-found error for unknown or non-pro ids.
	GetProfessional(ctx context.Context, id uuid.UUID) (Professional, error)
}

// TaskScheduler enqueues the exact-time follow-ups for a direct lead. The
// periodic sweeps remain authoritative; these tasks just tighten latency, so
// enqueue failures are logged and swallowed.
type TaskScheduler interface {
	ScheduleDirectLeadExpiry(ctx context.Context, leadID uuid.UUID, at time.Time) error
	ScheduleDirectLeadReminder(ctx context.Context, leadID uuid.UUID, stage int, at time.Time) error
}

// Service provides business logic for leads.
type Service struct {
	repo  repository.Store
	pros  ProfessionalDirectory
	bus   events.Bus
	cfg   config.MarketplaceConfig
	log   *logger.Logger
	tasks TaskScheduler // optional
	now   func() time.Time
}

// New creates a new leads service.
func New(repo repository.Store, pros ProfessionalDirectory, bus events.Bus, cfg config.MarketplaceConfig, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		pros: pros,
		bus:  bus,
		cfg:  cfg,
		log:  log,
		now:  time.Now,
	}
}

// SetTaskScheduler injects the exact-time task queue.
func (s *Service) SetTaskScheduler(tasks TaskScheduler) {
	s.tasks = tasks
}

// SetClock overrides the time source. Used in tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Submit creates a lead. homeownerID is nil for guest submissions. When a
// target professional is named the lead becomes a direct lead with an
// exclusive acceptance window; otherwise it goes straight to the marketplace.
func (s *Service) Submit(ctx context.Context, homeownerID *uuid.UUID, req transport.SubmitLeadRequest) (*transport.LeadResponse, error) {
	category := reminderdomain.ServiceCategory(req.Category)
	if !reminderdomain.ValidCategory(category) {
		return nil, apperr.Validation(fmt.Sprintf("unknown service category %q", req.Category))
	}

	lead := repository.Lead{
		HomeownerID:  homeownerID,
		PropertyID:   req.PropertyID,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: phone.NormalizeE164(req.ContactPhone),
		Category:     category,
		Title:        req.Title,
		Description:  req.Description,
		LeadType:     domain.LeadTypeIndirect,
		Status:       domain.StatusOpen,
		MaxClaims:    s.cfg.GetMarketplaceMaxClaims(),
	}

	var professional *Professional
	if req.TargetProfessionalID != nil {
		pro, err := s.pros.GetProfessional(ctx, *req.TargetProfessionalID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return nil, apperr.Validation("target professional not found")
			}
			return nil, err
		}
		professional = &pro

		expiresAt := s.now().Add(s.cfg.GetDirectLeadWindow())
		pending := domain.DirectLeadPending
		lead.LeadType = domain.LeadTypeDirect
		lead.TargetProfessionalID = &pro.ID
		lead.DirectLeadExpiresAt = &expiresAt
		lead.DirectLeadStatus = &pending
		lead.MaxClaims = 1
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return nil, err
	}

	if professional != nil {
		s.bus.Publish(ctx, events.DirectLeadAssigned{
			LeadID:         created.ID,
			ProfessionalID: professional.ID,
			HomeownerName:  created.ContactName,
			Category:       string(created.Category),
			ExpiresAt:      *created.DirectLeadExpiresAt,
		})
		s.scheduleFollowUps(ctx, created)
	}

	resp := transport.ToLeadResponse(created)
	return &resp, nil
}

// scheduleFollowUps enqueues the exact-time reminder and expiry tasks for a
// new direct lead. Best effort: the periodic sweeps cover any gap.
func (s *Service) scheduleFollowUps(ctx context.Context, lead repository.Lead) {
	if s.tasks == nil || lead.DirectLeadExpiresAt == nil {
		return
	}
	expiresAt := *lead.DirectLeadExpiresAt

	if err := s.tasks.ScheduleDirectLeadReminder(ctx, lead.ID, domain.ReminderStageFirst, expiresAt.Add(-s.cfg.GetDirectLeadFirstReminderLead())); err != nil {
		s.log.Error("schedule first reminder task failed", "lead_id", lead.ID, "error", err)
	}
	if err := s.tasks.ScheduleDirectLeadReminder(ctx, lead.ID, domain.ReminderStageSecond, expiresAt.Add(-s.cfg.GetDirectLeadSecondReminderLead())); err != nil {
		s.log.Error("schedule second reminder task failed", "lead_id", lead.ID, "error", err)
	}
	if err := s.tasks.ScheduleDirectLeadExpiry(ctx, lead.ID, expiresAt); err != nil {
		s.log.Error("schedule expiry task failed", "lead_id", lead.ID, "error", err)
	}
}

// Get returns a single lead.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := transport.ToLeadResponse(lead)
	return &resp, nil
}

// ListForHomeowner returns the homeowner's leads, newest first.
func (s *Service) ListForHomeowner(ctx context.Context, homeownerID uuid.UUID) ([]transport.LeadResponse, error) {
	items, err := s.repo.ListForHomeowner(ctx, homeownerID)
	if err != nil {
		return nil, err
	}
	return transport.ToLeadListResponse(items), nil
}

// ListForProfessional returns leads routed to the professional, newest first.
func (s *Service) ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]transport.LeadResponse, error) {
	items, err := s.repo.ListForProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	return transport.ToLeadListResponse(items), nil
}

// Accept lets the targeted professional take a pending direct lead.
func (s *Service) Accept(ctx context.Context, professionalID, leadID uuid.UUID) (*transport.LeadResponse, error) {
	lead, ok, err := s.repo.AcceptDirectLead(ctx, leadID, professionalID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Conflict("lead is no longer pending for this professional")
	}

	s.bus.Publish(ctx, events.DirectLeadAccepted{
		LeadID:         lead.ID,
		ProfessionalID: professionalID,
		HomeownerID:    lead.HomeownerID,
		HomeownerEmail: lead.ContactEmail,
		Category:       string(lead.Category),
	})

	resp := transport.ToLeadResponse(lead)
	return &resp, nil
}

// Decline lets the targeted professional pass on a pending direct lead.
func (s *Service) Decline(ctx context.Context, professionalID, leadID uuid.UUID) (*transport.LeadResponse, error) {
	lead, ok, err := s.repo.DeclineDirectLead(ctx, leadID, professionalID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Conflict("lead is no longer pending for this professional")
	}

	s.bus.Publish(ctx, events.DirectLeadDeclined{
		LeadID:         lead.ID,
		ProfessionalID: professionalID,
		HomeownerID:    lead.HomeownerID,
		HomeownerEmail: lead.ContactEmail,
		Category:       string(lead.Category),
	})

	resp := transport.ToLeadResponse(lead)
	return &resp, nil
}

// Claim counts a professional claim on a marketplace lead.
func (s *Service) Claim(ctx context.Context, professionalID, leadID uuid.UUID) (*transport.LeadResponse, error) {
	ok, err := s.repo.IncrementClaim(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Conflict("lead has reached its claim limit")
	}

	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	s.log.Info("lead claimed", "lead_id", leadID, "professional_id", professionalID, "claims", lead.ClaimCount)

	resp := transport.ToLeadResponse(lead)
	return &resp, nil
}

// Complete marks the homeowner's lead as done. Completed leads feed the
// pattern sync engine.
func (s *Service) Complete(ctx context.Context, homeownerID, leadID uuid.UUID, completedAt *time.Time) (*transport.LeadResponse, error) {
	at := s.now()
	if completedAt != nil {
		at = *completedAt
	}

	lead, err := s.repo.MarkCompleted(ctx, leadID, homeownerID, at)
	if err != nil {
		return nil, err
	}

	resp := transport.ToLeadResponse(lead)
	return &resp, nil
}

// CreateFromReminder opens a marketplace lead on behalf of a homeowner
// converting a due reminder into a quote request.
func (s *Service) CreateFromReminder(ctx context.Context, homeownerID uuid.UUID, category reminderdomain.ServiceCategory, title, description string) (uuid.UUID, error) {
	created, err := s.repo.Create(ctx, repository.Lead{
		HomeownerID: &homeownerID,
		Category:    category,
		Title:       title,
		Description: description,
		LeadType:    domain.LeadTypeIndirect,
		Status:      domain.StatusOpen,
		MaxClaims:   s.cfg.GetMarketplaceMaxClaims(),
	})
	if err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}
