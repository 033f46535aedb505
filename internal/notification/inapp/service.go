package inapp

import (
	"context"

	"homezy_backend/platform/logger"

	"github.com/google/uuid"
)

// Notification types written by the event handlers.
const (
	TypeDirectLeadAssigned    = "direct_lead_assigned"
	TypeDirectLeadReminder    = "direct_lead_reminder"
	TypeDirectLeadAnswered    = "direct_lead_answered"
	TypeLeadMovedToMarket     = "lead_moved_to_marketplace"
	TypeQuoteAccepted         = "quote_accepted"
	TypeQuoteRejected         = "quote_rejected"
	TypeServiceReminderDue    = "service_reminder_due"
	TypeReminderQuoteRequest  = "reminder_quote_requested"
	TypeLicenseExpiryWarning  = "license_expiry_warning"
	TypeLicenseExpired        = "license_expired"
)

// Priority levels. High and urgent notifications additionally go out as push.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Notification, error)
	List(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]Notification, int, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	Delete(ctx context.Context, recipientID, notificationID uuid.UUID) error
}

type Service struct {
	repo Store
	log  *logger.Logger
}

func NewService(repo Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Send persists one notification for the recipient's feed.
func (s *Service) Send(ctx context.Context, p CreateParams) (Notification, error) {
	notif, err := s.repo.Create(ctx, p)
	if err != nil {
		s.log.Error("failed to persist in-app notification", "error", err, "recipientId", p.RecipientID, "type", p.Type)
		return Notification{}, err
	}
	return notif, nil
}

func (s *Service) List(ctx context.Context, recipientID uuid.UUID, page, pageSize int) ([]Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize
	return s.repo.List(ctx, recipientID, pageSize, offset)
}

func (s *Service) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

func (s *Service) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, recipientID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *Service) Delete(ctx context.Context, recipientID, id uuid.UUID) error {
	return s.repo.Delete(ctx, recipientID, id)
}
