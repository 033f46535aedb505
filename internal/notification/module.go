// Package notification reacts to domain events and fans each one out to the
// channels the recipient should see: an in-app feed entry, an email, and a
// mobile push for the urgent ones. Domain modules publish events and never
// touch email providers or push tokens directly.
package notification

import (
	"context"

	accountrepo "homezy_backend/internal/accounts/repository"
	"homezy_backend/internal/email"
	"homezy_backend/internal/events"
	apphttp "homezy_backend/internal/http"
	leadrepo "homezy_backend/internal/leads/repository"
	"homezy_backend/internal/notification/handler"
	"homezy_backend/internal/notification/inapp"
	"homezy_backend/internal/push"
	"homezy_backend/platform/config"
	"homezy_backend/platform/logger"

	"github.com/google/uuid"
)

// UserDirectory resolves notification recipients.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (accountrepo.User, error)
	GetProfessional(ctx context.Context, id uuid.UUID) (accountrepo.User, error)
	ListAdmins(ctx context.Context) ([]accountrepo.User, error)
}

// LeadReader loads lead details referenced by events.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadrepo.Lead, error)
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender      email.Sender
	push        *push.Client
	users       UserDirectory
	leads       LeadReader
	inApp       *inapp.Service
	httpHandler *handler.Handler
	cfg         config.NotificationConfig
	market      config.MarketplaceConfig
	log         *logger.Logger
}

// New wires the notification module. The push client may be nil when push is
// disabled; every push send then becomes a no-op.
func New(
	store inapp.Store,
	users UserDirectory,
	leads LeadReader,
	sender email.Sender,
	pushClient *push.Client,
	cfg config.NotificationConfig,
	market config.MarketplaceConfig,
	log *logger.Logger,
) *Module {
	inAppSvc := inapp.NewService(store, log)

	return &Module{
		sender:      sender,
		push:        pushClient,
		users:       users,
		leads:       leads,
		inApp:       inAppSvc,
		httpHandler: handler.New(inAppSvc),
		cfg:         cfg,
		market:      market,
		log:         log,
	}
}

var _ apphttp.Module = (*Module)(nil)

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes mounts the in-app notification feed. Every authenticated
// role has a feed.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	notifications := ctx.Protected.Group("/notifications")
	m.httpHandler.RegisterRoutes(notifications)
}

// InAppService exposes the in-app notification service for integration points.
func (m *Module) InAppService() *inapp.Service { return m.inApp }

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.DirectLeadAssigned{}.EventName(), m)
	bus.Subscribe(events.DirectLeadAccepted{}.EventName(), m)
	bus.Subscribe(events.DirectLeadDeclined{}.EventName(), m)
	bus.Subscribe(events.DirectLeadExpired{}.EventName(), m)
	bus.Subscribe(events.DirectLeadReminderDue{}.EventName(), m)

	bus.Subscribe(events.QuoteAccepted{}.EventName(), m)
	bus.Subscribe(events.QuoteRejected{}.EventName(), m)

	bus.Subscribe(events.ServiceReminderDue{}.EventName(), m)
	bus.Subscribe(events.ReminderConvertedToQuote{}.EventName(), m)

	bus.Subscribe(events.TradeLicenseExpiring{}.EventName(), m)
	bus.Subscribe(events.TradeLicenseExpired{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.DirectLeadAssigned:
		return m.handleDirectLeadAssigned(ctx, e)
	case events.DirectLeadAccepted:
		return m.handleDirectLeadAnswered(ctx, e.LeadID, e.HomeownerID, e.ProfessionalID, true)
	case events.DirectLeadDeclined:
		return m.handleDirectLeadAnswered(ctx, e.LeadID, e.HomeownerID, e.ProfessionalID, false)
	case events.DirectLeadExpired:
		return m.handleDirectLeadExpired(ctx, e)
	case events.DirectLeadReminderDue:
		return m.handleDirectLeadReminderDue(ctx, e)
	case events.QuoteAccepted:
		return m.handleQuoteAccepted(ctx, e)
	case events.QuoteRejected:
		return m.handleQuoteRejected(ctx, e)
	case events.ServiceReminderDue:
		return m.handleServiceReminderDue(ctx, e)
	case events.ReminderConvertedToQuote:
		return m.handleReminderConvertedToQuote(ctx, e)
	case events.TradeLicenseExpiring:
		return m.handleTradeLicenseExpiring(ctx, e)
	case events.TradeLicenseExpired:
		return m.handleTradeLicenseExpired(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}
