package events

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Lead events
// =============================================================================

// DirectLeadAssigned fires when a homeowner routes a new lead privately to a
// chosen professional. The professional has an exclusive acceptance window.
type DirectLeadAssigned struct {
	BaseEvent
	LeadID         uuid.UUID
	ProfessionalID uuid.UUID
	HomeownerName  string
	Category       string
	ExpiresAt      time.Time
}

func (e DirectLeadAssigned) EventName() string { return "leads.direct.assigned" }

// DirectLeadAccepted fires when the targeted professional accepts within the
// exclusive window.
type DirectLeadAccepted struct {
	BaseEvent
	LeadID         uuid.UUID
	ProfessionalID uuid.UUID
	HomeownerID    *uuid.UUID
	HomeownerEmail string
	Category       string
}

func (e DirectLeadAccepted) EventName() string { return "leads.direct.accepted" }

// DirectLeadDeclined fires when the targeted professional declines the lead.
type DirectLeadDeclined struct {
	BaseEvent
	LeadID         uuid.UUID
	ProfessionalID uuid.UUID
	HomeownerID    *uuid.UUID
	HomeownerEmail string
	Category       string
}

func (e DirectLeadDeclined) EventName() string { return "leads.direct.declined" }

// DirectLeadExpired fires after the expiry job converts an unanswered direct
// lead into a public marketplace lead.
type DirectLeadExpired struct {
	BaseEvent
	LeadID         uuid.UUID
	ProfessionalID uuid.UUID
	HomeownerID    *uuid.UUID
	HomeownerEmail string
	Category       string
}

func (e DirectLeadExpired) EventName() string { return "leads.direct.expired" }

// DirectLeadReminderDue fires when a pending direct lead crosses one of its
// reminder thresholds (stage 1 at 12h before expiry, stage 2 at 1h).
type DirectLeadReminderDue struct {
	BaseEvent
	LeadID         uuid.UUID
	ProfessionalID uuid.UUID
	Category       string
	Stage          int
	ExpiresAt      time.Time
}

func (e DirectLeadReminderDue) EventName() string { return "leads.direct.reminder_due" }

// =============================================================================
// Quote events
// =============================================================================

// QuoteAccepted fires when a homeowner accepts a professional's quote.
type QuoteAccepted struct {
	BaseEvent
	LeadID         uuid.UUID
	ProfessionalID uuid.UUID
	Category       string
}

func (e QuoteAccepted) EventName() string { return "quotes.accepted" }

// QuoteRejected fires when a homeowner rejects a professional's quote.
type QuoteRejected struct {
	BaseEvent
	LeadID         uuid.UUID
	ProfessionalID uuid.UUID
	Category       string
	Reason         string
}

func (e QuoteRejected) EventName() string { return "quotes.rejected" }

// =============================================================================
// Service reminder events
// =============================================================================

// ServiceReminderDue fires when an active reminder crosses one of its
// lead-day offsets before the due date.
type ServiceReminderDue struct {
	BaseEvent
	ReminderID    uuid.UUID
	HomeownerID   uuid.UUID
	Category      string
	Title         string
	Description   string
	TriggerType   string
	NextDueDate   time.Time
	DaysBeforeDue int
}

func (e ServiceReminderDue) EventName() string { return "reminders.due" }

// ReminderConvertedToQuote fires when a homeowner turns a due reminder into a
// quote request.
type ReminderConvertedToQuote struct {
	BaseEvent
	ReminderID  uuid.UUID
	LeadID      uuid.UUID
	HomeownerID uuid.UUID
	Category    string
}

func (e ReminderConvertedToQuote) EventName() string { return "reminders.converted_to_quote" }

// =============================================================================
// Professional compliance events
// =============================================================================

// TradeLicenseExpiring fires once when a professional's trade licence is
// exactly seven days from expiry.
type TradeLicenseExpiring struct {
	BaseEvent
	ProfessionalID uuid.UUID
	BusinessName   string
	ExpiresAt      time.Time
}

func (e TradeLicenseExpiring) EventName() string { return "accounts.license.expiring" }

// TradeLicenseExpired fires daily for professionals whose licence has lapsed.
// NotifyAdmins is set on the bounded escalation days only.
type TradeLicenseExpired struct {
	BaseEvent
	ProfessionalID  uuid.UUID
	BusinessName    string
	ExpiredAt       time.Time
	DaysSinceExpiry int
	NotifyAdmins    bool
}

func (e TradeLicenseExpired) EventName() string { return "accounts.license.expired" }
