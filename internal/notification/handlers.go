package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	accountrepo "homezy_backend/internal/accounts/repository"
	"homezy_backend/internal/events"
	"homezy_backend/internal/notification/inapp"
	"homezy_backend/internal/push"
	reminderdomain "homezy_backend/internal/reminders/domain"

	"github.com/google/uuid"
)

const deadlineLayout = "2 Jan 2006 15:04"

func (m *Module) handleDirectLeadAssigned(ctx context.Context, e events.DirectLeadAssigned) error {
	pro, err := m.users.GetProfessional(ctx, e.ProfessionalID)
	if err != nil {
		m.log.Error("direct lead assigned: professional lookup failed", "leadId", e.LeadID, "professionalId", e.ProfessionalID, "error", err)
		return err
	}
	lead, err := m.leads.GetByID(ctx, e.LeadID)
	if err != nil {
		m.log.Error("direct lead assigned: lead lookup failed", "leadId", e.LeadID, "error", err)
		return err
	}

	label := reminderdomain.ServiceCategory(e.Category).Label()

	var errs []error
	if sendErr := m.sender.SendDirectLeadInviteEmail(ctx, pro.Email, pro.FullName(), e.HomeownerName, label, lead.Title, e.ExpiresAt); sendErr != nil {
		m.log.Error("failed to send direct lead invite email", "leadId", e.LeadID, "email", pro.Email, "error", sendErr)
		errs = append(errs, sendErr)
	}

	errs = append(errs, m.deliver(ctx, pro, inapp.CreateParams{
		Type:      inapp.TypeDirectLeadAssigned,
		Category:  "lead",
		Priority:  inapp.PriorityUrgent,
		Title:     "New direct lead",
		Message:   fmt.Sprintf("%s requested you for %s. Respond before %s.", e.HomeownerName, label, e.ExpiresAt.Format(deadlineLayout)),
		Data:      map[string]any{"leadId": e.LeadID.String()},
		ActionURL: m.actionURL("/pro/leads/" + e.LeadID.String()),
	}))

	return errors.Join(errs...)
}

// handleDirectLeadAnswered tells the homeowner the targeted professional
// accepted or declined. Guest submissions have no account, so no feed entry.
func (m *Module) handleDirectLeadAnswered(ctx context.Context, leadID uuid.UUID, homeownerID *uuid.UUID, professionalID uuid.UUID, accepted bool) error {
	if homeownerID == nil {
		return nil
	}

	homeowner, err := m.users.GetByID(ctx, *homeownerID)
	if err != nil {
		m.log.Error("direct lead answered: homeowner lookup failed", "leadId", leadID, "homeownerId", *homeownerID, "error", err)
		return err
	}
	pro, err := m.users.GetProfessional(ctx, professionalID)
	if err != nil {
		m.log.Error("direct lead answered: professional lookup failed", "leadId", leadID, "professionalId", professionalID, "error", err)
		return err
	}

	title := "Professional accepted your request"
	message := fmt.Sprintf("%s accepted your request and will be in touch.", pro.FullName())
	if !accepted {
		title = "Professional declined your request"
		message = fmt.Sprintf("%s is not available for this job.", pro.FullName())
	}

	return m.deliver(ctx, homeowner, inapp.CreateParams{
		Type:      inapp.TypeDirectLeadAnswered,
		Category:  "lead",
		Priority:  inapp.PriorityHigh,
		Title:     title,
		Message:   message,
		Data:      map[string]any{"leadId": leadID.String(), "accepted": accepted},
		ActionURL: m.actionURL("/leads/" + leadID.String()),
	})
}

func (m *Module) handleDirectLeadExpired(ctx context.Context, e events.DirectLeadExpired) error {
	lead, err := m.leads.GetByID(ctx, e.LeadID)
	if err != nil {
		m.log.Error("direct lead expired: lead lookup failed", "leadId", e.LeadID, "error", err)
		return err
	}

	toEmail := e.HomeownerEmail
	if toEmail == "" {
		toEmail = lead.ContactEmail
	}

	var errs []error
	if toEmail != "" {
		if sendErr := m.sender.SendLeadMovedToMarketplaceEmail(ctx, toEmail, lead.ContactName, lead.Title); sendErr != nil {
			m.log.Error("failed to send marketplace email", "leadId", e.LeadID, "email", toEmail, "error", sendErr)
			errs = append(errs, sendErr)
		}
	}

	if e.HomeownerID != nil {
		homeowner, lookupErr := m.users.GetByID(ctx, *e.HomeownerID)
		if lookupErr != nil {
			m.log.Error("direct lead expired: homeowner lookup failed", "leadId", e.LeadID, "homeownerId", *e.HomeownerID, "error", lookupErr)
			errs = append(errs, lookupErr)
		} else {
			errs = append(errs, m.deliver(ctx, homeowner, inapp.CreateParams{
				Type:      inapp.TypeLeadMovedToMarket,
				Category:  "lead",
				Priority:  inapp.PriorityNormal,
				Title:     "Your lead is now on the marketplace",
				Message:   fmt.Sprintf("The professional did not respond in time. %q is now open to all professionals.", lead.Title),
				Data:      map[string]any{"leadId": e.LeadID.String()},
				ActionURL: m.actionURL("/leads/" + e.LeadID.String()),
			}))
		}
	}

	return errors.Join(errs...)
}

func (m *Module) handleDirectLeadReminderDue(ctx context.Context, e events.DirectLeadReminderDue) error {
	pro, err := m.users.GetProfessional(ctx, e.ProfessionalID)
	if err != nil {
		m.log.Error("direct lead reminder: professional lookup failed", "leadId", e.LeadID, "professionalId", e.ProfessionalID, "error", err)
		return err
	}
	lead, err := m.leads.GetByID(ctx, e.LeadID)
	if err != nil {
		m.log.Error("direct lead reminder: lead lookup failed", "leadId", e.LeadID, "error", err)
		return err
	}

	hoursLeft := int(m.market.GetDirectLeadFirstReminderLead().Hours())
	priority := inapp.PriorityHigh
	if e.Stage >= 2 {
		hoursLeft = int(m.market.GetDirectLeadSecondReminderLead().Hours())
		priority = inapp.PriorityUrgent
	}

	var errs []error
	if sendErr := m.sender.SendDirectLeadReminderEmail(ctx, pro.Email, pro.FullName(), lead.Title, hoursLeft); sendErr != nil {
		m.log.Error("failed to send direct lead reminder email", "leadId", e.LeadID, "stage", e.Stage, "email", pro.Email, "error", sendErr)
		errs = append(errs, sendErr)
	}

	errs = append(errs, m.deliver(ctx, pro, inapp.CreateParams{
		Type:      inapp.TypeDirectLeadReminder,
		Category:  "lead",
		Priority:  priority,
		Title:     "Lead waiting for your response",
		Message:   fmt.Sprintf("%q expires in about %d hour(s).", lead.Title, hoursLeft),
		Data:      map[string]any{"leadId": e.LeadID.String(), "stage": e.Stage},
		ActionURL: m.actionURL("/pro/leads/" + e.LeadID.String()),
	}))

	return errors.Join(errs...)
}

func (m *Module) handleQuoteAccepted(ctx context.Context, e events.QuoteAccepted) error {
	pro, err := m.users.GetProfessional(ctx, e.ProfessionalID)
	if err != nil {
		m.log.Error("quote accepted: professional lookup failed", "leadId", e.LeadID, "professionalId", e.ProfessionalID, "error", err)
		return err
	}
	lead, err := m.leads.GetByID(ctx, e.LeadID)
	if err != nil {
		m.log.Error("quote accepted: lead lookup failed", "leadId", e.LeadID, "error", err)
		return err
	}

	var errs []error
	if sendErr := m.sender.SendQuoteAcceptedEmail(ctx, pro.Email, pro.FullName(), lead.Title); sendErr != nil {
		m.log.Error("failed to send quote accepted email", "leadId", e.LeadID, "email", pro.Email, "error", sendErr)
		errs = append(errs, sendErr)
	}

	errs = append(errs, m.deliver(ctx, pro, inapp.CreateParams{
		Type:      inapp.TypeQuoteAccepted,
		Category:  "quote",
		Priority:  inapp.PriorityHigh,
		Title:     "Quote accepted",
		Message:   fmt.Sprintf("Your quote for %q was accepted.", lead.Title),
		Data:      map[string]any{"leadId": e.LeadID.String()},
		ActionURL: m.actionURL("/pro/leads/" + e.LeadID.String()),
	}))

	return errors.Join(errs...)
}

func (m *Module) handleQuoteRejected(ctx context.Context, e events.QuoteRejected) error {
	pro, err := m.users.GetProfessional(ctx, e.ProfessionalID)
	if err != nil {
		m.log.Error("quote rejected: professional lookup failed", "leadId", e.LeadID, "professionalId", e.ProfessionalID, "error", err)
		return err
	}
	lead, err := m.leads.GetByID(ctx, e.LeadID)
	if err != nil {
		m.log.Error("quote rejected: lead lookup failed", "leadId", e.LeadID, "error", err)
		return err
	}

	var errs []error
	if sendErr := m.sender.SendQuoteRejectedEmail(ctx, pro.Email, pro.FullName(), lead.Title, e.Reason); sendErr != nil {
		m.log.Error("failed to send quote rejected email", "leadId", e.LeadID, "email", pro.Email, "error", sendErr)
		errs = append(errs, sendErr)
	}

	errs = append(errs, m.deliver(ctx, pro, inapp.CreateParams{
		Type:      inapp.TypeQuoteRejected,
		Category:  "quote",
		Priority:  inapp.PriorityNormal,
		Title:     "Quote not accepted",
		Message:   fmt.Sprintf("Your quote for %q was not accepted.", lead.Title),
		Data:      map[string]any{"leadId": e.LeadID.String()},
		ActionURL: m.actionURL("/pro/leads/" + e.LeadID.String()),
	}))

	return errors.Join(errs...)
}

func (m *Module) handleServiceReminderDue(ctx context.Context, e events.ServiceReminderDue) error {
	homeowner, err := m.users.GetByID(ctx, e.HomeownerID)
	if err != nil {
		m.log.Error("service reminder due: homeowner lookup failed", "reminderId", e.ReminderID, "homeownerId", e.HomeownerID, "error", err)
		return err
	}

	label := reminderdomain.ServiceCategory(e.Category).Label()

	var errs []error
	var sendErr error
	if e.TriggerType == string(reminderdomain.TriggerSeasonal) {
		sendErr = m.sender.SendSeasonalReminderEmail(ctx, homeowner.Email, homeowner.FullName(), e.Title, e.Description)
	} else {
		sendErr = m.sender.SendServiceReminderDueEmail(ctx, homeowner.Email, homeowner.FullName(), e.Title, label, e.NextDueDate, e.DaysBeforeDue)
	}
	if sendErr != nil {
		m.log.Error("failed to send reminder email", "reminderId", e.ReminderID, "email", homeowner.Email, "error", sendErr)
		errs = append(errs, sendErr)
	}

	message := fmt.Sprintf("%s is due in %d days.", e.Title, e.DaysBeforeDue)
	priority := inapp.PriorityNormal
	switch e.DaysBeforeDue {
	case 0:
		message = fmt.Sprintf("%s is due today.", e.Title)
		priority = inapp.PriorityHigh
	case 1:
		message = fmt.Sprintf("%s is due tomorrow.", e.Title)
		priority = inapp.PriorityHigh
	}

	errs = append(errs, m.deliver(ctx, homeowner, inapp.CreateParams{
		Type:      inapp.TypeServiceReminderDue,
		Category:  "reminder",
		Priority:  priority,
		Title:     "Service reminder",
		Message:   message,
		Data:      map[string]any{"reminderId": e.ReminderID.String(), "daysBeforeDue": e.DaysBeforeDue},
		ActionURL: m.actionURL("/reminders/" + e.ReminderID.String()),
	}))

	return errors.Join(errs...)
}

func (m *Module) handleReminderConvertedToQuote(ctx context.Context, e events.ReminderConvertedToQuote) error {
	homeowner, err := m.users.GetByID(ctx, e.HomeownerID)
	if err != nil {
		m.log.Error("reminder converted: homeowner lookup failed", "reminderId", e.ReminderID, "homeownerId", e.HomeownerID, "error", err)
		return err
	}

	label := reminderdomain.ServiceCategory(e.Category).Label()

	return m.deliver(ctx, homeowner, inapp.CreateParams{
		Type:      inapp.TypeReminderQuoteRequest,
		Category:  "reminder",
		Priority:  inapp.PriorityNormal,
		Title:     "Quote request created",
		Message:   fmt.Sprintf("Your %s reminder is now a quote request on the marketplace.", label),
		Data:      map[string]any{"reminderId": e.ReminderID.String(), "leadId": e.LeadID.String()},
		ActionURL: m.actionURL("/leads/" + e.LeadID.String()),
	})
}

func (m *Module) handleTradeLicenseExpiring(ctx context.Context, e events.TradeLicenseExpiring) error {
	pro, err := m.users.GetProfessional(ctx, e.ProfessionalID)
	if err != nil {
		m.log.Error("license expiring: professional lookup failed", "professionalId", e.ProfessionalID, "error", err)
		return err
	}

	business := businessName(pro, e.BusinessName)

	var errs []error
	if sendErr := m.sender.SendLicenseExpiryWarningEmail(ctx, pro.Email, business, e.ExpiresAt); sendErr != nil {
		m.log.Error("failed to send license warning email", "professionalId", e.ProfessionalID, "email", pro.Email, "error", sendErr)
		errs = append(errs, sendErr)
	}

	errs = append(errs, m.deliver(ctx, pro, inapp.CreateParams{
		Type:      inapp.TypeLicenseExpiryWarning,
		Category:  "compliance",
		Priority:  inapp.PriorityUrgent,
		Title:     "Trade licence expiring soon",
		Message:   fmt.Sprintf("Your trade licence expires on %s. Renew it to keep receiving leads.", e.ExpiresAt.Format("2 January 2006")),
		ActionURL: m.actionURL("/pro/profile/license"),
	}))

	for _, addr := range m.adminEmails(ctx) {
		if sendErr := m.sender.SendLicenseAdminAlertEmail(ctx, addr, business, pro.Email, e.ExpiresAt, false); sendErr != nil {
			m.log.Error("failed to send licence admin alert", "professionalId", e.ProfessionalID, "email", addr, "error", sendErr)
			errs = append(errs, sendErr)
		}
	}

	return errors.Join(errs...)
}

func (m *Module) handleTradeLicenseExpired(ctx context.Context, e events.TradeLicenseExpired) error {
	pro, err := m.users.GetProfessional(ctx, e.ProfessionalID)
	if err != nil {
		m.log.Error("license expired: professional lookup failed", "professionalId", e.ProfessionalID, "error", err)
		return err
	}

	business := businessName(pro, e.BusinessName)

	var errs []error
	if sendErr := m.sender.SendLicenseExpiredEmail(ctx, pro.Email, business, e.DaysSinceExpiry); sendErr != nil {
		m.log.Error("failed to send license expired email", "professionalId", e.ProfessionalID, "email", pro.Email, "error", sendErr)
		errs = append(errs, sendErr)
	}

	// The email repeats daily; the feed gets one entry.
	if e.DaysSinceExpiry <= 1 {
		errs = append(errs, m.deliver(ctx, pro, inapp.CreateParams{
			Type:      inapp.TypeLicenseExpired,
			Category:  "compliance",
			Priority:  inapp.PriorityUrgent,
			Title:     "Trade licence expired",
			Message:   "Your trade licence has expired. You cannot accept new leads until it is renewed.",
			ActionURL: m.actionURL("/pro/profile/license"),
		}))
	}

	if e.NotifyAdmins {
		for _, addr := range m.adminEmails(ctx) {
			if sendErr := m.sender.SendLicenseAdminAlertEmail(ctx, addr, business, pro.Email, e.ExpiredAt, true); sendErr != nil {
				m.log.Error("failed to send licence admin alert", "professionalId", e.ProfessionalID, "email", addr, "error", sendErr)
				errs = append(errs, sendErr)
			}
		}
	}

	return errors.Join(errs...)
}

// deliver writes the feed entry and, for high and urgent priorities, mirrors
// it as a push notification. Push failures are logged only: tokens go stale.
func (m *Module) deliver(ctx context.Context, recipient accountrepo.User, p inapp.CreateParams) error {
	p.RecipientID = recipient.ID
	p.RecipientRole = recipient.Role

	if _, err := m.inApp.Send(ctx, p); err != nil {
		return err
	}

	if p.Priority != inapp.PriorityHigh && p.Priority != inapp.PriorityUrgent {
		return nil
	}
	if recipient.ExpoPushToken == nil || *recipient.ExpoPushToken == "" {
		return nil
	}

	if err := m.push.Send(ctx, push.Message{
		To:    *recipient.ExpoPushToken,
		Title: p.Title,
		Body:  p.Message,
		Data:  p.Data,
	}); err != nil {
		m.log.Warn("push send failed", "userId", recipient.ID, "type", p.Type, "error", err)
	}

	return nil
}

func (m *Module) actionURL(path string) *string {
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	url := base + path
	return &url
}

// adminEmails joins the admin accounts with any extra addresses from
// configuration, deduplicated case-insensitively.
func (m *Module) adminEmails(ctx context.Context) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 4)

	add := func(addr string) {
		trimmed := strings.TrimSpace(addr)
		if trimmed == "" {
			return
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}

	admins, err := m.users.ListAdmins(ctx)
	if err != nil {
		m.log.Warn("failed to list admin accounts", "error", err)
	}
	for _, admin := range admins {
		add(admin.Email)
	}
	for _, addr := range m.cfg.GetAdminEmails() {
		add(addr)
	}

	return out
}

func businessName(pro accountrepo.User, fromEvent string) string {
	if fromEvent != "" {
		return fromEvent
	}
	if pro.BusinessName != nil && *pro.BusinessName != "" {
		return *pro.BusinessName
	}
	return pro.FullName()
}
