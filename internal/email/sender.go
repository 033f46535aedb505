// Package email renders and delivers the marketplace's transactional emails.
// Two delivery backends exist: the Brevo HTTP API and plain SMTP. Both render
// the same HTML templates.
package email

import (
	"context"
	"time"

	"homezy_backend/platform/config"
)

// Sender delivers the marketplace emails. Every method is best effort from
// the caller's point of view: jobs log and count failures instead of
// aborting.
type Sender interface {
	// SendDirectLeadInviteEmail tells the targeted professional a homeowner
	// picked them, with the acceptance deadline.
	SendDirectLeadInviteEmail(ctx context.Context, toEmail, proName, homeownerName, categoryLabel, title string, expiresAt time.Time) error
	// SendDirectLeadReminderEmail nudges the professional as the window
	// closes (roughly 12 hours and 1 hour before expiry).
	SendDirectLeadReminderEmail(ctx context.Context, toEmail, proName, title string, hoursLeft int) error
	// SendLeadMovedToMarketplaceEmail tells the homeowner their direct lead
	// went unanswered and is now open to all professionals.
	SendLeadMovedToMarketplaceEmail(ctx context.Context, toEmail, homeownerName, title string) error

	SendServiceReminderDueEmail(ctx context.Context, toEmail, homeownerName, title, categoryLabel string, dueDate time.Time, daysBeforeDue int) error
	SendSeasonalReminderEmail(ctx context.Context, toEmail, homeownerName, title, description string) error

	SendQuoteAcceptedEmail(ctx context.Context, toEmail, proName, leadTitle string) error
	SendQuoteRejectedEmail(ctx context.Context, toEmail, proName, leadTitle, reason string) error

	// SendLicenseExpiryWarningEmail warns the professional seven days out.
	SendLicenseExpiryWarningEmail(ctx context.Context, toEmail, businessName string, expiresAt time.Time) error
	// SendLicenseExpiredEmail reminds the professional daily after expiry.
	SendLicenseExpiredEmail(ctx context.Context, toEmail, businessName string, daysExpired int) error
	// SendLicenseAdminAlertEmail notifies an admin about a professional's
	// licence state.
	SendLicenseAdminAlertEmail(ctx context.Context, toEmail, businessName, proEmail string, expiresAt time.Time, expired bool) error

	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	Content  []byte
	FileName string
	MIMEType string
}

// NewSender picks the delivery backend from configuration. With email
// disabled every send becomes a silent no-op, which keeps local development
// quiet.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	if cfg.GetEmailProvider() == "smtp" {
		return NewSMTPSender(cfg)
	}
	return NewBrevoSender(cfg)
}

// NoopSender drops every email.
type NoopSender struct{}

func (NoopSender) SendDirectLeadInviteEmail(context.Context, string, string, string, string, string, time.Time) error {
	return nil
}

func (NoopSender) SendDirectLeadReminderEmail(context.Context, string, string, string, int) error {
	return nil
}

func (NoopSender) SendLeadMovedToMarketplaceEmail(context.Context, string, string, string) error {
	return nil
}

func (NoopSender) SendServiceReminderDueEmail(context.Context, string, string, string, string, time.Time, int) error {
	return nil
}

func (NoopSender) SendSeasonalReminderEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendQuoteAcceptedEmail(context.Context, string, string, string) error {
	return nil
}

func (NoopSender) SendQuoteRejectedEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendLicenseExpiryWarningEmail(context.Context, string, string, time.Time) error {
	return nil
}

func (NoopSender) SendLicenseExpiredEmail(context.Context, string, string, int) error {
	return nil
}

func (NoopSender) SendLicenseAdminAlertEmail(context.Context, string, string, string, time.Time, bool) error {
	return nil
}

func (NoopSender) SendCustomEmail(context.Context, string, string, string) error {
	return nil
}
