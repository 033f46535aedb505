package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"homezy_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers email over a direct SMTP connection via go-mail. It
// renders the same templates as BrevoSender.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates an SMTP-backed sender.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) SendDirectLeadInviteEmail(ctx context.Context, toEmail, proName, homeownerName, categoryLabel, title string, expiresAt time.Time) error {
	return s.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeDirectLeadInvite(proName, homeownerName, categoryLabel, title, expiresAt)
	})
}

func (s *SMTPSender) SendDirectLeadReminderEmail(ctx context.Context, toEmail, proName, title string, hoursLeft int) error {
	return s.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeDirectLeadReminder(proName, title, hoursLeft)
	})
}

func (s *SMTPSender) SendLeadMovedToMarketplaceEmail(ctx context.Context, toEmail, homeownerName, title string) error {
	return s.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeLeadMovedToMarketplace(homeownerName, title)
	})
}

func (s *SMTPSender) SendServiceReminderDueEmail(ctx context.Context, toEmail, homeownerName, title, categoryLabel string, dueDate time.Time, daysBeforeDue int) error {
	return s.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeServiceReminderDue(homeownerName, title, categoryLabel, dueDate, daysBeforeDue)
	})
}

func (s *SMTPSender) SendSeasonalReminderEmail(ctx context.Context, toEmail, homeownerName, title, description string) error {
	return s.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeSeasonalReminder(homeownerName, title, description)
	})
}

func (s *SMTPSender) SendQuoteAcceptedEmail(ctx context.Context, toEmail, proName, leadTitle string) error {
	return s.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeQuoteAccepted(proName, leadTitle)
	})
}

func (s *SMTPSender) SendQuoteRejectedEmail(ctx context.Context, toEmail, proName, leadTitle, reason string) error {
	return s.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeQuoteRejected(proName, leadTitle, reason)
	})
}

func (s *SMTPSender) SendLicenseExpiryWarningEmail(ctx context.Context, toEmail, businessName string, expiresAt time.Time) error {
	return s.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeLicenseWarning(businessName, expiresAt)
	})
}

func (s *SMTPSender) SendLicenseExpiredEmail(ctx context.Context, toEmail, businessName string, daysExpired int) error {
	return s.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeLicenseExpired(businessName, daysExpired)
	})
}

func (s *SMTPSender) SendLicenseAdminAlertEmail(ctx context.Context, toEmail, businessName, proEmail string, expiresAt time.Time, expired bool) error {
	return s.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeLicenseAdminAlert(businessName, proEmail, expiresAt, expired)
	})
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}

func (s *SMTPSender) composeAndSend(ctx context.Context, toEmail string, compose func() (string, string, error)) error {
	subject, content, err := compose()
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

var _ Sender = (*SMTPSender)(nil)
