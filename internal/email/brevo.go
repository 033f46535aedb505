package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"homezy_backend/platform/config"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoSender delivers email through the Brevo transactional API.
type BrevoSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

// NewBrevoSender creates a Brevo-backed sender.
func NewBrevoSender(cfg config.EmailConfig) *BrevoSender {
	return &BrevoSender{
		apiKey:    cfg.GetBrevoAPIKey(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type brevoAttachment struct {
	Content string `json:"content"`
	Name    string `json:"name"`
}

type brevoEmailRequest struct {
	Sender struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"sender"`
	To []struct {
		Email string `json:"email"`
	} `json:"to"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Attachment  []brevoAttachment `json:"attachment,omitempty"`
}

func (b *BrevoSender) SendDirectLeadInviteEmail(ctx context.Context, toEmail, proName, homeownerName, categoryLabel, title string, expiresAt time.Time) error {
	return b.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeDirectLeadInvite(proName, homeownerName, categoryLabel, title, expiresAt)
	})
}

func (b *BrevoSender) SendDirectLeadReminderEmail(ctx context.Context, toEmail, proName, title string, hoursLeft int) error {
	return b.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeDirectLeadReminder(proName, title, hoursLeft)
	})
}

func (b *BrevoSender) SendLeadMovedToMarketplaceEmail(ctx context.Context, toEmail, homeownerName, title string) error {
	return b.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeLeadMovedToMarketplace(homeownerName, title)
	})
}

func (b *BrevoSender) SendServiceReminderDueEmail(ctx context.Context, toEmail, homeownerName, title, categoryLabel string, dueDate time.Time, daysBeforeDue int) error {
	return b.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeServiceReminderDue(homeownerName, title, categoryLabel, dueDate, daysBeforeDue)
	})
}

func (b *BrevoSender) SendSeasonalReminderEmail(ctx context.Context, toEmail, homeownerName, title, description string) error {
	return b.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeSeasonalReminder(homeownerName, title, description)
	})
}

func (b *BrevoSender) SendQuoteAcceptedEmail(ctx context.Context, toEmail, proName, leadTitle string) error {
	return b.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeQuoteAccepted(proName, leadTitle)
	})
}

func (b *BrevoSender) SendQuoteRejectedEmail(ctx context.Context, toEmail, proName, leadTitle, reason string) error {
	return b.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeQuoteRejected(proName, leadTitle, reason)
	})
}

func (b *BrevoSender) SendLicenseExpiryWarningEmail(ctx context.Context, toEmail, businessName string, expiresAt time.Time) error {
	return b.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeLicenseWarning(businessName, expiresAt)
	})
}

func (b *BrevoSender) SendLicenseExpiredEmail(ctx context.Context, toEmail, businessName string, daysExpired int) error {
	return b.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeLicenseExpired(businessName, daysExpired)
	})
}

func (b *BrevoSender) SendLicenseAdminAlertEmail(ctx context.Context, toEmail, businessName, proEmail string, expiresAt time.Time, expired bool) error {
	return b.composeAndSend(ctx, toEmail, func() (string, string, error) {
		return composeLicenseAdminAlert(businessName, proEmail, expiresAt, expired)
	})
}

func (b *BrevoSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return b.send(ctx, toEmail, subject, htmlContent)
}

func (b *BrevoSender) composeAndSend(ctx context.Context, toEmail string, compose func() (string, string, error)) error {
	subject, content, err := compose()
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

func (b *BrevoSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	payload := brevoEmailRequest{
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	payload.Sender.Name = b.fromName
	payload.Sender.Email = b.fromEmail
	payload.To = []struct {
		Email string `json:"email"`
	}{{Email: toEmail}}

	for _, att := range attachments {
		payload.Attachment = append(payload.Attachment, brevoAttachment{
			Content: base64.StdEncoding.EncodeToString(att.Content),
			Name:    att.FileName,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo send failed: status %d: %s", resp.StatusCode, string(data))
	}

	return nil
}

var _ Sender = (*BrevoSender)(nil)
