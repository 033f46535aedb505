package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const dateLayout = "2 January 2006"

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type leadInviteEmailData struct {
	baseEmailData
	ProName       string
	HomeownerName string
	CategoryLabel string
	LeadTitle     string
	ExpiresAt     string
}

type leadReminderEmailData struct {
	baseEmailData
	ProName   string
	LeadTitle string
	HoursLeft int
}

type leadMarketplaceEmailData struct {
	baseEmailData
	HomeownerName string
	LeadTitle     string
}

type reminderDueEmailData struct {
	baseEmailData
	HomeownerName string
	ReminderTitle string
	CategoryLabel string
	DueDate       string
	DaysBeforeDue int
	DueToday      bool
}

type seasonalEmailData struct {
	baseEmailData
	HomeownerName string
	ReminderTitle string
	Description   string
}

type quoteOutcomeEmailData struct {
	baseEmailData
	ProName   string
	LeadTitle string
	Reason    string
}

type licenseWarningEmailData struct {
	baseEmailData
	BusinessName string
	ExpiresAt    string
}

type licenseExpiredEmailData struct {
	baseEmailData
	BusinessName string
	DaysExpired  int
}

type licenseAdminEmailData struct {
	baseEmailData
	BusinessName string
	ProEmail     string
	ExpiresAt    string
	Expired      bool
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
