package email

import (
	"fmt"
	"time"
)

// The compose functions pair a subject with rendered HTML so the SMTP and
// Brevo senders stay thin delivery shells around the same content.

func composeDirectLeadInvite(proName, homeownerName, categoryLabel, title string, expiresAt time.Time) (string, string, error) {
	subject := fmt.Sprintf(subjectLeadInviteFmt, homeownerName)
	content, err := renderEmailTemplate("lead_invite.html", leadInviteEmailData{
		baseEmailData: baseEmailData{
			Title:    "New job request",
			Heading:  "You have a new job request",
			CTALabel: "View request",
		},
		ProName:       proName,
		HomeownerName: homeownerName,
		CategoryLabel: categoryLabel,
		LeadTitle:     title,
		ExpiresAt:     expiresAt.Format("2 January 2006 15:04"),
	})
	return subject, content, err
}

func composeDirectLeadReminder(proName, title string, hoursLeft int) (string, string, error) {
	subject := fmt.Sprintf(subjectLeadReminderFmt, hoursLeft)
	content, err := renderEmailTemplate("lead_reminder.html", leadReminderEmailData{
		baseEmailData: baseEmailData{
			Title:    "Job request expiring",
			Heading:  "A job request is about to expire",
			CTALabel: "Respond now",
		},
		ProName:   proName,
		LeadTitle: title,
		HoursLeft: hoursLeft,
	})
	return subject, content, err
}

func composeLeadMovedToMarketplace(homeownerName, title string) (string, string, error) {
	content, err := renderEmailTemplate("lead_marketplace.html", leadMarketplaceEmailData{
		baseEmailData: baseEmailData{
			Title:   "Request opened to all professionals",
			Heading: "Your request is now public",
		},
		HomeownerName: homeownerName,
		LeadTitle:     title,
	})
	return subjectLeadMarketplace, content, err
}

func composeServiceReminderDue(homeownerName, title, categoryLabel string, dueDate time.Time, daysBeforeDue int) (string, string, error) {
	subject := fmt.Sprintf(subjectReminderDueFmt, title)
	content, err := renderEmailTemplate("reminder_due.html", reminderDueEmailData{
		baseEmailData: baseEmailData{
			Title:    "Service reminder",
			Heading:  "Time to book a service",
			CTALabel: "Request quotes",
		},
		HomeownerName: homeownerName,
		ReminderTitle: title,
		CategoryLabel: categoryLabel,
		DueDate:       formatDate(dueDate),
		DaysBeforeDue: daysBeforeDue,
		DueToday:      daysBeforeDue <= 0,
	})
	return subject, content, err
}

func composeSeasonalReminder(homeownerName, title, description string) (string, string, error) {
	subject := fmt.Sprintf(subjectSeasonalFmt, title)
	content, err := renderEmailTemplate("seasonal_reminder.html", seasonalEmailData{
		baseEmailData: baseEmailData{
			Title:   "Seasonal maintenance",
			Heading: title,
		},
		HomeownerName: homeownerName,
		ReminderTitle: title,
		Description:   description,
	})
	return subject, content, err
}

func composeQuoteAccepted(proName, leadTitle string) (string, string, error) {
	content, err := renderEmailTemplate("quote_accepted.html", quoteOutcomeEmailData{
		baseEmailData: baseEmailData{
			Title:   "Quote accepted",
			Heading: "Good news, your quote was accepted",
		},
		ProName:   proName,
		LeadTitle: leadTitle,
	})
	return subjectQuoteAccepted, content, err
}

func composeQuoteRejected(proName, leadTitle, reason string) (string, string, error) {
	content, err := renderEmailTemplate("quote_rejected.html", quoteOutcomeEmailData{
		baseEmailData: baseEmailData{
			Title:   "Quote not selected",
			Heading: "Your quote was not selected",
		},
		ProName:   proName,
		LeadTitle: leadTitle,
		Reason:    reason,
	})
	return subjectQuoteRejected, content, err
}

func composeLicenseWarning(businessName string, expiresAt time.Time) (string, string, error) {
	content, err := renderEmailTemplate("license_warning.html", licenseWarningEmailData{
		baseEmailData: baseEmailData{
			Title:    "Trade licence expiring",
			Heading:  "Your trade licence expires soon",
			CTALabel: "Update licence",
		},
		BusinessName: businessName,
		ExpiresAt:    formatDate(expiresAt),
	})
	return subjectLicenseWarning, content, err
}

func composeLicenseExpired(businessName string, daysExpired int) (string, string, error) {
	subject := fmt.Sprintf(subjectLicenseExpiredFmt, daysExpired)
	content, err := renderEmailTemplate("license_expired.html", licenseExpiredEmailData{
		baseEmailData: baseEmailData{
			Title:    "Trade licence expired",
			Heading:  "Your trade licence has expired",
			CTALabel: "Renew now",
		},
		BusinessName: businessName,
		DaysExpired:  daysExpired,
	})
	return subject, content, err
}

func composeLicenseAdminAlert(businessName, proEmail string, expiresAt time.Time, expired bool) (string, string, error) {
	content, err := renderEmailTemplate("license_admin.html", licenseAdminEmailData{
		baseEmailData: baseEmailData{
			Title:   "Trade licence alert",
			Heading: "Professional licence needs attention",
		},
		BusinessName: businessName,
		ProEmail:     proEmail,
		ExpiresAt:    formatDate(expiresAt),
		Expired:      expired,
	})
	return subjectLicenseAdminAlert, content, err
}
