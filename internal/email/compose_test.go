package email

import (
	"strings"
	"testing"
	"time"
)

func TestComposeRendersEveryTemplate(t *testing.T) {
	expiry := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		compose func() (string, string, error)
		want    []string
	}{
		{
			name: "lead invite",
			compose: func() (string, string, error) {
				return composeDirectLeadInvite("CoolFix", "Aisha", "AC cleaning", "Villa AC deep clean", expiry)
			},
			want: []string{"CoolFix", "Aisha", "AC cleaning", "Villa AC deep clean", "2 June 2024"},
		},
		{
			name: "lead reminder",
			compose: func() (string, string, error) {
				return composeDirectLeadReminder("CoolFix", "Villa AC deep clean", 12)
			},
			want: []string{"CoolFix", "12 hour"},
		},
		{
			name: "lead moved to marketplace",
			compose: func() (string, string, error) {
				return composeLeadMovedToMarketplace("Aisha", "Villa AC deep clean")
			},
			want: []string{"Aisha", "marketplace"},
		},
		{
			name: "service reminder due",
			compose: func() (string, string, error) {
				return composeServiceReminderDue("Aisha", "AC service", "AC cleaning", expiry, 7)
			},
			want: []string{"AC service", "7 day", "2 June 2024"},
		},
		{
			name: "service reminder due today",
			compose: func() (string, string, error) {
				return composeServiceReminderDue("Aisha", "AC service", "AC cleaning", expiry, 0)
			},
			want: []string{"due today"},
		},
		{
			name: "seasonal",
			compose: func() (string, string, error) {
				return composeSeasonalReminder("Aisha", "Pre-summer AC deep clean", "Get your AC units cleaned.")
			},
			want: []string{"Pre-summer AC deep clean", "Get your AC units cleaned."},
		},
		{
			name: "quote accepted",
			compose: func() (string, string, error) {
				return composeQuoteAccepted("CoolFix", "Villa AC deep clean")
			},
			want: []string{"accepted", "Villa AC deep clean"},
		},
		{
			name: "quote rejected with reason",
			compose: func() (string, string, error) {
				return composeQuoteRejected("CoolFix", "Villa AC deep clean", "Price too high")
			},
			want: []string{"Price too high"},
		},
		{
			name: "license warning",
			compose: func() (string, string, error) {
				return composeLicenseWarning("CoolFix LLC", expiry)
			},
			want: []string{"CoolFix LLC", "2 June 2024"},
		},
		{
			name: "license expired",
			compose: func() (string, string, error) {
				return composeLicenseExpired("CoolFix LLC", 14)
			},
			want: []string{"14 day"},
		},
		{
			name: "license admin alert expired",
			compose: func() (string, string, error) {
				return composeLicenseAdminAlert("CoolFix LLC", "pro@example.com", expiry, true)
			},
			want: []string{"CoolFix LLC", "pro@example.com", "has not been renewed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, content, err := tt.compose()
			if err != nil {
				t.Fatalf("compose: %v", err)
			}
			if subject == "" {
				t.Error("empty subject")
			}
			for _, fragment := range tt.want {
				if !strings.Contains(content, fragment) {
					t.Errorf("rendered content missing %q", fragment)
				}
			}
		})
	}
}
