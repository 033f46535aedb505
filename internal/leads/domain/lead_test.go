package domain

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from DirectLeadStatus
		to   DirectLeadStatus
		want bool
	}{
		{DirectLeadPending, DirectLeadAccepted, true},
		{DirectLeadPending, DirectLeadDeclined, true},
		{DirectLeadPending, DirectLeadExpired, true},
		{DirectLeadPending, DirectLeadPending, false},
		{DirectLeadAccepted, DirectLeadExpired, false},
		{DirectLeadDeclined, DirectLeadAccepted, false},
		{DirectLeadExpired, DirectLeadPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
