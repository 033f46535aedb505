package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate_StandardFrequencies(t *testing.T) {
	from := date(2024, time.January, 15)

	tests := []struct {
		frequency Frequency
		want      time.Time
	}{
		{FrequencyMonthly, date(2024, time.February, 15)},
		{FrequencyQuarterly, date(2024, time.April, 15)},
		{FrequencyBiannual, date(2024, time.July, 15)},
		{FrequencyAnnual, date(2025, time.January, 15)},
	}

	for _, tc := range tests {
		got := NextDueDate(from, tc.frequency, 0)
		if !got.Equal(tc.want) {
			t.Errorf("NextDueDate(%s, %s) = %s, want %s", from, tc.frequency, got, tc.want)
		}
	}
}

// Pins the month-end rollover behaviour: Jan 31 + 1 month normalizes past
// February rather than clamping to its last day.
func TestNextDueDate_MonthEndRollover(t *testing.T) {
	got := NextDueDate(date(2024, time.January, 31), FrequencyMonthly, 0)
	if want := date(2024, time.March, 2); !got.Equal(want) {
		t.Fatalf("leap-year rollover = %s, want %s", got, want)
	}

	got = NextDueDate(date(2025, time.January, 31), FrequencyMonthly, 0)
	if want := date(2025, time.March, 3); !got.Equal(want) {
		t.Fatalf("non-leap rollover = %s, want %s", got, want)
	}
}

func TestNextDueDate_Custom(t *testing.T) {
	from := date(2024, time.June, 1)

	if got := NextDueDate(from, FrequencyCustom, 45); !got.Equal(date(2024, time.July, 16)) {
		t.Fatalf("custom 45d = %s", got)
	}

	// Missing interval is a no-op rather than a guess.
	if got := NextDueDate(from, FrequencyCustom, 0); !got.Equal(from) {
		t.Fatalf("custom without interval moved the date to %s", got)
	}
}

func TestNextDueDate_AlwaysExceedsFrom(t *testing.T) {
	from := date(2024, time.March, 31)
	for _, frequency := range []Frequency{FrequencyMonthly, FrequencyQuarterly, FrequencyBiannual, FrequencyAnnual} {
		if got := NextDueDate(from, frequency, 0); !got.After(from) {
			t.Errorf("NextDueDate(%s) = %s does not exceed the start date", frequency, got)
		}
	}
}

// Twelve monthly steps should land within rollover tolerance of one annual
// step (exact for mid-month dates).
func TestNextDueDate_MonthlyTwelveTimesMatchesAnnual(t *testing.T) {
	start := date(2024, time.January, 15)

	stepped := start
	for i := 0; i < 12; i++ {
		stepped = NextDueDate(stepped, FrequencyMonthly, 0)
	}

	annual := NextDueDate(start, FrequencyAnnual, 0)
	if diff := stepped.Sub(annual); diff < -72*time.Hour || diff > 72*time.Hour {
		t.Fatalf("12 monthly steps = %s, annual = %s (diff %s)", stepped, annual, diff)
	}
}

func TestClassifyInterval_StepFunction(t *testing.T) {
	tests := []struct {
		days float64
		want Frequency
	}{
		{10, FrequencyMonthly},
		{45, FrequencyMonthly},
		{46, FrequencyQuarterly},
		{120, FrequencyQuarterly},
		{121, FrequencyBiannual},
		{270, FrequencyBiannual},
		{271, FrequencyAnnual},
		{1000, FrequencyAnnual},
	}

	for _, tc := range tests {
		if got := ClassifyInterval(tc.days); got != tc.want {
			t.Errorf("ClassifyInterval(%v) = %s, want %s", tc.days, got, tc.want)
		}
	}
}

func TestValidCategory(t *testing.T) {
	if len(AllCategories) != 16 {
		t.Fatalf("expected 16 service categories, got %d", len(AllCategories))
	}
	if !ValidCategory(CategoryACCleaning) {
		t.Fatal("ac_cleaning should be valid")
	}
	if ValidCategory("window_tinting") {
		t.Fatal("unknown category should be invalid")
	}
}
