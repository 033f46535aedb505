// Package domain provides core scheduling rules for the service reminders
// bounded context.
package domain

import "time"

// Frequency is how often a recurring home service is due.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyBiannual  Frequency = "biannual"
	FrequencyAnnual    Frequency = "annual"
	FrequencyCustom    Frequency = "custom"
)

// TriggerType records how a reminder came to exist.
type TriggerType string

const (
	TriggerPatternBased TriggerType = "pattern_based"
	TriggerSeasonal     TriggerType = "seasonal"
	TriggerCustom       TriggerType = "custom"
)

// Status is a reminder's lifecycle state.
type Status string

const (
	StatusActive           Status = "active"
	StatusSnoozed          Status = "snoozed"
	StatusPaused           Status = "paused"
	StatusConvertedToQuote Status = "converted_to_quote"
)

// Channel is a notification delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
	ChannelSMS   Channel = "sms"
)

// Custom interval bounds in days.
const (
	MinCustomIntervalDays = 1
	MaxCustomIntervalDays = 3650
)

// Lead-day defaults per trigger type.
var (
	DefaultLeadDays  = []int{30, 7, 1}
	SeasonalLeadDays = []int{14, 7, 1}
)

// Interval classification thresholds in days. Fixed, not configurable.
const (
	monthlyMaxDays   = 45
	quarterlyMaxDays = 120
	biannualMaxDays  = 270
)

// NextDueDate returns the next due date for a service last performed at from.
// Month and year arithmetic follows time.AddDate normalization (Jan 31 plus
// one month lands in early March); schedule_test.go pins this behaviour.
// For FrequencyCustom a non-positive interval returns from unchanged.
func NextDueDate(from time.Time, frequency Frequency, customIntervalDays int) time.Time {
	switch frequency {
	case FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	case FrequencyBiannual:
		return from.AddDate(0, 6, 0)
	case FrequencyAnnual:
		return from.AddDate(1, 0, 0)
	case FrequencyCustom:
		if customIntervalDays <= 0 {
			return from
		}
		return from.AddDate(0, 0, customIntervalDays)
	default:
		return from
	}
}

// ClassifyInterval buckets an observed average interval between services
// into the closest recurring frequency.
func ClassifyInterval(avgDaysBetweenServices float64) Frequency {
	switch {
	case avgDaysBetweenServices <= monthlyMaxDays:
		return FrequencyMonthly
	case avgDaysBetweenServices <= quarterlyMaxDays:
		return FrequencyQuarterly
	case avgDaysBetweenServices <= biannualMaxDays:
		return FrequencyBiannual
	default:
		return FrequencyAnnual
	}
}

// ValidFrequency reports whether value is a known frequency.
func ValidFrequency(value Frequency) bool {
	switch value {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyBiannual, FrequencyAnnual, FrequencyCustom:
		return true
	}
	return false
}
