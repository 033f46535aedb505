package service

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"homezy_backend/internal/reminders/domain"
	"homezy_backend/internal/reminders/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

//go:embed seasonal.yaml
var seasonalCalendarYAML []byte

// seasonalHomeownerConcurrency bounds the fan-out across homeowners in one
// generator run.
const seasonalHomeownerConcurrency = 8

// SeasonalEntry is one calendar item: the service to suggest in a given month.
type SeasonalEntry struct {
	Category    domain.ServiceCategory `yaml:"category"`
	Title       string                 `yaml:"title"`
	Description string                 `yaml:"description"`
}

type seasonalCalendar struct {
	Months map[int][]SeasonalEntry `yaml:"months"`
}

// LoadSeasonalCalendar parses the embedded calendar. Entries with unknown
// categories are rejected so a bad edit fails fast at startup.
func LoadSeasonalCalendar() (map[time.Month][]SeasonalEntry, error) {
	var calendar seasonalCalendar
	if err := yaml.Unmarshal(seasonalCalendarYAML, &calendar); err != nil {
		return nil, fmt.Errorf("parse seasonal calendar: %w", err)
	}

	months := make(map[time.Month][]SeasonalEntry, len(calendar.Months))
	for month, entries := range calendar.Months {
		if month < 1 || month > 12 {
			return nil, fmt.Errorf("seasonal calendar: invalid month %d", month)
		}
		for _, entry := range entries {
			if !domain.ValidCategory(entry.Category) {
				return nil, fmt.Errorf("seasonal calendar: unknown category %q in month %d", entry.Category, month)
			}
		}
		months[time.Month(month)] = entries
	}
	return months, nil
}

// SeasonalHomeowner is a homeowner opted in to seasonal reminders.
type SeasonalHomeowner struct {
	ID                uuid.UUID
	PrimaryPropertyID *uuid.UUID
}

// HomeownerDirectory lists homeowners eligible for seasonal reminders.
// Implemented by an adapter over the accounts repository.
type HomeownerDirectory interface {
	ListSeasonalHomeowners(ctx context.Context) ([]SeasonalHomeowner, error)
}

// SeasonalGenerateResult reports one generator run.
type SeasonalGenerateResult struct {
	Homeowners int
	Created    int
	Skipped    int
}

// GenerateSeasonalReminders creates next-month seasonal reminders for every
// opted-in homeowner based on the current month's calendar entries. A
// homeowner who already has a seasonal reminder in that category due next
// month is skipped, so repeated runs within the same month are no-ops.
func (s *Service) GenerateSeasonalReminders(ctx context.Context, directory HomeownerDirectory, calendar map[time.Month][]SeasonalEntry) (SeasonalGenerateResult, error) {
	now := s.now()
	entries := calendar[now.Month()]
	if len(entries) == 0 {
		return SeasonalGenerateResult{}, nil
	}

	homeowners, err := directory.ListSeasonalHomeowners(ctx)
	if err != nil {
		return SeasonalGenerateResult{}, fmt.Errorf("list seasonal homeowners: %w", err)
	}

	firstOfNextMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	windowEnd := firstOfNextMonth.AddDate(0, 1, 0)

	var (
		created counter
		skipped counter
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(seasonalHomeownerConcurrency)

	for _, homeowner := range homeowners {
		group.Go(func() error {
			for _, entry := range entries {
				exists, checkErr := s.repo.HasSeasonalReminderDueBetween(groupCtx, homeowner.ID, entry.Category, firstOfNextMonth, windowEnd)
				if checkErr != nil {
					return checkErr
				}
				if exists {
					skipped.inc()
					continue
				}

				_, createErr := s.repo.Create(groupCtx, repository.Reminder{
					HomeownerID:      homeowner.ID,
					PropertyID:       homeowner.PrimaryPropertyID,
					Category:         entry.Category,
					Title:            entry.Title,
					Description:      entry.Description,
					TriggerType:      domain.TriggerSeasonal,
					Frequency:        domain.FrequencyAnnual,
					NextDueDate:      firstOfNextMonth,
					ReminderLeadDays: append([]int(nil), domain.SeasonalLeadDays...),
					Status:           domain.StatusActive,
				})
				if createErr != nil {
					return createErr
				}
				created.inc()
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return SeasonalGenerateResult{}, err
	}

	return SeasonalGenerateResult{
		Homeowners: len(homeowners),
		Created:    created.value(),
		Skipped:    skipped.value(),
	}, nil
}
