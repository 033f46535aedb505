// Package repository provides Postgres persistence for service reminders.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"homezy_backend/internal/reminders/domain"
	"homezy_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate         = "reminders.repository.create"
	opGet            = "reminders.repository.get"
	opList           = "reminders.repository.list"
	opUpdate         = "reminders.repository.update"
	opDelete         = "reminders.repository.delete"
	opReactivate     = "reminders.repository.reactivate"
	opFindPattern    = "reminders.repository.find_pattern"
	opSeasonalExists = "reminders.repository.seasonal_exists"
	opListDue        = "reminders.repository.list_due"
	opAppendSent     = "reminders.repository.append_sent"

	msgNotFound = "reminder not found"
)

// SentRecord is one delivered reminder notification. The list on a reminder
// is append-only until Complete starts a new cycle.
type SentRecord struct {
	SentAt        time.Time `json:"sentAt"`
	Channel       string    `json:"channel"`
	DaysBeforeDue int       `json:"daysBeforeDue"`
}

// Reminder is a persisted service reminder row.
type Reminder struct {
	ID                 uuid.UUID
	HomeownerID        uuid.UUID
	PropertyID         *uuid.UUID
	Category           domain.ServiceCategory
	Title              string
	Description        string
	TriggerType        domain.TriggerType
	Frequency          domain.Frequency
	CustomIntervalDays *int
	LastServiceDate    *time.Time
	NextDueDate        time.Time
	ReminderLeadDays   []int
	RemindersSent      []SentRecord
	Status             domain.Status
	SnoozeUntil        *time.Time
	ConvertedLeadID    *uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

const reminderColumns = `
	id, homeowner_id, property_id, category, title, description,
	trigger_type, frequency, custom_interval_days, last_service_date,
	next_due_date, reminder_lead_days, reminders_sent, status, snooze_until,
	converted_lead_id, created_at, updated_at`

func scanReminder(row pgx.Row) (Reminder, error) {
	var (
		rem      Reminder
		sentJSON []byte
	)
	err := row.Scan(
		&rem.ID, &rem.HomeownerID, &rem.PropertyID, &rem.Category, &rem.Title,
		&rem.Description, &rem.TriggerType, &rem.Frequency, &rem.CustomIntervalDays,
		&rem.LastServiceDate, &rem.NextDueDate, &rem.ReminderLeadDays, &sentJSON,
		&rem.Status, &rem.SnoozeUntil, &rem.ConvertedLeadID, &rem.CreatedAt, &rem.UpdatedAt,
	)
	if err != nil {
		return Reminder{}, err
	}

	rem.RemindersSent = make([]SentRecord, 0)
	if len(sentJSON) > 0 {
		if err := json.Unmarshal(sentJSON, &rem.RemindersSent); err != nil {
			return Reminder{}, fmt.Errorf("decode reminders_sent: %w", err)
		}
	}
	return rem, nil
}

func (r *Repository) Create(ctx context.Context, reminder Reminder) (Reminder, error) {
	sentJSON, err := json.Marshal(emptyIfNil(reminder.RemindersSent))
	if err != nil {
		return Reminder{}, apperr.Internal(fmt.Sprintf("encode reminders_sent: %v", err)).WithOp(opCreate)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO service_reminders
		  (homeowner_id, property_id, category, title, description, trigger_type,
		   frequency, custom_interval_days, last_service_date, next_due_date,
		   reminder_lead_days, reminders_sent, status, snooze_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING`+reminderColumns,
		reminder.HomeownerID, reminder.PropertyID, reminder.Category, reminder.Title,
		reminder.Description, reminder.TriggerType, reminder.Frequency,
		reminder.CustomIntervalDays, reminder.LastServiceDate, reminder.NextDueDate,
		reminder.ReminderLeadDays, sentJSON, reminder.Status, reminder.SnoozeUntil,
	)

	created, err := scanReminder(row)
	if err != nil {
		return Reminder{}, apperr.Internal(fmt.Sprintf("create reminder failed: %v", err)).WithOp(opCreate)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id, homeownerID uuid.UUID) (Reminder, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT`+reminderColumns+` FROM service_reminders WHERE id = $1 AND homeowner_id = $2`,
		id, homeownerID)

	reminder, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reminder{}, apperr.NotFound(msgNotFound).WithOp(opGet)
		}
		return Reminder{}, apperr.Internal(fmt.Sprintf("get reminder failed: %v", err)).WithOp(opGet)
	}
	return reminder, nil
}

func (r *Repository) List(ctx context.Context, homeownerID uuid.UUID, filter ListFilter) ([]Reminder, error) {
	query := `SELECT` + reminderColumns + ` FROM service_reminders WHERE homeowner_id = $1`
	args := []any{homeownerID}

	if filter.PropertyID != nil {
		args = append(args, *filter.PropertyID)
		query += fmt.Sprintf(" AND property_id = $%d", len(args))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY next_due_date ASC"

	return r.listReminders(ctx, opList, query, args...)
}

// Update persists the mutable reminder fields.
func (r *Repository) Update(ctx context.Context, reminder Reminder) (Reminder, error) {
	sentJSON, err := json.Marshal(emptyIfNil(reminder.RemindersSent))
	if err != nil {
		return Reminder{}, apperr.Internal(fmt.Sprintf("encode reminders_sent: %v", err)).WithOp(opUpdate)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE service_reminders
		SET property_id = $3, title = $4, description = $5, frequency = $6,
		    custom_interval_days = $7, last_service_date = $8, next_due_date = $9,
		    reminder_lead_days = $10, reminders_sent = $11, status = $12,
		    snooze_until = $13, converted_lead_id = $14, updated_at = now()
		WHERE id = $1 AND homeowner_id = $2
		RETURNING`+reminderColumns,
		reminder.ID, reminder.HomeownerID, reminder.PropertyID, reminder.Title,
		reminder.Description, reminder.Frequency, reminder.CustomIntervalDays,
		reminder.LastServiceDate, reminder.NextDueDate, reminder.ReminderLeadDays,
		sentJSON, reminder.Status, reminder.SnoozeUntil, reminder.ConvertedLeadID,
	)

	updated, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reminder{}, apperr.NotFound(msgNotFound).WithOp(opUpdate)
		}
		return Reminder{}, apperr.Internal(fmt.Sprintf("update reminder failed: %v", err)).WithOp(opUpdate)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id, homeownerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM service_reminders WHERE id = $1 AND homeowner_id = $2`, id, homeownerID)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("delete reminder failed: %v", err)).WithOp(opDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(msgNotFound).WithOp(opDelete)
	}
	return nil
}

func (r *Repository) ReactivateIfSnoozeElapsed(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE service_reminders
		SET status = $2, snooze_until = NULL, updated_at = now()
		WHERE id = $1 AND status = $3 AND snooze_until IS NOT NULL AND snooze_until <= $4
	`, id, domain.StatusActive, domain.StatusSnoozed, now)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("reactivate reminder failed: %v", err)).WithOp(opReactivate)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) FindPatternReminder(ctx context.Context, homeownerID uuid.UUID, category domain.ServiceCategory, propertyID *uuid.UUID) (*Reminder, error) {
	query := `SELECT` + reminderColumns + `
		FROM service_reminders
		WHERE homeowner_id = $1 AND category = $2 AND trigger_type = $3`
	args := []any{homeownerID, category, domain.TriggerPatternBased}

	if propertyID != nil {
		args = append(args, *propertyID)
		query += fmt.Sprintf(" AND property_id = $%d", len(args))
	} else {
		query += " AND property_id IS NULL"
	}
	query += " LIMIT 1"

	reminder, err := scanReminder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal(fmt.Sprintf("find pattern reminder failed: %v", err)).WithOp(opFindPattern)
	}
	return &reminder, nil
}

func (r *Repository) HasSeasonalReminderDueBetween(ctx context.Context, homeownerID uuid.UUID, category domain.ServiceCategory, from, to time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM service_reminders
			WHERE homeowner_id = $1 AND category = $2 AND trigger_type = $3
			  AND next_due_date >= $4 AND next_due_date < $5
		)
	`, homeownerID, category, domain.TriggerSeasonal, from, to).Scan(&exists)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("seasonal exists check failed: %v", err)).WithOp(opSeasonalExists)
	}
	return exists, nil
}

func (r *Repository) ListDueForNotification(ctx context.Context, now time.Time, horizon time.Duration) ([]Reminder, error) {
	return r.listReminders(ctx, opListDue, `
		SELECT`+reminderColumns+`
		FROM service_reminders
		WHERE status = $1 AND next_due_date <= $2
		ORDER BY next_due_date ASC
	`, domain.StatusActive, now.Add(horizon))
}

func (r *Repository) AppendReminderSent(ctx context.Context, id uuid.UUID, record SentRecord) (bool, error) {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("encode sent record: %v", err)).WithOp(opAppendSent)
	}
	// Containment probe without sentAt so re-sends of the same offset and
	// channel within one cycle are rejected.
	probe, err := json.Marshal([]map[string]any{{
		"channel":       record.Channel,
		"daysBeforeDue": record.DaysBeforeDue,
	}})
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("encode sent probe: %v", err)).WithOp(opAppendSent)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE service_reminders
		SET reminders_sent = reminders_sent || $2::jsonb, updated_at = now()
		WHERE id = $1 AND NOT (reminders_sent @> $3::jsonb)
	`, id, recordJSON, probe)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("append sent record failed: %v", err)).WithOp(opAppendSent)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) listReminders(ctx context.Context, op, query string, args ...any) ([]Reminder, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list reminders query failed: %v", err)).WithOp(op)
	}
	defer rows.Close()

	items := make([]Reminder, 0)
	for rows.Next() {
		reminder, scanErr := scanReminder(rows)
		if scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan reminder failed: %v", scanErr)).WithOp(op)
		}
		items = append(items, reminder)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate reminders failed: %v", rowsErr)).WithOp(op)
	}

	return items, nil
}

func emptyIfNil(records []SentRecord) []SentRecord {
	if records == nil {
		return []SentRecord{}
	}
	return records
}
