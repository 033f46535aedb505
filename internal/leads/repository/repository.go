// Package repository provides Postgres persistence for leads.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homezy_backend/internal/leads/domain"
	reminderdomain "homezy_backend/internal/reminders/domain"
	"homezy_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate       = "leads.repository.create"
	opGet          = "leads.repository.get"
	opList         = "leads.repository.list"
	opAccept       = "leads.repository.accept"
	opDecline      = "leads.repository.decline"
	opExpire       = "leads.repository.expire"
	opListExpired  = "leads.repository.list_expired"
	opListPending  = "leads.repository.list_pending"
	opMarkReminder = "leads.repository.mark_reminder"
	opComplete     = "leads.repository.complete"
	opClaim        = "leads.repository.claim"
	opPattern      = "leads.repository.pattern"
	opHistoryOwner = "leads.repository.history_owners"
)

// Lead is a persisted lead row. Guest submissions have a nil HomeownerID and
// rely on the contact fields.
type Lead struct {
	ID           uuid.UUID
	HomeownerID  *uuid.UUID
	PropertyID   *uuid.UUID
	ContactName  string
	ContactEmail string
	ContactPhone string
	Category     reminderdomain.ServiceCategory
	Title        string
	Description  string
	LeadType     domain.LeadType
	Status       domain.Status
	CompletedAt  *time.Time

	// Direct-lead window fields; nil/zero for indirect leads.
	TargetProfessionalID *uuid.UUID
	DirectLeadExpiresAt  *time.Time
	DirectLeadStatus     *domain.DirectLeadStatus
	Reminder1Sent        bool
	Reminder2Sent        bool

	ClaimCount int
	MaxClaims  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

const leadColumns = `
	id, homeowner_id, property_id, contact_name, contact_email, contact_phone,
	category, title, description, lead_type, status, completed_at,
	target_professional_id, direct_lead_expires_at, direct_lead_status,
	reminder1_sent, reminder2_sent, claim_count, max_claims,
	created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.HomeownerID, &lead.PropertyID, &lead.ContactName,
		&lead.ContactEmail, &lead.ContactPhone, &lead.Category, &lead.Title,
		&lead.Description, &lead.LeadType, &lead.Status, &lead.CompletedAt,
		&lead.TargetProfessionalID, &lead.DirectLeadExpiresAt, &lead.DirectLeadStatus,
		&lead.Reminder1Sent, &lead.Reminder2Sent, &lead.ClaimCount, &lead.MaxClaims,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

func (r *Repository) Create(ctx context.Context, lead Lead) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads
		  (homeowner_id, property_id, contact_name, contact_email, contact_phone,
		   category, title, description, lead_type, status,
		   target_professional_id, direct_lead_expires_at, direct_lead_status,
		   claim_count, max_claims)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING`+leadColumns,
		lead.HomeownerID, lead.PropertyID, lead.ContactName, lead.ContactEmail,
		lead.ContactPhone, lead.Category, lead.Title, lead.Description,
		lead.LeadType, lead.Status, lead.TargetProfessionalID,
		lead.DirectLeadExpiresAt, lead.DirectLeadStatus, lead.ClaimCount, lead.MaxClaims,
	)

	created, err := scanLead(row)
	if err != nil {
		return Lead{}, apperr.Internal(fmt.Sprintf("create lead failed: %v", err)).WithOp(opCreate)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx,
		`SELECT`+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found").WithOp(opGet)
		}
		return Lead{}, apperr.Internal(fmt.Sprintf("get lead failed: %v", err)).WithOp(opGet)
	}
	return lead, nil
}

func (r *Repository) ListForHomeowner(ctx context.Context, homeownerID uuid.UUID) ([]Lead, error) {
	return r.listLeads(ctx,
		`SELECT`+leadColumns+` FROM leads WHERE homeowner_id = $1 ORDER BY created_at DESC`,
		homeownerID)
}

func (r *Repository) ListForProfessional(ctx context.Context, professionalID uuid.UUID) ([]Lead, error) {
	return r.listLeads(ctx,
		`SELECT`+leadColumns+` FROM leads WHERE target_professional_id = $1 ORDER BY created_at DESC`,
		professionalID)
}

func (r *Repository) AcceptDirectLead(ctx context.Context, id, professionalID uuid.UUID, now time.Time) (Lead, bool, error) {
	return r.answerDirectLead(ctx, opAccept, id, professionalID, now, domain.DirectLeadAccepted)
}

func (r *Repository) DeclineDirectLead(ctx context.Context, id, professionalID uuid.UUID, now time.Time) (Lead, bool, error) {
	return r.answerDirectLead(ctx, opDecline, id, professionalID, now, domain.DirectLeadDeclined)
}

func (r *Repository) answerDirectLead(ctx context.Context, op string, id, professionalID uuid.UUID, now time.Time, target domain.DirectLeadStatus) (Lead, bool, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET direct_lead_status = $4, updated_at = now()
		WHERE id = $1
		  AND target_professional_id = $2
		  AND direct_lead_status = $5
		  AND direct_lead_expires_at > $3
		RETURNING`+leadColumns,
		id, professionalID, now, target, domain.DirectLeadPending)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, false, nil
		}
		return Lead{}, false, apperr.Internal(fmt.Sprintf("answer direct lead failed: %v", err)).WithOp(op)
	}
	return lead, true, nil
}

func (r *Repository) ExpireDirectLead(ctx context.Context, id uuid.UUID, maxClaims int) (Lead, bool, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET direct_lead_status = $2,
		    lead_type = $3,
		    claim_count = 0,
		    max_claims = $4,
		    updated_at = now()
		WHERE id = $1 AND direct_lead_status = $5
		RETURNING`+leadColumns,
		id, domain.DirectLeadExpired, domain.LeadTypeIndirect, maxClaims, domain.DirectLeadPending)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, false, nil
		}
		return Lead{}, false, apperr.Internal(fmt.Sprintf("expire direct lead failed: %v", err)).WithOp(opExpire)
	}
	return lead, true, nil
}

func (r *Repository) ListExpiredPending(ctx context.Context, now time.Time) ([]Lead, error) {
	return r.listLeads(ctx, `
		SELECT`+leadColumns+`
		FROM leads
		WHERE lead_type = $1 AND direct_lead_status = $2 AND direct_lead_expires_at <= $3
		ORDER BY direct_lead_expires_at ASC
	`, domain.LeadTypeDirect, domain.DirectLeadPending, now)
}

func (r *Repository) ListPendingDirectLeads(ctx context.Context, now time.Time) ([]Lead, error) {
	return r.listLeads(ctx, `
		SELECT`+leadColumns+`
		FROM leads
		WHERE lead_type = $1 AND direct_lead_status = $2 AND direct_lead_expires_at > $3
		ORDER BY direct_lead_expires_at ASC
	`, domain.LeadTypeDirect, domain.DirectLeadPending, now)
}

func (r *Repository) MarkReminderSent(ctx context.Context, id uuid.UUID, stage int) (bool, error) {
	var query string
	switch stage {
	case domain.ReminderStageFirst:
		query = `UPDATE leads SET reminder1_sent = TRUE, updated_at = now()
			WHERE id = $1 AND direct_lead_status = $2 AND NOT reminder1_sent`
	case domain.ReminderStageSecond:
		query = `UPDATE leads SET reminder2_sent = TRUE, updated_at = now()
			WHERE id = $1 AND direct_lead_status = $2 AND NOT reminder2_sent`
	default:
		return false, apperr.Validation(fmt.Sprintf("unknown reminder stage %d", stage)).WithOp(opMarkReminder)
	}

	tag, err := r.pool.Exec(ctx, query, id, domain.DirectLeadPending)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("mark reminder sent failed: %v", err)).WithOp(opMarkReminder)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) MarkCompleted(ctx context.Context, id, homeownerID uuid.UUID, completedAt time.Time) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $3, completed_at = $4, updated_at = now()
		WHERE id = $1 AND homeowner_id = $2 AND status <> $5
		RETURNING`+leadColumns,
		id, homeownerID, domain.StatusCompleted, completedAt, domain.StatusCancelled)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound("lead not found").WithOp(opComplete)
		}
		return Lead{}, apperr.Internal(fmt.Sprintf("complete lead failed: %v", err)).WithOp(opComplete)
	}
	return lead, nil
}

func (r *Repository) IncrementClaim(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET claim_count = claim_count + 1, updated_at = now()
		WHERE id = $1 AND lead_type = $2 AND claim_count < max_claims
	`, id, domain.LeadTypeIndirect)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("increment claim failed: %v", err)).WithOp(opClaim)
	}
	return tag.RowsAffected() > 0, nil
}

// ServicePattern derives the booking cadence from completed leads: the count,
// the average gap between consecutive completions in days, and the latest
// completion.
func (r *Repository) ServicePattern(ctx context.Context, homeownerID uuid.UUID, category reminderdomain.ServiceCategory, propertyID *uuid.UUID) (ServicePatternRow, error) {
	query := `
		SELECT COUNT(*),
		       CASE WHEN COUNT(*) > 1
		            THEN EXTRACT(EPOCH FROM (MAX(completed_at) - MIN(completed_at))) / 86400.0 / (COUNT(*) - 1)
		       END,
		       MAX(completed_at)
		FROM leads
		WHERE homeowner_id = $1 AND category = $2 AND status = $3 AND completed_at IS NOT NULL`
	args := []any{homeownerID, category, domain.StatusCompleted}
	if propertyID != nil {
		args = append(args, *propertyID)
		query += fmt.Sprintf(" AND property_id = $%d", len(args))
	}

	var row ServicePatternRow
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&row.ServiceCount, &row.AvgIntervalDays, &row.LastCompletedAt); err != nil {
		return ServicePatternRow{}, apperr.Internal(fmt.Sprintf("service pattern query failed: %v", err)).WithOp(opPattern)
	}
	return row, nil
}

func (r *Repository) ListHomeownersWithHistory(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT homeowner_id
		FROM leads
		WHERE homeowner_id IS NOT NULL AND status = $1 AND completed_at IS NOT NULL
		GROUP BY homeowner_id, category
		HAVING COUNT(*) >= 2
	`, domain.StatusCompleted)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("history owners query failed: %v", err)).WithOp(opHistoryOwner)
	}
	defer rows.Close()

	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan homeowner id failed: %v", scanErr)).WithOp(opHistoryOwner)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate homeowner ids failed: %v", rowsErr)).WithOp(opHistoryOwner)
	}

	return ids, nil
}

func (r *Repository) listLeads(ctx context.Context, query string, args ...any) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list leads query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, scanErr := scanLead(rows)
		if scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan lead failed: %v", scanErr)).WithOp(opList)
		}
		items = append(items, lead)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate leads failed: %v", rowsErr)).WithOp(opList)
	}

	return items, nil
}
