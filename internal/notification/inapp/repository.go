// Package inapp persists the in-app notification feed shown in the mobile
// and web clients.
package inapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homezy_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate      = "notification.inapp.repository.create"
	opList        = "notification.inapp.repository.list"
	opCountUnread = "notification.inapp.repository.count_unread"
	opMarkRead    = "notification.inapp.repository.mark_read"
	opMarkAllRead = "notification.inapp.repository.mark_all_read"
	opDelete      = "notification.inapp.repository.delete"

	errRecipientRequired = "recipientId is required"
)

type Notification struct {
	ID            uuid.UUID      `json:"id"`
	RecipientID   uuid.UUID      `json:"recipientId"`
	RecipientRole string         `json:"recipientRole"`
	Type          string         `json:"type"`
	Category      string         `json:"category"`
	Priority      string         `json:"priority"`
	Title         string         `json:"title"`
	Message       string         `json:"message"`
	Data          map[string]any `json:"data,omitempty"`
	ActionURL     *string        `json:"actionUrl,omitempty"`
	IsRead        bool           `json:"isRead"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type CreateParams struct {
	RecipientID   uuid.UUID
	RecipientRole string
	Type          string
	Category      string
	Priority      string
	Title         string
	Message       string
	Data          map[string]any
	ActionURL     *string
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Notification, error) {
	if p.RecipientID == uuid.Nil {
		return Notification{}, apperr.Validation(errRecipientRequired).WithOp(opCreate)
	}
	if p.Type == "" || p.Title == "" || p.Message == "" {
		return Notification{}, apperr.Validation("type, title and message are required").WithOp(opCreate)
	}
	if p.Category == "" {
		p.Category = "info"
	}
	if p.Priority == "" {
		p.Priority = "normal"
	}

	var n Notification
	err := r.pool.QueryRow(ctx, `
		INSERT INTO in_app_notifications
		(recipient_id, recipient_role, type, category, priority, title, message, data, action_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, recipient_id, recipient_role, type, category, priority, title, message, data, action_url, is_read, created_at
	`, p.RecipientID, p.RecipientRole, p.Type, p.Category, p.Priority, p.Title, p.Message, p.Data, p.ActionURL).Scan(
		&n.ID, &n.RecipientID, &n.RecipientRole, &n.Type, &n.Category, &n.Priority,
		&n.Title, &n.Message, &n.Data, &n.ActionURL, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Notification{}, apperr.Validation("invalid recipientId").WithOp(opCreate)
		}
		return Notification{}, apperr.Internal(fmt.Sprintf("create in-app notification failed: %v", err)).WithOp(opCreate)
	}

	return n, nil
}

func (r *Repository) List(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]Notification, int, error) {
	if recipientID == uuid.Nil {
		return nil, 0, apperr.Validation(errRecipientRequired).WithOp(opList)
	}

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM in_app_notifications WHERE recipient_id = $1`, recipientID).Scan(&total)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("count notifications failed: %v", err)).WithOp(opList)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, recipient_id, recipient_role, type, category, priority, title, message, data, action_url, is_read, created_at
		FROM in_app_notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, recipientID, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("list notifications query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	items := make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if scanErr := rows.Scan(
			&n.ID, &n.RecipientID, &n.RecipientRole, &n.Type, &n.Category, &n.Priority,
			&n.Title, &n.Message, &n.Data, &n.ActionURL, &n.IsRead, &n.CreatedAt,
		); scanErr != nil {
			return nil, 0, apperr.Internal(fmt.Sprintf("scan notification failed: %v", scanErr)).WithOp(opList)
		}
		items = append(items, n)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("iterate notifications failed: %v", rowsErr)).WithOp(opList)
	}

	return items, total, nil
}

func (r *Repository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	if recipientID == uuid.Nil {
		return 0, apperr.Validation(errRecipientRequired).WithOp(opCountUnread)
	}

	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM in_app_notifications
		WHERE recipient_id = $1 AND NOT is_read
	`, recipientID).Scan(&count)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("count unread notifications failed: %v", err)).WithOp(opCountUnread)
	}

	return count, nil
}

func (r *Repository) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	if recipientID == uuid.Nil || notificationID == uuid.Nil {
		return apperr.Validation("recipientId and notificationId are required").WithOp(opMarkRead)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE in_app_notifications
		SET is_read = TRUE, read_at = now()
		WHERE id = $1 AND recipient_id = $2
	`, notificationID, recipientID)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark notification read failed: %v", err)).WithOp(opMarkRead)
	}

	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	if recipientID == uuid.Nil {
		return apperr.Validation(errRecipientRequired).WithOp(opMarkAllRead)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE in_app_notifications
		SET is_read = TRUE, read_at = now()
		WHERE recipient_id = $1 AND NOT is_read
	`, recipientID)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark all notifications read failed: %v", err)).WithOp(opMarkAllRead)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	if recipientID == uuid.Nil || notificationID == uuid.Nil {
		return apperr.Validation("recipientId and notificationId are required").WithOp(opDelete)
	}

	_, err := r.pool.Exec(ctx, `
		DELETE FROM in_app_notifications
		WHERE id = $1 AND recipient_id = $2
	`, notificationID, recipientID)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("delete notification failed: %v", err)).WithOp(opDelete)
	}

	return nil
}
