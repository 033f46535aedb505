// Package repository provides persistence for user accounts and properties.
// Authentication mechanics live elsewhere; this package only serves the
// fields the marketplace and the scheduled jobs need.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homezy_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opGetUser              = "accounts.repository.get_user"
	opGetProfessional      = "accounts.repository.get_professional"
	opListAdmins           = "accounts.repository.list_admins"
	opListSeasonal         = "accounts.repository.list_seasonal_homeowners"
	opGetPrimaryProperty   = "accounts.repository.get_primary_property"
	opListLicenseExpiring  = "accounts.repository.list_license_expiring"
	opListLicenseExpired   = "accounts.repository.list_license_expired"
	opMarkExpiryWarned     = "accounts.repository.mark_expiry_warned"
	opMarkExpiredNotified  = "accounts.repository.mark_expired_notified"
	opSavePushToken        = "accounts.repository.save_push_token"
)

// Role values stored on users.
const (
	RoleHomeowner    = "homeowner"
	RoleProfessional = "professional"
	RoleAdmin        = "admin"
)

// User is an account row. Professionals additionally carry the trade-licence
// fields; the two notification markers exist purely as idempotency guards for
// the licence-expiry job and cannot be derived from other state.
type User struct {
	ID                       uuid.UUID
	Role                     string
	FirstName                string
	LastName                 string
	Email                    string
	Phone                    string
	BusinessName             *string
	SeasonalRemindersEnabled bool
	ExpoPushToken            *string
	TradeLicenseExpiry       *time.Time
	LicenseExpiryWarned      bool
	LicenseLastNotifiedOn    *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// FullName joins the user's names for notification copy.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Property is a homeowner property. At most one per homeowner is primary.
type Property struct {
	ID          uuid.UUID
	HomeownerID uuid.UUID
	Name        string
	City        string
	IsPrimary   bool
	CreatedAt   time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `
	id, role, first_name, last_name, email, phone, business_name,
	seasonal_reminders_enabled, expo_push_token, trade_license_expiry,
	license_expiry_warned, license_last_notified_on, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Role, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.BusinessName, &u.SeasonalRemindersEnabled, &u.ExpoPushToken,
		&u.TradeLicenseExpiry, &u.LicenseExpiryWarned, &u.LicenseLastNotifiedOn,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found").WithOp(opGetUser)
		}
		return User{}, apperr.Internal(fmt.Sprintf("get user failed: %v", err)).WithOp(opGetUser)
	}
	return user, nil
}

// GetProfessional loads a user and verifies the professional role. Callers in
// batch jobs treat a not-found result as log-and-continue.
func (r *Repository) GetProfessional(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+userColumns+` FROM users WHERE id = $1 AND role = $2`, id, RoleProfessional)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("professional not found").WithOp(opGetProfessional)
		}
		return User{}, apperr.Internal(fmt.Sprintf("get professional failed: %v", err)).WithOp(opGetProfessional)
	}
	return user, nil
}

// ListAdmins returns every admin account, used for licence escalations.
func (r *Repository) ListAdmins(ctx context.Context) ([]User, error) {
	return r.listUsers(ctx, opListAdmins, `SELECT`+userColumns+` FROM users WHERE role = $1 ORDER BY created_at ASC`, RoleAdmin)
}

// ListSeasonalHomeowners returns homeowners who have not opted out of
// seasonal reminders.
func (r *Repository) ListSeasonalHomeowners(ctx context.Context) ([]User, error) {
	return r.listUsers(ctx, opListSeasonal,
		`SELECT`+userColumns+` FROM users WHERE role = $1 AND seasonal_reminders_enabled ORDER BY created_at ASC`,
		RoleHomeowner)
}

// GetPrimaryProperty returns the homeowner's primary property, or nil when
// the homeowner has none.
func (r *Repository) GetPrimaryProperty(ctx context.Context, homeownerID uuid.UUID) (*Property, error) {
	var p Property
	err := r.pool.QueryRow(ctx, `
		SELECT id, homeowner_id, name, city, is_primary, created_at
		FROM properties
		WHERE homeowner_id = $1 AND is_primary
		LIMIT 1
	`, homeownerID).Scan(&p.ID, &p.HomeownerID, &p.Name, &p.City, &p.IsPrimary, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Internal(fmt.Sprintf("get primary property failed: %v", err)).WithOp(opGetPrimaryProperty)
	}
	return &p, nil
}

// ListLicenseExpiringOn returns professionals whose licence expires on the
// given calendar day and who have not been warned yet.
func (r *Repository) ListLicenseExpiringOn(ctx context.Context, day time.Time) ([]User, error) {
	return r.listUsers(ctx, opListLicenseExpiring, `
		SELECT`+userColumns+`
		FROM users
		WHERE role = $1
		  AND trade_license_expiry::date = $2::date
		  AND NOT license_expiry_warned
		ORDER BY created_at ASC
	`, RoleProfessional, day)
}

// ListLicenseExpiredBefore returns professionals whose licence lapsed before
// the given day and who have not been notified on that day yet.
func (r *Repository) ListLicenseExpiredBefore(ctx context.Context, day time.Time) ([]User, error) {
	return r.listUsers(ctx, opListLicenseExpired, `
		SELECT`+userColumns+`
		FROM users
		WHERE role = $1
		  AND trade_license_expiry IS NOT NULL
		  AND trade_license_expiry::date < $2::date
		  AND (license_last_notified_on IS NULL OR license_last_notified_on < $2::date)
		ORDER BY trade_license_expiry ASC
	`, RoleProfessional, day)
}

// MarkLicenseExpiryWarned flips the one-time 7-day warning marker. Returns
// false when another tick already claimed it.
func (r *Repository) MarkLicenseExpiryWarned(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET license_expiry_warned = TRUE, updated_at = now()
		WHERE id = $1 AND NOT license_expiry_warned
	`, id)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("mark expiry warned failed: %v", err)).WithOp(opMarkExpiryWarned)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkLicenseExpiredNotified records that the daily expired-licence reminder
// went out on the given day. Returns false when that day was already claimed.
func (r *Repository) MarkLicenseExpiredNotified(ctx context.Context, id uuid.UUID, day time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET license_last_notified_on = $2::date, updated_at = now()
		WHERE id = $1
		  AND (license_last_notified_on IS NULL OR license_last_notified_on < $2::date)
	`, id, day)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("mark expired notified failed: %v", err)).WithOp(opMarkExpiredNotified)
	}
	return tag.RowsAffected() > 0, nil
}

// SavePushToken stores the Expo push token for a user's current device.
func (r *Repository) SavePushToken(ctx context.Context, userID uuid.UUID, token string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET expo_push_token = $2, updated_at = now() WHERE id = $1
	`, userID, token)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("save push token failed: %v", err)).WithOp(opSavePushToken)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found").WithOp(opSavePushToken)
	}
	return nil
}

func (r *Repository) listUsers(ctx context.Context, op, query string, args ...any) ([]User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list users query failed: %v", err)).WithOp(op)
	}
	defer rows.Close()

	items := make([]User, 0)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan user failed: %v", scanErr)).WithOp(op)
		}
		items = append(items, user)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate users failed: %v", rowsErr)).WithOp(op)
	}

	return items, nil
}
