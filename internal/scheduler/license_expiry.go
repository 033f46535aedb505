package scheduler

import (
	"context"
	"time"

	accountrepo "homezy_backend/internal/accounts/repository"
	"homezy_backend/internal/events"

	"github.com/google/uuid"
)

// licenseWarningLeadDays is how far ahead of expiry the one-time warning goes
// out.
const licenseWarningLeadDays = 7

type licenseStore interface {
	ListLicenseExpiringOn(ctx context.Context, day time.Time) ([]accountrepo.User, error)
	ListLicenseExpiredBefore(ctx context.Context, day time.Time) ([]accountrepo.User, error)
	MarkLicenseExpiryWarned(ctx context.Context, id uuid.UUID) (bool, error)
	MarkLicenseExpiredNotified(ctx context.Context, id uuid.UUID, day time.Time) (bool, error)
}

// LicenseExpiryJob runs two sweeps over professional trade licences: a
// one-time warning seven days before expiry, and a daily reminder after it.
// Both sweeps publish only when their database guard flips, so overlapping
// runs never double-send.
type LicenseExpiryJob struct {
	repo licenseStore
	bus  events.Bus
	now  func() time.Time
}

func NewLicenseExpiryJob(repo licenseStore, bus events.Bus) *LicenseExpiryJob {
	return &LicenseExpiryJob{repo: repo, bus: bus, now: time.Now}
}

// SetClock overrides the time source. Test hook.
func (j *LicenseExpiryJob) SetClock(now func() time.Time) {
	j.now = now
}

func (j *LicenseExpiryJob) Name() string { return "license-expiry" }

func (j *LicenseExpiryJob) Run(ctx context.Context) (int, int, error) {
	now := j.now()

	warned, warnFailed, err := j.sweepExpiring(ctx, now)
	if err != nil {
		return 0, 0, err
	}
	notified, expireFailed, err := j.sweepExpired(ctx, now)
	if err != nil {
		return warned, warnFailed, err
	}
	return warned + notified, warnFailed + expireFailed, nil
}

func (j *LicenseExpiryJob) sweepExpiring(ctx context.Context, now time.Time) (int, int, error) {
	day := now.AddDate(0, 0, licenseWarningLeadDays)
	pros, err := j.repo.ListLicenseExpiringOn(ctx, day)
	if err != nil {
		return 0, 0, err
	}

	var warned, failed int
	for _, pro := range pros {
		if pro.TradeLicenseExpiry == nil {
			continue
		}
		ok, err := j.repo.MarkLicenseExpiryWarned(ctx, pro.ID)
		if err != nil {
			failed++
			continue
		}
		if !ok {
			continue
		}
		j.bus.Publish(ctx, events.TradeLicenseExpiring{
			BaseEvent:      events.NewBaseEvent(),
			ProfessionalID: pro.ID,
			BusinessName:   displayName(pro),
			ExpiresAt:      *pro.TradeLicenseExpiry,
		})
		warned++
	}
	return warned, failed, nil
}

func (j *LicenseExpiryJob) sweepExpired(ctx context.Context, now time.Time) (int, int, error) {
	pros, err := j.repo.ListLicenseExpiredBefore(ctx, now)
	if err != nil {
		return 0, 0, err
	}

	var notified, failed int
	for _, pro := range pros {
		if pro.TradeLicenseExpiry == nil {
			continue
		}
		ok, err := j.repo.MarkLicenseExpiredNotified(ctx, pro.ID, now)
		if err != nil {
			failed++
			continue
		}
		if !ok {
			continue
		}
		days := calendarDaysUntil(*pro.TradeLicenseExpiry, now)
		j.bus.Publish(ctx, events.TradeLicenseExpired{
			BaseEvent:       events.NewBaseEvent(),
			ProfessionalID:  pro.ID,
			BusinessName:    displayName(pro),
			ExpiredAt:       *pro.TradeLicenseExpiry,
			DaysSinceExpiry: days,
			NotifyAdmins:    adminEscalationDay(days),
		})
		notified++
	}
	return notified, failed, nil
}

// adminEscalationDay bounds how often admins hear about one lapsed licence:
// days 1, 7, 14, 30, then every 30 days.
func adminEscalationDay(days int) bool {
	switch days {
	case 1, 7, 14, 30:
		return true
	}
	return days > 30 && days%30 == 0
}

func displayName(u accountrepo.User) string {
	if u.BusinessName != nil && *u.BusinessName != "" {
		return *u.BusinessName
	}
	return u.FullName()
}
