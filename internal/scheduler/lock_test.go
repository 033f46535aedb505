package scheduler

import (
	"context"
	"testing"
	"time"

	"homezy_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLock(t *testing.T, ttl time.Duration) (*Lock, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewLock(client, ttl, logger.New("test")), mr
}

func TestLockAcquireAndRelease(t *testing.T) {
	lock, _ := newTestLock(t, time.Minute)
	ctx := context.Background()

	release, ok := lock.Acquire(ctx, "reminders")
	if !ok {
		t.Fatal("expected first acquire to succeed")
	}

	if _, ok := lock.Acquire(ctx, "reminders"); ok {
		t.Fatal("expected second acquire to be rejected while held")
	}

	release()

	release2, ok := lock.Acquire(ctx, "reminders")
	if !ok {
		t.Fatal("expected acquire to succeed after release")
	}
	release2()
}

func TestLockNamesAreIndependent(t *testing.T) {
	lock, _ := newTestLock(t, time.Minute)
	ctx := context.Background()

	release1, ok := lock.Acquire(ctx, "reminders")
	if !ok {
		t.Fatal("expected acquire to succeed")
	}
	defer release1()

	release2, ok := lock.Acquire(ctx, "license-expiry")
	if !ok {
		t.Fatal("expected a different lock name to be free")
	}
	release2()
}

func TestLockExpiresAfterTTL(t *testing.T) {
	lock, mr := newTestLock(t, time.Minute)
	ctx := context.Background()

	if _, ok := lock.Acquire(ctx, "reminders"); !ok {
		t.Fatal("expected acquire to succeed")
	}

	mr.FastForward(2 * time.Minute)

	release, ok := lock.Acquire(ctx, "reminders")
	if !ok {
		t.Fatal("expected acquire to succeed after the lease expired")
	}
	release()
}

func TestStaleReleaseDoesNotStealLock(t *testing.T) {
	lock, mr := newTestLock(t, time.Minute)
	ctx := context.Background()

	staleRelease, ok := lock.Acquire(ctx, "reminders")
	if !ok {
		t.Fatal("expected acquire to succeed")
	}

	// The first lease expires while its job is still running.
	mr.FastForward(2 * time.Minute)

	release, ok := lock.Acquire(ctx, "reminders")
	if !ok {
		t.Fatal("expected acquire to succeed after expiry")
	}

	// The stale holder releasing must not drop the new holder's lease.
	staleRelease()

	if _, ok := lock.Acquire(ctx, "reminders"); ok {
		t.Fatal("expected the new lease to survive a stale release")
	}
	release()
}

func TestNilLockAlwaysGrants(t *testing.T) {
	var lock *Lock

	release, ok := lock.Acquire(context.Background(), "reminders")
	if !ok {
		t.Fatal("expected nil lock to grant")
	}
	release()
}
