package scheduler

import (
	"context"
	"time"

	"homezy_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "scheduler:lock:"

// releaseScript deletes the lock only when this holder still owns it, so a
// slow job whose lease expired cannot release a lock another instance took.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a redis lease that keeps two scheduler instances from running the
// same sweep at once. The sweeps themselves are idempotent, so a lost or
// expired lease costs duplicate work, never duplicate effects. A nil Lock
// always grants, for single-instance deployments without redis.
type Lock struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewLock(client *redis.Client, ttl time.Duration, log *logger.Logger) *Lock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Lock{client: client, ttl: ttl, log: log}
}

// Acquire tries to take the named lease. On success it returns a release
// function and true. When another instance holds the lease it returns false.
func (l *Lock) Acquire(ctx context.Context, name string) (func(), bool) {
	if l == nil || l.client == nil {
		return func() {}, true
	}

	key := lockKeyPrefix + name
	holder := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, holder, l.ttl).Result()
	if err != nil {
		l.log.Warn("scheduler lock unavailable, running without it", "lock", name, "error", err)
		return func() {}, true
	}
	if !ok {
		return nil, false
	}

	release := func() {
		if _, err := releaseScript.Run(context.Background(), l.client, []string{key}, holder).Result(); err != nil {
			l.log.Warn("scheduler lock release failed", "lock", name, "error", err)
		}
	}
	return release, true
}
