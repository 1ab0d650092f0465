// Package distlock guards the dispatch run so that overlapping cron
// invocations and the standalone worker never process batches at the
// same time. Campaign rows carry their own processing flag; this lock
// covers the run as a whole (daily counter reset, budget computation).
package distlock

import (
	"context"
	"database/sql"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a non-blocking distributed mutex. A Lock instance belongs to
// one goroutine; concurrent holders need separate instances.
type Lock interface {
	// Acquire attempts to take the lock without blocking.
	Acquire(ctx context.Context) (bool, error)
	// Release gives the lock back if this instance still owns it.
	Release(ctx context.Context) error
}

// RunLockKey names the engine-wide dispatch lock.
const RunLockKey = "outreach:dispatch-run"

// New picks the best available backend: Redis when a client is
// configured, Postgres advisory locks otherwise. The advisory lock is
// session-scoped, so a crashed holder releases it when its connection
// drops, matching the Redis TTL behavior.
func New(rdb *redis.Client, db *sql.DB, key string, ttl time.Duration) Lock {
	if rdb != nil {
		return NewRedisLock(rdb, key, ttl)
	}
	return NewAdvisoryLock(db, key)
}

// AdvisoryLock implements Lock on pg_try_advisory_lock.
type AdvisoryLock struct {
	db  *sql.DB
	key int64
}

// NewAdvisoryLock derives a stable 64-bit advisory key from the name.
func NewAdvisoryLock(db *sql.DB, name string) *AdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(name))
	return &AdvisoryLock{db: db, key: int64(h.Sum64())}
}

func (l *AdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	var ok bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.key).Scan(&ok)
	return ok, err
}

func (l *AdvisoryLock) Release(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.key)
	return err
}
