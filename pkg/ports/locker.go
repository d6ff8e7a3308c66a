package ports

import (
	"context"
	"errors"
	"time"
)

// ErrLockHeld is returned by FormLocker.TryLock when another holder owns the key.
var ErrLockHeld = errors.New("lock already held")

// UnlockFunc is a function that releases a lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for blocking concurrency control.
// The Session Manager uses it to serialize handlers working on the same session.
type DistributedLocker interface {
	// Lock acquires a lock for the given key (e.g., session ID).
	// It blocks until the lock is acquired or the context is canceled.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

// FormLocker guards in-flight validations.
// Unlike DistributedLocker it never waits: a held key is reported as ErrLockHeld,
// which the session turns into a rejected submission.
type FormLocker interface {
	// TryLock acquires key for at most ttl. A ttl of zero means no expiry.
	TryLock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
