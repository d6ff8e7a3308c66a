package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/formflow/pkg/ports"
)

type lease struct {
	token   uint64
	expires time.Time // zero means no expiry
}

// Locker implements ports.FormLocker and ports.DistributedLocker in process.
// Safe for concurrent use.
type Locker struct {
	mu     sync.Mutex
	held   map[string]lease
	next   uint64
	wakeup chan struct{}
	now    func() time.Time
}

// NewLocker creates a new in-memory locker.
func NewLocker() *Locker {
	return &Locker{
		held:   make(map[string]lease),
		wakeup: make(chan struct{}),
		now:    time.Now,
	}
}

// TryLock acquires key or fails immediately with ports.ErrLockHeld.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tryLocked(key, ttl)
}

// Lock blocks until key is free or ctx ends.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	for {
		l.mu.Lock()
		unlock, err := l.tryLocked(key, ttl)
		wait := l.wakeup
		l.mu.Unlock()
		if err == nil {
			return unlock, nil
		}

		// Expired leases are only noticed on the next attempt.
		retry := time.NewTimer(50 * time.Millisecond)
		select {
		case <-ctx.Done():
			retry.Stop()
			return nil, ctx.Err()
		case <-wait:
			retry.Stop()
		case <-retry.C:
		}
	}
}

// Held reports whether key is currently locked.
func (l *Locker) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, ok := l.held[key]
	return ok && !l.expired(cur)
}

// tryLocked must be called with l.mu held.
func (l *Locker) tryLocked(key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if cur, ok := l.held[key]; ok && !l.expired(cur) {
		return nil, ports.ErrLockHeld
	}

	l.next++
	token := l.next
	entry := lease{token: token}
	if ttl > 0 {
		entry.expires = l.now().Add(ttl)
	}
	l.held[key] = entry

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// Only the owner may release; a stale unlock after expiry is ignored.
		if cur, ok := l.held[key]; ok && cur.token == token {
			delete(l.held, key)
			close(l.wakeup)
			l.wakeup = make(chan struct{})
		}
		return nil
	}, nil
}

func (l *Locker) expired(e lease) bool {
	return !e.expires.IsZero() && !l.now().Before(e.expires)
}

var (
	_ ports.FormLocker        = (*Locker)(nil)
	_ ports.DistributedLocker = (*Locker)(nil)
)
