package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/ports"
)

var (
	// ErrSessionNotFound is returned when the session ID is unknown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionLimit is returned when creating a session would exceed the configured limit.
	ErrSessionLimit = errors.New("session limit reached")
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Factory builds the value held for a new session.
type Factory[T any] func(ctx context.Context, id string) (T, error)

// Manager keeps live sessions in memory and serializes work on each of them.
// It uses Reference Counting to garbage collect unused locks.
type Manager[T any] struct {
	factory Factory[T]

	mu       sync.Mutex            // Global lock for the maps
	locks    map[string]*lockEntry // Map of active locks
	sessions map[string]T

	limit   int
	lockTTL time.Duration
	locker  ports.DistributedLocker // Optional distributed locker
	logger  *slog.Logger            // Logger for internal events (like deferred errors)
	onClose func(id string, value T)
}

// Option configures the Manager.
type Option func(*managerConfig)

type managerConfig struct {
	limit   int
	lockTTL time.Duration
	locker  ports.DistributedLocker
	logger  *slog.Logger
}

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(c *managerConfig) {
		c.locker = locker
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(c *managerConfig) {
		c.logger = logger
	}
}

// WithLimit caps the number of live sessions. Zero means unlimited.
func WithLimit(n int) Option {
	return func(c *managerConfig) {
		c.limit = n
	}
}

// WithLockTTL sets the TTL passed to the distributed locker.
func WithLockTTL(d time.Duration) Option {
	return func(c *managerConfig) {
		c.lockTTL = d
	}
}

// NewManager creates a new Session Manager building values with factory.
func NewManager[T any](factory Factory[T], opts ...Option) *Manager[T] {
	cfg := managerConfig{
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager[T]{
		factory:  factory,
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]T),
		limit:    cfg.limit,
		lockTTL:  cfg.lockTTL,
		locker:   cfg.locker,
		logger:   cfg.logger,
	}
}

// OnClose registers a callback run after a session is removed.
func (m *Manager[T]) OnClose(fn func(id string, value T)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClose = fn
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager[T]) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager[T]) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Create builds and registers a new session under a random ID.
func (m *Manager[T]) Create(ctx context.Context) (string, T, error) {
	return m.CreateWithID(ctx, uuid.NewString())
}

// CreateWithID builds and registers a session under id.
// An existing session with the same ID is returned unchanged.
func (m *Manager[T]) CreateWithID(ctx context.Context, id string) (string, T, error) {
	var value T
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		m.mu.Lock()
		if existing, ok := m.sessions[id]; ok {
			m.mu.Unlock()
			value = existing
			return nil
		}
		if m.limit > 0 && len(m.sessions) >= m.limit {
			m.mu.Unlock()
			return ErrSessionLimit
		}
		m.mu.Unlock()

		v, err := m.factory(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}

		m.mu.Lock()
		if m.limit > 0 && len(m.sessions) >= m.limit {
			onClose := m.onClose
			m.mu.Unlock()
			if onClose != nil {
				onClose(id, v)
			}
			return ErrSessionLimit
		}
		m.sessions[id] = v
		m.mu.Unlock()
		value = v
		return nil
	})
	if err != nil {
		var zero T
		return "", zero, err
	}
	m.logger.Debug("session created", "session_id", id)
	return id, value, nil
}

// Get returns the live session with id.
func (m *Manager[T]) Get(id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.sessions[id]
	if !ok {
		var zero T
		return zero, ErrSessionNotFound
	}
	return v, nil
}

// Delete removes the session.
func (m *Manager[T]) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		m.mu.Lock()
		v, ok := m.sessions[id]
		delete(m.sessions, id)
		onClose := m.onClose
		m.mu.Unlock()

		if !ok {
			return ErrSessionNotFound
		}
		if onClose != nil {
			onClose(id, v)
		}
		m.logger.Debug("session deleted", "session_id", id)
		return nil
	})
}

// List returns the IDs of live sessions in lexical order.
func (m *Manager[T]) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live sessions.
func (m *Manager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Do runs fn against the live session while holding its lock.
func (m *Manager[T]) Do(ctx context.Context, id string, fn func(context.Context, T) error) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		v, err := m.Get(id)
		if err != nil {
			return err
		}
		return fn(ctx, v)
	})
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager[T]) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, "lock:"+sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
