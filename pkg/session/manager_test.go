package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/session"
)

// counter simulates a slow mutable session value to provoke race conditions if locking is missing.
type counter struct {
	n int
}

func TestManager_Locking(t *testing.T) {
	manager := session.NewManager(func(context.Context, string) (*counter, error) {
		return &counter{}, nil
	})
	ctx := context.Background()

	id, _, err := manager.Create(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	workers := 10
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			err := manager.Do(ctx, id, func(ctx context.Context, c *counter) error {
				current := c.n
				time.Sleep(5 * time.Millisecond) // Simulate IO between read and write
				c.n = current + 1
				return nil
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	c, err := manager.Get(id)
	require.NoError(t, err)
	assert.Equal(t, workers, c.n, "Counter should match number of workers (no lost updates)")
}

func TestManager_CreateGetDelete(t *testing.T) {
	var closed []string
	manager := session.NewManager(func(_ context.Context, id string) (string, error) {
		return "value-" + id, nil
	})
	manager.OnClose(func(id, _ string) { closed = append(closed, id) })
	ctx := context.Background()

	id, v, err := manager.CreateWithID(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
	assert.Equal(t, "value-abc", v)

	// Creating the same ID returns the live value.
	_, again, err := manager.CreateWithID(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, v, again)
	assert.Equal(t, []string{"abc"}, manager.List())

	require.NoError(t, manager.Delete(ctx, "abc"))
	assert.Equal(t, []string{"abc"}, closed)

	_, err = manager.Get("abc")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.ErrorIs(t, manager.Delete(ctx, "abc"), session.ErrSessionNotFound)
}

func TestManager_RandomIDs(t *testing.T) {
	manager := session.NewManager(func(context.Context, string) (int, error) { return 1, nil })
	a, _, err := manager.Create(context.Background())
	require.NoError(t, err)
	b, _, err := manager.Create(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestManager_Limit(t *testing.T) {
	manager := session.NewManager(func(context.Context, string) (int, error) { return 1, nil }, session.WithLimit(1))
	ctx := context.Background()

	_, _, err := manager.Create(ctx)
	require.NoError(t, err)
	_, _, err = manager.Create(ctx)
	assert.ErrorIs(t, err, session.ErrSessionLimit)
}

func TestManager_LimitUnderConcurrentCreate(t *testing.T) {
	const callers = 5
	var arrived sync.WaitGroup
	arrived.Add(callers)
	manager := session.NewManager(func(context.Context, string) (int, error) {
		arrived.Done()
		arrived.Wait()
		return 1, nil
	}, session.WithLimit(1))

	var closed sync.WaitGroup
	closed.Add(callers - 1)
	manager.OnClose(func(string, int) { closed.Done() })

	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, _, err := manager.Create(context.Background())
			errs <- err
		}()
	}

	rejected := 0
	for i := 0; i < callers; i++ {
		if err := <-errs; err != nil {
			assert.ErrorIs(t, err, session.ErrSessionLimit)
			rejected++
		}
	}
	closed.Wait()
	assert.Equal(t, callers-1, rejected)
	assert.Equal(t, 1, manager.Len())
}

func TestManager_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	manager := session.NewManager(func(context.Context, string) (int, error) { return 0, boom })

	_, _, err := manager.Create(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, manager.Len())
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := memory.NewLocker()
	manager := session.NewManager(func(context.Context, string) (int, error) { return 1, nil },
		session.WithLocker(locker),
		session.WithLockTTL(time.Second),
	)
	ctx := context.Background()

	id, _, err := manager.Create(ctx)
	require.NoError(t, err)

	err = manager.Do(ctx, id, func(context.Context, int) error {
		assert.True(t, locker.Held("lock:"+id), "distributed lock should be held inside Do")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, locker.Held("lock:"+id))
}
