package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/formflow/pkg/adapters/redis"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/aretw0/formflow/pkg/ports/tests"
)

func newLocker(t *testing.T, opts ...redis.Option) (*redis.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisLocker_FormLockerContract(t *testing.T) {
	locker, _ := newLocker(t)
	ports.RunFormLockerContract(t, locker)
}

func TestRedisLocker_DistributedLockerContract(t *testing.T) {
	locker, _ := newLocker(t)
	tests.DistributedLockerContractTest(t, locker)
}

func TestRedisLocker_KeyLayout(t *testing.T) {
	locker, mr := newLocker(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	unlock, err := locker.TryLock(ctx, "session:s1:form_a", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:session:s1:form_a"))
	assert.Greater(t, mr.TTL("test:lock:session:s1:form_a"), time.Duration(0))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:session:s1:form_a"))
}

func TestRedisLocker_LeaseExpires(t *testing.T) {
	locker, mr := newLocker(t)
	ctx := context.Background()

	stale, err := locker.TryLock(ctx, "k", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	fresh, err := locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err, "an expired lease can be taken over")

	// The stale holder must not release the new lease.
	require.NoError(t, stale(ctx))
	_, err = locker.TryLock(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ports.ErrLockHeld)

	require.NoError(t, fresh(ctx))
}

func TestRedisLocker_Contention(t *testing.T) {
	locker, _ := newLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = locker.Lock(waitCtx, "shared", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond, "should block until timeout")

	require.NoError(t, unlock(ctx))
	unlock, err = locker.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestRedisLocker_Unreachable(t *testing.T) {
	locker, mr := newLocker(t)
	mr.Close()

	_, err := locker.TryLock(context.Background(), "k", time.Second)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrLockHeld)
}
