package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFormLockerContract runs a suite of tests to verify that a FormLocker implementation
// adheres to the defined interface contract.
func RunFormLockerContract(t *testing.T, locker FormLocker) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405.000000000")

	t.Run("Acquire and Release", func(t *testing.T) {
		unlock, err := locker.TryLock(ctx, key, time.Minute)
		require.NoError(t, err, "TryLock on a free key should succeed")
		require.NotNil(t, unlock)

		require.NoError(t, unlock(ctx), "unlock should not return error")

		// Free again after release
		unlock, err = locker.TryLock(ctx, key, time.Minute)
		require.NoError(t, err, "TryLock after release should succeed")
		require.NoError(t, unlock(ctx))
	})

	t.Run("Held Key Is Rejected", func(t *testing.T) {
		unlock, err := locker.TryLock(ctx, key, time.Minute)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		_, err = locker.TryLock(ctx, key, time.Minute)
		assert.ErrorIs(t, err, ErrLockHeld)
	})

	t.Run("Keys Are Independent", func(t *testing.T) {
		unlockA, err := locker.TryLock(ctx, key+":a", time.Minute)
		require.NoError(t, err)
		defer func() { _ = unlockA(ctx) }()

		unlockB, err := locker.TryLock(ctx, key+":b", time.Minute)
		require.NoError(t, err, "a different key must not be blocked")
		require.NoError(t, unlockB(ctx))
	})

	t.Run("Double Unlock Is Harmless", func(t *testing.T) {
		unlock, err := locker.TryLock(ctx, key+":double", time.Minute)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
		assert.NoError(t, unlock(ctx))
	})
}
