package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/formflow/pkg/adapters/memory"
	"github.com/aretw0/formflow/pkg/ports"
	contract "github.com/aretw0/formflow/pkg/ports/tests"
)

func TestLocker_FormLockerContract(t *testing.T) {
	ports.RunFormLockerContract(t, memory.NewLocker())
}

func TestLocker_DistributedLockerContract(t *testing.T) {
	contract.DistributedLockerContractTest(t, memory.NewLocker())
}

func TestLocker_LeaseExpires(t *testing.T) {
	l := memory.NewLocker()
	ctx := context.Background()

	_, err := l.TryLock(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, l.Held("k"))

	require.Eventually(t, func() bool { return !l.Held("k") }, time.Second, 5*time.Millisecond)

	unlock, err := l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err, "expired lease must not block a new holder")
	require.NoError(t, unlock(ctx))
}

func TestLocker_StaleUnlockIgnored(t *testing.T) {
	l := memory.NewLocker()
	ctx := context.Background()

	stale, err := l.TryLock(ctx, "k", 10*time.Millisecond)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return !l.Held("k") }, time.Second, 5*time.Millisecond)

	_, err = l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	assert.True(t, l.Held("k"), "old holder must not release the new lease")
}

func TestLoader_Flows(t *testing.T) {
	loader := memory.NewLoader()
	_, err := loader.Flows(context.Background())
	assert.Error(t, err)
}
