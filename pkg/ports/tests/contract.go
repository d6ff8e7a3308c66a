package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/formflow/pkg/ports"
)

// DistributedLockerContractTest is a reusable test suite that verifies if an adapter complies with ports.DistributedLocker.
func DistributedLockerContractTest(t *testing.T, locker ports.DistributedLocker) {
	t.Helper()

	// 1. Lock and Unlock
	t.Run("Lock_Unlock", func(t *testing.T) {
		ctx := context.Background()
		unlock, err := locker.Lock(ctx, "contract-basic", time.Second)
		if err != nil {
			t.Fatalf("unexpected error acquiring lock: %v", err)
		}
		if err := unlock(ctx); err != nil {
			t.Errorf("unexpected error releasing lock: %v", err)
		}
	})

	// 2. Mutual exclusion
	t.Run("Serializes_Holders", func(t *testing.T) {
		ctx := context.Background()
		var (
			mu      sync.Mutex
			inside  int
			maxSeen int
			wg      sync.WaitGroup
		)
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(ctx, "contract-mutex", 5*time.Second)
				if err != nil {
					t.Errorf("lock failed: %v", err)
					return
				}
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(20 * time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				_ = unlock(ctx)
			}()
		}
		wg.Wait()
		if maxSeen != 1 {
			t.Errorf("expected at most one holder at a time, saw %d", maxSeen)
		}
	})

	// 3. Cancellation while waiting
	t.Run("Lock_Canceled", func(t *testing.T) {
		ctx := context.Background()
		unlock, err := locker.Lock(ctx, "contract-cancel", 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error acquiring lock: %v", err)
		}
		defer func() { _ = unlock(ctx) }()

		waitCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
		defer cancel()
		if _, err := locker.Lock(waitCtx, "contract-cancel", 5*time.Second); err == nil {
			t.Error("expected error when context ends while waiting, got nil")
		}
	})
}
