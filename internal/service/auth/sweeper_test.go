package auth

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Allow to use a function as purger
type purgeFunc func(ctx context.Context) (int64, error)

func (f purgeFunc) PurgeExpired(ctx context.Context) (int64, error) {
	return f(ctx)
}

func Test_Sweeper(t *testing.T) {
	t.Parallel()

	t.Run("purges on every tick", func(t *testing.T) {
		var calls atomic.Int64
		sweeper := NewSweeper(purgeFunc(func(ctx context.Context) (int64, error) {
			calls.Add(1)
			return 2, nil
		}), 10*time.Millisecond, nil)

		ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
		defer cancel()

		sweeper.Run(ctx)

		require.GreaterOrEqual(t, calls.Load(), int64(2), "sweeper should purge repeatedly")
	})

	t.Run("non positive interval falls back to default", func(t *testing.T) {
		noop := purgeFunc(func(ctx context.Context) (int64, error) { return 0, nil })

		for _, interval := range []time.Duration{0, -time.Minute} {
			sweeper := NewSweeper(noop, interval, nil)
			require.Equal(t, defaultSweepInterval, sweeper.interval, "interval %v should be replaced", interval)

			// Run must not panic on ticker creation
			ctx, cancel := context.WithCancel(t.Context())
			cancel()
			sweeper.Run(ctx)
		}
	})

	t.Run("stops on context cancel", func(t *testing.T) {
		sweeper := NewSweeper(purgeFunc(func(ctx context.Context) (int64, error) {
			return 0, nil
		}), time.Hour, nil)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		done := make(chan struct{})
		go func() {
			sweeper.Run(ctx)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("sweeper should stop right after the context is cancelled")
		}
	})
}
