package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColdKeyFetchesOnce(t *testing.T) {
	var calls int32
	q := NewQueryCache(time.Minute, func(ctx context.Context, key string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "data:" + key, nil
	})

	got, err := q.Get(context.Background(), "categories")
	require.NoError(t, err)
	assert.Equal(t, "data:categories", got)

	// Fresh cache: no second request
	got, err = q.Get(context.Background(), "categories")
	require.NoError(t, err)
	assert.Equal(t, "data:categories", got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, state, _, ok := q.Lookup("categories")
	assert.True(t, ok)
	assert.Equal(t, StateSuccess, state)
}

func TestDistinctKeysFetchIndependently(t *testing.T) {
	var calls int32
	q := NewQueryCache(time.Minute, func(ctx context.Context, key string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return key, nil
	})

	_, err := q.Get(context.Background(), "products?categoryId=1&page=1")
	require.NoError(t, err)
	_, err = q.Get(context.Background(), "products?categoryId=2&page=1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestStaleWhileRevalidate(t *testing.T) {
	var calls int32
	q := NewQueryCache(20*time.Millisecond, func(ctx context.Context, key string) (string, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return "old", nil
		}
		return "fresh", nil
	})

	got, err := q.Get(context.Background(), "k")
	require.NoError(t, err)
	require.Equal(t, "old", got)

	time.Sleep(30 * time.Millisecond) // past the window

	// Stale access still serves the last known data immediately
	got, err = q.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "old", got)

	// ...while the background refetch replaces it
	assert.Eventually(t, func() bool {
		data, _, _, ok := q.Lookup("k")
		return ok && data == "fresh"
	}, time.Second, 5*time.Millisecond)
}

func TestSingleAutomaticRetry(t *testing.T) {
	var calls int32
	boom := errors.New("boom")
	q := NewQueryCache(time.Minute, func(ctx context.Context, key string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", boom
	})

	_, err := q.Get(context.Background(), "k")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "exactly one automatic retry")

	_, state, lookErr, _ := q.Lookup("k")
	assert.Equal(t, StateError, state)
	assert.ErrorIs(t, lookErr, boom)
}

func TestManualRefetchRecovers(t *testing.T) {
	var calls int32
	q := NewQueryCache(time.Minute, func(ctx context.Context, key string) (string, error) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			return "", errors.New("down")
		}
		return "up", nil
	})

	_, err := q.Get(context.Background(), "k")
	require.Error(t, err)

	got, err := q.Refetch(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "up", got)

	_, state, _, _ := q.Lookup("k")
	assert.Equal(t, StateSuccess, state)
}

func TestStaleResponseDoesNotCrossKeys(t *testing.T) {
	// A slow response for category A lands after the user switched to B.
	// It must only update A's entry.
	release := make(chan struct{})
	q := NewQueryCache(time.Minute, func(ctx context.Context, key string) (string, error) {
		if key == "products?categoryId=A" {
			<-release
			return "A-data", nil
		}
		return "B-data", nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = q.Get(context.Background(), "products?categoryId=A")
	}()

	got, err := q.Get(context.Background(), "products?categoryId=B")
	require.NoError(t, err)
	require.Equal(t, "B-data", got)

	close(release)
	<-done

	bData, _, _, ok := q.Lookup("products?categoryId=B")
	require.True(t, ok)
	assert.Equal(t, "B-data", bData, "late A response must not overwrite B")

	aData, _, _, ok := q.Lookup("products?categoryId=A")
	require.True(t, ok)
	assert.Equal(t, "A-data", aData)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	var calls int32
	q := NewQueryCache(time.Minute, func(ctx context.Context, key string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "v", nil
	})

	_, err := q.Get(context.Background(), "k")
	require.NoError(t, err)
	q.Invalidate("k")

	_, _, _, ok := q.Lookup("k")
	assert.False(t, ok)

	_, err = q.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
