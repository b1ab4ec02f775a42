package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoDismiss(t *testing.T) {
	n := NewNotifier()
	n.Enqueue("order placed", KindSuccess, 100*time.Millisecond)

	require.Len(t, n.Entries(), 1)
	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, n.Entries())
}

func TestNonPositiveDurationPinsEntry(t *testing.T) {
	n := NewNotifier()
	id := n.Enqueue("session expired, sign in again", KindError, 0)

	time.Sleep(50 * time.Millisecond)
	require.Len(t, n.Entries(), 1, "zero duration means no auto-dismiss")

	n.Dismiss(id)
	assert.Empty(t, n.Entries())
}

func TestDismissIsIdempotent(t *testing.T) {
	n := NewNotifier()
	id := n.Success("saved")

	n.Dismiss(id)
	n.Dismiss(id)
	assert.Empty(t, n.Entries())
}

func TestIDsUniqueUnderRapidCalls(t *testing.T) {
	n := NewNotifier()

	var mu sync.Mutex
	seen := map[uint64]bool{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := n.Enqueue("msg", KindSuccess, 0)
			mu.Lock()
			defer mu.Unlock()
			require.False(t, seen[id], "duplicate notification id")
			seen[id] = true
		}()
	}
	wg.Wait()
	assert.Len(t, n.Entries(), 50)
}

func TestOrderingAndKinds(t *testing.T) {
	n := NewNotifier()
	n.Success("added to cart")
	n.Error("out of stock")

	entries := n.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "added to cart", entries[0].Message)
	assert.Equal(t, KindSuccess, entries[0].Kind)
	assert.Equal(t, "out of stock", entries[1].Message)
	assert.Equal(t, KindError, entries[1].Kind)

	latest := n.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "out of stock", latest.Message)
}

func TestOnChangeFiresOnExpiry(t *testing.T) {
	n := NewNotifier()
	changed := make(chan struct{}, 4)
	n.SetOnChange(func() { changed <- struct{}{} })

	n.Enqueue("bye", KindSuccess, 30*time.Millisecond)
	<-changed // enqueue

	select {
	case <-changed: // expiry
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected change callback when the timer fired")
	}
	assert.Empty(t, n.Entries())
}
