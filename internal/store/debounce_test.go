package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommitAfterQuiescence(t *testing.T) {
	committed := make(chan string, 1)
	d := NewDebouncer(30*time.Millisecond, func(v string) { committed <- v })

	d.Set("u")
	d.Set("up")
	d.Set("ups")
	assert.Equal(t, "", d.Value(), "raw input must not commit early")
	assert.Equal(t, "ups", d.Raw())

	select {
	case v := <-committed:
		assert.Equal(t, "ups", v)
	case <-time.After(time.Second):
		t.Fatal("expected a commit after quiescence")
	}
	assert.Equal(t, "ups", d.Value())
}

func TestTypingResetsTimer(t *testing.T) {
	committed := make(chan string, 4)
	d := NewDebouncer(50*time.Millisecond, func(v string) { committed <- v })

	// Keep typing faster than the window: nothing commits
	for i := 0; i < 4; i++ {
		d.Set("tower")
		time.Sleep(20 * time.Millisecond)
	}
	select {
	case v := <-committed:
		t.Fatalf("commit %q arrived while input was still active", v)
	default:
	}

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, "tower", d.Value())
}

func TestFlushCommitsImmediately(t *testing.T) {
	d := NewDebouncer(time.Hour, nil)
	d.Set("battery")
	d.Flush()
	assert.Equal(t, "battery", d.Value())
}

func TestRepeatedValueDoesNotRecommit(t *testing.T) {
	committed := make(chan string, 2)
	d := NewDebouncer(10*time.Millisecond, func(v string) { committed <- v })

	d.Set("apc")
	time.Sleep(40 * time.Millisecond)
	d.Set("apc") // same value again
	time.Sleep(40 * time.Millisecond)

	assert.Len(t, committed, 1, "identical value must not fire onCommit twice")
}

func TestStopCancelsPendingCommit(t *testing.T) {
	d := NewDebouncer(20*time.Millisecond, nil)
	d.Set("eaton")
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "", d.Value())
}
