package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerRunsLastTriggerOnce(t *testing.T) {
	sch := &manualScheduler{}
	d := NewDebouncer(300*time.Millisecond, sch.schedule)

	var calls []string
	d.Trigger(func() { calls = append(calls, "s") })
	d.Trigger(func() { calls = append(calls, "si") })
	d.Trigger(func() { calls = append(calls, "silk") })

	require.Len(t, sch.pending(), 1)
	assert.Equal(t, 300*time.Millisecond, sch.pending()[0].delay)
	assert.True(t, d.Pending())

	assert.Equal(t, 1, sch.fire())
	assert.Equal(t, []string{"silk"}, calls)
	assert.False(t, d.Pending())
	assert.Zero(t, sch.fire())
}

func TestDebouncerStop(t *testing.T) {
	sch := &manualScheduler{}
	d := NewDebouncer(time.Second, sch.schedule)

	ran := false
	d.Trigger(func() { ran = true })
	d.Stop()

	assert.Zero(t, sch.fire())
	assert.False(t, ran)
}

func TestDebouncerIgnoresStaleCallback(t *testing.T) {
	sch := &manualScheduler{}
	d := NewDebouncer(time.Second, sch.schedule)

	ran := 0
	d.Trigger(func() { ran++ })
	stale := sch.pending()[0]
	d.Trigger(func() { ran += 10 })

	// a timer that could not be cancelled in time still must not run
	stale.fn()
	assert.Zero(t, ran)

	sch.fire()
	assert.Equal(t, 10, ran)
}

func TestDebouncerZeroIntervalRunsImmediately(t *testing.T) {
	d := NewDebouncer(0, nil)
	ran := false
	d.Trigger(func() { ran = true })
	assert.True(t, ran)
}

func TestDebouncerWithRuntimeTimer(t *testing.T) {
	d := NewDebouncer(20*time.Millisecond, nil)
	var n atomic.Int32
	done := make(chan struct{})
	for range 5 {
		d.Trigger(func() {
			n.Add(1)
			close(done)
		})
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced callback did not run")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), n.Load())
}
