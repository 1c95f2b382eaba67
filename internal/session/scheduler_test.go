package session

import (
	"sync"
	"time"
)

type fakeTimer struct {
	fn      func()
	delay   time.Duration
	stopped bool
	fired   bool
}

// manualScheduler only runs callbacks when fire is called.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (m *manualScheduler) schedule(d time.Duration, fn func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &fakeTimer{fn: fn, delay: d}
	m.timers = append(m.timers, t)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		pending := !t.stopped && !t.fired
		t.stopped = true
		return pending
	}
}

func (m *manualScheduler) pending() []*fakeTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*fakeTimer
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs every pending callback and returns how many ran.
func (m *manualScheduler) fire() int {
	due := m.pending()
	m.mu.Lock()
	for _, t := range due {
		t.fired = true
	}
	m.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
	return len(due)
}
