package clock

import (
	"sync"
	"time"
)

// FakeClock is a Clock whose behaviour is supplied by the test.
type FakeClock struct {
	NowFn       func() time.Time
	NowUTCFn    func() time.Time
	NewTickerFn func(d time.Duration) Ticker
}

func (f *FakeClock) Now() time.Time {
	if f.NowFn != nil {
		return f.NowFn()
	}
	return time.Now()
}

func (f *FakeClock) NowUTC() time.Time {
	if f.NowUTCFn != nil {
		return f.NowUTCFn()
	}
	if f.NowFn != nil {
		return f.NowFn().UTC()
	}
	return time.Now().UTC()
}

func (f *FakeClock) NewTicker(d time.Duration) Ticker {
	if f.NewTickerFn != nil {
		return f.NewTickerFn(d)
	}
	return RealClock{}.NewTicker(d)
}

// Fixed returns a FakeClock stopped at t.
func Fixed(t time.Time) *FakeClock {
	return &FakeClock{NowFn: func() time.Time { return t }}
}

// ManualTicker only fires when Tick is called.
type ManualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

// NewManualTicker returns a ticker with an unbuffered channel.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time)}
}

func (m *ManualTicker) C() <-chan time.Time { return m.ch }

func (m *ManualTicker) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

// Stopped reports whether Stop has been called.
func (m *ManualTicker) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// Tick delivers t and waits up to a second for a receiver to take it. It reports
// whether the tick was delivered.
func (m *ManualTicker) Tick(t time.Time) bool {
	if m.Stopped() {
		return false
	}
	select {
	case m.ch <- t:
		return true
	case <-time.After(time.Second):
		return false
	}
}
