// Package clock abstracts wall-clock time so services and the stopwatch can be driven
// deterministically in tests.
package clock

import "time"

// Clock is the time source used across ghostlog.
type Clock interface {
	Now() time.Time
	NowUTC() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of *time.Ticker the stopwatch needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time    { return time.Now() }
func (RealClock) NowUTC() time.Time { return time.Now().UTC() }

func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// AnchorClock always reports the anchor time. Date filters build one per request or
// command so "today" and "yesterday" resolve against a single instant.
type AnchorClock struct {
	anchor time.Time
}

// NewAnchorClock anchors at t, or at the current UTC time when t is zero.
func NewAnchorClock(t time.Time) AnchorClock {
	if t.IsZero() {
		return AnchorClock{anchor: time.Now().UTC()}
	}
	return AnchorClock{anchor: t.UTC()}
}

func (c AnchorClock) Now() time.Time    { return c.anchor }
func (c AnchorClock) NowUTC() time.Time { return c.anchor.UTC() }

// NewTicker uses real time; anchoring only affects Now.
func (c AnchorClock) NewTicker(d time.Duration) Ticker { return RealClock{}.NewTicker(d) }
