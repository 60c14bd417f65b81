// Package stopwatch times an investigation so the result can be stored as a run's
// runTimeSeconds.
package stopwatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/Black-And-White-Club/ghost-log/internal/clock"
)

// TickInterval is how often a running stopwatch adds a second.
const TickInterval = time.Second

// State is a point-in-time view of the stopwatch.
type State struct {
	Running        bool   `json:"running"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
	Formatted      string `json:"formatted"`
}

// Stopwatch counts whole seconds while running. Each tick adds exactly one second, so a
// stalled process never jumps ahead on resume.
type Stopwatch struct {
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	elapsed int
	// gen changes every time the tick loop is stopped, so a tick that raced a pause is
	// dropped instead of counted.
	gen  uint64
	stop chan struct{}
	done chan struct{}
}

// New creates a stopped stopwatch at zero.
func New(clk clock.Clock, logger *slog.Logger) *Stopwatch {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stopwatch{clock: clk, logger: logger}
}

// Start resumes counting. The tick loop ends when ctx is cancelled or the stopwatch is
// paused, stopped or reset. Starting a running stopwatch does nothing.
func (s *Stopwatch) Start(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return s.stateLocked()
	}

	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	ticker := s.clock.NewTicker(TickInterval)
	go s.loop(ctx, ticker, s.gen, s.stop, s.done)

	s.logger.InfoContext(ctx, "Stopwatch started", slog.Int("elapsed_seconds", s.elapsed))
	return s.stateLocked()
}

func (s *Stopwatch) loop(ctx context.Context, ticker clock.Ticker, gen uint64, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.gen == gen {
				s.running = false
				s.gen++
			}
			s.mu.Unlock()
			return
		case <-stop:
			return
		case <-ticker.C():
			s.mu.Lock()
			if s.gen == gen {
				s.elapsed++
			}
			s.mu.Unlock()
		}
	}
}

// halt stops the tick loop and waits for it to exit.
func (s *Stopwatch) halt() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.gen++
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
}

// Pause stops counting and keeps the elapsed time.
func (s *Stopwatch) Pause() State {
	s.halt()
	return s.State()
}

// Stop pauses and returns the elapsed seconds.
func (s *Stopwatch) Stop() int {
	s.halt()
	st := s.State()
	s.logger.Info("Stopwatch stopped", slog.Int("elapsed_seconds", st.ElapsedSeconds))
	return st.ElapsedSeconds
}

// Reset stops the stopwatch and zeroes it.
func (s *Stopwatch) Reset() State {
	s.halt()
	s.mu.Lock()
	s.elapsed = 0
	st := s.stateLocked()
	s.mu.Unlock()
	return st
}

// State returns the current state.
func (s *Stopwatch) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Stopwatch) stateLocked() State {
	elapsed := s.elapsed
	return State{
		Running:        s.running,
		ElapsedSeconds: elapsed,
		Formatted:      recordsdomain.FormatRunTime(&elapsed),
	}
}

// Close stops the tick loop.
func (s *Stopwatch) Close() error {
	s.halt()
	return nil
}
