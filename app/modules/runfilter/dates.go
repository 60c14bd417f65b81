package runfilter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/Black-And-White-Club/ghost-log/internal/clock"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognizedDate is returned when a date input cannot be resolved.
var ErrUnrecognizedDate = errors.New("unrecognized date")

// DateParser resolves date filter input like "today", "last friday" or "2026-10-19" to a
// run date string.
type DateParser struct {
	w     *when.Parser
	clock clock.Clock
}

// NewDateParser creates a parser relative to clk. A nil clock uses the real one.
func NewDateParser(clk clock.Clock) *DateParser {
	if clk == nil {
		clk = clock.RealClock{}
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &DateParser{w: w, clock: clk}
}

// AnchoredDateParser returns a parser fixed at clk's current instant, so every input
// parsed by it resolves against the same "now". A nil clock uses the real one.
func AnchoredDateParser(clk clock.Clock) *DateParser {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return NewDateParser(clock.NewAnchorClock(clk.NowUTC()))
}

// Parse returns the UTC calendar date for input. Blank input and "all" resolve to ""
// (no constraint).
func (p *DateParser) Parse(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, All) {
		return "", nil
	}
	if t, err := time.Parse(recordsdomain.DateLayout, input); err == nil {
		return t.Format(recordsdomain.DateLayout), nil
	}

	r, err := p.w.Parse(strings.ToLower(input), p.clock.NowUTC())
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrUnrecognizedDate, input, err)
	}
	if r == nil {
		return "", fmt.Errorf("%w %q", ErrUnrecognizedDate, input)
	}
	return r.Time.UTC().Format(recordsdomain.DateLayout), nil
}
