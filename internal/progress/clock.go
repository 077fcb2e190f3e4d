package progress

import "time"

// DefaultInterval is the minimum time between two progress redraws.
const DefaultInterval = 250 * time.Millisecond

// Clock measures a transfer. The zero value uses time.Now.
type Clock struct {
	// Now returns the current time. Values must carry a monotonic reading
	// for ShouldRedraw to be immune to wall clock adjustments, which
	// time.Now provides.
	Now func() time.Time
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Start returns the instant a transfer starts.
func (c Clock) Start() time.Time {
	return c.now()
}

// Tick returns the current instant for redraw bookkeeping.
func (c Clock) Tick() time.Time {
	return c.now()
}

// ElapsedSeconds returns the wall clock seconds since start, or 0 if the
// wall clock has been set back past start. Throughput is always measured
// from the start of the transfer, never from the last redraw.
func (c Clock) ElapsedSeconds(start time.Time) float64 {
	// Round(0) strips the monotonic reading so the subtraction uses wall time.
	elapsed := c.now().Round(0).Sub(start.Round(0)).Seconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// ShouldRedraw reports whether at least interval has passed between last and
// now on the monotonic clock.
func ShouldRedraw(last, now time.Time, interval time.Duration) bool {
	return now.Sub(last) >= interval
}
