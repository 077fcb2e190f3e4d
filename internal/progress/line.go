package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// unknownETA is shown while no throughput has been measured yet.
const unknownETA = "--:--"

// Snapshot is the transfer state at the moment of a redraw.
type Snapshot struct {
	// Transferred is the number of bytes written to the destination.
	Transferred uint64
	// Total is the advertised size, 0 when the server did not send one.
	Total uint64
	// Elapsed is the number of seconds since the transfer started.
	Elapsed float64
}

// Rate returns the formatted average bit rate.
func (s Snapshot) Rate() string {
	return FormatRate(s.Transferred, s.Elapsed)
}

// ETA returns the estimated remaining time in compact form.
func (s Snapshot) ETA() string {
	if s.Total == 0 || s.Elapsed <= 0 || s.Transferred == 0 {
		return unknownETA
	}
	if s.Transferred >= s.Total {
		return FormatDuration(0, Compact)
	}
	perSecond := float64(s.Transferred) / s.Elapsed
	remaining := float64(s.Total-s.Transferred) / perSecond
	return FormatDuration(uint64(remaining+0.5), Compact)
}

// Line returns the status line for s, including the leading carriage return.
func (s Snapshot) Line() string {
	if s.Total > 0 {
		return fmt.Sprintf("\rTotal Size: %s / Downloaded: %s [%d / %d] - %s - ETA %s",
			FormatSize(s.Total),
			FormatSize(s.Transferred),
			s.Total,
			s.Transferred,
			s.Rate(),
			s.ETA(),
		)
	}
	return fmt.Sprintf("\rTotal Size: unknown / Downloaded: %s [%d] - %s",
		FormatSize(s.Transferred),
		s.Transferred,
		s.Rate(),
	)
}

// Render writes the status line for s to w. When the new line is shorter
// than prevLen it is padded with spaces so no characters of the previous
// line stay visible. It returns the length of the new line, which callers
// pass back as prevLen on the next call.
func Render(w io.Writer, prevLen int, s Snapshot) (int, error) {
	line := s.Line()
	n := len(line)
	if n < prevLen {
		line += strings.Repeat(" ", prevLen-n)
	}
	if _, err := io.WriteString(w, line); err != nil {
		return prevLen, err
	}
	return n, nil
}

// Display receives progress updates from a transfer.
type Display interface {
	// Update redraws the progress. Callers decide how often.
	Update(s Snapshot)
	// Done ends the progress output so further messages start on a fresh
	// line.
	Done()
}

// LineDisplay redraws a single status line in place.
type LineDisplay struct {
	w io.Writer

	mu      sync.Mutex
	prevLen int
}

// NewLineDisplay creates a display writing to w, normally the error stream.
func NewLineDisplay(w io.Writer) *LineDisplay {
	return &LineDisplay{w: w}
}

// Update implements Display.
func (d *LineDisplay) Update(s Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// A failing error stream is not a reason to abort the transfer.
	d.prevLen, _ = Render(d.w, d.prevLen, s)
}

// Done implements Display.
func (d *LineDisplay) Done() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.prevLen > 0 {
		fmt.Fprintln(d.w)
	}
	d.prevLen = 0
}

// SyncWriter serializes writes to w. Writers sharing the error stream with
// a display from other goroutines go through one SyncWriter so a status
// line and a message never interleave within a single write.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w.
func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

// Write implements io.Writer.
func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Discard is a Display that drops every update.
var Discard Display = discard{}

type discard struct{}

func (discard) Update(Snapshot) {}
func (discard) Done()           {}
