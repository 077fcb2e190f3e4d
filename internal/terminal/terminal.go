// Package terminal detects what the attached terminal supports and drives
// the Windows Terminal tab progress indicator.
package terminal

import (
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Escape sequences for the tab progress indicator (OSC 9;4).
const (
	indeterminate = "\x1b]9;4;3\x1b\\"
	clearProgress = "\x1b]9;4;0\x1b\\"
)

// Profile describes the terminal. It is computed once at startup.
type Profile struct {
	// TabProgress is set when running inside Windows Terminal, which shows
	// OSC 9;4 progress on the tab.
	TabProgress bool
	// Interactive is set when the progress stream is a terminal.
	Interactive bool
}

// Detect builds a Profile from the environment and the progress stream f.
func Detect(lookupEnv func(string) (string, bool), f *os.File) Profile {
	_, wt := lookupEnv("WT_SESSION")
	return Profile{
		TabProgress: wt,
		Interactive: f != nil && term.IsTerminal(int(f.Fd())),
	}
}

// Indicator shows an indeterminate progress state on the terminal tab while
// network work is in flight. It writes nothing unless the profile supports
// tab progress. Safe for concurrent use.
type Indicator struct {
	out     io.Writer
	enabled bool

	mu      sync.Mutex
	running bool
}

// NewIndicator returns an indicator writing to out.
func NewIndicator(out io.Writer, p Profile) *Indicator {
	return &Indicator{out: out, enabled: p.TabProgress}
}

// Start shows the indicator.
func (i *Indicator) Start() {
	i.set(true)
}

// Stop clears the indicator.
func (i *Indicator) Stop() {
	i.set(false)
}

func (i *Indicator) set(on bool) {
	if !i.enabled {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.running == on {
		return
	}
	seq := clearProgress
	if on {
		seq = indeterminate
	}
	io.WriteString(i.out, seq)
	i.running = on
}
