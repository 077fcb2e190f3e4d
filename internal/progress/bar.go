package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// BarDisplay draws a progress bar instead of a status line. With an unknown
// total the bar degrades to a spinner.
type BarDisplay struct {
	w io.Writer

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewBarDisplay creates a bar for a transfer of total bytes (0 if unknown).
// ansi enables ANSI line clearing and should only be set when w is a
// terminal.
func NewBarDisplay(w io.Writer, total uint64, ansi bool) *BarDisplay {
	max := int64(-1)
	if total > 0 {
		max = int64(total)
	}

	bar := progressbar.NewOptions64(max,
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionUseANSICodes(ansi),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)

	return &BarDisplay{w: w, bar: bar}
}

// Update implements Display.
func (d *BarDisplay) Update(s Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s.Total > 0 {
		d.bar.Describe(fmt.Sprintf("%s / %s - %s - ETA %s",
			FormatSize(s.Transferred), FormatSize(s.Total), s.Rate(), s.ETA()))
	} else {
		d.bar.Describe(fmt.Sprintf("%s - %s", FormatSize(s.Transferred), s.Rate()))
	}
	_ = d.bar.Set64(int64(s.Transferred))
}

// Done implements Display. The bar is left at its last value so a short
// transfer is not shown as complete.
func (d *BarDisplay) Done() {
	d.mu.Lock()
	defer d.mu.Unlock()

	_ = d.bar.Exit()
	fmt.Fprintln(d.w)
}
