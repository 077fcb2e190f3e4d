package progress

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ZeroRate is returned by FormatRate when no time has elapsed yet.
const ZeroRate = "0 bps"

// Binary size ladder.
const (
	KiB uint64 = 1024
	MiB        = KiB * 1024
	GiB        = MiB * 1024
	TiB        = GiB * 1024
	PiB        = TiB * 1024
)

// Decimal rate ladder, in bits per second.
const (
	kbps = 1000.0
	mbps = kbps * 1000
	gbps = mbps * 1000
	tbps = gbps * 1000
	pbps = tbps * 1000
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
)

// DurationStyle selects how FormatDuration lays out its result.
type DurationStyle int

const (
	// Narrative renders "1 hour, 0 minutes, 5 seconds".
	Narrative DurationStyle = iota
	// Compact renders "01:00:05".
	Compact
)

// FormatSize formats a byte count using binary (1024) units.
func FormatSize(b uint64) string {
	switch {
	case b >= PiB:
		return fmt.Sprintf("%.2f PiB", float64(b)/float64(PiB))
	case b >= TiB:
		return fmt.Sprintf("%.2f TiB", float64(b)/float64(TiB))
	case b >= GiB:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(GiB))
	case b >= MiB:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(MiB))
	case b >= KiB:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(KiB))
	default:
		return fmt.Sprintf("%d Bytes", b)
	}
}

// FormatRate formats the average throughput of b bytes over seconds as a
// bit rate using decimal (1000) units.
func FormatRate(b uint64, seconds float64) string {
	if seconds <= 0 {
		return ZeroRate
	}

	bps := float64(b) * 8 / seconds

	switch {
	case bps >= pbps:
		return fmt.Sprintf("%.2f Pbps", bps/pbps)
	case bps >= tbps:
		return fmt.Sprintf("%.2f Tbps", bps/tbps)
	case bps >= gbps:
		return fmt.Sprintf("%.2f Gbps", bps/gbps)
	case bps >= mbps:
		return fmt.Sprintf("%.2f Mbps", bps/mbps)
	case bps >= kbps:
		return fmt.Sprintf("%.2f Kbps", bps/kbps)
	default:
		return fmt.Sprintf("%.0f bps", bps)
	}
}

// FormatElapsed formats d rounded down to whole seconds. Negative
// durations, seen when the wall clock steps back, format as zero.
func FormatElapsed(d time.Duration, style DurationStyle) string {
	if d < 0 {
		d = 0
	}
	return FormatDuration(uint64(d/time.Second), style)
}

// FormatDuration formats a whole number of seconds.
func FormatDuration(seconds uint64, style DurationStyle) string {
	days := seconds / secondsPerDay
	rem := seconds % secondsPerDay
	hours := rem / secondsPerHour
	rem %= secondsPerHour
	minutes := rem / secondsPerMinute
	secs := rem % secondsPerMinute

	if style == Compact {
		switch {
		case days > 0:
			return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, minutes, secs)
		case hours > 0:
			return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
		default:
			return fmt.Sprintf("%02d:%02d", minutes, secs)
		}
	}

	// Leading zero components are dropped; everything after the first
	// non-zero component is kept.
	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if len(parts) > 0 || hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if len(parts) > 0 || minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	parts = append(parts, plural(secs, "second"))

	return strings.Join(parts, ", ")
}

func plural(n uint64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Timestamp formats t in local time the way transfer start and end are
// announced, e.g. "Sat Jan 04 15:04:05 2025".
func Timestamp(t time.Time) string {
	return t.Local().Format("Mon Jan 02 15:04:05 2006")
}

// ParseBytes parses a human-readable byte string (e.g., "16KiB", "1MB").
// Binary suffixes (KiB, MiB, ...) are powers of 1024, SI suffixes powers of
// 1000.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)

	suffixes := []struct {
		suffix     string
		multiplier int64
	}{
		{"TiB", int64(TiB)},
		{"GiB", int64(GiB)},
		{"MiB", int64(MiB)},
		{"KiB", int64(KiB)},
		{"TB", 1000 * 1000 * 1000 * 1000},
		{"GB", 1000 * 1000 * 1000},
		{"MB", 1000 * 1000},
		{"KB", 1000},
		{"B", 1},
	}

	var multiplier int64 = 1
	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx.suffix) {
			multiplier = sfx.multiplier
			s = strings.TrimSpace(strings.TrimSuffix(s, sfx.suffix))
			break
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}

	size := value * float64(multiplier)
	if size >= math.MaxInt64 {
		return 0, fmt.Errorf("byte string out of range: %s", s)
	}

	return int64(size), nil
}
