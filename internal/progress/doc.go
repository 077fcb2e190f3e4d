// Package progress formats and displays transfer progress.
//
// It holds the unit formatter (FormatSize, FormatRate, FormatDuration), the
// transfer clock used to throttle redraws, and the displays that draw a
// Snapshot on the error stream.
//
// # Output Format
//
//	Total Size: 1.00 GiB / Downloaded: 512.00 MiB [536870912 / 1073741824] - 80.00 Mbps - ETA 00:53
//	Total Size: unknown / Downloaded: 512.00 MiB [536870912] - 80.00 Mbps
//
// The line starts with a carriage return and is redrawn in place. A shorter
// line is padded with spaces to the width of the previous one.
//
// Sizes use binary units (KiB, MiB, ...) while rates use decimal bit units
// (Kbps, Mbps, ...).
package progress
