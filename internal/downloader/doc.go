// Package downloader runs the chunked transfer loop of a single download.
//
// Transfer reads a bounded chunk from the remote stream, writes it to the
// destination in full, updates the byte counter and redraws the progress
// display on a fixed cadence. It decides the terminal state of the
// download:
//
//	Idle -> Transferring -> Completed | Failed | Cancelled
//
// A clean end of stream completes the transfer when the advertised size is
// unknown (0) or matches the byte count. Any other count is a size
// mismatch, even though the stream itself ended without error.
//
// # Cancellation
//
// InterruptBridge converts SIGINT/SIGTERM into context cancellation with
// cause ErrInterrupted. The loop checks the context between chunks and
// reports Cancelled. The destination is left with whatever was written.
package downloader
