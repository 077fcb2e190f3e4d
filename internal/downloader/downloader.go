package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ligustah/windl/internal/failure"
	"github.com/ligustah/windl/internal/progress"
)

// DefaultBufferSize is the size of a single chunk read from the source.
const DefaultBufferSize = 16 * 1024

// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
const maxEmptyReads = 100

// State is the state of a transfer.
type State int

const (
	// Idle means the transfer has not started.
	Idle State = iota
	// Transferring means chunks are being copied.
	Transferring
	// Completed means the stream ended and the byte count is consistent
	// with the advertised size.
	Completed
	// Failed means a read, write or size check failed.
	Failed
	// Cancelled means the transfer context was cancelled between chunks.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Transferring:
		return "transferring"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options configures a transfer.
type Options struct {
	// TotalBytes is the advertised size of the stream, 0 if unknown.
	TotalBytes uint64

	// BufferSize is the maximum chunk size.
	// Default: 16 KiB
	BufferSize int

	// Interval is the minimum time between two display updates.
	// Default: 250ms
	Interval time.Duration

	// Display receives progress updates. Default: progress.Discard
	Display progress.Display

	// Clock is the time source. Default: time.Now
	Clock progress.Clock

	// Logger receives debug output. Default: discard
	Logger *slog.Logger
}

// Result describes a finished transfer.
type Result struct {
	State       State
	Transferred uint64
	Total       uint64
	Elapsed     time.Duration
}

// state is owned by a single Transfer call.
type state struct {
	transferred uint64
	total       uint64
	start       time.Time
	lastRender  time.Time
}

// Transfer copies src to dst chunk by chunk, updating opts.Display at most
// once per opts.Interval and once more when the stream ends.
//
// The returned error is a *failure.Error for Failed transfers and the
// context's cause for Cancelled ones. The Result is valid in every case.
// Bytes already written to dst are never rolled back.
func Transfer(ctx context.Context, src io.Reader, dst io.Writer, opts Options) (Result, error) {
	// Apply defaults
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.Interval <= 0 {
		opts.Interval = progress.DefaultInterval
	}
	if opts.Display == nil {
		opts.Display = progress.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	buf := make([]byte, opts.BufferSize)
	st := state{total: opts.TotalBytes}
	st.start = opts.Clock.Start()
	st.lastRender = st.start

	result := func(s State) Result {
		return Result{
			State:       s,
			Transferred: st.transferred,
			Total:       st.total,
			Elapsed:     time.Duration(opts.Clock.ElapsedSeconds(st.start) * float64(time.Second)),
		}
	}

	log := opts.Logger.With("total", st.total, "buffer", opts.BufferSize)
	log.Debug("transfer started")

	empty := 0
	for {
		if err := ctx.Err(); err != nil {
			log.Debug("transfer cancelled", "transferred", st.transferred)
			return result(Cancelled), context.Cause(ctx)
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			empty = 0
			nw, writeErr := dst.Write(buf[:n])
			if writeErr == nil && nw != n {
				writeErr = io.ErrShortWrite
			}
			if writeErr != nil {
				log.Debug("write failed", "transferred", st.transferred, "error", writeErr)
				return result(Failed), failure.New(failure.WriteFailed, "write", writeErr)
			}

			st.transferred += uint64(n)

			now := opts.Clock.Tick()
			if progress.ShouldRedraw(st.lastRender, now, opts.Interval) {
				opts.Display.Update(snapshot(opts.Clock, &st))
				st.lastRender = now
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			if ctx.Err() != nil {
				log.Debug("transfer cancelled during read", "transferred", st.transferred)
				return result(Cancelled), context.Cause(ctx)
			}
			return result(Failed), failure.New(failure.ReadFailed, "read", readErr)
		}
		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return result(Failed), failure.New(failure.ReadFailed, "read", io.ErrNoProgress)
			}
		}
	}

	// The last redraw is unconditional so the counters show the final
	// state before any terminal message.
	opts.Display.Update(snapshot(opts.Clock, &st))

	if st.total != 0 && st.transferred != st.total {
		log.Debug("size mismatch", "transferred", st.transferred)
		return result(Failed), &failure.Error{
			Kind: failure.SizeMismatch,
			Op:   "transfer",
			Err:  &SizeMismatchError{Expected: st.total, Got: st.transferred},
		}
	}

	log.Debug("transfer completed", "transferred", st.transferred)
	return result(Completed), nil
}

func snapshot(clock progress.Clock, st *state) progress.Snapshot {
	return progress.Snapshot{
		Transferred: st.transferred,
		Total:       st.total,
		Elapsed:     clock.ElapsedSeconds(st.start),
	}
}

// SizeMismatchError reports a stream that ended at a different byte count
// than advertised.
type SizeMismatchError struct {
	Expected uint64
	Got      uint64
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("expected %d bytes, got %d bytes", e.Expected, e.Got)
}
