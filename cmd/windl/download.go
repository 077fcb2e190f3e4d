package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ligustah/windl/internal/config"
	"github.com/ligustah/windl/internal/dest"
	"github.com/ligustah/windl/internal/downloader"
	"github.com/ligustah/windl/internal/failure"
	"github.com/ligustah/windl/internal/progress"
	"github.com/ligustah/windl/internal/source"
	"github.com/ligustah/windl/internal/terminal"
)

// download runs a single download and returns an *exitError unless it
// completed.
func (a *app) download(cfg config.Config, rawURL string) error {
	agent := cfg.UserAgent
	// The interrupt notice is written from the bridge goroutine.
	stderr := progress.NewSyncWriter(a.stderr)
	level, _ := cfg.Level()
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := source.ValidateProtocol(rawURL); err != nil {
		fmt.Fprintln(stderr, err)
		return &exitError{code: ExitFailure}
	}

	indicator := terminal.NewIndicator(a.stdout, a.profile)
	defer indicator.Stop()

	bridge := downloader.NewInterruptBridge(stderr, indicator.Stop)
	ctx := bridge.Watch(context.Background())
	defer bridge.Stop()

	// fail reports err and picks the exit code. An interrupt has already
	// been reported by the bridge.
	fail := func(err error) error {
		indicator.Stop()
		if errors.Is(context.Cause(ctx), downloader.ErrInterrupted) {
			return &exitError{code: ExitInterrupted}
		}
		fmt.Fprintln(stderr, failure.Describe(agent, err))
		return &exitError{code: ExitFailure}
	}

	indicator.Start()

	stream, err := source.Open(ctx, rawURL, source.Options{
		UserAgent:      agent,
		ConnectTimeout: cfg.ConnectTimeout,
		Logger:         log,
	})
	if err != nil {
		return fail(err)
	}
	defer stream.Body.Close()

	fmt.Fprintf(stderr, "%s: Network connection established...\n\n", agent)
	fmt.Fprintf(stderr, "Opening Source URL [%s]\n", rawURL)

	name, defaulted, err := dest.FileName(rawURL, a.now())
	if err != nil {
		indicator.Stop()
		fmt.Fprintf(stderr, "%s: Malformed URL.\n", agent)
		return &exitError{code: ExitFailure}
	}
	if defaulted {
		fmt.Fprintf(stderr, "Destination File [%s] (no filename provided by server, using default)\n\n", name)
	} else {
		fmt.Fprintf(stderr, "Destination File [%s]\n\n", name)
	}

	store, err := dest.OpenStore(ctx, a.dir, cfg.Bucket)
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	exists, err := store.Exists(ctx, name)
	if err != nil {
		return fail(failure.New(failure.DestinationCreateFailed, "stat", err))
	}
	if exists && !cfg.AssumeYes {
		indicator.Stop()

		// The prompt blocks on stdin, so an interrupt is taken from the
		// bridge rather than from the reader.
		answer := make(chan error, 1)
		go func() { answer <- dest.Confirm(a.stdin, stderr, name) }()

		var err error
		select {
		case err = <-answer:
		case <-bridge.Interrupted():
			return &exitError{code: ExitInterrupted}
		}
		if err != nil {
			if errors.Is(err, dest.ErrDeclined) {
				return &exitError{code: ExitFailure}
			}
			return fail(err)
		}
		indicator.Start()
		fmt.Fprintln(stderr)
	}

	sink, err := store.Create(ctx, name, dest.WithSourceURL(rawURL))
	if err != nil {
		indicator.Stop()
		fmt.Fprintf(stderr, "%s: Cannot create destination file '%s'.\n", agent, store.Location(name))
		log.Debug("create failed", "error", err)
		return fail(err)
	}

	display := a.newDisplay(stderr, cfg, stream.Size)

	fmt.Fprintf(stderr, "[%s] Download Started.\n", progress.Timestamp(a.now()))

	res, err := downloader.Transfer(ctx, stream.Body, sink, downloader.Options{
		TotalBytes: stream.Size,
		BufferSize: int(cfg.BufferSize),
		Interval:   cfg.UpdateInterval,
		Display:    display,
		Logger:     log,
	})
	display.Done()

	switch res.State {
	case downloader.Completed:
		if err := sink.Commit(); err != nil {
			return fail(err)
		}
		fmt.Fprintf(stderr, "\n[%s] Download Completed.\nDownloaded %s in %s.\n\n",
			progress.Timestamp(a.now()),
			progress.FormatSize(res.Transferred),
			progress.FormatElapsed(res.Elapsed, progress.Narrative),
		)
		indicator.Stop()
		return nil

	case downloader.Cancelled:
		abort(sink, log)
		indicator.Stop()
		if errors.Is(err, downloader.ErrInterrupted) {
			return &exitError{code: ExitInterrupted}
		}
		return fail(err)

	default:
		abort(sink, log)
		var mismatch *downloader.SizeMismatchError
		if errors.As(err, &mismatch) {
			indicator.Stop()
			fmt.Fprintf(stderr, "\n[%s] Download Failed.\nExpected %d bytes, got %d bytes.\n\n",
				progress.Timestamp(a.now()), mismatch.Expected, mismatch.Got)
			return &exitError{code: ExitFailure}
		}
		if failure.KindOf(err) == failure.WriteFailed {
			fmt.Fprintf(stderr, "%s: Write error on '%s'.\n", agent, store.Location(name))
		}
		return fail(err)
	}
}

func (a *app) newDisplay(w io.Writer, cfg config.Config, total uint64) progress.Display {
	if cfg.Display == config.DisplayBar {
		return progress.NewBarDisplay(w, total, a.profile.Interactive)
	}
	return progress.NewLineDisplay(w)
}

func abort(sink dest.Sink, log *slog.Logger) {
	if err := sink.Abort(); err != nil && !errors.Is(err, os.ErrClosed) {
		log.Warn("release destination", "error", err)
	}
}
