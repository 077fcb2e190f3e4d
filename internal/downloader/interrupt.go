package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// ErrInterrupted is the cancellation cause set when the user interrupts a
// download.
var ErrInterrupted = errors.New("download interrupted")

// InterruptBridge turns an interrupt signal into context cancellation. The
// handler never touches the transfer's stream or sink: it runs the cleanup
// hook, prints a notice and cancels. The transfer loop notices between
// chunks. A second signal falls through to the default handler and ends
// the process.
type InterruptBridge struct {
	out       io.Writer
	onSignal  func()
	signals   chan os.Signal
	done      chan struct{}
	triggered chan struct{}
}

// NewInterruptBridge creates a bridge that writes its notice to out and
// calls onSignal (may be nil) before cancelling.
func NewInterruptBridge(out io.Writer, onSignal func()) *InterruptBridge {
	return &InterruptBridge{
		out:       out,
		onSignal:  onSignal,
		signals:   make(chan os.Signal, 1),
		done:      make(chan struct{}),
		triggered: make(chan struct{}),
	}
}

// Watch starts listening for SIGINT and SIGTERM and returns a context that
// is cancelled with ErrInterrupted when one arrives. Stop must be called to
// release the signal handler.
func (b *InterruptBridge) Watch(parent context.Context) context.Context {
	ctx, cancel := context.WithCancelCause(parent)

	signal.Notify(b.signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer cancel(nil)
		select {
		case sig := <-b.signals:
			// Later signals get the default behaviour.
			signal.Stop(b.signals)
			if b.onSignal != nil {
				b.onSignal()
			}
			fmt.Fprintf(b.out, "\nKeyboard interrupt received (%s). Download aborted.\n\n", signalName(sig))
			cancel(ErrInterrupted)
			close(b.triggered)
		case <-b.done:
		case <-ctx.Done():
		}
	}()

	return ctx
}

// Interrupted is closed once a signal has been handled.
func (b *InterruptBridge) Interrupted() <-chan struct{} {
	return b.triggered
}

// Stop releases the signal handler. It is safe to call more than once.
func (b *InterruptBridge) Stop() {
	signal.Stop(b.signals)
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}

func signalName(sig os.Signal) string {
	switch sig {
	case os.Interrupt:
		return "Ctrl-C"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return sig.String()
	}
}
