// Package failure defines the terminal error kinds of a download and renders
// them for the user together with the underlying OS or library error code.
package failure

import (
	"errors"
	"fmt"
	"net/textproto"
	"strings"
	"syscall"

	"gocloud.dev/gcerrors"
)

// Kind classifies a failed download.
type Kind int

const (
	// ConnectionOpenFailed means no connection to the remote host could be
	// established.
	ConnectionOpenFailed Kind = iota + 1
	// StreamOpenFailed means the host was reached but the resource could
	// not be opened.
	StreamOpenFailed
	// MalformedURL means no scheme delimiter was found in the URL.
	MalformedURL
	// DestinationCreateFailed means the destination could not be created.
	DestinationCreateFailed
	// WriteFailed means a chunk could not be written in full.
	WriteFailed
	// ReadFailed means the remote stream returned an error mid transfer.
	ReadFailed
	// SizeMismatch means the stream ended before or after the advertised
	// size.
	SizeMismatch
)

func (k Kind) String() string {
	switch k {
	case ConnectionOpenFailed:
		return "connection open failed"
	case StreamOpenFailed:
		return "stream open failed"
	case MalformedURL:
		return "malformed URL"
	case DestinationCreateFailed:
		return "destination create failed"
	case WriteFailed:
		return "write failed"
	case ReadFailed:
		return "read failed"
	case SizeMismatch:
		return "size mismatch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a classified download failure.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "GET" or "RETR".
	Op string
	// Code is an explicit error code such as an HTTP status. Zero means
	// the code is looked up in Err.
	Code int
	Err  error
}

// New returns an *Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, &failure.Error{Kind: failure.WriteFailed}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// Code returns the most specific error code found in err's chain: an
// explicit code on *Error, a syscall errno, an FTP reply code or a gocloud
// error code. ok is false when none is present.
func Code(err error) (code int, ok bool) {
	var fe *Error
	if errors.As(err, &fe) && fe.Code != 0 {
		return fe.Code, true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno), true
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return tpErr.Code, true
	}

	if c := gcerrors.Code(err); c != gcerrors.OK && c != gcerrors.Unknown {
		return int(c), true
	}

	return 0, false
}

// Describe renders err for the user:
//
//	WinDL/1.0: connection refused
//	(GET, error 111)
//
// When no code is available the message is a single line.
func Describe(agent string, err error) string {
	op := ""
	var fe *Error
	if errors.As(err, &fe) {
		op = fe.Op
	}

	desc := description(err)

	code, ok := Code(err)
	switch {
	case ok && op != "":
		return fmt.Sprintf("%s: %s\n(%s, error %d)", agent, desc, op, code)
	case ok:
		return fmt.Sprintf("%s: %s (error %d)", agent, desc, code)
	case op != "":
		return fmt.Sprintf("%s: %s: %s", agent, op, desc)
	default:
		return fmt.Sprintf("%s: %s", agent, desc)
	}
}

// description returns the innermost useful message of err without line
// breaks.
func description(err error) string {
	var fe *Error
	msg := err.Error()
	if errors.As(err, &fe) {
		if fe.Err != nil {
			msg = fe.Err.Error()
		} else {
			msg = fe.Kind.String()
		}
	}
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
