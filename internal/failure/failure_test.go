package failure

import (
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestDescribeWithExplicitCode(t *testing.T) {
	err := &Error{Kind: StreamOpenFailed, Op: "GET", Code: 404, Err: errors.New("404 Not Found")}

	got := Describe("WinDL/1.0", err)
	want := "WinDL/1.0: 404 Not Found\n(GET, error 404)"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestDescribeWithErrno(t *testing.T) {
	pathErr := &os.PathError{Op: "open", Path: "out.bin", Err: syscall.EACCES}
	err := New(DestinationCreateFailed, "create", pathErr)

	got := Describe("WinDL/1.0", err)
	if !strings.HasPrefix(got, "WinDL/1.0: open out.bin: permission denied\n") {
		t.Errorf("unexpected description %q", got)
	}
	if !strings.HasSuffix(got, fmt.Sprintf("(create, error %d)", int(syscall.EACCES))) {
		t.Errorf("expected errno in description, got %q", got)
	}
}

func TestDescribeWithFTPReply(t *testing.T) {
	err := New(StreamOpenFailed, "RETR", &textproto.Error{Code: 550, Msg: "No such file"})

	code, ok := Code(err)
	if !ok || code != 550 {
		t.Errorf("Code() = %d, %v, want 550, true", code, ok)
	}
	if got := Describe("agent", err); !strings.Contains(got, "(RETR, error 550)") {
		t.Errorf("unexpected description %q", got)
	}
}

func TestDescribeWithoutCode(t *testing.T) {
	err := New(MalformedURL, "parse", errors.New("no scheme\ndelimiter"))

	got := Describe("WinDL/1.0", err)
	want := "WinDL/1.0: parse: no scheme delimiter"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}

	if got := Describe("WinDL/1.0", errors.New("plain")); got != "WinDL/1.0: plain" {
		t.Errorf("Describe(plain) = %q", got)
	}
}

func TestDescribeKindOnly(t *testing.T) {
	got := Describe("a", &Error{Kind: SizeMismatch, Op: "transfer"})
	if got != "a: transfer: size mismatch" {
		t.Errorf("Describe() = %q", got)
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(WriteFailed, "write", io.ErrShortWrite))

	if KindOf(err) != WriteFailed {
		t.Errorf("KindOf() = %v, want %v", KindOf(err), WriteFailed)
	}
	if KindOf(io.EOF) != 0 {
		t.Errorf("KindOf(io.EOF) = %v, want 0", KindOf(io.EOF))
	}
	if !errors.Is(err, io.ErrShortWrite) {
		t.Error("expected cause to be reachable through errors.Is")
	}
	if !errors.Is(err, &Error{Kind: WriteFailed}) {
		t.Error("expected errors.Is to match on kind")
	}
	if errors.Is(err, &Error{Kind: ReadFailed}) {
		t.Error("expected errors.Is not to match a different kind")
	}
}

func TestCodeNone(t *testing.T) {
	if _, ok := Code(errors.New("x")); ok {
		t.Error("expected no code")
	}
}

func TestKindString(t *testing.T) {
	for k := ConnectionOpenFailed; k <= SizeMismatch; k++ {
		if strings.HasPrefix(k.String(), "kind(") {
			t.Errorf("missing name for kind %d", int(k))
		}
	}
	if Kind(99).String() != "kind(99)" {
		t.Errorf("unexpected name %q", Kind(99).String())
	}
}
