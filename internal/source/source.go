package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Protocol prefixes accepted by ValidateProtocol.
const (
	PrefixHTTPS = "https://"
	PrefixHTTP  = "http://"
	PrefixFTP   = "ftp://"
)

const schemeDelimiter = "://"

// Options configures how a stream is opened.
type Options struct {
	// UserAgent is sent with HTTP requests.
	// Default: "WinDL/1.0"
	UserAgent string

	// ConnectTimeout bounds connection establishment only.
	// Default: 30s
	ConnectTimeout time.Duration

	// Logger receives debug output. Default: discard
	Logger *slog.Logger
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:      "WinDL/1.0",
		ConnectTimeout: 30 * time.Second,
	}
}

func (o *Options) applyDefaults() {
	def := DefaultOptions()
	if o.UserAgent == "" {
		o.UserAgent = def.UserAgent
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = def.ConnectTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Stream is an open remote resource.
type Stream struct {
	// Body yields the resource bytes. The caller must close it.
	Body io.ReadCloser
	// Size is the advertised size in bytes, 0 if unknown.
	Size uint64
	// Protocol is "http", "https" or "ftp".
	Protocol string
}

// ProtocolError reports a URL without a supported protocol prefix.
type ProtocolError struct {
	URL string
	// Tail is the part of URL after any "://", or all of it.
	Tail string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("Please explicitly specify a supported protocol:\n - %s%s\n - %s%s\n - %s%s",
		PrefixHTTPS, e.Tail, PrefixHTTP, e.Tail, PrefixFTP, e.Tail)
}

// ValidateProtocol returns a *ProtocolError unless rawURL starts with
// https://, http:// or ftp://. Prefixes are case sensitive.
func ValidateProtocol(rawURL string) error {
	if _, ok := protocolOf(rawURL); ok {
		return nil
	}
	tail := rawURL
	if i := strings.Index(rawURL, schemeDelimiter); i >= 0 {
		tail = rawURL[i+len(schemeDelimiter):]
	}
	return &ProtocolError{URL: rawURL, Tail: tail}
}

func protocolOf(rawURL string) (string, bool) {
	switch {
	case strings.HasPrefix(rawURL, PrefixHTTPS):
		return "https", true
	case strings.HasPrefix(rawURL, PrefixHTTP):
		return "http", true
	case strings.HasPrefix(rawURL, PrefixFTP):
		return "ftp", true
	default:
		return "", false
	}
}

// Open connects to the host of rawURL and opens the resource for reading.
// Errors are *failure.Error values of kind ConnectionOpenFailed or
// StreamOpenFailed; a URL without a supported prefix yields *ProtocolError.
func Open(ctx context.Context, rawURL string, opts Options) (*Stream, error) {
	if err := ValidateProtocol(rawURL); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	proto, _ := protocolOf(rawURL)
	log := opts.Logger.With("protocol", proto)

	var (
		s   *Stream
		err error
	)
	if proto == "ftp" {
		s, err = openFTP(ctx, rawURL, opts, log)
	} else {
		s, err = NewClient(opts).Open(ctx, rawURL)
	}
	if err != nil {
		return nil, err
	}
	s.Protocol = proto
	log.Debug("stream opened", "size", s.Size)
	return s, nil
}
