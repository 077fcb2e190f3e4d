package dest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ligustah/windl/internal/failure"
)

// DefaultPrefix is the prefix of the name used when the URL has no file
// name.
const DefaultPrefix = "WinDL_"

var errNoScheme = errors.New("no scheme delimiter in URL")

// FileName returns the destination name for rawURL: the segment after the
// final '/' following "://", without query or fragment. When that segment
// is empty, absent, "." or "..", the name is DefaultPrefix followed by the
// Unix time of now and defaulted is true.
//
// A URL without "://" is a failure.MalformedURL error.
func FileName(rawURL string, now time.Time) (name string, defaulted bool, err error) {
	_, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return "", false, failure.New(failure.MalformedURL, "parse", errNoScheme)
	}

	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}

	if i := strings.LastIndexByte(rest, '/'); i >= 0 {
		name = rest[i+1:]
	}

	switch name {
	case "", ".", "..":
		return fmt.Sprintf("%s%d", DefaultPrefix, now.Unix()), true, nil
	}
	return name, false, nil
}
