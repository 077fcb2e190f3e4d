// Package testutils provides shared test infrastructure: deterministic test
// data, an HTTP file server and a minimal FTP server.
package testutils

import (
	"bytes"
	"crypto/rand"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// TestFile defines a test file with size and data.
type TestFile struct {
	Name string
	Data []byte
	// NoLength serves the file with chunked encoding and no Content-Length.
	NoLength bool
}

// GenerateTestData generates test data of the given size.
// For files <= 10MB, uses deterministic pattern. For larger files, uses random data.
func GenerateTestData(t *testing.T, size int64) []byte {
	t.Helper()
	data := make([]byte, size)
	if size <= 10*1024*1024 {
		for i := range data {
			data[i] = byte(i % 256)
		}
	} else {
		if _, err := rand.Read(data); err != nil {
			t.Fatalf("generate random data: %v", err)
		}
	}
	return data
}

// StartTestHTTPServer starts an HTTP server that serves test files by name.
// Requests are recorded so tests can check headers.
func StartTestHTTPServer(t *testing.T, files []TestFile) (*httptest.Server, <-chan *http.Request) {
	t.Helper()

	fileMap := make(map[string]TestFile)
	for _, f := range files {
		fileMap["/"+f.Name] = f
	}

	requests := make(chan *http.Request, 16)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case requests <- r.Clone(r.Context()):
		default:
		}

		f, ok := fileMap[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}

		if f.NoLength {
			flusher, _ := w.(http.Flusher)
			w.WriteHeader(http.StatusOK)
			for data := f.Data; len(data) > 0; {
				n := min(len(data), 1024)
				w.Write(data[:n])
				if flusher != nil {
					flusher.Flush()
				}
				data = data[n:]
			}
			return
		}

		w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(f.Data)
	}))
	t.Cleanup(server.Close)

	return server, requests
}

// CompareReaderToData compares reader output with expected data in chunks.
// This is memory-efficient for large files.
func CompareReaderToData(t *testing.T, reader io.Reader, expected []byte) {
	t.Helper()

	chunkSize := 1024 * 1024 // 1MB
	buf := make([]byte, chunkSize)
	offset := 0

	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if offset+n > len(expected) {
				t.Fatalf("read more data than expected: offset=%d, n=%d, expected len=%d",
					offset, n, len(expected))
			}
			if !bytes.Equal(buf[:n], expected[offset:offset+n]) {
				t.Fatalf("data mismatch at offset %d", offset)
			}
			offset += n
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read error at offset %d: %v", offset, err)
		}
	}

	if offset != len(expected) {
		t.Fatalf("incomplete read: got %d bytes, want %d", offset, len(expected))
	}
}
