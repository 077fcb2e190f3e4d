package dest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"

	"github.com/ligustah/windl/internal/failure"
)

// Sink is an open destination.
type Sink interface {
	io.Writer
	// Commit finishes the destination after a successful transfer.
	Commit() error
	// Abort releases the destination after a failed or cancelled transfer.
	Abort() error
}

// Options configures a new Sink.
type Options struct {
	// SourceURL is recorded as object metadata for bucket sinks.
	SourceURL string
	// ContentType of bucket objects.
	// Default: "application/octet-stream"
	ContentType string
}

// Option is a functional option for configuring a Sink.
type Option func(*Options)

// WithSourceURL records the URL a download came from.
func WithSourceURL(u string) Option {
	return func(o *Options) {
		o.SourceURL = u
	}
}

// WithContentType sets the content type of bucket objects.
func WithContentType(ct string) Option {
	return func(o *Options) {
		o.ContentType = ct
	}
}

// Store creates destinations in a local directory or a bucket.
type Store struct {
	dir    string
	bucket *blob.Bucket
	url    string
}

// OpenStore opens the bucket at bucketURL, or uses the local directory dir
// when bucketURL is empty. An empty dir is the working directory.
func OpenStore(ctx context.Context, dir, bucketURL string) (*Store, error) {
	if bucketURL == "" {
		if dir == "" {
			dir = "."
		}
		return &Store{dir: dir}, nil
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, failure.New(failure.DestinationCreateFailed, "open bucket", err)
	}
	return &Store{bucket: bucket, url: bucketURL}, nil
}

// NewBucketStore wraps an already open bucket. The Store does not close it.
func NewBucketStore(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket}
}

// Close releases the bucket, if the Store opened one.
func (s *Store) Close() error {
	if s.bucket != nil && s.url != "" {
		return s.bucket.Close()
	}
	return nil
}

// Location describes where name is stored, for messages.
func (s *Store) Location(name string) string {
	if s.bucket == nil {
		return filepath.Join(s.dir, name)
	}
	if s.url == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, s.url)
}

// Exists reports whether name already exists.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	if s.bucket != nil {
		return s.bucket.Exists(ctx, name)
	}

	_, err := os.Stat(filepath.Join(s.dir, name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Create opens name for writing, truncating any existing content. Errors
// are failure.DestinationCreateFailed.
func (s *Store) Create(ctx context.Context, name string, options ...Option) (Sink, error) {
	opts := Options{ContentType: "application/octet-stream"}
	for _, opt := range options {
		opt(&opts)
	}

	if s.bucket == nil {
		f, err := os.Create(filepath.Join(s.dir, name))
		if err != nil {
			return nil, failure.New(failure.DestinationCreateFailed, "create", err)
		}
		return &fileSink{f: f}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	wopts := &blob.WriterOptions{ContentType: opts.ContentType}
	if opts.SourceURL != "" {
		wopts.Metadata = map[string]string{"source-url": opts.SourceURL}
	}
	w, err := s.bucket.NewWriter(ctx, name, wopts)
	if err != nil {
		cancel()
		return nil, failure.New(failure.DestinationCreateFailed, "create", err)
	}
	return &blobSink{w: w, cancel: cancel}, nil
}

// fileSink is a local file. Abort leaves the partial content in place.
type fileSink struct {
	f *os.File
}

func (s *fileSink) Write(p []byte) (int, error) { return s.f.Write(p) }
func (s *fileSink) Commit() error                { return s.f.Close() }
func (s *fileSink) Abort() error                 { return s.f.Close() }

// blobSink is a bucket object. Abort discards the object.
type blobSink struct {
	w      *blob.Writer
	cancel context.CancelFunc
}

func (s *blobSink) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *blobSink) Commit() error {
	defer s.cancel()
	if err := s.w.Close(); err != nil {
		return failure.New(failure.WriteFailed, "commit", err)
	}
	return nil
}

func (s *blobSink) Abort() error {
	// Closing after cancel aborts the write.
	s.cancel()
	err := s.w.Close()
	if gcerrors.Code(err) == gcerrors.Canceled || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
