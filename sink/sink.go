// Package sink provides the append-only output stream of committed
// particles.
//
// Every committed particle, seeds included, is written exactly once as a
// fixed-width binary record in commit order. The stream never closes during
// a run; Close exists only for the shutdown path. There is no error
// recovery: a write failure propagates up and is fatal to the run.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/dlaf"
	"github.com/hupe1980/dlaf/record"
)

// Compile-time check that Writer satisfies dlaf.Sink.
var _ dlaf.Sink = (*Writer)(nil)

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("sink: closed")

// Options contains configuration for a Writer.
type Options struct {
	// Compress wraps the stream in a zstd encoder.
	Compress bool

	// CompressionLevel is the zstd level used when Compress is set.
	CompressionLevel int

	// BufferSize is the size of the write buffer. If <= 0 the bufio default
	// is used.
	BufferSize int
}

// DefaultOptions contains the default Writer configuration: uncompressed,
// default buffer.
var DefaultOptions = Options{
	CompressionLevel: 3,
}

// Writer emits particles as 16-byte records to an underlying stream, through
// a write buffer and an optional zstd layer.
type Writer struct {
	mu         sync.Mutex
	bufWriter  *bufio.Writer
	compressor *zstd.Encoder // nil when uncompressed
	records    *record.Writer
	closed     bool
}

// New creates a Writer on top of w.
func New(w io.Writer, optFns ...func(o *Options)) (*Writer, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Writer{}

	out := w
	if opts.Compress {
		level := zstd.EncoderLevelFromZstd(opts.CompressionLevel)
		compressor, err := zstd.NewWriter(w, zstd.WithEncoderLevel(level))
		if err != nil {
			return nil, fmt.Errorf("sink: create compressor: %w", err)
		}
		s.compressor = compressor
		out = compressor
	}

	if opts.BufferSize > 0 {
		s.bufWriter = bufio.NewWriterSize(out, opts.BufferSize)
	} else {
		s.bufWriter = bufio.NewWriter(out)
	}
	s.records = record.NewWriter(s.bufWriter)

	return s, nil
}

// Emit appends one particle record. Called exactly once per committed
// particle, in commit order.
func (s *Writer) Emit(p dlaf.Particle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.records.Write(p.Record())
}

// Flush pushes buffered records (and any compressor frame data) down to the
// underlying writer.
func (s *Writer) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.flushLocked()
}

func (s *Writer) flushLocked() error {
	if err := s.bufWriter.Flush(); err != nil {
		return fmt.Errorf("sink: flush buffer: %w", err)
	}
	if s.compressor != nil {
		if err := s.compressor.Flush(); err != nil {
			return fmt.Errorf("sink: flush compressor: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the sink. The underlying writer is not closed.
// Close is idempotent.
func (s *Writer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.bufWriter.Flush(); err != nil {
		return fmt.Errorf("sink: flush buffer: %w", err)
	}
	if s.compressor != nil {
		if err := s.compressor.Close(); err != nil {
			return fmt.Errorf("sink: close compressor: %w", err)
		}
	}
	return nil
}
