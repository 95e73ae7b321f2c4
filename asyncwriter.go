package writer

import (
	"context"
	"io"

	"github.com/opencontainers/go-digest"
)

// AsyncSink is the write side of a byte destination whose operations may
// block awaiting readiness, typically a network or storage transport. An
// error return means no bytes were committed from the caller's point of
// view; retrying the same write after a deadline or transient failure is
// always legal.
type AsyncSink interface {
	Write(ctx context.Context, p []byte) (n int, err error)
	Flush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// AsyncWriter wraps an AsyncSink and calculates the digest of written data
// on the fly, with the same guarantees as Writer. It is kept as a separate
// implementation so the blocking path does not pay for context plumbing.
//
// An AsyncWriter must be driven by one goroutine at a time.
type AsyncWriter struct {
	inner    AsyncSink
	digester digest.Digester
}

// NewAsync returns an AsyncWriter wrapping inner with a fresh canonical
// digester.
func NewAsync(inner AsyncSink) *AsyncWriter {
	return NewAsyncWithDigester(inner, digest.Canonical.Digester())
}

// NewAsyncWithDigester returns an AsyncWriter wrapping inner with the
// provided digester, which may already have data written to it.
func NewAsyncWithDigester(inner AsyncSink, d digest.Digester) *AsyncWriter {
	return &AsyncWriter{
		inner:    inner,
		digester: d,
	}
}

// Write forwards p to the sink and feeds the accepted prefix to the digester
// once the sink reports completion. The digester advances exactly once per
// completed write; any error leaves it untouched and counts as zero bytes
// accepted, so retried attempts never digest the same bytes twice.
func (w *AsyncWriter) Write(ctx context.Context, p []byte) (int, error) {
	n, err := w.inner.Write(ctx, p)
	if err != nil {
		return 0, err
	}
	w.digester.Hash().Write(p[:n])
	return n, nil
}

// Flush forwards to the sink. The digest is unaffected.
func (w *AsyncWriter) Flush(ctx context.Context) error {
	return w.inner.Flush(ctx)
}

// Shutdown forwards to the sink. The digest is unaffected and remains
// readable afterwards.
func (w *AsyncWriter) Shutdown(ctx context.Context) error {
	return w.inner.Shutdown(ctx)
}

// Digest returns the digest of all bytes accepted so far without consuming
// the digester state. It never blocks.
func (w *AsyncWriter) Digest() digest.Digest {
	return w.digester.Digest()
}

// Unwrap returns the wrapped sink, abandoning the digester state. The
// AsyncWriter must not be used after Unwrap.
func (w *AsyncWriter) Unwrap() AsyncSink {
	return w.inner
}

// NopAsyncSink adapts a blocking io.Writer into an AsyncSink. The context is
// consulted before each operation; an in-flight write itself is not
// interruptible. Shutdown closes the writer if it is an io.Closer, and Flush
// forwards if it is a Flusher.
func NopAsyncSink(w io.Writer) AsyncSink {
	return &nopAsyncSink{w: w}
}

type nopAsyncSink struct {
	w io.Writer
}

func (s *nopAsyncSink) Write(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.w.Write(p)
}

func (s *nopAsyncSink) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f, ok := s.w.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (s *nopAsyncSink) Shutdown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
