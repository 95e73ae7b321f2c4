package writer

import (
	"io"

	"github.com/opencontainers/go-digest"
)

// Flusher is the interface implemented by sinks that can move buffered data
// to its destination.
type Flusher interface {
	Flush() error
}

// Writer wraps an io.Writer and calculates the digest of written data on the
// fly. The digest always covers exactly the bytes the wrapped writer has
// accepted, in order, regardless of how the caller chunks its writes.
//
// A Writer is not safe for concurrent use; callers sharing one across
// goroutines must serialize access themselves.
type Writer struct {
	inner    io.Writer
	digester digest.Digester
}

// New returns a Writer wrapping inner with a fresh canonical digester.
func New(inner io.Writer) *Writer {
	return NewWithDigester(inner, digest.Canonical.Digester())
}

// NewWithDigester returns a Writer wrapping inner with the provided digester.
// The digester may already have data written to it, which allows a digest to
// be resumed across Writer instances.
func NewWithDigester(inner io.Writer, d digest.Digester) *Writer {
	return &Writer{
		inner:    inner,
		digester: d,
	}
}

// Write forwards p to the wrapped writer and then feeds the accepted prefix
// to the digester. Short writes digest only the accepted bytes. If the
// wrapped writer fails, the error is returned unchanged, the digester is
// left untouched and the write counts as zero bytes accepted, so the caller
// may safely retry.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.inner.Write(p)
	if err != nil {
		return 0, err
	}
	w.digester.Hash().Write(p[:n])
	return n, nil
}

// Flush flushes the wrapped writer if it supports flushing. Flushing moves
// already-written bytes to their destination, so the digest is unaffected.
func (w *Writer) Flush() error {
	if f, ok := w.inner.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Digest returns the digest of all bytes accepted so far. It does not
// consume the digester state and may be called at any time, interleaved
// with further writes.
func (w *Writer) Digest() digest.Digest {
	return w.digester.Digest()
}

// Unwrap returns the wrapped writer, abandoning the digester state. The
// Writer must not be used after Unwrap.
func (w *Writer) Unwrap() io.Writer {
	return w.inner
}
