package writer

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/require"
)

// shortWriter accepts at most limit bytes per call.
type shortWriter struct {
	buf   bytes.Buffer
	limit int
}

func (s *shortWriter) Write(p []byte) (int, error) {
	if len(p) > s.limit {
		p = p[:s.limit]
	}
	return s.buf.Write(p)
}

// failWriter fails every write with err, after claiming to have taken half
// the buffer, the way a sink that errors mid-write would.
type failWriter struct {
	err error
}

func (f *failWriter) Write(p []byte) (int, error) {
	return len(p) / 2, f.err
}

// countingWriter records every call, including zero-length ones.
type countingWriter struct {
	buf     bytes.Buffer
	calls   int
	flushes int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.calls++
	return c.buf.Write(p)
}

func (c *countingWriter) Flush() error {
	c.flushes++
	return nil
}

func TestWriterDigest(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	n, err := w.Write([]byte("example data"))
	require.NoError(t, err)
	require.Equal(t, 12, n)

	require.Equal(t, digest.Digest("sha256:44752f37272e944fd2c913a35342eaccdd1aaf189bae50676b301ab213fc5061"), w.Digest())
	require.Equal(t, "example data", buf.String())
}

func TestWriterChunking(t *testing.T) {
	for _, chunks := range [][]string{
		{"example data"},
		{"exa", "mple data"},
		{"e", "x", "a", "m", "p", "l", "e", " ", "d", "a", "t", "a"},
	} {
		var buf bytes.Buffer
		w := New(&buf)
		for _, chunk := range chunks {
			n, err := w.Write([]byte(chunk))
			require.NoError(t, err)
			require.Equal(t, len(chunk), n)
		}

		require.Equal(t, digest.FromString("example data"), w.Digest(), "chunks %q", chunks)
		require.Equal(t, "example data", buf.String())
	}
}

func TestWriterShortWrite(t *testing.T) {
	sink := &shortWriter{limit: 5}
	w := New(sink)

	n, err := w.Write([]byte("example data"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	// Only the accepted prefix is digested.
	require.Equal(t, digest.FromString("examp"), w.Digest())
	require.Equal(t, "examp", sink.buf.String())
}

func TestWriterNoUpdateOnFailure(t *testing.T) {
	errBroken := errors.New("broken pipe")
	w := New(&failWriter{err: errBroken})

	before := w.Digest()
	n, err := w.Write([]byte("example data"))
	require.ErrorIs(t, err, errBroken)
	require.Equal(t, 0, n)
	require.Equal(t, before, w.Digest())
}

func TestWriterZeroLengthWrite(t *testing.T) {
	sink := &countingWriter{}
	w := New(sink)

	n, err := w.Write(nil)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	// The empty write still reaches the sink but digests nothing.
	require.Equal(t, 1, sink.calls)
	require.Equal(t, digest.FromBytes(nil), w.Digest())
}

func TestWriterFlush(t *testing.T) {
	sink := &countingWriter{}
	w := New(sink)

	_, err := w.Write([]byte("example data"))
	require.NoError(t, err)

	want := w.Digest()
	for i := 0; i < 3; i++ {
		require.NoError(t, w.Flush())
		require.Equal(t, want, w.Digest())
	}
	require.Equal(t, 3, sink.flushes)

	// Flushing a sink without flush support is a no-op.
	require.NoError(t, New(io.Discard).Flush())
}

func TestWriterDigestInterleaved(t *testing.T) {
	w := New(io.Discard)

	_, err := w.Write([]byte("exa"))
	require.NoError(t, err)
	require.Equal(t, digest.FromString("exa"), w.Digest())
	require.Equal(t, digest.FromString("exa"), w.Digest())

	_, err = w.Write([]byte("mple data"))
	require.NoError(t, err)
	require.Equal(t, digest.FromString("example data"), w.Digest())
}

func TestWriterResume(t *testing.T) {
	d := digest.Canonical.Digester()

	var first bytes.Buffer
	w1 := NewWithDigester(&first, d)
	_, err := w1.Write([]byte("exa"))
	require.NoError(t, err)

	// A second writer continues the digest where the first left off.
	var second bytes.Buffer
	w2 := NewWithDigester(&second, d)
	_, err = w2.Write([]byte("mple data"))
	require.NoError(t, err)

	require.Equal(t, digest.FromString("example data"), w2.Digest())
	require.Equal(t, "exa", first.String())
	require.Equal(t, "mple data", second.String())
}

func TestWriterUnwrap(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	_, err := w.Write([]byte("example data"))
	require.NoError(t, err)
	require.Same(t, &buf, w.Unwrap())
}

func TestWriterRetryAfterFailure(t *testing.T) {
	errBroken := errors.New("broken pipe")
	var buf bytes.Buffer
	flaky := &flakyWriter{inner: &buf, failures: 2, err: errBroken}
	w := New(flaky)

	for _, chunk := range []string{"exa", "mple data"} {
		for {
			if _, err := w.Write([]byte(chunk)); err == nil {
				break
			} else {
				require.ErrorIs(t, err, errBroken)
			}
		}
	}

	require.Equal(t, digest.FromString("example data"), w.Digest())
	require.Equal(t, "example data", buf.String())
}

// flakyWriter fails the first failures writes, then delegates.
type flakyWriter struct {
	inner    io.Writer
	failures int
	err      error
}

func (f *flakyWriter) Write(p []byte) (int, error) {
	if f.failures > 0 {
		f.failures--
		return 0, f.err
	}
	return f.inner.Write(p)
}
