// Package writer provides pass-through writers that calculate a digest of
// the data flowing through them, without buffering it or reading it twice.
//
// The central guarantee is synchronization: at any point, the digest covers
// precisely the bytes the wrapped sink has accepted, in order, with no gaps
// and no duplicates. Short writes digest only the accepted prefix, failed
// writes digest nothing, and the digest can be read at any time while
// writing continues.
//
// Writer wraps a blocking io.Writer. AsyncWriter wraps an AsyncSink, a
// context-aware destination such as a network or storage transport. Both
// accumulate into an opencontainers/go-digest Digester, so any registered
// algorithm, or a caller-supplied digester, can be used:
//
//	w := writer.New(dst)
//	if _, err := io.Copy(w, src); err != nil {
//		return err
//	}
//	fmt.Println(w.Digest()) // e.g. sha256:44752f37...
//
// Constructing with a digester that already has data written to it resumes
// the digest, which allows a single logical stream to span several writer
// instances.
package writer
