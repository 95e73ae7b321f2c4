package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"

	"github.com/chksum-rs/writer"
	"github.com/chksum-rs/writer/algorithms"
)

const copyBufferSize = 32 * 1024

func digestStdin(ctx context.Context) error {
	return digestStream(ctx, os.Stdin, "-")
}

func digestFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return digestStream(ctx, f, path)
}

// digestStream hashes src while optionally copying it to the --output
// destination. The plain path drains through a blocking Writer; the copy
// path drives an AsyncWriter so an interrupt can stop mid-transfer with the
// digest still covering exactly the bytes that reached the destination.
func digestStream(ctx context.Context, src io.Reader, name string) error {
	d, err := algorithms.New(digest.Algorithm(algorithm))
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, algorithms.Available())
	}

	if output == "" {
		w := writer.NewWithDigester(io.Discard, d)
		if _, err := io.Copy(w, src); err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", w.Digest(), name)
		return nil
	}

	dst, err := os.Create(output)
	if err != nil {
		return err
	}

	aw := writer.NewAsyncWithDigester(writer.NopAsyncSink(dst), d)
	written, err := copyAsync(ctx, aw, src)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"input":   name,
			"output":  output,
			"written": written,
		}).WithError(err).Error("copy interrupted")
		aw.Shutdown(context.Background())
		return err
	}

	if err := aw.Shutdown(ctx); err != nil {
		return err
	}
	fmt.Printf("%s  %s\n", aw.Digest(), name)
	return nil
}

func copyAsync(ctx context.Context, dst *writer.AsyncWriter, src io.Reader) (int64, error) {
	var written int64
	buf := make([]byte, copyBufferSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			rem := buf[:n]
			for len(rem) > 0 {
				accepted, werr := dst.Write(ctx, rem)
				if werr != nil {
					return written, werr
				}
				written += int64(accepted)
				rem = rem[accepted:]
			}
		}
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}
