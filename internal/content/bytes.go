package content

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/d-kuro/fcmp/internal/storage"
)

const compareChunkSize = 32 * 1024

// BytesComparer compares two files by streaming both in lockstep. It stops at
// the first differing chunk and never holds more than one chunk per file.
type BytesComparer struct {
	fs storage.FileSystem
}

// NewBytesComparer creates a BytesComparer reading through fsys.
func NewBytesComparer(fsys storage.FileSystem) *BytesComparer {
	return &BytesComparer{fs: fsys}
}

// Equal implements Comparer.
func (c *BytesComparer) Equal(ctx context.Context, a, b string) (bool, error) {
	candidate, err := statRegular(c.fs, a, b)
	if err != nil || !candidate {
		return false, err
	}

	fa, err := c.fs.Open(a)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", a, err)
	}
	defer func() { _ = fa.Close() }()

	fb, err := c.fs.Open(b)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", b, err)
	}
	defer func() { _ = fb.Close() }()

	same, err := readersEqual(ctx, bufio.NewReaderSize(fa, compareChunkSize), bufio.NewReaderSize(fb, compareChunkSize))
	if err != nil {
		var re *readError
		if errors.As(err, &re) {
			return false, fmt.Errorf("failed to read %s: %w", pick(re.second, a, b), re.err)
		}
		return false, err
	}
	return same, nil
}

// readError records which of the two streams failed.
type readError struct {
	second bool
	err    error
}

func (e *readError) Error() string { return e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

func pick(second bool, a, b string) string {
	if second {
		return b
	}
	return a
}

func readersEqual(ctx context.Context, a, b io.Reader) (bool, error) {
	bufA := make([]byte, compareChunkSize)
	bufB := make([]byte, compareChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		nA, errA := io.ReadFull(a, bufA)
		nB, errB := io.ReadFull(b, bufB)

		if errA != nil && errA != io.EOF && errA != io.ErrUnexpectedEOF {
			return false, &readError{err: errA}
		}
		if errB != nil && errB != io.EOF && errB != io.ErrUnexpectedEOF {
			return false, &readError{second: true, err: errB}
		}

		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}

		// A short read means the stream ended; equal chunks mean both did.
		if errA != nil || errB != nil {
			return errA != nil && errB != nil, nil
		}
	}
}
