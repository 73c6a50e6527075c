// Package content decides whether two files hold the same bytes.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/d-kuro/fcmp/internal/storage"
)

// ErrNotRegular is returned when a content operation targets a directory,
// device or other non-regular file. Such files never compare equal.
var ErrNotRegular = errors.New("not a regular file")

// Comparer reports whether two files have identical content.
type Comparer interface {
	Equal(ctx context.Context, a, b string) (bool, error)
}

// Fingerprinter is implemented by comparers that reduce a file to a digest.
// Equal digests mean equal content.
type Fingerprinter interface {
	Fingerprint(ctx context.Context, path string) (string, error)
}

// Method selects a Comparer implementation.
type Method string

const (
	// MethodDigest hashes each file once and compares digests.
	MethodDigest Method = "digest"
	// MethodBytes streams both files and compares them byte by byte.
	MethodBytes Method = "bytes"
	// MethodCmp runs `cmp -s`.
	MethodCmp Method = "cmp"
	// MethodDiff runs `diff -q`.
	MethodDiff Method = "diff"
)

// Methods lists every accepted method in help order.
var Methods = []Method{MethodDigest, MethodBytes, MethodCmp, MethodDiff}

// ParseMethod parses a method name case-insensitively.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid diff method %q (want one of %s)", s, joinMethods())
}

// String implements pflag.Value.
func (m *Method) String() string {
	return string(*m)
}

// Set implements pflag.Value.
func (m *Method) Set(s string) error {
	parsed, err := ParseMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *Method) Type() string {
	return "method"
}

func joinMethods() string {
	names := make([]string, len(Methods))
	for i, m := range Methods {
		names[i] = string(m)
	}
	return strings.Join(names, "|")
}

// DefaultCommandTimeout bounds a single cmp or diff subprocess.
const DefaultCommandTimeout = 30 * time.Second

// New returns the Comparer for method.
func New(method Method, fsys storage.FileSystem) (Comparer, error) {
	switch method {
	case MethodDigest, "":
		return NewDigestComparer(fsys), nil
	case MethodBytes:
		return NewBytesComparer(fsys), nil
	case MethodCmp:
		return NewCmpComparer(NewCommandExecutor(DefaultCommandTimeout)), nil
	case MethodDiff:
		return NewDiffComparer(NewCommandExecutor(DefaultCommandTimeout)), nil
	default:
		return nil, fmt.Errorf("unsupported diff method %q", method)
	}
}

// statRegular stats both files and reports whether a content read is needed.
// It returns false without error when either file is non-regular or the sizes differ.
func statRegular(fsys storage.FileSystem, a, b string) (bool, error) {
	infoA, err := fsys.Stat(a)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", a, err)
	}
	infoB, err := fsys.Stat(b)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", b, err)
	}

	if !infoA.Mode().IsRegular() || !infoB.Mode().IsRegular() {
		return false, nil
	}
	return infoA.Size() == infoB.Size(), nil
}
