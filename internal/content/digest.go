package content

import (
	"context"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/d-kuro/fcmp/internal/collections"
	"github.com/d-kuro/fcmp/internal/storage"
)

// digestKey ties a cached digest to the file state it was computed from.
type digestKey struct {
	path    string
	size    int64
	modTime int64
}

// DigestComparer fingerprints files with xxhash64. Digests are computed on
// first use and cached until the file's size or modification time changes.
type DigestComparer struct {
	fs    storage.FileSystem
	cache *collections.SyncMap[digestKey, uint64]
}

// NewDigestComparer creates a DigestComparer reading through fsys.
func NewDigestComparer(fsys storage.FileSystem) *DigestComparer {
	return &DigestComparer{
		fs:    fsys,
		cache: collections.NewSyncMap[digestKey, uint64](),
	}
}

// Fingerprint returns the hex xxhash64 digest of path.
func (c *DigestComparer) Fingerprint(ctx context.Context, path string) (string, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	key := digestKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}
	sum, err := c.cache.GetOrCompute(key, func() (uint64, error) {
		return c.hash(ctx, path)
	})
	if err != nil {
		return "", err
	}

	return FormatDigest(sum), nil
}

// Equal implements Comparer.
func (c *DigestComparer) Equal(ctx context.Context, a, b string) (bool, error) {
	candidate, err := statRegular(c.fs, a, b)
	if err != nil || !candidate {
		return false, err
	}

	digestA, err := c.Fingerprint(ctx, a)
	if err != nil {
		return false, err
	}
	digestB, err := c.Fingerprint(ctx, b)
	if err != nil {
		return false, err
	}

	return digestA == digestB, nil
}

// Cached returns the number of digests held in the cache.
func (c *DigestComparer) Cached() int {
	return c.cache.Len()
}

func (c *DigestComparer) hash(ctx context.Context, path string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := c.fs.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	d := xxhash.New()
	if _, err := io.Copy(d, f); err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return d.Sum64(), nil
}

// FormatDigest renders an xxhash64 sum as 16 lowercase hex digits.
func FormatDigest(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
