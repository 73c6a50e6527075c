// Package storage provides read-only filesystem access for file ranking.
package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// FileSystem is the metadata and content lookup used while ranking files.
type FileSystem interface {
	// Stat returns metadata for path, following symlinks.
	Stat(path string) (fs.FileInfo, error)
	// Open opens path for reading. Callers must close the returned reader.
	Open(path string) (io.ReadCloser, error)
}

// OSFileSystem implements FileSystem on top of the host filesystem.
type OSFileSystem struct{}

// NewOSFileSystem returns the host filesystem.
func NewOSFileSystem() OSFileSystem {
	return OSFileSystem{}
}

// Stat implements FileSystem.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Open implements FileSystem.
func (OSFileSystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// IsNotExist reports whether err means the path does not exist. Other errors,
// such as permission failures, are access errors rather than missing files.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
