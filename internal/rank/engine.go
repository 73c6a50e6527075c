// Package rank picks the most or least recently modified file from an
// ordered list of paths.
//
// Paths are evaluated strictly left to right and a running best is carried
// through the scan. Whenever two files are judged equal the earlier one wins,
// so the result is deterministic for a given filesystem state.
package rank

import (
	"context"
	"log/slog"

	"github.com/d-kuro/fcmp/internal/content"
	"github.com/d-kuro/fcmp/internal/errors"
	"github.com/d-kuro/fcmp/internal/logging"
	"github.com/d-kuro/fcmp/internal/storage"
)

// Engine ranks files according to a Config.
type Engine struct {
	cfg      Config
	fs       storage.FileSystem
	comparer content.Comparer
	logger   *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFileSystem sets the metadata and content source. Defaults to the host filesystem.
func WithFileSystem(fsys storage.FileSystem) Option {
	return func(e *Engine) {
		e.fs = fsys
	}
}

// WithComparer sets the content comparer used by diff and fold modes.
// Defaults to a digest comparer over the engine's filesystem.
func WithComparer(c content.Comparer) Option {
	return func(e *Engine) {
		e.comparer = c
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine for cfg.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}

	if e.fs == nil {
		e.fs = storage.NewOSFileSystem()
	}
	if e.comparer == nil {
		e.comparer = content.NewDigestComparer(e.fs)
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}

	return e
}

// Rank evaluates paths and returns the winning entry.
//
// It fails with errors.ErrMissingFile when the policy is MissingError and a
// path does not exist, errors.ErrEmptyResult when no entries remain, and
// errors.ErrFilesystemAccess when metadata or content cannot be read.
func (e *Engine) Rank(ctx context.Context, paths []string) (*Result, error) {
	entries, err := e.resolve(paths)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.ErrEmptyResult
	}

	best := entries[0]
	ambiguous := false

	for _, cand := range entries[1:] {
		order := cand.stamp.compare(best.stamp)
		if e.cfg.Reverse {
			order = -order
		}

		switch {
		case order > 0:
			if e.cfg.Fold {
				same, err := e.sameContent(ctx, best, cand)
				if err != nil {
					return nil, err
				}
				if same {
					e.logger.Debug("Folded newer file with identical content",
						slog.Int("kept", best.Index), slog.Int("folded", cand.Index))
					continue
				}
			}
			best = cand
			ambiguous = false

		case order == 0 && e.cfg.comparesContent():
			same, err := e.sameContent(ctx, best, cand)
			if err != nil {
				return nil, err
			}
			if !same {
				e.logger.Debug("Tie between files with different content",
					slog.Int("kept", best.Index), slog.Int("other", cand.Index))
				ambiguous = true
			}
		}
	}

	e.logger.Debug("Ranking complete",
		slog.Int("winner", best.Index),
		slog.String("path", best.Path),
		slog.Bool("ambiguous", ambiguous))

	return &Result{Winner: best, Ambiguous: ambiguous, Considered: len(entries)}, nil
}

// resolve stats every path in input order and applies the missing policy.
func (e *Engine) resolve(paths []string) ([]*Entry, error) {
	entries := make([]*Entry, 0, len(paths))

	for i, path := range paths {
		log := e.logger.WithPath(i, path)

		info, err := e.fs.Stat(path)
		if err != nil && !storage.IsNotExist(err) {
			return nil, errors.FilesystemAccess(path, err)
		}

		if err == nil {
			log.Debug("Resolved file", slog.Time("mod_time", info.ModTime()))
			entries = append(entries, &Entry{
				Index:   i,
				Path:    path,
				ModTime: info.ModTime(),
				Size:    info.Size(),
				regular: info.Mode().IsRegular(),
				stamp:   stamp{kind: stampReal, t: info.ModTime()},
			})
			continue
		}

		log.Debug("File is missing", slog.String("policy", string(e.cfg.Missing)))
		entry := &Entry{Index: i, Path: path, Missing: true}

		switch e.cfg.Missing {
		case MissingError:
			return nil, errors.MissingFile(path)
		case MissingIgnore:
			continue
		case MissingNewest:
			entry.stamp = stamp{kind: stampMax}
		default:
			entry.stamp = stamp{kind: stampMin}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// sameContent reports whether a and b hold identical content. Two missing
// files count as identical; a missing and an existing file never do. Size and
// file type are checked before any content is read.
func (e *Engine) sameContent(ctx context.Context, a, b *Entry) (bool, error) {
	if a.Missing || b.Missing {
		return a.Missing && b.Missing, nil
	}
	if !a.regular || !b.regular || a.Size != b.Size {
		return false, nil
	}

	if fp, ok := e.comparer.(content.Fingerprinter); ok {
		if err := e.fingerprint(ctx, fp, a); err != nil {
			return false, err
		}
		if err := e.fingerprint(ctx, fp, b); err != nil {
			return false, err
		}
		return a.Digest == b.Digest, nil
	}

	same, err := e.comparer.Equal(ctx, a.Path, b.Path)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrExecution):
		return false, err
	default:
		return false, errors.ContentAccess(err)
	}
	return same, nil
}

// fingerprint fills entry.Digest on first use.
func (e *Engine) fingerprint(ctx context.Context, fp content.Fingerprinter, entry *Entry) error {
	if entry.Digest != "" {
		return nil
	}

	digest, err := fp.Fingerprint(ctx, entry.Path)
	if err != nil {
		return errors.FilesystemAccess(entry.Path, err)
	}

	entry.Digest = digest
	e.logger.WithPath(entry.Index, entry.Path).Debug("Fingerprinted file", slog.String("digest", digest))
	return nil
}
