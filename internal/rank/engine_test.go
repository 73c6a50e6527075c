package rank

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/d-kuro/fcmp/internal/content"
	"github.com/d-kuro/fcmp/internal/errors"
	"github.com/d-kuro/fcmp/internal/logging"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(sec int) time.Time {
	return base.Add(time.Duration(sec) * time.Second)
}

// fakeFile describes one path in a fakeFS.
type fakeFile struct {
	content string
	modTime time.Time
	dir     bool
	statErr error
	// readErr is returned by every Read on the opened file.
	readErr error
}

type fakeInfo struct {
	name string
	f    fakeFile
}

func (i fakeInfo) Name() string       { return i.name }
func (i fakeInfo) Size() int64        { return int64(len(i.f.content)) }
func (i fakeInfo) ModTime() time.Time { return i.f.modTime }
func (i fakeInfo) IsDir() bool        { return i.f.dir }
func (i fakeInfo) Sys() any           { return nil }
func (i fakeInfo) Mode() fs.FileMode {
	if i.f.dir {
		return fs.ModeDir | 0755
	}
	return 0644
}

// fakeFS serves files from memory and records every Open and Close.
type fakeFS struct {
	files  map[string]fakeFile
	opened []string
	closed int
}

type fakeReader struct {
	fsys *fakeFS
	r    io.Reader
	err  error
}

func (r *fakeReader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.r.Read(p)
}

func (r *fakeReader) Close() error {
	r.fsys.closed++
	return nil
}

func (f *fakeFS) Stat(path string) (fs.FileInfo, error) {
	file, ok := f.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	if file.statErr != nil {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: file.statErr}
	}
	return fakeInfo{name: filepath.Base(path), f: file}, nil
}

func (f *fakeFS) Open(path string) (io.ReadCloser, error) {
	f.opened = append(f.opened, path)
	file, ok := f.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return &fakeReader{fsys: f, r: strings.NewReader(file.content), err: file.readErr}, nil
}

func rank(t *testing.T, fsys *fakeFS, cfg Config, paths ...string) (*Result, error) {
	t.Helper()
	return New(cfg, WithFileSystem(fsys)).Rank(context.Background(), paths)
}

func TestRankSelectsByModificationTime(t *testing.T) {
	fsys := &fakeFS{files: map[string]fakeFile{
		"a": {content: "a", modTime: at(5)},
		"b": {content: "b", modTime: at(9)},
		"c": {content: "c", modTime: at(1)},
	}}

	tests := []struct {
		name    string
		reverse bool
		want    string
	}{
		{name: "newest", reverse: false, want: "b"},
		{name: "oldest", reverse: true, want: "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Reverse = tt.reverse

			result, err := rank(t, fsys, cfg, "a", "b", "c")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.Winner.Path != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, result.Winner.Path)
			}
			if result.Considered != 3 {
				t.Errorf("Expected 3 considered entries, got %d", result.Considered)
			}
		})
	}
}

func TestRankTieBreaksOnInputOrder(t *testing.T) {
	fsys := &fakeFS{files: map[string]fakeFile{
		"a": {content: "a", modTime: at(1)},
		"b": {content: "b", modTime: at(5)},
		"c": {content: "c", modTime: at(5)},
		"d": {content: "d", modTime: at(1)},
	}}

	tests := []struct {
		name    string
		reverse bool
		paths   []string
		want    int
	}{
		{name: "newest keeps first of tied", paths: []string{"a", "b", "c", "d"}, want: 1},
		{name: "newest keeps first of tied reordered", paths: []string{"c", "a", "b"}, want: 0},
		{name: "oldest keeps first of tied", reverse: true, paths: []string{"b", "a", "c", "d"}, want: 1},
		{name: "same path twice", paths: []string{"b", "b"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Reverse = tt.reverse

			result, err := rank(t, fsys, cfg, tt.paths...)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.Winner.Index != tt.want {
				t.Errorf("Expected index %d, got %d", tt.want, result.Winner.Index)
			}
		})
	}
}

func TestRankMissingPolicies(t *testing.T) {
	fsys := &fakeFS{files: map[string]fakeFile{
		"A": {content: "a", modTime: at(5)},
	}}

	tests := []struct {
		name      string
		policy    MissingPolicy
		reverse   bool
		paths     []string
		want      string
		wantErr   error
		wantCount int
	}{
		{name: "oldest loses newest comparison", policy: MissingOldest, paths: []string{"A", "B"}, want: "A", wantCount: 2},
		{name: "oldest wins oldest comparison", policy: MissingOldest, reverse: true, paths: []string{"A", "B"}, want: "B", wantCount: 2},
		{name: "newest wins newest comparison", policy: MissingNewest, paths: []string{"A", "B"}, want: "B", wantCount: 2},
		{name: "newest loses oldest comparison", policy: MissingNewest, reverse: true, paths: []string{"A", "B"}, want: "A", wantCount: 2},
		{name: "ignore drops missing", policy: MissingIgnore, paths: []string{"B", "A"}, want: "A", wantCount: 1},
		{name: "error fails fast", policy: MissingError, paths: []string{"A", "B"}, wantErr: errors.ErrMissingFile},
		{name: "two missing tie on input order", policy: MissingNewest, paths: []string{"A", "B", "C"}, want: "B", wantCount: 3},
		{name: "all ignored", policy: MissingIgnore, paths: []string{"B", "C"}, wantErr: errors.ErrEmptyResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Missing = tt.policy
			cfg.Reverse = tt.reverse

			result, err := rank(t, fsys, cfg, tt.paths...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.Winner.Path != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, result.Winner.Path)
			}
			if result.Considered != tt.wantCount {
				t.Errorf("Expected %d considered entries, got %d", tt.wantCount, result.Considered)
			}
		})
	}
}

func TestRankMissingErrorNamesPath(t *testing.T) {
	fsys := &fakeFS{files: map[string]fakeFile{"A": {modTime: at(1)}}}
	cfg := DefaultConfig()
	cfg.Missing = MissingError

	_, err := rank(t, fsys, cfg, "A", "gone.txt")

	var pathErr *errors.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("Expected *errors.PathError, got %T: %v", err, err)
	}
	if pathErr.Path != "gone.txt" {
		t.Errorf("Expected path gone.txt, got %s", pathErr.Path)
	}
}

func TestRankEmptyInput(t *testing.T) {
	_, err := rank(t, &fakeFS{}, DefaultConfig())
	if !errors.Is(err, errors.ErrEmptyResult) {
		t.Errorf("Expected ErrEmptyResult, got %v", err)
	}
	if errors.Is(err, errors.ErrMissingFile) {
		t.Error("Empty result must be distinct from missing file")
	}
}

func TestRankFilesystemAccessError(t *testing.T) {
	fsys := &fakeFS{files: map[string]fakeFile{
		"a":      {modTime: at(1)},
		"locked": {statErr: fs.ErrPermission},
	}}

	for _, policy := range MissingPolicies {
		t.Run(string(policy), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Missing = policy

			_, err := rank(t, fsys, cfg, "a", "locked")
			if !errors.Is(err, errors.ErrFilesystemAccess) {
				t.Fatalf("Expected ErrFilesystemAccess, got %v", err)
			}
			if !errors.Is(err, fs.ErrPermission) {
				t.Errorf("Expected cause fs.ErrPermission, got %v", err)
			}
			if errors.Is(err, errors.ErrMissingFile) {
				t.Error("Access errors must not be reported as missing files")
			}
		})
	}
}

func TestRankDiffMode(t *testing.T) {
	tests := []struct {
		name          string
		files         map[string]fakeFile
		fold          bool
		want          string
		wantAmbiguous bool
		wantOpened    int
	}{
		{
			name: "equal content tie keeps first",
			files: map[string]fakeFile{
				"A": {content: "x", modTime: at(5)},
				"B": {content: "x", modTime: at(5)},
			},
			want:       "A",
			wantOpened: 2,
		},
		{
			name: "different content tie keeps first and is ambiguous",
			files: map[string]fakeFile{
				"A": {content: "x", modTime: at(5)},
				"B": {content: "y", modTime: at(5)},
			},
			want:          "A",
			wantAmbiguous: true,
			wantOpened:    2,
		},
		{
			name: "different sizes never read content",
			files: map[string]fakeFile{
				"A": {content: "x", modTime: at(5)},
				"B": {content: "xx", modTime: at(5)},
			},
			want:          "A",
			wantAmbiguous: true,
			wantOpened:    0,
		},
		{
			name: "distinct timestamps never read content",
			files: map[string]fakeFile{
				"A": {content: "x", modTime: at(5)},
				"B": {content: "x", modTime: at(9)},
			},
			want:       "B",
			wantOpened: 0,
		},
		{
			name: "fold keeps earlier identical file",
			files: map[string]fakeFile{
				"A": {content: "x", modTime: at(5)},
				"B": {content: "x", modTime: at(9)},
			},
			fold:       true,
			want:       "A",
			wantOpened: 2,
		},
		{
			name: "fold lets different newer file win",
			files: map[string]fakeFile{
				"A": {content: "x", modTime: at(5)},
				"B": {content: "y", modTime: at(9)},
			},
			fold:       true,
			want:       "B",
			wantOpened: 2,
		},
		{
			name: "directories are never equal",
			files: map[string]fakeFile{
				"A": {dir: true, modTime: at(5)},
				"B": {dir: true, modTime: at(5)},
			},
			want:          "A",
			wantAmbiguous: true,
			wantOpened:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := &fakeFS{files: tt.files}
			cfg := DefaultConfig()
			cfg.Diff = true
			cfg.Fold = tt.fold

			result, err := rank(t, fsys, cfg, "A", "B")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.Winner.Path != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, result.Winner.Path)
			}
			if result.Ambiguous != tt.wantAmbiguous {
				t.Errorf("Expected ambiguous=%v, got %v", tt.wantAmbiguous, result.Ambiguous)
			}
			if len(fsys.opened) != tt.wantOpened {
				t.Errorf("Expected %d file reads, got %d: %v", tt.wantOpened, len(fsys.opened), fsys.opened)
			}
		})
	}
}

func TestRankContentReadFailure(t *testing.T) {
	tests := []struct {
		name     string
		bytes    bool
		failing  string
		wantPath string
	}{
		{name: "digest first file", failing: "A", wantPath: "A"},
		{name: "digest second file", failing: "B", wantPath: "B"},
		{name: "bytes first file", bytes: true, failing: "A", wantPath: "A"},
		{name: "bytes second file", bytes: true, failing: "B", wantPath: "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]fakeFile{
				"A": {content: "xy", modTime: at(5)},
				"B": {content: "xy", modTime: at(5)},
			}
			failing := files[tt.failing]
			failing.readErr = fs.ErrPermission
			files[tt.failing] = failing

			fsys := &fakeFS{files: files}
			cfg := DefaultConfig()
			cfg.Diff = true

			opts := []Option{WithFileSystem(fsys)}
			if tt.bytes {
				opts = append(opts, WithComparer(content.NewBytesComparer(fsys)))
			}

			_, err := New(cfg, opts...).Rank(context.Background(), []string{"A", "B"})
			if !errors.Is(err, errors.ErrFilesystemAccess) {
				t.Fatalf("Expected ErrFilesystemAccess, got %v", err)
			}
			if !errors.Is(err, fs.ErrPermission) {
				t.Errorf("Expected cause fs.ErrPermission, got %v", err)
			}
			if !strings.Contains(err.Error(), "read "+tt.wantPath) {
				t.Errorf("Expected error naming %s, got %v", tt.wantPath, err)
			}
			if len(fsys.opened) == 0 {
				t.Fatal("Expected content to be read")
			}
			if fsys.closed != len(fsys.opened) {
				t.Errorf("Expected every opened file closed, opened %d closed %d", len(fsys.opened), fsys.closed)
			}
		})
	}
}

type failingComparer struct {
	err error
}

func (c failingComparer) Equal(context.Context, string, string) (bool, error) {
	return false, c.err
}

func TestRankComparerErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind error
		notKind  error
	}{
		{
			name:     "tool failure stays an execution error",
			err:      errors.ExecutionWithCause("cannot compare with cmp", fs.ErrNotExist),
			wantKind: errors.ErrExecution,
			notKind:  errors.ErrFilesystemAccess,
		},
		{
			name:     "read failure is a filesystem access error",
			err:      fs.ErrPermission,
			wantKind: errors.ErrFilesystemAccess,
			notKind:  errors.ErrExecution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := &fakeFS{files: map[string]fakeFile{
				"A": {content: "x", modTime: at(5)},
				"B": {content: "x", modTime: at(5)},
			}}
			cfg := DefaultConfig()
			cfg.Diff = true

			engine := New(cfg, WithFileSystem(fsys), WithComparer(failingComparer{err: tt.err}))
			_, err := engine.Rank(context.Background(), []string{"A", "B"})
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("Expected %v, got %v", tt.wantKind, err)
			}
			if errors.Is(err, tt.notKind) {
				t.Errorf("Did not expect %v in %v", tt.notKind, err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected cause %v to be kept, got %v", tt.err, err)
			}
		})
	}
}

func TestRankReusesFingerprints(t *testing.T) {
	fsys := &fakeFS{files: map[string]fakeFile{
		"A": {content: "x", modTime: at(5)},
		"B": {content: "y", modTime: at(5)},
		"C": {content: "z", modTime: at(5)},
	}}
	cfg := DefaultConfig()
	cfg.Diff = true

	// A fresh comparer has no cache, so any reuse comes from the entries.
	engine := New(cfg, WithFileSystem(fsys), WithComparer(content.NewDigestComparer(fsys)))
	result, err := engine.Rank(context.Background(), []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Winner.Path != "A" {
		t.Errorf("Expected A, got %s", result.Winner.Path)
	}
	if result.Winner.Digest == "" {
		t.Error("Expected winner digest to be recorded")
	}
	if len(fsys.opened) != 3 {
		t.Errorf("Expected each file read once, got %v", fsys.opened)
	}
}

func TestRankWithBytesComparer(t *testing.T) {
	fsys := &fakeFS{files: map[string]fakeFile{
		"A": {content: "same", modTime: at(5)},
		"B": {content: "same", modTime: at(9)},
	}}
	cfg := DefaultConfig()
	cfg.Fold = true

	engine := New(cfg, WithFileSystem(fsys), WithComparer(content.NewBytesComparer(fsys)))
	result, err := engine.Rank(context.Background(), []string{"A", "B"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Winner.Path != "A" {
		t.Errorf("Expected A, got %s", result.Winner.Path)
	}
	if result.Winner.Digest != "" {
		t.Error("Byte comparison must not record a digest")
	}
}

func TestRankIsIdempotent(t *testing.T) {
	fsys := &fakeFS{files: map[string]fakeFile{
		"a": {content: "1", modTime: at(3)},
		"b": {content: "2", modTime: at(3)},
		"c": {content: "3", modTime: at(2)},
	}}
	cfg := DefaultConfig()
	cfg.Diff = true
	engine := New(cfg, WithFileSystem(fsys))

	first, err := engine.Rank(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := engine.Rank(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if first.Winner.Index != second.Winner.Index || first.Ambiguous != second.Ambiguous {
		t.Errorf("Results differ: %+v vs %+v", first.Winner, second.Winner)
	}
}

func TestResultProject(t *testing.T) {
	result := &Result{Winner: &Entry{Index: 3, Path: "/tmp/d.txt"}}

	if got := result.Project(OutputPath); got != "/tmp/d.txt" {
		t.Errorf("Expected path, got %s", got)
	}
	if got := result.Project(OutputIndex); got != "3" {
		t.Errorf("Expected index 3, got %s", got)
	}
}

func TestRankOnDisk(t *testing.T) {
	tempDir := t.TempDir()

	write := func(name, data string, mod time.Time) string {
		path := filepath.Join(tempDir, name)
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", path, err)
		}
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatalf("Failed to set times on %s: %v", path, err)
		}
		return path
	}

	a := write("a.txt", "x", at(5))
	b := write("b.txt", "x", at(5))
	c := write("c.txt", "y", at(2))
	missing := filepath.Join(tempDir, "missing.txt")

	tests := []struct {
		name   string
		cfg    func(*Config)
		paths  []string
		output string
	}{
		{name: "newest path", paths: []string{c, a}, output: a},
		{name: "oldest index", cfg: func(c *Config) { c.Reverse = true; c.Output = OutputIndex }, paths: []string{a, b, c}, output: "2"},
		{name: "diff equal tie", cfg: func(c *Config) { c.Diff = true }, paths: []string{a, b}, output: a},
		{name: "missing newest index", cfg: func(c *Config) { c.Missing = MissingNewest; c.Output = OutputIndex }, paths: []string{a, missing}, output: "1"},
		{name: "missing ignore", cfg: func(c *Config) { c.Missing = MissingIgnore }, paths: []string{missing, c}, output: c},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}

			result, err := New(cfg).Rank(context.Background(), tt.paths)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := result.Project(cfg.Output); got != tt.output {
				t.Errorf("Expected %s, got %s", tt.output, got)
			}
		})
	}
}

func TestRankLogsDecisions(t *testing.T) {
	fsys := &fakeFS{files: map[string]fakeFile{
		"A": {content: "x", modTime: at(5)},
		"B": {content: "y", modTime: at(5)},
	}}
	cfg := DefaultConfig()
	cfg.Diff = true

	var buf bytes.Buffer
	engine := New(cfg, WithFileSystem(fsys), WithLogger(logging.NewLoggerTo(&buf, "debug")))
	if _, err := engine.Rank(context.Background(), []string{"A", "B", "missing"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Tie between files with different content", "File is missing", "Ranking complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %q, got:\n%s", want, out)
		}
	}
}
