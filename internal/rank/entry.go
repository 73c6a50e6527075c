package rank

import (
	"strconv"
	"time"
)

// stampKind orders synthetic timestamps around real ones.
type stampKind int8

const (
	stampMin stampKind = iota - 1
	stampReal
	stampMax
)

// stamp is a modification time extended with -inf and +inf.
type stamp struct {
	kind stampKind
	t    time.Time
}

// compare returns -1, 0 or +1 as s is older than, as old as, or newer than o.
func (s stamp) compare(o stamp) int {
	if s.kind != o.kind {
		if s.kind < o.kind {
			return -1
		}
		return 1
	}
	if s.kind != stampReal {
		return 0
	}
	return s.t.Compare(o.t)
}

// Entry is one input path with its resolved metadata.
type Entry struct {
	// Index is the position of the path in the input.
	Index int    `json:"index"`
	Path  string `json:"path"`
	// Missing is set when the path does not exist.
	Missing bool      `json:"missing"`
	ModTime time.Time `json:"mod_time,omitzero"`
	Size    int64     `json:"size,omitempty"`
	// Digest is the content fingerprint, filled only once a content
	// comparison needed it.
	Digest string `json:"digest,omitempty"`

	regular bool
	stamp   stamp
}

// Result is the outcome of a ranking.
type Result struct {
	Winner *Entry `json:"winner"`
	// Ambiguous is set when the winner tied on modification time with a
	// later file whose content differs.
	Ambiguous bool `json:"ambiguous"`
	// Considered counts the entries that took part after missing-file handling.
	Considered int `json:"considered"`
}

// Project renders the winner for output.
func (r *Result) Project(mode OutputMode) string {
	if mode == OutputIndex {
		return strconv.Itoa(r.Winner.Index)
	}
	return r.Winner.Path
}
