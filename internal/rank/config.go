package rank

import (
	"fmt"
	"strings"
)

// MissingPolicy decides how paths that do not exist take part in a ranking.
type MissingPolicy string

const (
	// MissingOldest treats a missing file as older than every existing file.
	MissingOldest MissingPolicy = "oldest"
	// MissingNewest treats a missing file as newer than every existing file.
	MissingNewest MissingPolicy = "newest"
	// MissingIgnore drops missing files before ranking.
	MissingIgnore MissingPolicy = "ignore"
	// MissingError fails the whole ranking when any file is missing.
	MissingError MissingPolicy = "error"
)

// MissingPolicies lists every policy in help order.
var MissingPolicies = []MissingPolicy{MissingOldest, MissingNewest, MissingIgnore, MissingError}

// ParseMissingPolicy parses a policy name case-insensitively.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	for _, p := range MissingPolicies {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid missing policy %q (want one of oldest|newest|ignore|error)", s)
}

// String implements pflag.Value.
func (p *MissingPolicy) String() string {
	return string(*p)
}

// Set implements pflag.Value.
func (p *MissingPolicy) Set(s string) error {
	parsed, err := ParseMissingPolicy(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Type implements pflag.Value.
func (p *MissingPolicy) Type() string {
	return "mode"
}

// OutputMode selects how the winning entry is reported.
type OutputMode string

const (
	OutputPath  OutputMode = "path"
	OutputIndex OutputMode = "index"
)

// Config holds the options of a single ranking run.
type Config struct {
	// Diff compares file contents when two files tie on modification time.
	Diff bool `json:"diff"`
	// Fold treats files with identical content as tied even when their
	// modification times differ, keeping the earlier one.
	Fold bool `json:"fold"`
	// Missing is the policy for paths that do not exist.
	Missing MissingPolicy `json:"missing"`
	// Reverse selects the oldest file instead of the newest.
	Reverse bool `json:"reverse"`
	// Output selects path or index output.
	Output OutputMode `json:"output"`
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Missing: MissingOldest,
		Output:  OutputPath,
	}
}

// Validate checks that enumerated fields hold known values.
func (c Config) Validate() error {
	if _, err := ParseMissingPolicy(string(c.Missing)); err != nil {
		return err
	}
	switch c.Output {
	case OutputPath, OutputIndex:
	default:
		return fmt.Errorf("invalid output mode %q", c.Output)
	}
	return nil
}

// comparesContent reports whether any option needs file contents.
func (c Config) comparesContent() bool {
	return c.Diff || c.Fold
}
