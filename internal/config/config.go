// Package config resolves fcmp options from command-line flags and the
// environment. fcmp reads no configuration files.
package config

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/d-kuro/fcmp/internal/content"
	"github.com/d-kuro/fcmp/internal/errors"
	"github.com/d-kuro/fcmp/internal/rank"
)

// EnvPrefix prefixes every environment variable fcmp reads, e.g. FCMP_MISSING.
const EnvPrefix = "FCMP"

// Flag names. Environment variables use the upper-cased name with dashes
// replaced by underscores.
const (
	FlagDiff     = "diff"
	FlagFold     = "fold"
	FlagIndex    = "index"
	FlagMissing  = "missing"
	FlagReverse  = "reverse"
	FlagMethod   = "diff-method"
	FlagJSON     = "json"
	FlagLogLevel = "log-level"
)

// DefaultLogLevel keeps stderr quiet unless something goes wrong.
const DefaultLogLevel = "warn"

var (
	_ pflag.Value = (*rank.MissingPolicy)(nil)
	_ pflag.Value = (*content.Method)(nil)
)

// Options is the resolved configuration of one fcmp invocation.
type Options struct {
	Rank     rank.Config
	Method   content.Method
	JSON     bool
	LogLevel string
}

// RegisterFlags adds the ranking flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	missing := rank.MissingOldest
	method := content.MethodDigest

	fs.BoolP(FlagDiff, "d", false, "Compare file contents when modification times tie")
	fs.Bool(FlagFold, false, "Consider files with the same content as equal, keeping the earlier one")
	fs.BoolP(FlagIndex, "i", false, "Print the index of the selected file rather than its path")
	fs.VarP(&missing, FlagMissing, "m", "How to treat missing files: oldest|newest|ignore|error")
	fs.BoolP(FlagReverse, "r", false, "Select the oldest file instead of the newest")
	fs.Var(&method, FlagMethod, "Content comparison method: digest|bytes|cmp|diff")
	fs.Bool(FlagJSON, false, "Print the selected entry as JSON")
}

// RegisterLogFlags adds the logging flags to fs.
func RegisterLogFlags(fs *pflag.FlagSet) {
	fs.String(FlagLogLevel, "", "Log level: debug|info|warn|error (default from LOG_LEVEL or warn)")
}

// Load resolves Options with precedence flag > FCMP_* environment > default.
func Load(fs *pflag.FlagSet) (*Options, error) {
	v := newViper()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.ConfigurationWithCause("failed to bind flags", err)
	}

	missing, err := rank.ParseMissingPolicy(v.GetString(FlagMissing))
	if err != nil {
		return nil, errors.ConfigurationWithCause("invalid --missing", err)
	}

	method, err := content.ParseMethod(v.GetString(FlagMethod))
	if err != nil {
		return nil, errors.ConfigurationWithCause("invalid --diff-method", err)
	}

	output := rank.OutputPath
	if v.GetBool(FlagIndex) {
		output = rank.OutputIndex
	}

	opts := &Options{
		Rank: rank.Config{
			Diff:    v.GetBool(FlagDiff),
			Fold:    v.GetBool(FlagFold),
			Missing: missing,
			Reverse: v.GetBool(FlagReverse),
			Output:  output,
		},
		Method:   method,
		JSON:     v.GetBool(FlagJSON),
		LogLevel: LogLevel(v, DefaultLogLevel),
	}

	if err := opts.Rank.Validate(); err != nil {
		return nil, errors.ConfigurationWithCause("invalid options", err)
	}

	return opts, nil
}

// LoadLogLevel resolves only the log level, for commands without ranking
// flags. fallback applies when neither a flag nor the environment sets one.
func LoadLogLevel(fs *pflag.FlagSet, fallback string) (string, error) {
	v := newViper()
	if err := v.BindPFlags(fs); err != nil {
		return "", errors.ConfigurationWithCause("failed to bind flags", err)
	}
	return LogLevel(v, fallback), nil
}

// LogLevel returns the configured log level, falling back to the LOG_LEVEL
// environment variable and then fallback.
func LogLevel(v *viper.Viper, fallback string) string {
	if level := v.GetString(FlagLogLevel); level != "" {
		return level
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return fallback
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(FlagMissing, string(rank.MissingOldest))
	v.SetDefault(FlagMethod, string(content.MethodDigest))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}
