// Package cmd implements the fcmp command line.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/d-kuro/fcmp/internal/config"
	"github.com/d-kuro/fcmp/internal/content"
	"github.com/d-kuro/fcmp/internal/errors"
	"github.com/d-kuro/fcmp/internal/logging"
	"github.com/d-kuro/fcmp/internal/rank"
	"github.com/d-kuro/fcmp/internal/storage"
	"github.com/d-kuro/fcmp/pkg/version"
)

const flagVersion = "version"

// NewRootCmd creates the fcmp root command writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fcmp [OPTIONS] [PATHS]...",
		Short: "Print the most recently modified of the given files",
		Long: `fcmp compares the modification times of the given files and prints the
newest one. Ties are broken in favor of the file listed first.

Paths that share a name with a subcommand must follow "--", e.g.
  fcmp -- serve version help`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRank,
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	config.RegisterFlags(cmd.Flags())
	config.RegisterLogFlags(cmd.PersistentFlags())
	cmd.Flags().BoolP(flagVersion, "V", false, "Print version information and exit")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.ConfigurationWithCause("invalid arguments", err)
	})

	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewServeCmd())

	return cmd
}

func runRank(cmd *cobra.Command, args []string) error {
	if versionFlag, _ := cmd.Flags().GetBool(flagVersion); versionFlag {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.GetVersion().String())
		return err
	}

	opts, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger := logging.NewLoggerTo(cmd.ErrOrStderr(), opts.LogLevel)

	if len(args) == 0 {
		logger.Debug("No paths given")
		return nil
	}

	comparer, err := content.New(opts.Method, storage.NewOSFileSystem())
	if err != nil {
		return errors.ConfigurationWithCause("invalid --diff-method", err)
	}

	engine := rank.New(opts.Rank,
		rank.WithComparer(comparer),
		rank.WithLogger(logger),
	)

	result, err := engine.Rank(cmd.Context(), args)
	if err != nil {
		return err
	}

	if result.Ambiguous {
		logger.Info("Selected file ties with a file of different content",
			slog.Int("index", result.Winner.Index),
			slog.String("path", result.Winner.Path))
	}

	if opts.JSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}
		return nil
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Project(opts.Rank.Output))
	return err
}
