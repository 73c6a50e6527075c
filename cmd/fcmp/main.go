// Package main implements the fcmp executable.
// It prints the most (or least) recently modified of the files given on the
// command line, or serves the same comparison as an MCP tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/d-kuro/fcmp/internal/cmd"
	"github.com/d-kuro/fcmp/internal/errors"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := cmd.NewRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "fcmp: %v\n", err)
		return errors.ExitCode(err)
	}
	return errors.ExitOK
}
