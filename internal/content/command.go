package content

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/d-kuro/fcmp/internal/errors"
)

// CommandExecutor runs external comparison tools with a timeout.
type CommandExecutor struct {
	timeout time.Duration
}

// NewCommandExecutor creates a new command executor with the specified timeout.
func NewCommandExecutor(timeout time.Duration) *CommandExecutor {
	return &CommandExecutor{
		timeout: timeout,
	}
}

// CommandResult represents the result of a command execution.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Execute runs name with args and returns its output and exit status.
// A non-zero exit status is reported in the result, not as an error.
func (e *CommandExecutor) Execute(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	start := time.Now()

	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(timeoutCtx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if !errors.As(err, &exitError) {
			return nil, errors.Wrap(err, "failed to execute command")
		}
		if timeoutCtx.Err() != nil {
			return nil, fmt.Errorf("command %s timed out after %s: %w", name, e.timeout, timeoutCtx.Err())
		}
		exitCode = exitError.ExitCode()
	}

	return &CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		Duration: time.Since(start),
	}, nil
}

// FindBinary searches for a binary in the system PATH.
func FindBinary(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("binary %s not found in PATH: %w", name, err)
	}
	return path, nil
}

// CommandComparer delegates the comparison to an external tool that exits 0
// for identical files and 1 for different ones.
type CommandComparer struct {
	executor *CommandExecutor
	name     string
	args     []string
}

// NewCmpComparer compares files with `cmp -s`.
func NewCmpComparer(executor *CommandExecutor) *CommandComparer {
	return &CommandComparer{executor: executor, name: "cmp", args: []string{"-s"}}
}

// NewDiffComparer compares files with `diff -q`.
func NewDiffComparer(executor *CommandExecutor) *CommandComparer {
	return &CommandComparer{executor: executor, name: "diff", args: []string{"-q"}}
}

// Equal implements Comparer.
func (c *CommandComparer) Equal(ctx context.Context, a, b string) (bool, error) {
	bin, err := FindBinary(c.name)
	if err != nil {
		return false, errors.ExecutionWithCause("cannot compare with "+c.name, err)
	}

	args := append(append([]string{}, c.args...), "--", a, b)
	result, err := c.executor.Execute(ctx, bin, args...)
	if err != nil {
		return false, errors.ExecutionWithCause("failed to run "+c.name, err)
	}

	switch result.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, errors.ExecutionWithCause(
			fmt.Sprintf("%s failed with exit code %d", c.name, result.ExitCode),
			errors.New("%s", strings.TrimSpace(result.Stderr)))
	}
}
