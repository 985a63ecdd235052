package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DefaultCommand is the contract-test runner executable.
const DefaultCommand = "pytest"

// Invocation is everything one runner execution needs.
type Invocation struct {
	// ConfigPath is the scoped configuration file from TempConfig.
	ConfigPath string

	// MarkerExpr is the test-selection expression; it is always passed,
	// even when empty (an empty expression selects everything).
	MarkerExpr string

	// ExtraArgs are user-forwarded raw arguments, appended verbatim.
	ExtraArgs []string

	// Plugins is the registry holding the transport client.
	Plugins *PluginRegistry
}

// Runner executes one contract-test run and reports its exit status. A
// non-zero status is an ordinary test failure, not an error; errors are
// reserved for being unable to run at all.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (int, error)
}

// ExecRunner invokes an external runner process.
type ExecRunner struct {
	// Command overrides DefaultCommand when non-empty.
	Command string

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// Run builds the argument list from the invocation and executes the runner
// synchronously. The in-process plugin registry cannot cross the process
// boundary, so registered plugin names are exported through the
// environment for the runner's fixture layer to resolve.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (int, error) {
	command := r.Command
	if command == "" {
		command = DefaultCommand
	}
	args := append([]string{"-c", inv.ConfigPath, "-m", inv.MarkerExpr}, inv.ExtraArgs...)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	if inv.Plugins != nil {
		cmd.Env = append(os.Environ(), "CONTRACT_TEST_PLUGINS="+strings.Join(inv.Plugins.Names(), ","))
	}

	if r.Logger != nil {
		r.Logger.Debug("invoking test runner", "command", command, "marker", inv.MarkerExpr)
	}
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("running %s: %w", command, err)
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}
