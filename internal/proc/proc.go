package proc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Command describes one build-tool invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory for the invocation.
	Dir string
	// Capture collects combined stdout+stderr into Result.Output instead
	// of streaming it to Stdout/Stderr.
	Capture bool
}

// String renders the command line for diagnostics.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Argv returns the full argument vector including the program name.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Result holds the outcome of one invocation.
type Result struct {
	ExitCode int
	Output   string
	Duration time.Duration
}

// Runner executes external build-tool commands. A non-zero exit code is
// reported through Result, not through the error return; the error return
// is reserved for commands that could not be run at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec. When Verbose is set and the
// command does not capture, child output is streamed to Stdout/Stderr;
// otherwise it is discarded.
type ExecRunner struct {
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// Run implements Runner
func (r *ExecRunner) Run(ctx context.Context, command Command) (Result, error) {
	startTime := time.Now()

	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir

	var combined bytes.Buffer
	switch {
	case command.Capture:
		cmd.Stdout = &combined
		cmd.Stderr = &combined
	case r.Verbose:
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	default:
		// Quiet mode: build output is only interesting on failure, and
		// failures are reported through exit codes.
	}

	err := cmd.Run()

	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return Result{}, fmt.Errorf("failed to execute %s: %w", command.Name, err)
		}
		exitCode = exitErr.ExitCode()
	}

	return Result{
		ExitCode: exitCode,
		Output:   combined.String(),
		Duration: time.Since(startTime),
	}, nil
}

// Compile-time verification that ExecRunner implements Runner
var _ Runner = (*ExecRunner)(nil)
