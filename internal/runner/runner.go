// Package runner configures module build output and executes resolved
// targets one at a time against the underlying build tool.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/embedx/targetman/internal/config"
	"github.com/embedx/targetman/internal/errors"
	"github.com/embedx/targetman/internal/log"
	"github.com/embedx/targetman/internal/proc"
)

// OutDirName is the fixed-name build output subdirectory inside each
// module. Its presence is what marks a module as configured.
const OutDirName = "out"

// State is a progress event state for one (module, target) cell.
type State string

const (
	StateRunning State = "running"
	StateOK      State = "ok"
	StateFail    State = "fail"
)

// ProgressFunc receives progress events in execution order: running
// first, then exactly one terminal state.
type ProgressFunc func(module, target string, state State)

// FailureRecord captures one failed target execution. Records are
// append-only; nothing mutates them after creation.
type FailureRecord struct {
	ModulePath string
	Target     string
	ExitCode   int
	Command    []string
}

// ExecutionError aborts the run when a target fails and keep-going is
// not in effect. It carries the same data shape as a FailureRecord so
// both failure paths report identically.
type ExecutionError struct {
	Record FailureRecord
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("target '%s' failed in '%s' (exit=%d)",
		e.Record.Target, e.Record.ModulePath, e.Record.ExitCode)
}

// BuildRunner drives one build-tool invocation at a time. Module
// iteration above it and target iteration inside it are both strictly
// sequential; any parallelism lives inside the build tool (Jobs).
type BuildRunner struct {
	Proc proc.Runner
	// System selects the generator and the per-target build tool.
	System config.BuildSystem
	// Jobs is passed to make as -jN; ninja self-determines parallelism.
	Jobs int
	// Reconfigure destroys an existing output directory before
	// regenerating it.
	Reconfigure bool
	// KeepGoing records failures and continues instead of aborting.
	KeepGoing bool
	// Progress receives per-target events; nil disables reporting.
	Progress ProgressFunc
	Logger   *log.Logger

	// configured tracks modules already brought into the configured
	// state during this run, so Reconfigure destroys each output
	// directory at most once.
	configured map[string]struct{}
}

// Configure brings the module's output directory into the configured
// state and returns its path. Configuring an already-configured module
// is a no-op unless Reconfigure is set, in which case the existing
// output is destroyed first and generation runs again.
func (r *BuildRunner) Configure(ctx context.Context, modulePath string) (string, error) {
	outPath := filepath.Join(modulePath, OutDirName)

	if _, done := r.configured[modulePath]; done {
		return outPath, nil
	}

	if r.Reconfigure {
		if _, err := os.Stat(outPath); err == nil {
			r.logger().Debug("removing existing output directory", "module", modulePath)
			if err := os.RemoveAll(outPath); err != nil {
				return "", errors.NewConfigureFailedError(modulePath, err)
			}
		}
	}

	if info, err := os.Stat(outPath); err == nil && info.IsDir() {
		r.markConfigured(modulePath)
		return outPath, nil
	}

	generator, err := r.System.Generator()
	if err != nil {
		return "", err
	}

	r.logger().Debug("configuring module", "module", modulePath, "generator", generator)

	cmd := proc.Command{
		Name: "cmake",
		Args: []string{"-S", "./", "-B", OutDirName, "-G", generator},
		Dir:  modulePath,
	}
	result, err := r.Proc.Run(ctx, cmd)
	if err != nil {
		return "", errors.NewConfigureFailedError(modulePath, err)
	}
	if result.ExitCode != 0 {
		return "", errors.NewConfigureFailedError(modulePath,
			fmt.Errorf("cmake exited with code %d", result.ExitCode)).WithOutput(result.Output)
	}

	r.markConfigured(modulePath)
	return outPath, nil
}

func (r *BuildRunner) markConfigured(modulePath string) {
	if r.configured == nil {
		r.configured = make(map[string]struct{})
	}
	r.configured[modulePath] = struct{}{}
}

// Run executes the resolved targets for one module in order. The module
// must already be configured. Each failed target becomes one
// FailureRecord; with KeepGoing unset the first failure aborts with an
// ExecutionError and no later target emits any progress event.
func (r *BuildRunner) Run(ctx context.Context, moduleName, modulePath string, targets []string) ([]FailureRecord, error) {
	outPath := filepath.Join(modulePath, OutDirName)

	var failed []FailureRecord
	for _, target := range targets {
		cmd, err := r.buildCommand(target)
		if err != nil {
			return failed, err
		}
		cmd.Dir = outPath

		r.emit(moduleName, target, StateRunning)

		result, err := r.Proc.Run(ctx, cmd)
		if err != nil {
			r.emit(moduleName, target, StateFail)
			return failed, errors.Wrap(errors.ErrCodeExecStartFailed,
				fmt.Sprintf("failed to run '%s' for module %s", cmd, modulePath), err)
		}

		if result.ExitCode == 0 {
			r.emit(moduleName, target, StateOK)
			continue
		}

		r.emit(moduleName, target, StateFail)
		record := FailureRecord{
			ModulePath: modulePath,
			Target:     target,
			ExitCode:   result.ExitCode,
			Command:    cmd.Argv(),
		}
		r.logger().Debug("target failed",
			"module", modulePath, "target", target, "exit", result.ExitCode)

		if !r.KeepGoing {
			return failed, &ExecutionError{Record: record}
		}
		failed = append(failed, record)
	}

	return failed, nil
}

func (r *BuildRunner) buildCommand(target string) (proc.Command, error) {
	switch r.System {
	case config.BuildSystemMake:
		args := []string{}
		if r.Jobs > 0 {
			args = append(args, fmt.Sprintf("-j%d", r.Jobs))
		}
		return proc.Command{Name: "make", Args: append(args, target)}, nil
	case config.BuildSystemNinja:
		return proc.Command{Name: "ninja", Args: []string{target}}, nil
	default:
		return proc.Command{}, errors.NewBuildSystemError(string(r.System))
	}
}

func (r *BuildRunner) emit(module, target string, state State) {
	if r.Progress != nil {
		r.Progress(module, target, state)
	}
}

func (r *BuildRunner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Global()
}
