package exitcode

import (
	goerrors "errors"
	"os"

	"github.com/embedx/targetman/internal/errors"
	"github.com/embedx/targetman/internal/runner"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates all resolved targets built cleanly
	Success = 0

	// GeneralError indicates a general error condition, including a run
	// that completed under --keep-going with at least one recorded failure
	GeneralError = 1

	// UsageError indicates bad input: configuration or discovery problems
	// surfaced before any build tool was invoked
	UsageError = 2
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(FromError(err))
}

// FromError maps an error to the process exit code.
//
// A fail-fast ExecutionError propagates the failing target's own exit
// code so callers can distinguish build-tool failures; configuration and
// discovery errors exit 2 before anything was built.
func FromError(err error) int {
	if err == nil {
		return Success
	}

	var execErr *runner.ExecutionError
	if goerrors.As(err, &execErr) {
		if execErr.Record.ExitCode > 0 {
			return execErr.Record.ExitCode
		}
		return GeneralError
	}

	if errors.IsConfig(err) || errors.IsDiscovery(err) {
		return UsageError
	}

	return GeneralError
}

// Description returns a human-readable description of an exit code
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Configuration or discovery error"
	default:
		return "Build target failed"
	}
}
