package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound        ErrorCode = "CONFIG-001"
	ErrCodeConfigUnmarshal       ErrorCode = "CONFIG-002"
	ErrCodeConfigInvalid         ErrorCode = "CONFIG-003"
	ErrCodeConfigUnknownModule   ErrorCode = "CONFIG-004"
	ErrCodeConfigExcludeNoCommon ErrorCode = "CONFIG-005"
	ErrCodeConfigContradiction   ErrorCode = "CONFIG-006"
	ErrCodeConfigBuildSystem     ErrorCode = "CONFIG-007"

	// Discovery errors (DISCOVER-001 to DISCOVER-099)
	ErrCodeDiscoverBadRoot         ErrorCode = "DISCOVER-001"
	ErrCodeDiscoverDuplicateModule ErrorCode = "DISCOVER-002"
	ErrCodeDiscoverNoModules       ErrorCode = "DISCOVER-003"
	ErrCodeDiscoverProbeFailed     ErrorCode = "DISCOVER-004"

	// Execution errors (EXEC-001 to EXEC-099)
	ErrCodeExecConfigureFailed ErrorCode = "EXEC-001"
	ErrCodeExecStartFailed     ErrorCode = "EXEC-002"

	// Report errors (REPORT-001 to REPORT-099)
	ErrCodeReportDirFailed   ErrorCode = "REPORT-001"
	ErrCodeReportWriteFailed ErrorCode = "REPORT-002"
)

// Error is a coded error with optional suggestions and captured tool output.
type Error struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	// Output holds raw subprocess output attached for diagnostics,
	// e.g. the target-listing probe that exited non-zero.
	Output string
	Cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.Output != "" {
		b.WriteString("\n\nTool output:\n")
		b.WriteString(e.Output)
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new Error wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithOutput attaches captured subprocess output to the error
func (e *Error) WithOutput(output string) *Error {
	e.Output = output
	return e
}

// IsConfig reports whether the error carries a configuration error code.
func IsConfig(err error) bool {
	return hasPrefix(err, "CONFIG-")
}

// IsDiscovery reports whether the error carries a discovery error code.
func IsDiscovery(err error) bool {
	return hasPrefix(err, "DISCOVER-")
}

func hasPrefix(err error, prefix string) bool {
	for err != nil {
		if coded, ok := err.(*Error); ok {
			return strings.HasPrefix(string(coded.Code), prefix)
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

// Common error constructors for frequently used errors

// NewConfigNotFoundError creates a configuration file not found error
func NewConfigNotFoundError(path string, cause error) *Error {
	return Wrap(ErrCodeConfigNotFound, fmt.Sprintf("failed to read configuration file: %s", path), cause).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Pass an explicit path with --config")
}

// NewConfigUnmarshalError creates a YAML parse error
func NewConfigUnmarshalError(path string, cause error) *Error {
	return Wrap(ErrCodeConfigUnmarshal, fmt.Sprintf("failed to parse configuration file: %s", path), cause).
		WithSuggestion("Check the YAML syntax")
}

// NewConfigInvalidError creates a schema validation error
func NewConfigInvalidError(details string) *Error {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details))
}

// NewUnknownModuleError reports a target-spec key that names no declared module
func NewUnknownModuleError(section, module string) *Error {
	return New(ErrCodeConfigUnknownModule,
		fmt.Sprintf("'%s' references module '%s' which is not present in the module list", section, module)).
		WithSuggestion("Check the module name for typos").
		WithSuggestion("Remove the stale entry from " + section)
}

// NewExcludeNotCommonError reports an exclusion of a target that is not common
func NewExcludeNotCommonError(module, target string) *Error {
	return New(ErrCodeConfigExcludeNoCommon,
		fmt.Sprintf("module '%s' excludes target '%s', but '%s' is not present in common_targets (nothing to exclude)",
			module, target, target))
}

// NewContradictionError reports targets listed as both additional and excluded
func NewContradictionError(module string, targets []string) *Error {
	return New(ErrCodeConfigContradiction,
		fmt.Sprintf("module '%s' has target(s) %v in both additional_targets and excluded_targets", module, targets))
}

// NewBuildSystemError reports an unrecognized build.system value
func NewBuildSystemError(system string) *Error {
	return New(ErrCodeConfigBuildSystem, fmt.Sprintf("unknown build system: %q", system)).
		WithSuggestion("Use 'make' or 'ninja'")
}

// NewBadRootError reports a search root that is missing or not a directory
func NewBadRootError(root string) *Error {
	return New(ErrCodeDiscoverBadRoot,
		fmt.Sprintf("module path does not exist or is not a directory: %s", root))
}

// NewDuplicateModuleError reports the same module name under two roots
func NewDuplicateModuleError(name, root string) *Error {
	return New(ErrCodeDiscoverDuplicateModule,
		fmt.Sprintf("duplicate module name detected: '%s' in %s", name, root))
}

// NewNoModulesError reports an empty discovery result
func NewNoModulesError() *Error {
	return New(ErrCodeDiscoverNoModules, "no modules found").
		WithSuggestion("Ensure module paths contain subfolders with CMakeLists.txt")
}

// NewProbeFailedError reports a non-zero exit from the target-listing probe
func NewProbeFailedError(modulePath string, output string, cause error) *Error {
	return Wrap(ErrCodeDiscoverProbeFailed,
		fmt.Sprintf("failed to discover targets for %s", modulePath), cause).
		WithOutput(output)
}

// NewConfigureFailedError reports a failed build-system generation step
func NewConfigureFailedError(modulePath string, cause error) *Error {
	return Wrap(ErrCodeExecConfigureFailed,
		fmt.Sprintf("failed to configure module: %s", modulePath), cause).
		WithSuggestion("Run with --reconfigure to regenerate the output directory").
		WithSuggestion("Run with --verbose to see the generator output")
}
