package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "test error message")

	if err.Code != ErrCodeConfigInvalid {
		t.Errorf("expected code %s, got %s", ErrCodeConfigInvalid, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeConfigNotFound, "failed to read file", cause)

	if err.Code != ErrCodeConfigNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeConfigNotFound, err.Code)
	}

	if err.Cause != cause {
		t.Errorf("expected cause to be set")
	}

	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeConfigInvalid, "bad schema"),
			wantCode: "CONFIG-003",
			wantMsg:  "bad schema",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeConfigUnmarshal, "parse failed", fmt.Errorf("line 3: bad indent")),
			wantCode: "CONFIG-002",
			wantMsg:  "line 3: bad indent",
		},
		{
			name:     "error with suggestion",
			err:      New(ErrCodeConfigBuildSystem, "unknown build system").WithSuggestion("Use 'make' or 'ninja'"),
			wantCode: "CONFIG-007",
			wantMsg:  "Use 'make' or 'ninja'",
		},
		{
			name:     "error with tool output",
			err:      New(ErrCodeDiscoverProbeFailed, "probe failed").WithOutput("ninja: error: unknown target"),
			wantCode: "DISCOVER-004",
			wantMsg:  "ninja: error: unknown target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()

			if !strings.Contains(errStr, tt.wantCode) {
				t.Errorf("error string should contain code %s, got: %s", tt.wantCode, errStr)
			}
			if !strings.Contains(errStr, tt.wantMsg) {
				t.Errorf("error string should contain %q, got: %s", tt.wantMsg, errStr)
			}
		})
	}
}

func TestIsConfig(t *testing.T) {
	if !IsConfig(NewConfigInvalidError("x")) {
		t.Error("CONFIG error should report IsConfig")
	}
	if IsConfig(NewNoModulesError()) {
		t.Error("DISCOVER error should not report IsConfig")
	}
	if IsConfig(fmt.Errorf("plain")) {
		t.Error("plain error should not report IsConfig")
	}

	wrapped := fmt.Errorf("outer: %w", NewBuildSystemError("scons"))
	if !IsConfig(wrapped) {
		t.Error("IsConfig should unwrap")
	}
}

func TestIsDiscovery(t *testing.T) {
	if !IsDiscovery(NewBadRootError("/nope")) {
		t.Error("DISCOVER error should report IsDiscovery")
	}
	if IsDiscovery(NewConfigInvalidError("x")) {
		t.Error("CONFIG error should not report IsDiscovery")
	}
}

func TestConstructorsNameSubjects(t *testing.T) {
	err := NewExcludeNotCommonError("alpha", "lint")
	for _, want := range []string{"alpha", "lint"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should name %q, got: %s", want, err.Error())
		}
	}

	err = NewUnknownModuleError("excluded_targets", "ghost")
	if !strings.Contains(err.Error(), "ghost") || !strings.Contains(err.Error(), "excluded_targets") {
		t.Errorf("error should name section and module, got: %s", err.Error())
	}
}
