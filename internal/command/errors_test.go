package command

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitCodeSuccess},
		{"user input", &UserInputError{Message: "bad flag"}, ExitCodeUserInput},
		{"config", &ConfigError{Message: "bad yaml"}, ExitCodeConfig},
		{"state", &StateError{Message: "illegal transition"}, ExitCodeState},
		{"environment", &EnvironmentError{Message: "packwiz not found"}, ExitCodeEnvironment},
		{"build failure", &BuildFailureError{Target: "server", Message: "packwiz failed"}, ExitCodeBuildFailure},
		{"template", &TemplateError{Message: "unknown variable"}, ExitCodeTemplateFailure},
		{"internal", &InternalError{Message: "complete without begin"}, ExitCodeInternal},
		{"unclassified", errors.New("some error"), ExitCodeUserInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCode(tt.err))
		})
	}
}

func TestExitCode_WrappedError(t *testing.T) {
	base := &EnvironmentError{Message: "network down"}
	wrapped := fmt.Errorf("resolve failed: %w", base)

	assert.Equal(t, ExitCodeEnvironment, ExitCode(wrapped))
}

func TestErrorTypes_UnwrapAndIs(t *testing.T) {
	cause := errors.New("underlying")

	tests := []struct {
		name string
		err  error
	}{
		{"user input", &UserInputError{Message: "m", Cause: cause}},
		{"config", &ConfigError{Message: "m", Cause: cause}},
		{"state", &StateError{Message: "m", Cause: cause}},
		{"environment", &EnvironmentError{Message: "m", Cause: cause}},
		{"build failure", &BuildFailureError{Message: "m", Cause: cause}},
		{"template", &TemplateError{Message: "m", Cause: cause}},
		{"internal", &InternalError{Message: "m", Cause: cause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, cause)
			assert.Contains(t, tt.err.Error(), "underlying")
		})
	}
}

func TestBuildFailureError_TargetPrefix(t *testing.T) {
	err := &BuildFailureError{Target: "mrpack", Message: "packwiz refresh failed"}
	assert.Contains(t, err.Error(), "mrpack: packwiz refresh failed")
}
