package domain

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "message only",
			err: &Error{
				Code:    EINVALID,
				Message: "invalid input",
			},
			expected: "invalid input",
		},
		{
			name: "with operation",
			err: &Error{
				Code:    EINVALID,
				Op:      "gate.check",
				Message: "invalid input",
			},
			expected: "gate.check: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "history.record",
				Message: "failed to save",
				Err:     errors.New("database locked"),
			},
			expected: "history.record: failed to save: database locked",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to save",
				Err:     errors.New("database locked"),
			},
			expected: "failed to save: database locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{
		Code:    EINTERNAL,
		Message: "wrapped",
		Err:     underlying,
	}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error", Errorf(EUNAVAILABLE, "bridge.submit", "not ready"), EUNAVAILABLE},
		{"plain error", errors.New("boom"), EINTERNAL},
		{"wrapped domain error", WrapError(errors.New("boom"), EINVALID, "op", "bad"), EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{
			"user-safe message passes through",
			Errorf(EUNAVAILABLE, "bridge.submit", ReasonBridgeWait),
			ReasonBridgeWait,
		},
		{
			"internal details are hidden",
			WrapError(errors.New("database locked"), EINTERNAL, "history.record", "failed to save"),
			"An internal error occurred. Please try again later.",
		},
		{
			"plain errors are hidden",
			errors.New("boom"),
			"An internal error occurred. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWrapErrorNil(t *testing.T) {
	if got := WrapError(nil, EINVALID, "op", "msg"); got != nil {
		t.Errorf("WrapError(nil) = %v, want nil", got)
	}
}
