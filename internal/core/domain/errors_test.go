package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("NS-TEST-1000", "test message"),
			expected: "[NS-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("NS-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[NS-TEST-1001] test message: extra info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	err1 := NewDomainError("NS-TEST-1000", "message 1")
	err2 := NewDomainError("NS-TEST-1000", "message 2") // Same code, different message
	err3 := NewDomainError("NS-TEST-1001", "message 1") // Different code

	// Same code should match
	if !errors.Is(err1, err2) {
		t.Error("errors.Is should return true for same error code")
	}

	// Different code should not match
	if errors.Is(err1, err3) {
		t.Error("errors.Is should return false for different error code")
	}

	// Should not match non-DomainError
	if errors.Is(err1, fmt.Errorf("some error")) {
		t.Error("errors.Is should return false for non-DomainError")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying cause")
	err := NewDomainError("NS-TEST-1000", "wrapper").WithCause(cause)

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Without cause
	errNoCause := NewDomainError("NS-TEST-1000", "no cause")
	if errors.Unwrap(errNoCause) != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestDomainError_WithDetails(t *testing.T) {
	original := NewDomainError("NS-TEST-1000", "original message")
	withDetails := original.WithDetails("additional details")

	// Check original is unchanged
	if original.Details != "" {
		t.Error("WithDetails should not modify original error")
	}

	// Check new error has details
	if withDetails.Details != "additional details" {
		t.Errorf("Details = %q, want %q", withDetails.Details, "additional details")
	}

	// Check code and message are preserved
	if withDetails.Code != original.Code {
		t.Errorf("Code = %q, want %q", withDetails.Code, original.Code)
	}
	if withDetails.Message != original.Message {
		t.Errorf("Message = %q, want %q", withDetails.Message, original.Message)
	}
}

func TestDomainError_WithCause(t *testing.T) {
	original := NewDomainError("NS-TEST-1000", "original message")
	cause := fmt.Errorf("root cause")
	withCause := original.WithCause(cause)

	// Check original is unchanged
	if original.Cause != nil {
		t.Error("WithCause should not modify original error")
	}

	// Check new error has cause
	if withCause.Cause != cause {
		t.Errorf("Cause = %v, want %v", withCause.Cause, cause)
	}

	// Check code and message are preserved
	if withCause.Code != original.Code {
		t.Errorf("Code = %q, want %q", withCause.Code, original.Code)
	}
}

func TestDomainError_Wrap(t *testing.T) {
	original := NewDomainError("NS-TEST-1000", "original")
	cause := fmt.Errorf("cause")
	wrapped := original.Wrap(cause)

	if wrapped.Cause != cause {
		t.Errorf("Wrap() should set cause, got %v", wrapped.Cause)
	}
}

func TestIsDomainError(t *testing.T) {
	err := ErrCollectionRead

	if !IsDomainError(err, "NS-CHAIN-5002") {
		t.Error("IsDomainError should return true for matching code")
	}

	if IsDomainError(err, "NS-CHAIN-9999") {
		t.Error("IsDomainError should return false for non-matching code")
	}

	if IsDomainError(fmt.Errorf("regular error"), "NS-CHAIN-5002") {
		t.Error("IsDomainError should return false for non-DomainError")
	}

	wrapped := fmt.Errorf("wrapped: %w", ErrCollectionRead.WithCause(errors.New("timeout")))
	if !IsDomainError(wrapped, "NS-CHAIN-5002") {
		t.Error("IsDomainError should work with wrapped errors")
	}
	if !IsDomainError(wrapped, "") {
		t.Error("IsDomainError with empty code should match any DomainError")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "domain error",
			err:      ErrCollectionAddressMissing,
			expected: "NS-CFG-1001",
		},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("wrapped: %w", ErrMalformedStack),
			expected: "NS-CHAIN-4220",
		},
		{
			name:     "regular error",
			err:      fmt.Errorf("regular error"),
			expected: "",
		},
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err  *DomainError
		code string
	}{
		{ErrCollectionAddressMissing, "NS-CFG-1001"},
		{ErrWalletMissing, "NS-CFG-1002"},
		{ErrInvalidConfig, "NS-CFG-1003"},

		{ErrInvalidAddress, "NS-ARG-1001"},
		{ErrInvalidArgument, "NS-ARG-1002"},

		{ErrLastBlock, "NS-CHAIN-5001"},
		{ErrCollectionRead, "NS-CHAIN-5002"},
		{ErrItemAddress, "NS-CHAIN-5003"},
		{ErrGetMethod, "NS-CHAIN-5004"},
		{ErrMalformedStack, "NS-CHAIN-4220"},
		{ErrSendUnsupported, "NS-CHAIN-4050"},

		{ErrCheckpoint, "NS-STOR-5001"},
		{ErrSnapshotWrite, "NS-STOR-5002"},

		{ErrInterrupted, "NS-SYS-4990"},
	}

	seen := make(map[string]bool)
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Error code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Error message should not be empty")
			}
			if seen[tt.code] {
				t.Errorf("duplicate error code %q", tt.code)
			}
			seen[tt.code] = true
		})
	}
}

func TestErrorChaining(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := ErrItemAddress.
		WithDetails("index 7").
		WithCause(cause)

	if err.Code != "NS-CHAIN-5003" {
		t.Errorf("Code = %q, want %q", err.Code, "NS-CHAIN-5003")
	}
	if err.Details != "index 7" {
		t.Errorf("Details = %q", err.Details)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the root cause")
	}
	if !errors.Is(err, ErrItemAddress) {
		t.Error("errors.Is should match the predefined error by code")
	}
	if ErrItemAddress.Details != "" || ErrItemAddress.Cause != nil {
		t.Error("predefined error must not be mutated")
	}
}
