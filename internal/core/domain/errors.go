// Package domain defines the core domain models for nftsnap.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
// Codes have the form NS-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "NS-CHAIN-5002")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true // Only check if it's a DomainError
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Configuration Errors (CFG)
// ============================================================================

var (
	// ErrCollectionAddressMissing indicates no collection address was configured.
	ErrCollectionAddressMissing = NewDomainError("NS-CFG-1001", "nft collection address is missing")

	// ErrWalletMissing indicates a send operation was requested without a wallet mnemonic.
	ErrWalletMissing = NewDomainError("NS-CFG-1002", "wallet mnemonic is missing")

	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = NewDomainError("NS-CFG-1003", "invalid configuration")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidAddress indicates an address could not be parsed.
	ErrInvalidAddress = NewDomainError("NS-ARG-1001", "invalid address")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("NS-ARG-1002", "invalid argument")
)

// ============================================================================
// Chain Errors (CHAIN)
// ============================================================================

var (
	// ErrLastBlock indicates the last masterchain block could not be resolved.
	ErrLastBlock = NewDomainError("NS-CHAIN-5001", "cannot resolve last block")

	// ErrCollectionRead indicates a collection-level get-method failed.
	ErrCollectionRead = NewDomainError("NS-CHAIN-5002", "collection read failed")

	// ErrItemAddress indicates an item address could not be derived.
	ErrItemAddress = NewDomainError("NS-CHAIN-5003", "item address derivation failed")

	// ErrGetMethod indicates a get-method returned a non-success exit code.
	ErrGetMethod = NewDomainError("NS-CHAIN-5004", "get-method failed")

	// ErrMalformedStack indicates a get-method result had an unexpected shape.
	ErrMalformedStack = NewDomainError("NS-CHAIN-4220", "malformed get-method stack")

	// ErrSendUnsupported indicates the configured provider cannot send messages.
	ErrSendUnsupported = NewDomainError("NS-CHAIN-4050", "provider does not support sending messages")
)

// ============================================================================
// Storage Errors (STOR)
// ============================================================================

var (
	// ErrCheckpoint indicates the checkpoint store failed.
	ErrCheckpoint = NewDomainError("NS-STOR-5001", "checkpoint store error")

	// ErrSnapshotWrite indicates the snapshot file could not be written.
	ErrSnapshotWrite = NewDomainError("NS-STOR-5002", "snapshot write failed")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInterrupted indicates the run was cancelled before completion.
	ErrInterrupted = NewDomainError("NS-SYS-4990", "interrupted")
)
