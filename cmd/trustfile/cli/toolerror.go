// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so callers can react
// without parsing message text.
type ErrorCategory string

const (
	// CategoryValidation: bad arguments or flags. Fix the input.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: the server has no such tree or piece.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryTransient: the server could not be reached. Retrying
	// may help.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: local I/O failures and anything unexpected.
	CategoryInternal ErrorCategory = "internal"

	// CategoryUntrusted: the server answered but its data failed
	// verification against the root hash.
	CategoryUntrusted ErrorCategory = "untrusted"
)

// ToolError is a categorized error returned by commands. It wraps the
// underlying error so errors.Is and errors.As still see the chain.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

// Error returns the underlying message; the category travels
// separately.
func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Untrusted creates a verification error.
func Untrusted(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryUntrusted, Err: fmt.Errorf(format, args...)}
}
