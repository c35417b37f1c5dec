// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ExitError sets a non-zero exit code for a command that has already
// written its own verdict, such as "trustfile check" reporting a root
// mismatch. main exits with Code and prints nothing further.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// ExitCode maps a command error to a process exit code: 0 for nil,
// the carried code for [*ExitError], 2 for validation errors and 1
// for everything else. The second result reports whether the error
// message should still be printed.
func ExitCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var exitError *ExitError
	if errors.As(err, &exitError) {
		return exitError.Code, false
	}
	var toolError *ToolError
	if errors.As(err, &toolError) && toolError.Category == CategoryValidation {
		return 2, true
	}
	return 1, true
}
