// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// LogLevelEnv names the environment variable that sets the CLI log
// level ("debug", "info", "warn", "error").
const LogLevelEnv = "TRUSTFILE_LOG_LEVEL"

// NewCommandLogger creates the logger passed to every command. Output
// goes to stderr: human-readable text when stderr is a terminal, JSON
// when it is piped or redirected. The level is warn unless overridden
// by TRUSTFILE_LOG_LEVEL, so ordinary runs print only command output.
func NewCommandLogger() *slog.Logger {
	level := slog.LevelWarn
	if configured := os.Getenv(LogLevelEnv); configured != "" {
		// An unparseable value keeps the default.
		_ = level.UnmarshalText([]byte(configured))
	}

	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
