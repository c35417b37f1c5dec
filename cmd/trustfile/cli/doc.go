// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the trustfile CLI.
//
// A [Command] is a named node with either nested [Command.Subcommands]
// or a Run function. Flags are declared as tagged fields of a params
// struct returned by [Command.Params] and bound with pflag by
// [BindFlags]. [Command.Execute] routes to the subcommand, parses
// flags, and prints structured help with examples.
//
// Unknown commands and flags get a "did you mean" suggestion when the
// Levenshtein distance to a known name is at most 3 (suggest.go).
//
// Commands report failures as [*ToolError] values whose category picks
// the process exit code: 2 for validation errors, 1 otherwise. A
// command that has already printed its own verdict returns
// [*ExitError] to set the code without an extra message.
package cli
