// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/trustfile/cmd/trustfile/cli"
	"github.com/bureau-foundation/trustfile/cmd/trustfile/commands"
)

func main() {
	err := commands.Root().Execute(os.Args[1:])
	code, report := cli.ExitCode(err)
	if report {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}
