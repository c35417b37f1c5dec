// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/trustfile/cmd/trustfile/cli"
	"github.com/bureau-foundation/trustfile/lib/version"
)

type versionParams struct {
	cli.JSONOutput
}

func versionCommand(out io.Writer) *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
			if done, err := params.EmitJSON(out, version.Get()); done {
				return err
			}
			_, err := fmt.Fprintf(out, "trustfile %s\n", version.Full())
			return err
		},
	}
}
