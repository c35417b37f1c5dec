// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/bureau-foundation/trustfile/cmd/trustfile/cli"
)

type hashesParams struct {
	ServerConnection
	cli.JSONOutput
}

func hashesCommand(out io.Writer) *cli.Command {
	var params hashesParams

	return &cli.Command{
		Name:    "hashes",
		Summary: "List the sealed trees a server offers",
		Usage:   "trustfile hashes [flags]",
		Description: `List every sealed Merkle tree on the server with its hash
algorithm, piece count and, when the server's store records it, the
time it was sealed. The listing itself is not verified; it only
tells you which roots to ask for.`,
		Examples: []cli.Example{
			{Description: "List trees as JSON", Command: "trustfile hashes --json"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 0 {
				return cli.Validation("hashes takes no arguments, got %d", len(args))
			}
			summaries, err := params.client().Hashes(ctx)
			if err != nil {
				return classify(err)
			}
			logger.Debug("listed trees", "server", params.Server, "count", len(summaries))

			if done, err := params.EmitJSON(out, summaries); done {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(out, "no trees")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "HASH\tALGORITHM\tPIECES\tSEALED")
			for _, summary := range summaries {
				sealed := summary.SealedAt
				if sealed == "" {
					sealed = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", summary.Hash, summary.Algorithm, summary.Pieces, sealed)
			}
			return tw.Flush()
		},
	}
}
