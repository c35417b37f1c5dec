// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/trustfile/cmd/trustfile/cli"
)

type downloadParams struct {
	ServerConnection
	Algorithm  string `flag:"algorithm,a" desc:"hash algorithm of the tree" default:"SHA-256"`
	OutputPath string `flag:"output,o" desc:"destination file (default stdout)"`
}

func downloadCommand(out io.Writer) *cli.Command {
	var params downloadParams

	return &cli.Command{
		Name:    "download",
		Summary: "Fetch every piece of a file, verifying each",
		Usage:   "trustfile download <root-hash> [flags]",
		Description: `Reassemble a whole file from the server, one verified piece at a
time. The piece count comes from the server's listing.

With --output the file is written to a temporary name in the same
directory and renamed into place only after the last piece verifies,
so a failed download never leaves a partial file behind.`,
		Examples: []cli.Example{
			{
				Description: "Download a file",
				Command:     "trustfile download 5df5a63d861485d6c4c804a509712e769d88d4c2c8a948e65b83213786c09755 -o numbers.txt",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("download needs exactly one root hash, got %d arguments", len(args))
			}
			root, err := parseRoot(args[0], params.Algorithm)
			if err != nil {
				return err
			}
			client := params.client()

			if params.OutputPath == "" {
				written, err := client.Download(ctx, root, out)
				if err != nil {
					return classify(err)
				}
				logger.Info("download verified", "root", root.Hex(), "bytes", written)
				return nil
			}

			temporary, err := os.CreateTemp(filepath.Dir(params.OutputPath), ".trustfile-download-*")
			if err != nil {
				return cli.Internal("creating temporary file: %w", err)
			}
			defer os.Remove(temporary.Name())

			written, err := client.Download(ctx, root, temporary)
			if err != nil {
				temporary.Close()
				return classify(err)
			}
			if err := temporary.Close(); err != nil {
				return cli.Internal("closing %s: %w", temporary.Name(), err)
			}
			if err := os.Rename(temporary.Name(), params.OutputPath); err != nil {
				return cli.Internal("moving download into place: %w", err)
			}
			logger.Info("download verified", "root", root.Hex(), "bytes", written, "path", params.OutputPath)
			return nil
		},
	}
}
