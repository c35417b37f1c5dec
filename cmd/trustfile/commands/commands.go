// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the trustfile CLI command tree.
//
// Network commands (hashes, fetch, download) talk to a trustfile-server
// through lib/fileclient, which verifies every piece against the root
// hash before any byte of it is printed or written. Offline commands
// (root, check) split a local file exactly as the server does and
// compute its root hash without contacting anyone.
package commands

import (
	"io"
	"os"

	"github.com/bureau-foundation/trustfile/cmd/trustfile/cli"
)

// Root returns the complete command tree writing to stdout.
func Root() *cli.Command {
	return root(os.Stdout)
}

func root(out io.Writer) *cli.Command {
	return &cli.Command{
		Name: "trustfile",
		Description: `trustfile: fetch file pieces from an untrusted server and verify them.

A file is split into fixed-size pieces whose hashes form a Merkle
tree. Knowing only the root hash, you can fetch any single piece with
a short inclusion proof and check it locally.`,
		Subcommands: []*cli.Command{
			hashesCommand(out),
			fetchCommand(out),
			downloadCommand(out),
			rootCommand(out),
			checkCommand(out),
			versionCommand(out),
		},
		Examples: []cli.Example{
			{
				Description: "List the files a server offers",
				Command:     "trustfile hashes --server http://files.example:8080",
			},
			{
				Description: "Fetch and verify piece 3 of a file",
				Command:     "trustfile fetch 5df5a63d861485d6c4c804a509712e769d88d4c2c8a948e65b83213786c09755 3",
			},
			{
				Description: "Compute a file's root hash locally",
				Command:     "trustfile root ./release.tar --piece-size 1024",
			},
		},
	}
}
