// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/trustfile/cmd/trustfile/cli"
	"github.com/bureau-foundation/trustfile/lib/fileserver"
	"github.com/bureau-foundation/trustfile/lib/ingest"
	"github.com/bureau-foundation/trustfile/lib/merkle"
	"github.com/bureau-foundation/trustfile/lib/piecestore"
)

// Splitting is the set of flags that decide how a local file becomes
// a tree. They must match the server's ingest settings for the roots
// to agree.
type Splitting struct {
	PieceSize int    `flag:"piece-size" desc:"piece length in bytes" default:"1024"`
	Algorithm string `flag:"algorithm,a" desc:"piece hash algorithm" default:"SHA-256"`
}

// buildTree splits path exactly as the server's ingest does, into a
// throwaway in-memory store, and returns the sealed tree.
func (s Splitting) buildTree(ctx context.Context, path string, logger *slog.Logger) (*merkle.Tree, error) {
	loader := &ingest.Loader{
		Service:       fileserver.New(piecestore.NewMemory(), logger),
		PieceSize:     s.PieceSize,
		HashAlgorithm: s.Algorithm,
		Logger:        logger,
	}
	tree, err := loader.LoadFile(ctx, path)
	if err != nil {
		return nil, cli.Internal("%w", err)
	}
	return tree, nil
}

type rootParams struct {
	Splitting
	cli.JSONOutput
	Tree  bool   `flag:"tree" desc:"draw the whole tree"`
	Color string `flag:"color" desc:"colorize --tree output: auto, always or never" default:"auto"`
}

// rootResult is the --json form of the root command.
type rootResult struct {
	File      string `json:"file"`
	Root      string `json:"root"`
	Algorithm string `json:"algorithm"`
	PieceSize int    `json:"piece_size"`
	Pieces    int    `json:"pieces"`
	Leaves    int    `json:"leaves"`
	Depth     int    `json:"depth"`
}

func rootCommand(out io.Writer) *cli.Command {
	var params rootParams

	return &cli.Command{
		Name:    "root",
		Summary: "Compute a file's root hash locally",
		Usage:   "trustfile root <file> [flags]",
		Description: `Split a local file into pieces and print the Merkle root hash,
without contacting a server. Use the same --piece-size and --algorithm
as the server to obtain the root it will advertise.`,
		Examples: []cli.Example{
			{Description: "Print the root hash", Command: "trustfile root ./numbers.txt --piece-size 8"},
			{Description: "Draw the tree", Command: "trustfile root ./numbers.txt --piece-size 8 --tree"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("root needs exactly one file, got %d arguments", len(args))
			}
			profile, err := colorProfile(out, params.Color)
			if err != nil {
				return err
			}
			tree, err := params.buildTree(ctx, args[0], logger)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(out, rootResult{
				File:      args[0],
				Root:      tree.RootHash().Hex(),
				Algorithm: tree.Algorithm(),
				PieceSize: params.PieceSize,
				Pieces:    tree.PieceCount(),
				Leaves:    tree.LeafCount(),
				Depth:     tree.Depth(),
			}); done {
				return err
			}

			if params.Tree {
				_, err := io.WriteString(out, newTreeRenderer(out, tree, profile).Render())
				return err
			}
			_, err = fmt.Fprintf(out, "%s  %s\n", tree.RootHash().Hex(), args[0])
			return err
		},
	}
}

type checkParams struct {
	Splitting
}

func checkCommand(out io.Writer) *cli.Command {
	var params checkParams

	return &cli.Command{
		Name:    "check",
		Summary: "Check a local file against a root hash",
		Usage:   "trustfile check <file> <root-hash> [flags]",
		Description: `Compute the file's root hash and compare it with the one given.
Prints OK or FAILED and exits 1 on a mismatch.`,
		Examples: []cli.Example{
			{
				Description: "Confirm a download",
				Command:     "trustfile check numbers.txt 5df5a63d861485d6c4c804a509712e769d88d4c2c8a948e65b83213786c09755 --piece-size 8",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return cli.Validation("check needs a file and a root hash, got %d arguments", len(args))
			}
			want, err := parseRoot(args[1], params.Algorithm)
			if err != nil {
				return err
			}
			tree, err := params.buildTree(ctx, args[0], logger)
			if err != nil {
				return err
			}

			if tree.RootHash().Equal(want) {
				fmt.Fprintf(out, "%s: OK\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "%s: FAILED (root %s)\n", args[0], tree.RootHash().Hex())
			return &cli.ExitError{Code: 1}
		},
	}
}
