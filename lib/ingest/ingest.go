// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ingest splits files into fixed-size pieces and seals them
// into Merkle trees through a fileserver.Service.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/trustfile/lib/fileserver"
	"github.com/bureau-foundation/trustfile/lib/merkle"
)

// DefaultPieceSize is the piece size used when Loader.PieceSize is
// zero.
const DefaultPieceSize = 1024

// Loader reads input in PieceSize chunks, persists each chunk as a
// piece, and seals the pieces into a tree. Zero fields take defaults:
// DefaultPieceSize, merkle.CanonicalAlgorithm, merkle.EncodingBase64.
type Loader struct {
	Service       *fileserver.Service
	PieceSize     int
	HashAlgorithm string
	Encoding      string
	Logger        *slog.Logger
}

// LoadFile ingests the file at path and returns the sealed tree.
func (l *Loader) LoadFile(ctx context.Context, path string) (*merkle.Tree, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", path, err)
	}
	defer file.Close()

	tree, err := l.LoadReader(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", path, err)
	}
	l.logger().Info("file ingested",
		"path", path,
		"root", tree.RootHash().Hex(),
		"algorithm", tree.Algorithm(),
		"pieces", tree.PieceCount(),
	)
	return tree, nil
}

// LoadReader ingests everything readable from r. Every piece is
// exactly PieceSize bytes except possibly the last. Empty input fails
// with merkle.ErrEmptyPieceList after nothing has been stored.
func (l *Loader) LoadReader(ctx context.Context, r io.Reader) (*merkle.Tree, error) {
	pieceSize, hashAlgorithm, encoding, err := l.settings()
	if err != nil {
		return nil, err
	}

	var refs []fileserver.PieceRef
	buffer := make([]byte, pieceSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, readErr := io.ReadFull(r, buffer)
		if n > 0 {
			ref, err := l.Service.PersistPiece(ctx, buffer[:n], hashAlgorithm, encoding)
			if err != nil {
				return nil, fmt.Errorf("piece %d: %w", len(refs), err)
			}
			refs = append(refs, ref)
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading piece %d: %w", len(refs), readErr)
		}
	}

	l.logger().Debug("pieces stored", "count", len(refs), "piece_size", pieceSize)
	return l.Service.SealTree(ctx, refs)
}

// settings resolves defaults and validates the names before any input
// is read.
func (l *Loader) settings() (int, string, string, error) {
	if l.Service == nil {
		return 0, "", "", errors.New("ingest: Loader.Service is required")
	}
	pieceSize := l.PieceSize
	if pieceSize == 0 {
		pieceSize = DefaultPieceSize
	}
	if pieceSize < 0 {
		return 0, "", "", fmt.Errorf("ingest: piece size must be positive, got %d", pieceSize)
	}
	hashAlgorithm := l.HashAlgorithm
	if hashAlgorithm == "" {
		hashAlgorithm = merkle.CanonicalAlgorithm
	}
	if _, err := merkle.LookupHashAlgorithm(hashAlgorithm); err != nil {
		return 0, "", "", err
	}
	encoding := l.Encoding
	if encoding == "" {
		encoding = merkle.EncodingBase64
	}
	if _, err := merkle.LookupEncoding(encoding); err != nil {
		return 0, "", "", err
	}
	return pieceSize, hashAlgorithm, encoding, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}
