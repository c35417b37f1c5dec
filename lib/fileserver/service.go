// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/trustfile/lib/merkle"
)

// PieceProof is a piece's encoded content together with the sibling
// hashes that prove its inclusion, ordered leaf to root.
type PieceProof struct {
	Content merkle.EncodedContent
	Steps   []merkle.ProofStep
}

// Service answers piece and tree queries against a Storage. It holds
// no mutable state and is safe for concurrent use if the storage is.
type Service struct {
	storage Storage
	logger  *slog.Logger
}

// New returns a service over storage. A nil logger discards output.
func New(storage Storage, logger *slog.Logger) *Service {
	if storage == nil {
		panic("fileserver: New requires a Storage")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{storage: storage, logger: logger}
}

// PersistPiece hashes raw with hashAlgorithm, encodes it with
// encoding, and stores the result. Both names are validated before
// anything reaches storage.
func (s *Service) PersistPiece(ctx context.Context, raw []byte, hashAlgorithm, encoding string) (PieceRef, error) {
	hash, err := merkle.HashBytes(hashAlgorithm, raw)
	if err != nil {
		return PieceRef{}, err
	}
	content, err := merkle.EncodeContent(encoding, raw)
	if err != nil {
		return PieceRef{}, err
	}
	ref, err := s.storage.PersistPiece(ctx, hash, content)
	if err != nil {
		return PieceRef{}, fmt.Errorf("persisting piece %s: %w", hash, err)
	}
	return ref, nil
}

// SealTree builds the tree over refs, in order, and records it with
// its piece list. Sealing zero pieces fails with
// merkle.ErrEmptyPieceList.
func (s *Service) SealTree(ctx context.Context, refs []PieceRef) (*merkle.Tree, error) {
	tree, err := merkle.Build(PieceHashes(refs))
	if err != nil {
		return nil, err
	}
	ordered := append([]PieceRef(nil), refs...)
	if err := s.storage.PersistTree(ctx, tree.RootHash(), tree, ordered); err != nil {
		return nil, fmt.Errorf("persisting tree %s: %w", tree.RootHash(), err)
	}
	s.logger.Info("sealed merkle tree",
		"root", tree.RootHash().Hex(),
		"algorithm", tree.Algorithm(),
		"pieces", tree.PieceCount(),
		"depth", tree.Depth(),
	)
	return tree, nil
}

// ListAvailable maps each sealed root to its piece count.
func (s *Service) ListAvailable(ctx context.Context) (map[merkle.Hash]int, error) {
	available, err := s.storage.ListTreesWithPieceCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing trees: %w", err)
	}
	return available, nil
}

// SealTimes maps each sealed root to the time it was sealed. It
// returns a nil map when the storage does not record seal times.
func (s *Service) SealTimes(ctx context.Context) (map[merkle.Hash]time.Time, error) {
	lister, ok := s.storage.(SealTimeLister)
	if !ok {
		return nil, nil
	}
	times, err := lister.ListSealTimes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing seal times: %w", err)
	}
	return times, nil
}

// GetProofForPiece returns the content of the piece at index in the
// tree identified by root, with its inclusion proof. A negative index
// is reported like an out-of-range one.
func (s *Service) GetProofForPiece(ctx context.Context, root merkle.Hash, index int) (*PieceProof, error) {
	refs, found, err := s.storage.PieceRefs(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("loading piece list for %s: %w", root, err)
	}
	if !found || index < 0 || index >= len(refs) {
		return nil, s.fail(&Failure{Kind: PieceNotFound, Hash: root, Index: index})
	}
	piece := refs[index].Hash

	tree, found, err := s.storage.Tree(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("loading tree %s: %w", root, err)
	}
	if !found {
		return nil, s.fail(&Failure{Kind: TreeNotFound, Hash: root, Index: index})
	}

	if !merkle.ContainsLeaf(tree.Root(), piece) {
		return nil, s.fail(&Failure{Kind: PieceNotInTree, Hash: piece, Index: index})
	}
	// The proof is located by position: a piece whose content repeats
	// elsewhere in the file has the same hash at several leaves.
	leaf, steps, ok := merkle.ProveIndex(tree, index)
	if !ok || !leaf.SameDigest(piece) {
		return nil, s.fail(&Failure{Kind: PieceNotInTree, Hash: piece, Index: index})
	}

	content, found, err := s.storage.Content(ctx, piece)
	if err != nil {
		return nil, fmt.Errorf("loading content for %s: %w", piece, err)
	}
	if !found {
		return nil, s.fail(&Failure{Kind: ContentNotFound, Hash: piece, Index: index})
	}

	return &PieceProof{Content: content, Steps: steps}, nil
}

func (s *Service) fail(failure *Failure) error {
	s.logger.Debug("piece query failed",
		"kind", failure.Kind.String(),
		"hash", failure.Hash.Hex(),
		"index", failure.Index,
	)
	return failure
}
