// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileserver

import (
	"context"
	"time"

	"github.com/bureau-foundation/trustfile/lib/merkle"
)

// PieceRef identifies a stored piece by the hash of its raw bytes.
type PieceRef struct {
	Hash merkle.Hash
}

// String returns the piece hash in "algorithm:hex" form.
func (r PieceRef) String() string { return r.Hash.String() }

// PieceHashes returns the hashes of refs in order.
func PieceHashes(refs []PieceRef) []merkle.Hash {
	hashes := make([]merkle.Hash, len(refs))
	for i, ref := range refs {
		hashes[i] = ref.Hash
	}
	return hashes
}

// Storage is the persistence port the service runs against. Adapters
// must be safe for concurrent use. Lookups report absence with a false
// second result, never with an error; an error means the backend
// itself failed.
type Storage interface {
	// PersistPiece stores encoded content under the hash of the raw
	// piece. Storing the same hash again replaces the content.
	PersistPiece(ctx context.Context, hash merkle.Hash, content merkle.EncodedContent) (PieceRef, error)

	// PersistTree records a sealed tree together with its ordered
	// piece list. Afterwards Tree and PieceRefs return them for root.
	PersistTree(ctx context.Context, root merkle.Hash, tree *merkle.Tree, refs []PieceRef) error

	// ListTreesWithPieceCounts maps every sealed root to the length of
	// its piece list.
	ListTreesWithPieceCounts(ctx context.Context) (map[merkle.Hash]int, error)

	// Tree returns the tree sealed under root.
	Tree(ctx context.Context, root merkle.Hash) (*merkle.Tree, bool, error)

	// PieceRefs returns the ordered piece list recorded for root.
	PieceRefs(ctx context.Context, root merkle.Hash) ([]PieceRef, bool, error)

	// Content returns the encoded content stored for piece.
	Content(ctx context.Context, piece merkle.Hash) (merkle.EncodedContent, bool, error)
}

// SealTimeLister is implemented by Storage adapters that record when
// each tree was sealed. GET /hashes reports the times when the
// service's storage provides them.
type SealTimeLister interface {
	// ListSealTimes maps every sealed root to the time it was last
	// sealed.
	ListSealTimes(ctx context.Context) (map[merkle.Hash]time.Time, error)
}
