// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileserver

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/trustfile/lib/merkle"
)

// FailureKind classifies why a piece query could not be answered.
type FailureKind int

const (
	// PieceNotFound: no piece list for the root, or the index is
	// outside it.
	PieceNotFound FailureKind = iota + 1

	// TreeNotFound: a piece list exists but the tree does not.
	TreeNotFound

	// PieceNotInTree: the piece at the index is not a leaf of the
	// stored tree.
	PieceNotInTree

	// ContentNotFound: the piece is in the tree but its content was
	// never stored.
	ContentNotFound
)

// String returns the kind in PascalCase, as used in logs.
func (k FailureKind) String() string {
	switch k {
	case PieceNotFound:
		return "PieceNotFound"
	case TreeNotFound:
		return "TreeNotFound"
	case PieceNotInTree:
		return "PieceNotInTree"
	case ContentNotFound:
		return "ContentNotFound"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Failure is a domain error from [Service.GetProofForPiece]. Hash is
// the root hash for PieceNotFound and TreeNotFound and the piece hash
// for the other kinds. Index is only meaningful for PieceNotFound.
type Failure struct {
	Kind  FailureKind
	Hash  merkle.Hash
	Index int
}

// Error returns the human-readable reason, which the HTTP layer sends
// to clients verbatim.
func (f *Failure) Error() string {
	switch f.Kind {
	case PieceNotFound:
		return fmt.Sprintf("piece for merkle hash <%s> and piece index <%d> not found in storage", f.Hash.Hex(), f.Index)
	case TreeNotFound:
		return fmt.Sprintf("merkle tree with hash <%s> not found in storage", f.Hash.Hex())
	case PieceNotInTree:
		return fmt.Sprintf("piece with hash <%s> not present in selected merkle tree", f.Hash.Hex())
	case ContentNotFound:
		return fmt.Sprintf("piece content not found in storage for piece with hash <%s>", f.Hash.Hex())
	default:
		return fmt.Sprintf("%s for hash <%s>", f.Kind, f.Hash.Hex())
	}
}

// IsFailure reports whether err is, or wraps, a *Failure of the given
// kind.
func IsFailure(err error, kind FailureKind) bool {
	var failure *Failure
	return errors.As(err, &failure) && failure.Kind == kind
}
