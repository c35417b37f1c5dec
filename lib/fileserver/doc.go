// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fileserver answers piece queries against sealed Merkle trees.
//
// A [Service] sits between a transport ([Handler], served by
// cmd/trustfile-server) and a [Storage] adapter (lib/piecestore). It
// owns no state of its own: every call reads what it needs from
// storage, runs the pure tree operations in lib/merkle, and returns
// either a result or a typed [*Failure].
//
// # Queries
//
// [Service.GetProofForPiece] is the heart of the package. Given a root
// hash and a piece index it resolves, in order:
//
//  1. the piece list recorded for the root (absent list or
//     out-of-range index: [PieceNotFound])
//  2. the tree itself ([TreeNotFound])
//  3. membership of the piece in the tree, and the leaf at the index
//     carrying the piece's hash ([PieceNotInTree])
//  4. the stored piece content ([ContentNotFound])
//
// and then returns the inclusion proof for the leaf at the index. The
// proof is located by position, so a piece whose content occurs more
// than once in a file still gets its own path. The first failing step
// wins; later steps are not attempted.
//
// # Errors
//
// Domain failures are *Failure values, tested with [IsFailure] or
// errors.As. Argument errors are the lib/merkle sentinels
// (ErrUnknownAlgorithm, ErrUnknownEncoding, ErrEmptyPieceList). Storage
// errors are wrapped with the operation name and passed through.
//
// # Wire format
//
// [Handler] maps failures to 400 with the failure text as the body and
// storage errors to 500. [PieceResponse] and [TreeSummary] are the
// response bodies, shared with lib/fileclient.
package fileserver
