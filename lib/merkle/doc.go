// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package merkle implements the hashing primitives, the binary Merkle
// tree and the inclusion-proof engine behind trustfile's piece
// distribution.
//
// A file is split into fixed-size pieces. Each piece is hashed with a
// named algorithm and the ordered piece hashes become the leaves of a
// balanced binary tree:
//
//   - Hashing and encoding: closed registries of algorithms looked up
//     by case-sensitive name ("SHA-256", "BLAKE3", "BASE_64", ...).
//     The registries are built once at package initialization and are
//     read-only afterwards. An unknown name is an invalid argument.
//
//   - Tree building: [Build] pads the leaf list with all-zero filler
//     leaves up to the next power of two and pairs adjacent elements
//     left to right until a single root remains. The root hash is the
//     identity of the file.
//
//   - Proofs: [ContainsLeaf] checks membership, [PruneToProofPath]
//     collapses every subtree off the path to a target leaf into a
//     single leaf carrying the subtree hash, and [ExtractProofPath]
//     reads the sibling hashes out of the pruned tree in leaf-to-root
//     order. Each [ProofStep] records which side its sibling sits on so
//     that [VerifyProof] can fold the hashes back up to the root.
//     [ProveIndex] locates the leaf by position instead, which is what
//     a file with repeated pieces needs.
//
// Trees are immutable once built. Proof computation allocates a new
// pruned tree and never mutates the original, so a single [Tree] may
// be shared by any number of concurrent readers.
package merkle
