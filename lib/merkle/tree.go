// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package merkle

import (
	"errors"
	"fmt"
	"log/slog"
	"math/bits"
)

// FillerSize is the digest length of padding leaves.
const FillerSize = 32

// ErrEmptyPieceList is returned when a tree is requested for zero pieces.
var ErrEmptyPieceList = errors.New("piece hashes for merkle tree creation cannot be empty")

// fillerHash is the all-zero raw hash used for padding leaves.
var fillerHash = RawHash(make([]byte, FillerSize))

// FillerHash returns the hash carried by padding leaves.
func FillerHash() Hash { return fillerHash }

// Tree is an immutable balanced Merkle tree. Its identity is the hash
// of its root.
type Tree struct {
	root       Element
	algorithm  string
	pieceCount int
	leafCount  int
}

// NewTree wraps an existing root, as decoded from storage. The leaf
// and piece counts are derived from the structure: every leaf past the
// last non-filler leaf is counted as padding.
func NewTree(root Element) *Tree {
	if root == nil {
		panic("merkle: NewTree requires a root")
	}
	leaves := collectLeaves(root, nil)
	pieceCount := len(leaves)
	for pieceCount > 1 && leaves[pieceCount-1].hash == fillerHash {
		pieceCount--
	}
	return &Tree{
		root:       root,
		algorithm:  leaves[0].hash.algorithm,
		pieceCount: pieceCount,
		leafCount:  len(leaves),
	}
}

// Build constructs a balanced tree over the ordered piece hashes. The
// order is significant: position i is piece index i.
//
// The hashing algorithm for internal nodes is taken from the first
// piece hash. The remaining hashes are not checked against it.
func Build(pieceHashes []Hash) (*Tree, error) {
	if len(pieceHashes) == 0 {
		return nil, ErrEmptyPieceList
	}
	algorithm, err := LookupHashAlgorithm(pieceHashes[0].algorithm)
	if err != nil {
		return nil, fmt.Errorf("determining tree hash algorithm: %w", err)
	}

	target := PaddedLeafCount(len(pieceHashes))
	level := make([]Element, 0, target)
	for _, hash := range pieceHashes {
		level = append(level, NewLeaf(hash))
	}
	for len(level) < target {
		level = append(level, NewLeaf(fillerHash))
	}

	for len(level) > 1 {
		next := make([]Element, 0, len(level)/2)
		for i := 0; i+1 < len(level); i += 2 {
			left, right := level[i], level[i+1]
			hash := Hash{
				algorithm: algorithm.Name,
				digest:    string(algorithm.Sum(concat(left.Hash(), right.Hash()))),
			}
			next = append(next, NewInternal(hash, left, right))
		}
		level = next
	}

	slog.Debug("built merkle tree",
		"pieces", len(pieceHashes),
		"filler", target-len(pieceHashes),
		"root", level[0].Hash().Hex())
	return &Tree{
		root:       level[0],
		algorithm:  algorithm.Name,
		pieceCount: len(pieceHashes),
		leafCount:  target,
	}, nil
}

// PaddedLeafCount returns the number of leaves a tree over n pieces
// has after padding: n itself when n is 1 or a power of two, otherwise
// the next power of two.
func PaddedLeafCount(n int) int {
	if n <= 1 {
		return n
	}
	return 1 << bits.Len(uint(n-1))
}

// Root returns the root element.
func (t *Tree) Root() Element { return t.root }

// RootHash returns the hash identifying the tree.
func (t *Tree) RootHash() Hash { return t.root.Hash() }

// Algorithm returns the hash algorithm used for internal nodes.
func (t *Tree) Algorithm() string { return t.algorithm }

// PieceCount returns the number of real (non-filler) leaves.
func (t *Tree) PieceCount() int { return t.pieceCount }

// LeafCount returns the number of leaves including filler.
func (t *Tree) LeafCount() int { return t.leafCount }

// FillerCount returns the number of padding leaves.
func (t *Tree) FillerCount() int { return t.leafCount - t.pieceCount }

// Depth returns the number of internal levels: log2 of the leaf count.
// A single-leaf tree has depth zero.
func (t *Tree) Depth() int {
	return bits.Len(uint(t.leafCount)) - 1
}

// Leaves returns the leaf hashes in index order, filler included.
func (t *Tree) Leaves() []Hash {
	leaves := collectLeaves(t.root, nil)
	hashes := make([]Hash, len(leaves))
	for i, leaf := range leaves {
		hashes[i] = leaf.hash
	}
	return hashes
}

func collectLeaves(element Element, leaves []*Leaf) []*Leaf {
	switch node := element.(type) {
	case *Leaf:
		return append(leaves, node)
	case *Internal:
		leaves = collectLeaves(node.left, leaves)
		return collectLeaves(node.right, leaves)
	default:
		unknownElement(element)
		return nil
	}
}
