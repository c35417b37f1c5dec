// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package merkle

import "fmt"

// Element is a node of a Merkle tree. The set of implementations is
// closed: *Leaf and *Internal are the only variants, and every
// algorithm in this package switches over exactly those two.
type Element interface {
	// Hash returns the node hash: the piece hash for a leaf, the hash
	// of left‖right for an internal node.
	Hash() Hash

	element()
}

// Leaf is a terminal node. It holds either a real piece hash or the
// all-zero filler used for padding.
type Leaf struct {
	hash Hash
}

// NewLeaf returns a leaf carrying hash.
func NewLeaf(hash Hash) *Leaf { return &Leaf{hash: hash} }

// Hash returns the leaf hash.
func (l *Leaf) Hash() Hash { return l.hash }

func (*Leaf) element() {}

// Internal is a node with exactly two children. It owns both children
// exclusively; subtrees are never shared between parents.
type Internal struct {
	hash  Hash
	left  Element
	right Element
}

// NewInternal returns an internal node with a precomputed hash. The
// caller is responsible for hash being the digest of left‖right; [Build]
// is the only place that computes it.
func NewInternal(hash Hash, left, right Element) *Internal {
	if left == nil || right == nil {
		panic("merkle: internal node requires two children")
	}
	return &Internal{hash: hash, left: left, right: right}
}

// Hash returns the node hash.
func (n *Internal) Hash() Hash { return n.hash }

// Left returns the left child.
func (n *Internal) Left() Element { return n.left }

// Right returns the right child.
func (n *Internal) Right() Element { return n.right }

func (*Internal) element() {}

// unknownElement panics for an Element outside the closed variant set.
// Unreachable: element() is unexported.
func unknownElement(element Element) {
	panic(fmt.Sprintf("merkle: unknown tree element %T", element))
}

// EqualElements reports whether two trees have identical structure and
// hashes at every node.
func EqualElements(a, b Element) bool {
	switch x := a.(type) {
	case *Leaf:
		y, ok := b.(*Leaf)
		return ok && x.hash == y.hash
	case *Internal:
		y, ok := b.(*Internal)
		return ok && x.hash == y.hash &&
			EqualElements(x.left, y.left) &&
			EqualElements(x.right, y.right)
	default:
		unknownElement(a)
		return false
	}
}
