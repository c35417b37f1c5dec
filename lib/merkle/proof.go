// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package merkle

import (
	"errors"
	"fmt"
	"slices"
)

// ErrProofMismatch is returned by [VerifyProof] when the folded proof
// does not reproduce the expected root.
var ErrProofMismatch = errors.New("merkle proof does not reproduce root hash")

// Side is the position of a proof sibling relative to the hash being
// accumulated during verification.
type Side uint8

const (
	// SideLeft: the sibling is the left child, fold as sibling‖current.
	SideLeft Side = iota + 1
	// SideRight: the sibling is the right child, fold as current‖sibling.
	SideRight
)

// String returns "left" or "right".
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// ParseSide parses the output of [Side.String].
func ParseSide(text string) (Side, error) {
	switch text {
	case "left":
		return SideLeft, nil
	case "right":
		return SideRight, nil
	default:
		return 0, fmt.Errorf("unknown proof side %q", text)
	}
}

// ProofStep is one sibling hash of an inclusion proof.
type ProofStep struct {
	Hash Hash
	Side Side
}

// ContainsLeaf reports whether some leaf under root carries a digest
// byte-equal to target. The search is depth-first, left subtree first,
// and stops at the first match.
func ContainsLeaf(root Element, target Hash) bool {
	switch node := root.(type) {
	case *Leaf:
		return node.hash.SameDigest(target)
	case *Internal:
		return ContainsLeaf(node.left, target) || ContainsLeaf(node.right, target)
	default:
		unknownElement(root)
		return false
	}
}

// PruneToProofPath returns a reduced copy of the tree that keeps full
// structure only along the path to the target leaf. Every subtree that
// does not contain the target collapses into a single leaf carrying
// that subtree's hash. The input tree is not modified.
//
// When the target is absent the whole tree collapses to one leaf
// carrying the root hash.
func PruneToProofPath(root Element, target Hash) Element {
	pruned, _ := prune(root, target)
	return pruned
}

// prune returns the reduced element and whether it lies on the path to
// target.
func prune(element Element, target Hash) (Element, bool) {
	switch node := element.(type) {
	case *Leaf:
		return NewLeaf(node.hash), node.hash == target
	case *Internal:
		left, leftOnPath := prune(node.left, target)
		right, rightOnPath := prune(node.right, target)
		if !leftOnPath && !rightOnPath {
			return NewLeaf(node.hash), false
		}
		return NewInternal(node.hash, left, right), true
	default:
		unknownElement(element)
		return nil, false
	}
}

// ExtractProofPath reads the proof out of a tree produced by
// [PruneToProofPath]. The pruned tree is walked breadth-first, left
// child before right, collecting every leaf except the target. Because
// off-path subtrees were collapsed, this yields one sibling per level,
// top level first; the result is reversed so the sibling of the target
// leaf comes first and the sibling of the root's on-path child last.
//
// The result is unspecified when target is not in the tree; callers
// check [ContainsLeaf] first.
func ExtractProofPath(pruned Element, target Hash) []ProofStep {
	type queued struct {
		element Element
		side    Side
	}

	queue := []queued{{element: pruned}}
	var steps []ProofStep
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		switch node := current.element.(type) {
		case *Internal:
			queue = append(queue,
				queued{element: node.left, side: SideLeft},
				queued{element: node.right, side: SideRight})
		case *Leaf:
			// The root of a single-leaf tree has no side and is
			// never a sibling.
			if node.hash != target && current.side != 0 {
				steps = append(steps, ProofStep{Hash: node.hash, Side: current.side})
			}
		default:
			unknownElement(current.element)
		}
	}
	slices.Reverse(steps)
	return steps
}

// Prove combines the three proof operations: it returns the proof for
// target, or false when target is not a leaf of root.
func Prove(root Element, target Hash) ([]ProofStep, bool) {
	if !ContainsLeaf(root, target) {
		return nil, false
	}
	return ExtractProofPath(PruneToProofPath(root, target), target), true
}

// ProveIndex returns the hash of the leaf at index and its proof,
// located by position rather than by hash. Repeated leaves therefore
// each get their own path. Reports false when index is outside
// [0, tree.LeafCount()) or the tree is not balanced.
//
// From the root, each bit of index from the most significant down
// selects a child; the other child is the sibling at that level.
func ProveIndex(tree *Tree, index int) (Hash, []ProofStep, bool) {
	if index < 0 || index >= tree.LeafCount() {
		return Hash{}, nil, false
	}

	steps := make([]ProofStep, 0, tree.Depth())
	element := tree.Root()
	for half := tree.LeafCount() / 2; half > 0; half /= 2 {
		node, ok := element.(*Internal)
		if !ok {
			return Hash{}, nil, false
		}
		if index&half == 0 {
			steps = append(steps, ProofStep{Hash: node.right.Hash(), Side: SideRight})
			element = node.left
		} else {
			steps = append(steps, ProofStep{Hash: node.left.Hash(), Side: SideLeft})
			element = node.right
		}
	}
	leaf, ok := element.(*Leaf)
	if !ok {
		return Hash{}, nil, false
	}
	slices.Reverse(steps)
	return leaf.hash, steps, true
}

// VerifyProof folds the proof bottom-up starting from leaf and checks
// that the result equals root. Internal hashes are computed with the
// root's algorithm, which is the tree's algorithm.
func VerifyProof(root, leaf Hash, steps []ProofStep) error {
	algorithm, err := LookupHashAlgorithm(root.algorithm)
	if err != nil {
		return fmt.Errorf("verifying proof: %w", err)
	}

	current := leaf
	for i, step := range steps {
		var combined []byte
		switch step.Side {
		case SideLeft:
			combined = concat(step.Hash, current)
		case SideRight:
			combined = concat(current, step.Hash)
		default:
			return fmt.Errorf("verifying proof: step %d has invalid side %d", i, step.Side)
		}
		current = Hash{algorithm: algorithm.Name, digest: string(algorithm.Sum(combined))}
	}

	if !current.SameDigest(root) {
		return fmt.Errorf("%w: computed %s, want %s", ErrProofMismatch, current.Hex(), root.Hex())
	}
	return nil
}
