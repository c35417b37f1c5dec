// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package merkle

import (
	"errors"
	"testing"
)

func TestBuildEmpty(t *testing.T) {
	if _, err := Build(nil); !errors.Is(err, ErrEmptyPieceList) {
		t.Errorf("Build(nil) error = %v, want ErrEmptyPieceList", err)
	}
}

func TestBuildUnknownAlgorithm(t *testing.T) {
	if _, err := Build([]Hash{{}}); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Build(zero hash) error = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestBuildFixtureStructure(t *testing.T) {
	tree, _ := buildFixture(t)

	if tree.RootHash().Hex() != fixtureRoot {
		t.Fatalf("root = %s, want %s", tree.RootHash().Hex(), fixtureRoot)
	}

	want := [][]string{
		{fixtureRoot},
		{
			"f6c035e3f6ae304787471f195875f0acab3966d9c8f136a1b15db391563a5e75",
			"e2ed7a1cc39fdc95c3210ba97d9deae6c9abcb73cde03f14b1d66115b5930133",
		},
		{
			"f40ba93b3e256b4aa516aec3e28564c05a557eb98702eb9c1d4ef1c2073fc360",
			"44056535cf9d76c21e18b004e4a9213b9d925aa42801fb15a7878452811f9fd7",
			"0ab1aa676a457124f351455896d973e637abc3d14b4df144847f681f6ed8988d",
			"f5a5fd42d16a20302798ef6ed309979b43003d2320d9f0e8ea9831a92759fb4b",
		},
		append(append([]string{}, fixtureLeaves...), zeroDigest, zeroDigest, zeroDigest),
	}

	levels := Levels(tree.Root())
	if len(levels) != len(want) {
		t.Fatalf("tree has %d levels, want %d", len(levels), len(want))
	}
	for depth, level := range levels {
		if len(level) != len(want[depth]) {
			t.Fatalf("level %d has %d nodes, want %d", depth, len(level), len(want[depth]))
		}
		for i, element := range level {
			if element.Hash().Hex() != want[depth][i] {
				t.Errorf("level %d node %d = %s, want %s", depth, i, element.Hash().Hex(), want[depth][i])
			}
			_, isLeaf := element.(*Leaf)
			if isLeaf != (depth == len(want)-1) {
				t.Errorf("level %d node %d: leaf = %v", depth, i, isLeaf)
			}
		}
	}

	if tree.PieceCount() != 5 || tree.LeafCount() != 8 || tree.FillerCount() != 3 {
		t.Errorf("counts = (%d pieces, %d leaves, %d filler), want (5, 8, 3)",
			tree.PieceCount(), tree.LeafCount(), tree.FillerCount())
	}
	if tree.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", tree.Depth())
	}
	if tree.Algorithm() != AlgorithmSHA256 {
		t.Errorf("Algorithm() = %q", tree.Algorithm())
	}
}

func TestBuildDeterministic(t *testing.T) {
	for _, algorithm := range HashAlgorithms() {
		hashes := hashPieces(t, algorithm, numberedPieces(11))
		first, err := Build(hashes)
		if err != nil {
			t.Fatal(err)
		}
		second, err := Build(hashes)
		if err != nil {
			t.Fatal(err)
		}
		if first.RootHash() != second.RootHash() {
			t.Errorf("%s: roots differ across builds", algorithm)
		}
		if !EqualElements(first.Root(), second.Root()) {
			t.Errorf("%s: structures differ across builds", algorithm)
		}
	}
}

func TestBuildOrderMatters(t *testing.T) {
	hashes := hashPieces(t, AlgorithmSHA256, numberedPieces(4))
	forward, err := Build(hashes)
	if err != nil {
		t.Fatal(err)
	}
	swapped := []Hash{hashes[1], hashes[0], hashes[2], hashes[3]}
	backward, err := Build(swapped)
	if err != nil {
		t.Fatal(err)
	}
	if forward.RootHash() == backward.RootHash() {
		t.Error("swapping two pieces did not change the root")
	}
}

func TestPaddingLaw(t *testing.T) {
	cases := []struct {
		pieces int
		leaves int
		depth  int
	}{
		{1, 1, 0},
		{2, 2, 1},
		{3, 4, 2},
		{4, 4, 2},
		{5, 8, 3},
		{8, 8, 3},
		{9, 16, 4},
		{17, 32, 5},
	}
	for _, tc := range cases {
		if got := PaddedLeafCount(tc.pieces); got != tc.leaves {
			t.Errorf("PaddedLeafCount(%d) = %d, want %d", tc.pieces, got, tc.leaves)
		}
		tree, err := Build(hashPieces(t, AlgorithmSHA256, numberedPieces(tc.pieces)))
		if err != nil {
			t.Fatal(err)
		}
		if tree.LeafCount() != tc.leaves || len(tree.Leaves()) != tc.leaves {
			t.Errorf("%d pieces: %d leaves, want %d", tc.pieces, tree.LeafCount(), tc.leaves)
		}
		if tree.Depth() != tc.depth {
			t.Errorf("%d pieces: depth %d, want %d", tc.pieces, tree.Depth(), tc.depth)
		}
		for i, leaf := range tree.Leaves()[tc.pieces:] {
			if leaf != FillerHash() {
				t.Errorf("%d pieces: padding leaf %d is %s", tc.pieces, i, leaf)
			}
		}
	}
}

func TestBuildSinglePiece(t *testing.T) {
	hashes := hashPieces(t, AlgorithmSHA256, numberedPieces(1))
	tree, err := Build(hashes)
	if err != nil {
		t.Fatal(err)
	}
	leaf, ok := tree.Root().(*Leaf)
	if !ok {
		t.Fatalf("root is %T, want *Leaf", tree.Root())
	}
	if leaf.Hash() != hashes[0] {
		t.Errorf("single-piece root = %s, want the piece hash", leaf.Hash())
	}
}

func TestBuildTwoPieces(t *testing.T) {
	tree, err := Build(hashPieces(t, AlgorithmSHA256, numberedPieces(2)))
	if err != nil {
		t.Fatal(err)
	}
	want := "f40ba93b3e256b4aa516aec3e28564c05a557eb98702eb9c1d4ef1c2073fc360"
	if tree.RootHash().Hex() != want {
		t.Errorf("root = %s, want %s", tree.RootHash().Hex(), want)
	}
}

func TestNewTreeRecoversCounts(t *testing.T) {
	tree, _ := buildFixture(t)
	restored := NewTree(tree.Root())
	if restored.PieceCount() != 5 || restored.LeafCount() != 8 {
		t.Errorf("restored counts = (%d, %d), want (5, 8)", restored.PieceCount(), restored.LeafCount())
	}
	if restored.Algorithm() != AlgorithmSHA256 {
		t.Errorf("restored algorithm = %q", restored.Algorithm())
	}
}

func TestBuildMixedAlgorithmsIsPermissive(t *testing.T) {
	sha := hashPieces(t, AlgorithmSHA256, numberedPieces(1))
	blake := hashPieces(t, AlgorithmBLAKE3, numberedPieces(2))[1:]
	tree, err := Build(append(sha, blake...))
	if err != nil {
		t.Fatalf("Build rejected mixed algorithms: %v", err)
	}
	if tree.Algorithm() != AlgorithmSHA256 {
		t.Errorf("tree algorithm = %q, want the first piece's algorithm", tree.Algorithm())
	}
}
