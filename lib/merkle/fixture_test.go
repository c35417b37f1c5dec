// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package merkle

import (
	"fmt"
	"testing"
)

// Known SHA-256 tree over the pieces "Number 1" .. "Number 5".
const (
	fixtureRoot = "5df5a63d861485d6c4c804a509712e769d88d4c2c8a948e65b83213786c09755"
	zeroDigest  = "0000000000000000000000000000000000000000000000000000000000000000"
)

var fixtureLeaves = []string{
	"de9222aa8821b29c4f1aab37c97d604ab3f4d2e1f16ed0c897f1e048304a3688",
	"ad28403fa6ea4c31c14c70cda95275e87cb8e9b29e9da7414e330654aa95d815",
	"eaf44a47d326731e66abd02faf3d705c0b40d69bb2c27ddf73cd569fd6929794",
	"7286958bee27846f87ed84116050b5563ba1e763551d5d3936117a6ba0858d3e",
	"0414ba35d49928854f70b0f7df8c1c7b8ea2c5b0fd02df8a46ee6452a5666442",
}

func numberedPieces(count int) [][]byte {
	pieces := make([][]byte, count)
	for i := range pieces {
		pieces[i] = fmt.Appendf(nil, "Number %d", i+1)
	}
	return pieces
}

func hashPieces(t *testing.T, algorithm string, pieces [][]byte) []Hash {
	t.Helper()
	hashes := make([]Hash, len(pieces))
	for i, piece := range pieces {
		hash, err := HashBytes(algorithm, piece)
		if err != nil {
			t.Fatalf("HashBytes(%s, piece %d): %v", algorithm, i, err)
		}
		hashes[i] = hash
	}
	return hashes
}

func buildFixture(t *testing.T) (*Tree, []Hash) {
	t.Helper()
	hashes := hashPieces(t, AlgorithmSHA256, numberedPieces(5))
	tree, err := Build(hashes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree, hashes
}

func mustParse(t *testing.T, hexDigest string) Hash {
	t.Helper()
	hash, err := ParseHash(AlgorithmSHA256, hexDigest)
	if err != nil {
		t.Fatalf("ParseHash(%q): %v", hexDigest, err)
	}
	return hash
}
