// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package merkle

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestHashBytesKnownDigest(t *testing.T) {
	hash, err := HashBytes(AlgorithmSHA256, []byte("Number 1"))
	if err != nil {
		t.Fatalf("HashBytes: %v", err)
	}
	if hash.Hex() != fixtureLeaves[0] {
		t.Errorf("Hex() = %s, want %s", hash.Hex(), fixtureLeaves[0])
	}
	if hash.Algorithm() != AlgorithmSHA256 {
		t.Errorf("Algorithm() = %q, want %q", hash.Algorithm(), AlgorithmSHA256)
	}
	if hash.Len() != 32 {
		t.Errorf("Len() = %d, want 32", hash.Len())
	}
}

func TestHashAlgorithmsDigestSizes(t *testing.T) {
	for _, name := range HashAlgorithms() {
		t.Run(name, func(t *testing.T) {
			algorithm, err := LookupHashAlgorithm(name)
			if err != nil {
				t.Fatalf("LookupHashAlgorithm: %v", err)
			}
			hash, err := HashBytes(name, []byte("piece"))
			if err != nil {
				t.Fatalf("HashBytes: %v", err)
			}
			if hash.Len() != algorithm.Size {
				t.Errorf("digest is %d bytes, registry says %d", hash.Len(), algorithm.Size)
			}
			if len(hash.Hex()) != 2*algorithm.Size {
				t.Errorf("hex form is %d chars, want %d", len(hash.Hex()), 2*algorithm.Size)
			}
		})
	}
}

func TestHashAlgorithmsDiffer(t *testing.T) {
	seen := make(map[string]string)
	for _, name := range HashAlgorithms() {
		hash, err := HashBytes(name, []byte("same input"))
		if err != nil {
			t.Fatalf("HashBytes(%s): %v", name, err)
		}
		if previous, ok := seen[hash.Hex()]; ok {
			t.Errorf("%s and %s produced the same digest", previous, name)
		}
		seen[hash.Hex()] = name
	}
}

func TestLookupIsCaseSensitive(t *testing.T) {
	for _, name := range []string{"sha-256", "SHA256", "", "MD5"} {
		_, err := LookupHashAlgorithm(name)
		if !errors.Is(err, ErrUnknownAlgorithm) {
			t.Errorf("LookupHashAlgorithm(%q) error = %v, want ErrUnknownAlgorithm", name, err)
		}
		if _, err := HashBytes(name, []byte("x")); !errors.Is(err, ErrUnknownAlgorithm) {
			t.Errorf("HashBytes(%q) error = %v, want ErrUnknownAlgorithm", name, err)
		}
	}
}

func TestHashEquality(t *testing.T) {
	computed, err := HashBytes(AlgorithmSHA256, []byte("Number 1"))
	if err != nil {
		t.Fatal(err)
	}

	raw := RawHash(computed.Bytes())
	if raw != computed {
		t.Error("raw hash over the same SHA-256 digest should equal the computed hash")
	}

	relabeled, err := RawHashWith(AlgorithmBLAKE3, computed.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if relabeled == computed {
		t.Error("hashes with different algorithms must not be equal")
	}
	if !relabeled.SameDigest(computed) {
		t.Error("SameDigest should ignore the algorithm tag")
	}

	lookup := map[Hash]int{computed: 1}
	if lookup[raw] != 1 {
		t.Error("raw hash should find the computed hash as a map key")
	}
}

func TestRawHashCopiesInput(t *testing.T) {
	digest := bytes.Repeat([]byte{0xAB}, 32)
	hash := RawHash(digest)
	digest[0] = 0
	if hash.Bytes()[0] != 0xAB {
		t.Error("RawHash aliased the caller's slice")
	}
	out := hash.Bytes()
	out[1] = 0
	if hash.Bytes()[1] != 0xAB {
		t.Error("Bytes returned an aliased slice")
	}
}

func TestParseHash(t *testing.T) {
	hash := mustParse(t, fixtureRoot)
	if hash.Hex() != fixtureRoot {
		t.Errorf("round trip = %s, want %s", hash.Hex(), fixtureRoot)
	}
	if hash.Algorithm() != CanonicalAlgorithm {
		t.Errorf("Algorithm() = %q, want canonical %q", hash.Algorithm(), CanonicalAlgorithm)
	}

	if _, err := ParseHash(AlgorithmSHA256, "not-hex"); err == nil {
		t.Error("ParseHash accepted invalid hex")
	}
	if _, err := ParseHash("nope", fixtureRoot); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("ParseHash with unknown algorithm error = %v", err)
	}
}

func TestHashString(t *testing.T) {
	hash := mustParse(t, fixtureRoot)
	if got := hash.String(); !strings.HasPrefix(got, "SHA-256:") || !strings.HasSuffix(got, fixtureRoot) {
		t.Errorf("String() = %q", got)
	}
	var zero Hash
	if !zero.IsZero() || hash.IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestHashCompare(t *testing.T) {
	low := RawHash([]byte{0x01})
	high := RawHash([]byte{0x02})
	if low.Compare(high) >= 0 || high.Compare(low) <= 0 || low.Compare(low) != 0 {
		t.Error("Compare does not order by digest")
	}
}
