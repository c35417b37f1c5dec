// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package merkle

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Hash is an immutable digest tagged with the algorithm that produced
// it. Two hashes are equal (==) iff both the algorithm and the digest
// bytes are equal, which makes Hash usable as a map key.
//
// The zero Hash has no algorithm and an empty digest; it never equals a
// hash produced by a constructor.
type Hash struct {
	algorithm string
	digest    string
}

// HashBytes hashes data with the named algorithm.
func HashBytes(algorithmName string, data []byte) (Hash, error) {
	algorithm, err := LookupHashAlgorithm(algorithmName)
	if err != nil {
		return Hash{}, err
	}
	return Hash{algorithm: algorithm.Name, digest: string(algorithm.Sum(data))}, nil
}

// RawHash wraps an already-final digest under [CanonicalAlgorithm]
// without hashing it again. The digest is copied.
func RawHash(digest []byte) Hash {
	return Hash{algorithm: CanonicalAlgorithm, digest: string(digest)}
}

// RawHashWith wraps an already-final digest under the named algorithm.
// The digest length is not checked against the algorithm's size: raw
// hashes are lookup keys, and a wrong-length key simply matches nothing.
func RawHashWith(algorithmName string, digest []byte) (Hash, error) {
	algorithm, err := LookupHashAlgorithm(algorithmName)
	if err != nil {
		return Hash{}, err
	}
	return Hash{algorithm: algorithm.Name, digest: string(digest)}, nil
}

// ParseHash decodes a hex digest into a raw hash of the named algorithm.
func ParseHash(algorithmName, hexDigest string) (Hash, error) {
	digest, err := hex.DecodeString(hexDigest)
	if err != nil {
		return Hash{}, fmt.Errorf("parsing hash %q: %w", hexDigest, err)
	}
	return RawHashWith(algorithmName, digest)
}

// Algorithm returns the name of the algorithm that produced the digest.
func (h Hash) Algorithm() string { return h.algorithm }

// Bytes returns a copy of the digest.
func (h Hash) Bytes() []byte { return []byte(h.digest) }

// Len returns the digest length in bytes.
func (h Hash) Len() int { return len(h.digest) }

// Hex returns the lowercase hex rendering of the digest.
func (h Hash) Hex() string { return hex.EncodeToString([]byte(h.digest)) }

// IsZero reports whether h is the zero Hash.
func (h Hash) IsZero() bool { return h.algorithm == "" && h.digest == "" }

// Equal reports whether algorithm and digest both match.
func (h Hash) Equal(other Hash) bool { return h == other }

// SameDigest compares digest bytes only, ignoring the algorithm tag.
func (h Hash) SameDigest(other Hash) bool { return h.digest == other.digest }

// Compare orders hashes by digest bytes, then by algorithm name.
func (h Hash) Compare(other Hash) int {
	if c := bytes.Compare([]byte(h.digest), []byte(other.digest)); c != 0 {
		return c
	}
	switch {
	case h.algorithm < other.algorithm:
		return -1
	case h.algorithm > other.algorithm:
		return 1
	}
	return 0
}

// String renders the hash as "algorithm:hex" for logs and errors.
func (h Hash) String() string {
	return h.algorithm + ":" + h.Hex()
}

// concat returns left‖right.
func concat(left, right Hash) []byte {
	combined := make([]byte, 0, len(left.digest)+len(right.digest))
	combined = append(combined, left.digest...)
	return append(combined, right.digest...)
}
