// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package merkle

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Hash algorithm names accepted by [HashBytes] and [LookupHashAlgorithm].
const (
	AlgorithmSHA256     = "SHA-256"
	AlgorithmSHA1       = "SHA-1"
	AlgorithmBLAKE3     = "BLAKE3"
	AlgorithmBLAKE2b256 = "BLAKE2B-256"
	AlgorithmSHA3256    = "SHA3-256"
)

// CanonicalAlgorithm is the algorithm assigned to raw hashes: filler
// leaves and digests decoded from caller-supplied hex.
const CanonicalAlgorithm = AlgorithmSHA256

// ErrUnknownAlgorithm is returned when a hash algorithm name is not
// present in the registry.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// HashAlgorithm is one entry of the hash algorithm registry.
type HashAlgorithm struct {
	// Name is the registry key, e.g. "SHA-256".
	Name string

	// Size is the digest length in bytes.
	Size int

	sum func(data []byte) []byte
}

// Sum returns the digest of data.
func (algorithm *HashAlgorithm) Sum(data []byte) []byte {
	return algorithm.sum(data)
}

// ToHex renders a digest produced by this algorithm as lowercase hex.
// Every registered algorithm uses plain hex; the method exists so the
// rendering stays a property of the algorithm.
func (algorithm *HashAlgorithm) ToHex(digest []byte) string {
	return hex.EncodeToString(digest)
}

var hashAlgorithms = map[string]*HashAlgorithm{}

func registerHashAlgorithm(name string, size int, sum func([]byte) []byte) {
	if _, exists := hashAlgorithms[name]; exists {
		panic("merkle: duplicate hash algorithm " + name)
	}
	hashAlgorithms[name] = &HashAlgorithm{Name: name, Size: size, sum: sum}
}

func init() {
	registerHashAlgorithm(AlgorithmSHA256, sha256.Size, func(data []byte) []byte {
		digest := sha256.Sum256(data)
		return digest[:]
	})
	registerHashAlgorithm(AlgorithmSHA1, sha1.Size, func(data []byte) []byte {
		digest := sha1.Sum(data)
		return digest[:]
	})
	registerHashAlgorithm(AlgorithmBLAKE3, 32, func(data []byte) []byte {
		digest := blake3.Sum256(data)
		return digest[:]
	})
	registerHashAlgorithm(AlgorithmBLAKE2b256, blake2b.Size256, func(data []byte) []byte {
		digest := blake2b.Sum256(data)
		return digest[:]
	})
	registerHashAlgorithm(AlgorithmSHA3256, 32, func(data []byte) []byte {
		digest := sha3.Sum256(data)
		return digest[:]
	})
}

// LookupHashAlgorithm returns the registered algorithm with the given
// case-sensitive name.
func LookupHashAlgorithm(name string) (*HashAlgorithm, error) {
	algorithm, ok := hashAlgorithms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return algorithm, nil
}

// HashAlgorithms returns the registered algorithm names in sorted order.
func HashAlgorithms() []string {
	names := make([]string, 0, len(hashAlgorithms))
	for name := range hashAlgorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
