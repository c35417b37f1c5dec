// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to name inside a fresh t.TempDir and
// returns the full path.
func WriteFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// Pieces returns the byte strings "Number 1" .. "Number count". For
// count up to 9 every piece is exactly 8 bytes, so a file of the joined
// pieces loaded with 8-byte pieces reproduces them one per chunk.
func Pieces(count int) [][]byte {
	pieces := make([][]byte, count)
	for i := range pieces {
		pieces[i] = fmt.Appendf(nil, "Number %d", i+1)
	}
	return pieces
}
