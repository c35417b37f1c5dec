// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package piecestore

import (
	"context"
	"sync"

	"github.com/bureau-foundation/trustfile/lib/fileserver"
	"github.com/bureau-foundation/trustfile/lib/merkle"
)

// Memory is an in-process fileserver.Storage. The zero value is not
// usable; call NewMemory.
type Memory struct {
	mu       sync.RWMutex
	contents map[merkle.Hash]merkle.EncodedContent
	trees    map[merkle.Hash]*merkle.Tree
	refs     map[merkle.Hash][]fileserver.PieceRef
}

var _ fileserver.Storage = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		contents: make(map[merkle.Hash]merkle.EncodedContent),
		trees:    make(map[merkle.Hash]*merkle.Tree),
		refs:     make(map[merkle.Hash][]fileserver.PieceRef),
	}
}

// PersistPiece implements fileserver.Storage.
func (m *Memory) PersistPiece(ctx context.Context, hash merkle.Hash, content merkle.EncodedContent) (fileserver.PieceRef, error) {
	if err := ctx.Err(); err != nil {
		return fileserver.PieceRef{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contents[hash] = content
	return fileserver.PieceRef{Hash: hash}, nil
}

// PersistTree implements fileserver.Storage.
func (m *Memory) PersistTree(ctx context.Context, root merkle.Hash, tree *merkle.Tree, refs []fileserver.PieceRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trees[root] = tree
	m.refs[root] = append([]fileserver.PieceRef(nil), refs...)
	return nil
}

// PutPieceRefs records a piece list for root without a tree. The
// service reports TreeNotFound for such roots; tests use this to reach
// that branch.
func (m *Memory) PutPieceRefs(root merkle.Hash, refs []fileserver.PieceRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs[root] = append([]fileserver.PieceRef(nil), refs...)
}

// ListTreesWithPieceCounts implements fileserver.Storage. Only roots
// with a sealed tree are listed.
func (m *Memory) ListTreesWithPieceCounts(ctx context.Context) (map[merkle.Hash]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[merkle.Hash]int, len(m.trees))
	for root := range m.trees {
		counts[root] = len(m.refs[root])
	}
	return counts, nil
}

// Tree implements fileserver.Storage.
func (m *Memory) Tree(ctx context.Context, root merkle.Hash) (*merkle.Tree, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	tree, ok := m.trees[root]
	return tree, ok, nil
}

// PieceRefs implements fileserver.Storage. The returned slice is a
// copy.
func (m *Memory) PieceRefs(ctx context.Context, root merkle.Hash) ([]fileserver.PieceRef, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	refs, ok := m.refs[root]
	if !ok {
		return nil, false, nil
	}
	return append([]fileserver.PieceRef(nil), refs...), true, nil
}

// Content implements fileserver.Storage.
func (m *Memory) Content(ctx context.Context, piece merkle.Hash) (merkle.EncodedContent, bool, error) {
	if err := ctx.Err(); err != nil {
		return merkle.EncodedContent{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.contents[piece]
	return content, ok, nil
}
