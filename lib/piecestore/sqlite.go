// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package piecestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/trustfile/lib/clock"
	"github.com/bureau-foundation/trustfile/lib/codec"
	"github.com/bureau-foundation/trustfile/lib/fileserver"
	"github.com/bureau-foundation/trustfile/lib/merkle"
	"github.com/bureau-foundation/trustfile/lib/sqlitepool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS pieces (
		algorithm TEXT NOT NULL,
		digest    BLOB NOT NULL,
		encoding  TEXT NOT NULL,
		content   BLOB,
		PRIMARY KEY (algorithm, digest)
	);

	CREATE TABLE IF NOT EXISTS trees (
		algorithm TEXT NOT NULL,
		digest    BLOB NOT NULL,
		tree      BLOB NOT NULL,
		sealed_at INTEGER NOT NULL,
		PRIMARY KEY (algorithm, digest)
	);

	CREATE TABLE IF NOT EXISTS tree_pieces (
		tree_algorithm TEXT NOT NULL,
		tree_digest    BLOB NOT NULL,
		position       INTEGER NOT NULL,
		algorithm      TEXT NOT NULL,
		digest         BLOB NOT NULL,
		PRIMARY KEY (tree_algorithm, tree_digest, position)
	);
`

// SQLiteConfig holds the parameters for opening a SQLite store.
type SQLiteConfig struct {
	// Path is the database file. The parent directory must exist.
	Path string

	// PoolSize is passed to sqlitepool. Defaults to 4.
	PoolSize int

	// Clock stamps sealed trees. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives pool lifecycle messages. Nil discards them.
	Logger *slog.Logger
}

// SQLite is a durable fileserver.Storage backed by one SQLite file.
type SQLite struct {
	pool   *sqlitepool.Pool
	clock  clock.Clock
	logger *slog.Logger
}

var (
	_ fileserver.Storage        = (*SQLite)(nil)
	_ fileserver.SealTimeLister = (*SQLite)(nil)
)

// OpenSQLite opens or creates the database at cfg.Path. The caller
// must Close the store.
func OpenSQLite(cfg SQLiteConfig) (*SQLite, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	storeClock := cfg.Clock
	if storeClock == nil {
		storeClock = clock.Real()
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: poolSize,
		Schema:   schema,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("piece store: %w", err)
	}
	return &SQLite{pool: pool, clock: storeClock, logger: logger}, nil
}

// Close closes the connection pool.
func (s *SQLite) Close() error {
	return s.pool.Close()
}

// PersistPiece implements fileserver.Storage.
func (s *SQLite) PersistPiece(ctx context.Context, hash merkle.Hash, content merkle.EncodedContent) (fileserver.PieceRef, error) {
	err := s.pool.Write(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `
			INSERT INTO pieces (algorithm, digest, encoding, content)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (algorithm, digest) DO UPDATE SET
				encoding = excluded.encoding,
				content = excluded.content`,
			&sqlitex.ExecOptions{
				Args: []any{hash.Algorithm(), hash.Bytes(), content.Encoding(), content.Bytes()},
			})
	})
	if err != nil {
		return fileserver.PieceRef{}, fmt.Errorf("piece store: persist piece: %w", err)
	}
	return fileserver.PieceRef{Hash: hash}, nil
}

// PersistTree implements fileserver.Storage. The tree row and the
// piece list are replaced together in one transaction.
func (s *SQLite) PersistTree(ctx context.Context, root merkle.Hash, tree *merkle.Tree, refs []fileserver.PieceRef) error {
	blob, err := codec.Marshal(encodeNode(tree.Root()))
	if err != nil {
		return fmt.Errorf("piece store: encoding tree %s: %w", root, err)
	}
	sealedAt := s.clock.Now().UnixNano()

	err = s.pool.Write(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `
			INSERT INTO trees (algorithm, digest, tree, sealed_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (algorithm, digest) DO UPDATE SET
				tree = excluded.tree,
				sealed_at = excluded.sealed_at`,
			&sqlitex.ExecOptions{
				Args: []any{root.Algorithm(), root.Bytes(), blob, sealedAt},
			})
		if err != nil {
			return err
		}

		err = sqlitex.Execute(conn,
			"DELETE FROM tree_pieces WHERE tree_algorithm = ? AND tree_digest = ?",
			&sqlitex.ExecOptions{Args: []any{root.Algorithm(), root.Bytes()}})
		if err != nil {
			return err
		}

		for position, ref := range refs {
			err := sqlitex.Execute(conn, `
				INSERT INTO tree_pieces (tree_algorithm, tree_digest, position, algorithm, digest)
				VALUES (?, ?, ?, ?, ?)`,
				&sqlitex.ExecOptions{
					Args: []any{root.Algorithm(), root.Bytes(), position, ref.Hash.Algorithm(), ref.Hash.Bytes()},
				})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("piece store: persist tree %s: %w", root, err)
	}
	return nil
}

// ListTreesWithPieceCounts implements fileserver.Storage.
func (s *SQLite) ListTreesWithPieceCounts(ctx context.Context) (map[merkle.Hash]int, error) {
	counts := make(map[merkle.Hash]int)
	err := s.pool.Read(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `
			SELECT t.algorithm, t.digest,
				(SELECT COUNT(*) FROM tree_pieces p
				 WHERE p.tree_algorithm = t.algorithm AND p.tree_digest = t.digest)
			FROM trees t`,
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					root, err := merkle.RawHashWith(stmt.ColumnText(0), columnBlob(stmt, 1))
					if err != nil {
						return err
					}
					counts[root] = stmt.ColumnInt(2)
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("piece store: list trees: %w", err)
	}
	return counts, nil
}

// Tree implements fileserver.Storage.
func (s *SQLite) Tree(ctx context.Context, root merkle.Hash) (*merkle.Tree, bool, error) {
	var blob []byte
	err := s.pool.Read(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT tree FROM trees WHERE algorithm = ? AND digest = ?",
			&sqlitex.ExecOptions{
				Args: []any{root.Algorithm(), root.Bytes()},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					blob = columnBlob(stmt, 0)
					return nil
				},
			})
	})
	if err != nil {
		return nil, false, fmt.Errorf("piece store: load tree %s: %w", root, err)
	}
	if blob == nil {
		return nil, false, nil
	}

	var node treeNode
	if err := codec.Unmarshal(blob, &node); err != nil {
		return nil, false, fmt.Errorf("piece store: decoding tree %s: %w", root, err)
	}
	element, err := decodeNode(&node)
	if err != nil {
		return nil, false, fmt.Errorf("piece store: decoding tree %s: %w", root, err)
	}
	return merkle.NewTree(element), true, nil
}

// PieceRefs implements fileserver.Storage.
func (s *SQLite) PieceRefs(ctx context.Context, root merkle.Hash) ([]fileserver.PieceRef, bool, error) {
	var refs []fileserver.PieceRef
	err := s.pool.Read(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `
			SELECT algorithm, digest FROM tree_pieces
			WHERE tree_algorithm = ? AND tree_digest = ?
			ORDER BY position`,
			&sqlitex.ExecOptions{
				Args: []any{root.Algorithm(), root.Bytes()},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					hash, err := merkle.RawHashWith(stmt.ColumnText(0), columnBlob(stmt, 1))
					if err != nil {
						return err
					}
					refs = append(refs, fileserver.PieceRef{Hash: hash})
					return nil
				},
			})
	})
	if err != nil {
		return nil, false, fmt.Errorf("piece store: load piece list %s: %w", root, err)
	}
	if len(refs) == 0 {
		return nil, false, nil
	}
	return refs, true, nil
}

// Content implements fileserver.Storage.
func (s *SQLite) Content(ctx context.Context, piece merkle.Hash) (merkle.EncodedContent, bool, error) {
	var (
		content merkle.EncodedContent
		found   bool
	)
	err := s.pool.Read(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT encoding, content FROM pieces WHERE algorithm = ? AND digest = ?",
			&sqlitex.ExecOptions{
				Args: []any{piece.Algorithm(), piece.Bytes()},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					restored, err := merkle.RestoreContent(stmt.ColumnText(0), columnBlob(stmt, 1))
					if err != nil {
						return err
					}
					content, found = restored, true
					return nil
				},
			})
	})
	if err != nil {
		return merkle.EncodedContent{}, false, fmt.Errorf("piece store: load content %s: %w", piece, err)
	}
	return content, found, nil
}

// ListSealTimes implements fileserver.SealTimeLister.
func (s *SQLite) ListSealTimes(ctx context.Context) (map[merkle.Hash]time.Time, error) {
	times := make(map[merkle.Hash]time.Time)
	err := s.pool.Read(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT algorithm, digest, sealed_at FROM trees",
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					root, err := merkle.RawHashWith(stmt.ColumnText(0), columnBlob(stmt, 1))
					if err != nil {
						return err
					}
					times[root] = time.Unix(0, stmt.ColumnInt64(2)).UTC()
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("piece store: list seal times: %w", err)
	}
	return times, nil
}

// columnBlob copies a BLOB column. NULL and empty both return a
// non-nil empty slice.
func columnBlob(stmt *sqlite.Stmt, column int) []byte {
	blob := make([]byte, stmt.ColumnLen(column))
	stmt.ColumnBytes(column, blob)
	return blob
}

// treeNode is the stored form of a tree element. A node with no
// children is a leaf. Each node keeps its own algorithm because filler
// leaves are always SHA-256 whatever the tree algorithm.
type treeNode struct {
	Algorithm string    `cbor:"1,keyasint"`
	Digest    []byte    `cbor:"2,keyasint"`
	Left      *treeNode `cbor:"3,keyasint,omitempty"`
	Right     *treeNode `cbor:"4,keyasint,omitempty"`
}

var errMalformedNode = errors.New("internal node with one child")

func encodeNode(element merkle.Element) *treeNode {
	hash := element.Hash()
	node := &treeNode{Algorithm: hash.Algorithm(), Digest: hash.Bytes()}
	if internal, ok := element.(*merkle.Internal); ok {
		node.Left = encodeNode(internal.Left())
		node.Right = encodeNode(internal.Right())
	}
	return node
}

func decodeNode(node *treeNode) (merkle.Element, error) {
	hash, err := merkle.RawHashWith(node.Algorithm, node.Digest)
	if err != nil {
		return nil, err
	}
	switch {
	case node.Left == nil && node.Right == nil:
		return merkle.NewLeaf(hash), nil
	case node.Left == nil || node.Right == nil:
		return nil, fmt.Errorf("%w at %s", errMalformedNode, hash)
	}
	left, err := decodeNode(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := decodeNode(node.Right)
	if err != nil {
		return nil, err
	}
	return merkle.NewInternal(hash, left, right), nil
}
