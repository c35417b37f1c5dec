// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection pool behind the
// durable piece store.
//
// It wraps zombiezen.com/go/sqlite's sqlitex.Pool with fixed pragmas
// and two transaction helpers. Callers write SQL directly with
// sqlitex.Execute; there is no query builder.
//
// # Pragmas
//
// Every connection is initialized with:
//
//   - journal_mode=WAL: readers never block the writer and vice versa.
//   - synchronous=NORMAL: survives process crashes, not power loss.
//     Pieces can always be re-ingested from their source files.
//   - busy_timeout=5000: wait for the write lock instead of failing
//     with SQLITE_BUSY.
//   - foreign_keys=OFF: the piece store keeps its own integrity.
//   - cache_size=-8192: 8 MB page cache per connection.
//   - mmap_size=268435456: 256 MB memory-mapped reads.
//   - temp_store=MEMORY.
//
// # Usage
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:   "/var/lib/trustfile/pieces.db",
//	    Schema: schema,
//	    Logger: logger,
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	err = pool.Write(ctx, func(conn *sqlite.Conn) error {
//	    return sqlitex.Execute(conn, "INSERT ...", &sqlitex.ExecOptions{Args: args})
//	})
//
// [Pool.Write] wraps fn in an IMMEDIATE transaction, which takes the
// write lock up front so that two writers never deadlock upgrading
// from a read lock. [Pool.Read] wraps fn in a deferred transaction for
// a consistent snapshot across several SELECTs.
package sqlitepool
