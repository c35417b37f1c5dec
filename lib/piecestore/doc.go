// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package piecestore implements fileserver.Storage.
//
// [Memory] keeps everything in maps behind one RWMutex. It is what
// tests and short-lived servers use; nothing survives the process.
//
// [SQLite] persists pieces, sealed trees and piece lists in one SQLite
// database through lib/sqlitepool. Trees are stored whole, as a
// CBOR-encoded node structure (lib/codec), next to the time they were
// sealed. A tree and its piece list are written in one IMMEDIATE
// transaction, so readers see both or neither.
//
// Both adapters key everything by the full hash (algorithm and
// digest). A lookup with the right digest but a different algorithm
// label finds nothing.
package piecestore
