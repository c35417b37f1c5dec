// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// trustfile-server splits files into pieces, seals each into a Merkle
// tree, and serves individual pieces with inclusion proofs over HTTP.
//
// Configuration comes from one file, named by --config or the
// TRUSTFILE_CONFIG environment variable. On startup every file listed
// under ingest.files is loaded and its root hash logged; clients then
// fetch pieces by root hash and index:
//
//	GET /hashes
//	GET /piece/{hash}/{index}[?algorithm=NAME]
//	GET /healthz
//
// With the sqlite backend, trees sealed by earlier runs stay available
// and re-ingesting an unchanged file is idempotent.
package main
