// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// trustfile is the client for trustfile-server. It lists the trees a
// server offers, fetches pieces and whole files while verifying every
// piece against its Merkle root, and computes root hashes of local
// files offline.
//
// Run "trustfile --help" for the command list.
package main
