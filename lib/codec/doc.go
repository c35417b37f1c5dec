// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the shared CBOR encoding configuration.
//
// Two places in trustfile emit CBOR: the SQLite adapter stores sealed
// trees as CBOR blobs, and the HTTP server answers in CBOR when a
// client sends "Accept: application/cbor". Both use the modes defined
// here so that the same value always produces the same bytes. The
// encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map
// keys, smallest integer encoding, no indefinite-length items.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// # Struct Tag Rules
//
// A `cbor` tag marks a type that is only ever stored as CBOR (the tree
// blob nodes). A `json` tag marks a type served as both JSON and CBOR
// (HTTP responses); fxamacker/cbor falls back to `json` tags when no
// `cbor` tag is present. Never put both tags on one field.
package codec
