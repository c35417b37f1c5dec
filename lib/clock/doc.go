// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Storage adapters stamp sealed trees with Clock.Now and the HTTP
// server measures request durations with Clock.Since. In production
// both use Real(); tests use Fake() so that stored timestamps and
// logged durations are exact:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	store, err := piecestore.OpenSQLite(piecestore.SQLiteConfig{Path: path, Clock: c})
//	// ...
//	c.Advance(time.Minute)
package clock
