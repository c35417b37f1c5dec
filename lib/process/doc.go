// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint helper shared by trustfile
// binaries: reporting an error from run() on stderr, where the
// structured logger may not exist yet, and exiting non-zero.
package process
