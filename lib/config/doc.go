// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads trustfile server configuration.
//
// Configuration is loaded from a single file named either by the
// TRUSTFILE_CONFIG environment variable (via [Load]) or by a --config
// flag (via [LoadFile]). There is no discovery and no fallback search,
// so the file in use is always the one the operator named.
//
// Files ending in .json or .jsonc are read as JSON with comments and
// trailing commas allowed (github.com/tidwall/jsonc); anything else is
// YAML.
//
// A file may contain environment sections (development, staging,
// production) that override base values when [Config].Environment
// matches. Production defaults to the sqlite backend so that sealed
// trees survive restarts.
//
// After loading, ${HOME}, ${TRUSTFILE_DATA} and ${VAR:-default}
// patterns are expanded in path fields. No other environment variables
// override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Server, Storage, Ingest, Log
//   - [Default] -- a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
package config
