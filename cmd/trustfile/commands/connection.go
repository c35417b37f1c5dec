// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/trustfile/cmd/trustfile/cli"
	"github.com/bureau-foundation/trustfile/lib/fileclient"
	"github.com/bureau-foundation/trustfile/lib/merkle"
)

// ServerEnv overrides the default --server value.
const ServerEnv = "TRUSTFILE_SERVER"

const defaultServer = "http://127.0.0.1:8080"

// ServerConnection holds the flags shared by commands that talk to a
// server. It implements [cli.FlagBinder] so the --server default can
// come from the environment. Exported so that embedding it is visible
// to reflection in cli.BindFlags.
type ServerConnection struct {
	Server  string
	Timeout time.Duration
	CBOR    bool
}

// AddFlags registers --server, --timeout and --cbor.
func (c *ServerConnection) AddFlags(flagSet *pflag.FlagSet) {
	server := defaultServer
	if configured := os.Getenv(ServerEnv); configured != "" {
		server = configured
	}
	flagSet.StringVarP(&c.Server, "server", "s", server, "trustfile server URL (env "+ServerEnv+")")
	flagSet.DurationVar(&c.Timeout, "timeout", 30*time.Second, "per-request timeout")
	flagSet.BoolVar(&c.CBOR, "cbor", false, "request CBOR instead of JSON responses")
}

func (c *ServerConnection) client() *fileclient.Client {
	return &fileclient.Client{
		BaseURL:    c.Server,
		HTTPClient: &http.Client{Timeout: c.Timeout},
		CBOR:       c.CBOR,
	}
}

// classify turns a client error into a categorized command error.
func classify(err error) error {
	var serverError *fileclient.ServerError
	switch {
	case errors.Is(err, merkle.ErrProofMismatch):
		return &cli.ToolError{Category: cli.CategoryUntrusted, Err: err}
	case errors.As(err, &serverError) && serverError.StatusCode == http.StatusBadRequest:
		return &cli.ToolError{Category: cli.CategoryNotFound, Err: err}
	case errors.As(err, &serverError) && serverError.StatusCode >= 500:
		return &cli.ToolError{Category: cli.CategoryTransient, Err: err}
	case errors.As(err, &serverError):
		return &cli.ToolError{Category: cli.CategoryInternal, Err: err}
	default:
		var networkError interface{ Timeout() bool }
		if errors.As(err, &networkError) {
			return &cli.ToolError{Category: cli.CategoryTransient, Err: err}
		}
		return &cli.ToolError{Category: cli.CategoryInternal, Err: err}
	}
}

// parseRoot parses a hex root hash labelled with algorithm.
func parseRoot(hexDigest, algorithm string) (merkle.Hash, error) {
	root, err := merkle.ParseHash(algorithm, hexDigest)
	if err != nil {
		return merkle.Hash{}, cli.Validation("root hash: %w", err)
	}
	return root, nil
}
