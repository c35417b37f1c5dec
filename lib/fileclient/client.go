// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fileclient is the verifying half of trustfile: a typed HTTP
// client for the server's /hashes and /piece routes that checks every
// piece against the root hash before handing it to the caller.
//
// The server is not trusted. [Client.Piece] decodes the returned
// content, hashes it, and folds the returned proof up to the root the
// caller asked for; any disagreement is an error wrapping
// merkle.ErrProofMismatch.
package fileclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bureau-foundation/trustfile/lib/codec"
	"github.com/bureau-foundation/trustfile/lib/fileserver"
	"github.com/bureau-foundation/trustfile/lib/merkle"
	"github.com/bureau-foundation/trustfile/lib/netutil"
)

// Client talks to one trustfile server.
type Client struct {
	// BaseURL is the server root, e.g. "http://localhost:8443".
	BaseURL string

	// HTTPClient is used for all requests. Nil means
	// http.DefaultClient.
	HTTPClient *http.Client

	// CBOR requests application/cbor responses instead of JSON.
	CBOR bool
}

// ServerError is a non-200 response. For piece queries that the server
// could not answer, Message is the server's failure reason.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Piece is a verified piece.
type Piece struct {
	Index int

	// Content is the decoded piece bytes.
	Content []byte

	// Encoded is the content as the server sent it.
	Encoded merkle.EncodedContent

	// Hash is the piece hash computed locally from Content.
	Hash merkle.Hash

	// Proof is the verified sibling path, leaf to root.
	Proof []merkle.ProofStep
}

// Hashes lists the sealed trees the server offers.
func (c *Client) Hashes(ctx context.Context) ([]fileserver.TreeSummary, error) {
	var summaries []fileserver.TreeSummary
	if err := c.get(ctx, "/hashes", &summaries); err != nil {
		return nil, fmt.Errorf("listing hashes: %w", err)
	}
	return summaries, nil
}

// PieceCount returns the number of pieces under root, as advertised by
// the server's /hashes listing.
func (c *Client) PieceCount(ctx context.Context, root merkle.Hash) (int, error) {
	summaries, err := c.Hashes(ctx)
	if err != nil {
		return 0, err
	}
	for _, summary := range summaries {
		if summary.Hash == root.Hex() && summary.Algorithm == root.Algorithm() {
			return summary.Pieces, nil
		}
	}
	return 0, fmt.Errorf("server does not offer tree %s", root)
}

// Piece fetches the piece at index under root and verifies it. The
// piece is hashed with root's algorithm.
func (c *Client) Piece(ctx context.Context, root merkle.Hash, index int) (*Piece, error) {
	path := "/piece/" + root.Hex() + "/" + strconv.Itoa(index)
	if root.Algorithm() != merkle.CanonicalAlgorithm {
		path += "?algorithm=" + url.QueryEscape(root.Algorithm())
	}

	var response fileserver.PieceResponse
	if err := c.get(ctx, path, &response); err != nil {
		return nil, fmt.Errorf("fetching piece %d of %s: %w", index, root.Hex(), err)
	}

	proof, err := response.PieceProof(root.Algorithm())
	if err != nil {
		return nil, fmt.Errorf("piece %d of %s: malformed response: %w", index, root.Hex(), err)
	}
	content, err := proof.Content.Decode()
	if err != nil {
		return nil, fmt.Errorf("piece %d of %s: decoding content: %w", index, root.Hex(), err)
	}
	hash, err := merkle.HashBytes(root.Algorithm(), content)
	if err != nil {
		return nil, fmt.Errorf("piece %d of %s: %w", index, root.Hex(), err)
	}
	if err := merkle.VerifyProof(root, hash, proof.Steps); err != nil {
		return nil, fmt.Errorf("piece %d of %s: %w", index, root.Hex(), err)
	}

	return &Piece{
		Index:   index,
		Content: content,
		Encoded: proof.Content,
		Hash:    hash,
		Proof:   proof.Steps,
	}, nil
}

// Download fetches and verifies every piece under root in order and
// writes the reassembled file to w. It returns the number of bytes
// written. Nothing unverified is ever written.
func (c *Client) Download(ctx context.Context, root merkle.Hash, w io.Writer) (int64, error) {
	count, err := c.PieceCount(ctx, root)
	if err != nil {
		return 0, err
	}
	var written int64
	for index := range count {
		piece, err := c.Piece(ctx, root, index)
		if err != nil {
			return written, err
		}
		n, err := w.Write(piece.Content)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("writing piece %d: %w", index, err)
		}
	}
	return written, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(c.BaseURL, "/")+path, nil)
	if err != nil {
		return err
	}
	if c.CBOR {
		request.Header.Set("Accept", codec.ContentType)
	} else {
		request.Header.Set("Accept", "application/json")
	}

	response, err := c.httpClient().Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return &ServerError{StatusCode: response.StatusCode, Message: netutil.ErrorBody(response.Body)}
	}
	return netutil.DecodeResponse(response.Body, response.Header.Get("Content-Type"), v)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// IsServerError reports whether err carries a response with the given
// status code.
func IsServerError(err error, statusCode int) bool {
	var serverError *ServerError
	return errors.As(err, &serverError) && serverError.StatusCode == statusCode
}
