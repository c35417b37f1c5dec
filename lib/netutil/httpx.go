// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers shared by the trustfile
// server and client.
//
// Response helpers (ReadResponse, DecodeResponse, ErrorBody) bound all
// body reads at MaxResponseSize so a misbehaving server cannot exhaust
// client memory. Content negotiation helpers (AcceptsCBOR, IsCBOR)
// select between JSON and the CBOR encoding of lib/codec.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/bureau-foundation/trustfile/lib/codec"
)

// MaxResponseSize bounds response body reads: 64 MB. A piece response
// carries one encoded piece plus a proof of a few dozen hashes, so
// legitimate responses are far smaller.
const MaxResponseSize int64 = 64 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes.
// Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads a response body (up to MaxResponseSize bytes)
// and decodes it into v. A CBOR content type is decoded with
// lib/codec; anything else is treated as JSON.
func DecodeResponse(body io.Reader, contentType string, v any) error {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if IsCBOR(contentType) {
		return codec.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// ErrorBody reads an HTTP error response body and returns it as a
// string for diagnostic error messages. Read errors are ignored; a
// partial or empty body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return strings.TrimSpace(string(data))
}

// IsCBOR reports whether a Content-Type header value names CBOR.
func IsCBOR(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == codec.ContentType
}

// AcceptsCBOR reports whether the request's Accept header lists CBOR.
// Quality values are ignored: listing CBOR at all selects it.
func AcceptsCBOR(request *http.Request) bool {
	for _, accept := range request.Header.Values("Accept") {
		for _, part := range strings.Split(accept, ",") {
			if IsCBOR(strings.TrimSpace(part)) {
				return true
			}
		}
	}
	return false
}
