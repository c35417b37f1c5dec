// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package merkle

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Encoding names accepted by [EncodeContent] and [LookupEncoding].
const (
	EncodingBase64     = "BASE_64"
	EncodingZstdBase64 = "ZSTD_BASE_64"
	EncodingLZ4Base64  = "LZ4_BASE_64"
)

// ErrUnknownEncoding is returned when an encoding name is not present
// in the registry.
var ErrUnknownEncoding = errors.New("unknown encoding algorithm")

// EncodingAlgorithm is one entry of the content encoding registry.
// Every registered encoding produces ASCII output, so the text form of
// encoded content is the encoded bytes themselves.
type EncodingAlgorithm struct {
	// Name is the registry key, e.g. "BASE_64".
	Name string

	encode func(raw []byte) ([]byte, error)
	decode func(encoded []byte) ([]byte, error)
}

// Encode transforms raw piece bytes into their transfer form.
func (algorithm *EncodingAlgorithm) Encode(raw []byte) ([]byte, error) {
	return algorithm.encode(raw)
}

// Decode reverses Encode.
func (algorithm *EncodingAlgorithm) Decode(encoded []byte) ([]byte, error) {
	return algorithm.decode(encoded)
}

// ToText renders encoded bytes for transport in text payloads.
func (algorithm *EncodingAlgorithm) ToText(encoded []byte) string {
	return string(encoded)
}

var encodings = map[string]*EncodingAlgorithm{}

// zstdEncoder and zstdDecoder are safe for concurrent use and reused
// across calls.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func registerEncoding(name string, encode, decode func([]byte) ([]byte, error)) {
	if _, exists := encodings[name]; exists {
		panic("merkle: duplicate encoding " + name)
	}
	encodings[name] = &EncodingAlgorithm{Name: name, encode: encode, decode: decode}
}

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("merkle: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("merkle: zstd decoder initialization failed: " + err.Error())
	}

	registerEncoding(EncodingBase64, encodeBase64, decodeBase64)
	registerEncoding(EncodingZstdBase64,
		func(raw []byte) ([]byte, error) {
			return encodeBase64(zstdEncoder.EncodeAll(raw, nil))
		},
		func(encoded []byte) ([]byte, error) {
			compressed, err := decodeBase64(encoded)
			if err != nil {
				return nil, err
			}
			raw, err := zstdDecoder.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("zstd decode: %w", err)
			}
			return raw, nil
		})
	registerEncoding(EncodingLZ4Base64,
		func(raw []byte) ([]byte, error) {
			var buffer bytes.Buffer
			writer := lz4.NewWriter(&buffer)
			if _, err := writer.Write(raw); err != nil {
				return nil, fmt.Errorf("lz4 encode: %w", err)
			}
			if err := writer.Close(); err != nil {
				return nil, fmt.Errorf("lz4 encode: %w", err)
			}
			return encodeBase64(buffer.Bytes())
		},
		func(encoded []byte) ([]byte, error) {
			compressed, err := decodeBase64(encoded)
			if err != nil {
				return nil, err
			}
			raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(compressed)))
			if err != nil {
				return nil, fmt.Errorf("lz4 decode: %w", err)
			}
			return raw, nil
		})
}

func encodeBase64(raw []byte) ([]byte, error) {
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(encoded, raw)
	return encoded, nil
}

func decodeBase64(encoded []byte) ([]byte, error) {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	written, err := base64.StdEncoding.Decode(raw, encoded)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	return raw[:written], nil
}

// LookupEncoding returns the registered encoding with the given
// case-sensitive name.
func LookupEncoding(name string) (*EncodingAlgorithm, error) {
	algorithm, ok := encodings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return algorithm, nil
}

// Encodings returns the registered encoding names in sorted order.
func Encodings() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EncodedContent is the immutable transfer form of a piece: the
// encoding name and the encoded bytes. Equality is defined over both.
type EncodedContent struct {
	encoding string
	encoded  string
}

// EncodeContent encodes raw piece bytes with the named encoding.
func EncodeContent(encodingName string, raw []byte) (EncodedContent, error) {
	algorithm, err := LookupEncoding(encodingName)
	if err != nil {
		return EncodedContent{}, err
	}
	encoded, err := algorithm.Encode(raw)
	if err != nil {
		return EncodedContent{}, fmt.Errorf("encoding piece with %s: %w", encodingName, err)
	}
	return EncodedContent{encoding: algorithm.Name, encoded: string(encoded)}, nil
}

// RestoreContent wraps bytes that are already encoded, as read back
// from storage. The encoding name must be registered.
func RestoreContent(encodingName string, encoded []byte) (EncodedContent, error) {
	algorithm, err := LookupEncoding(encodingName)
	if err != nil {
		return EncodedContent{}, err
	}
	return EncodedContent{encoding: algorithm.Name, encoded: string(encoded)}, nil
}

// Encoding returns the encoding name.
func (c EncodedContent) Encoding() string { return c.encoding }

// Bytes returns a copy of the encoded bytes.
func (c EncodedContent) Bytes() []byte { return []byte(c.encoded) }

// Text returns the text form of the encoded bytes. For BASE_64 this is
// the base64 text of the piece.
func (c EncodedContent) Text() string {
	algorithm, err := LookupEncoding(c.encoding)
	if err != nil {
		return c.encoded
	}
	return algorithm.ToText([]byte(c.encoded))
}

// Decode returns the original piece bytes.
func (c EncodedContent) Decode() ([]byte, error) {
	algorithm, err := LookupEncoding(c.encoding)
	if err != nil {
		return nil, err
	}
	return algorithm.Decode([]byte(c.encoded))
}

// IsZero reports whether c is the zero EncodedContent.
func (c EncodedContent) IsZero() bool { return c.encoding == "" && c.encoded == "" }
