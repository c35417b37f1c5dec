// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileserver

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/bureau-foundation/trustfile/lib/merkle"
)

// TreeSummary is one entry of the GET /hashes response. SealedAt is
// RFC 3339 in UTC, empty when the storage does not record seal times.
type TreeSummary struct {
	Hash      string `json:"hash"`
	Algorithm string `json:"algorithm"`
	Pieces    int    `json:"pieces"`
	SealedAt  string `json:"sealed_at,omitempty"`
}

// PieceResponse is the GET /piece/{hash}/{index} response body.
// Proofs and Sides are parallel, ordered leaf to root.
type PieceResponse struct {
	Content  string   `json:"content"`
	Encoding string   `json:"encoding"`
	Proofs   []string `json:"proofs"`
	Sides    []string `json:"sides"`
}

// Summaries renders ListAvailable output, with seal times where known,
// sorted by hex hash, then algorithm. sealed may be nil.
func Summaries(available map[merkle.Hash]int, sealed map[merkle.Hash]time.Time) []TreeSummary {
	summaries := make([]TreeSummary, 0, len(available))
	for root, pieces := range available {
		summary := TreeSummary{
			Hash:      root.Hex(),
			Algorithm: root.Algorithm(),
			Pieces:    pieces,
		}
		if sealedAt, ok := sealed[root]; ok {
			summary.SealedAt = sealedAt.UTC().Format(time.RFC3339)
		}
		summaries = append(summaries, summary)
	}
	slices.SortFunc(summaries, func(a, b TreeSummary) int {
		return cmp.Or(cmp.Compare(a.Hash, b.Hash), cmp.Compare(a.Algorithm, b.Algorithm))
	})
	return summaries
}

// NewPieceResponse renders a proof for the wire.
func NewPieceResponse(proof *PieceProof) PieceResponse {
	response := PieceResponse{
		Content:  proof.Content.Text(),
		Encoding: proof.Content.Encoding(),
		Proofs:   make([]string, len(proof.Steps)),
		Sides:    make([]string, len(proof.Steps)),
	}
	for i, step := range proof.Steps {
		response.Proofs[i] = step.Hash.Hex()
		response.Sides[i] = step.Side.String()
	}
	return response
}

// PieceProof parses the response back into content and proof steps.
// Sibling hashes are labelled with algorithm, the tree's algorithm;
// filler siblings then differ from the stored filler only in label,
// which verification ignores.
func (r PieceResponse) PieceProof(algorithm string) (*PieceProof, error) {
	if len(r.Proofs) != len(r.Sides) {
		return nil, fmt.Errorf("piece response has %d proof hashes but %d sides", len(r.Proofs), len(r.Sides))
	}
	content, err := merkle.RestoreContent(r.Encoding, []byte(r.Content))
	if err != nil {
		return nil, err
	}
	steps := make([]merkle.ProofStep, len(r.Proofs))
	for i := range r.Proofs {
		hash, err := merkle.ParseHash(algorithm, r.Proofs[i])
		if err != nil {
			return nil, fmt.Errorf("proof step %d: %w", i, err)
		}
		side, err := merkle.ParseSide(r.Sides[i])
		if err != nil {
			return nil, fmt.Errorf("proof step %d: %w", i, err)
		}
		steps[i] = merkle.ProofStep{Hash: hash, Side: side}
	}
	return &PieceProof{Content: content, Steps: steps}, nil
}
