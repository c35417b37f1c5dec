// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileserver_test

import (
	"context"
	"testing"
	"time"

	"github.com/bureau-foundation/trustfile/lib/fileserver"
	"github.com/bureau-foundation/trustfile/lib/merkle"
	"github.com/bureau-foundation/trustfile/lib/piecestore"
)

func TestPieceResponseRoundTrip(t *testing.T) {
	service, tree, refs := sealFixture(t, piecestore.NewMemory())
	proof, err := service.GetProofForPiece(context.Background(), tree.RootHash(), 2)
	if err != nil {
		t.Fatal(err)
	}

	response := fileserver.NewPieceResponse(proof)
	if response.Content != "TnVtYmVyIDM=" || response.Encoding != merkle.EncodingBase64 {
		t.Errorf("response content = %q (%s)", response.Content, response.Encoding)
	}
	wantSides := []string{"right", "left", "right"}
	for i, side := range response.Sides {
		if side != wantSides[i] {
			t.Errorf("side %d = %q, want %q", i, side, wantSides[i])
		}
	}

	parsed, err := response.PieceProof(merkle.AlgorithmSHA256)
	if err != nil {
		t.Fatalf("PieceProof: %v", err)
	}
	if parsed.Content != proof.Content {
		t.Error("content changed in round trip")
	}
	if err := merkle.VerifyProof(tree.RootHash(), refs[2].Hash, parsed.Steps); err != nil {
		t.Errorf("VerifyProof on parsed steps: %v", err)
	}
}

func TestPieceResponseRejectsMalformed(t *testing.T) {
	cases := map[string]fileserver.PieceResponse{
		"length mismatch":  {Encoding: merkle.EncodingBase64, Proofs: []string{"00"}},
		"unknown encoding": {Encoding: "HEX"},
		"bad hex":          {Encoding: merkle.EncodingBase64, Proofs: []string{"zz"}, Sides: []string{"left"}},
		"bad side":         {Encoding: merkle.EncodingBase64, Proofs: []string{"00"}, Sides: []string{"up"}},
	}
	for name, response := range cases {
		if _, err := response.PieceProof(merkle.AlgorithmSHA256); err == nil {
			t.Errorf("%s: PieceProof accepted a malformed response", name)
		}
	}
}

func TestSummariesSorted(t *testing.T) {
	first, _ := merkle.ParseHash(merkle.AlgorithmSHA256, "ff")
	second, _ := merkle.ParseHash(merkle.AlgorithmSHA256, "0a")
	third, _ := merkle.ParseHash(merkle.AlgorithmBLAKE3, "0a")

	summaries := fileserver.Summaries(map[merkle.Hash]int{first: 1, second: 2, third: 3}, nil)
	want := []fileserver.TreeSummary{
		{Hash: "0a", Algorithm: merkle.AlgorithmBLAKE3, Pieces: 3},
		{Hash: "0a", Algorithm: merkle.AlgorithmSHA256, Pieces: 2},
		{Hash: "ff", Algorithm: merkle.AlgorithmSHA256, Pieces: 1},
	}
	if len(summaries) != len(want) {
		t.Fatalf("got %d summaries, want %d", len(summaries), len(want))
	}
	for i := range want {
		if summaries[i] != want[i] {
			t.Errorf("summary %d = %+v, want %+v", i, summaries[i], want[i])
		}
	}
}

func TestSummariesSealTimes(t *testing.T) {
	sealed, _ := merkle.ParseHash(merkle.AlgorithmSHA256, "0a")
	unsealed, _ := merkle.ParseHash(merkle.AlgorithmSHA256, "0b")
	at := time.Date(2026, 3, 1, 13, 0, 0, 0, time.FixedZone("CET", 3600))

	summaries := fileserver.Summaries(
		map[merkle.Hash]int{sealed: 1, unsealed: 2},
		map[merkle.Hash]time.Time{sealed: at},
	)
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].SealedAt != "2026-03-01T12:00:00Z" {
		t.Errorf("sealed_at = %q, want the UTC time", summaries[0].SealedAt)
	}
	if summaries[1].SealedAt != "" {
		t.Errorf("tree without a seal time reports %q", summaries[1].SealedAt)
	}
}
