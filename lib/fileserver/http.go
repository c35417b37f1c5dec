// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fileserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bureau-foundation/trustfile/lib/codec"
	"github.com/bureau-foundation/trustfile/lib/merkle"
	"github.com/bureau-foundation/trustfile/lib/netutil"
)

// Handler serves a [Service] over HTTP:
//
//	GET /hashes                  sealed roots with piece counts and seal times
//	GET /piece/{hash}/{index}    one piece with its inclusion proof
//	GET /healthz                 liveness
//
// The piece route takes an optional ?algorithm= naming the tree's hash
// algorithm; it defaults to SHA-256. Responses are JSON unless the
// client accepts application/cbor.
type Handler struct {
	service *Service
	logger  *slog.Logger
	mux     *http.ServeMux
}

// NewHandler creates the HTTP handler for service.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{service: service, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /hashes", h.handleHashes)
	h.mux.HandleFunc("GET /piece/{hash}/{index}", h.handlePiece)
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeResponse(w, r, map[string]string{"status": "ok"})
}

func (h *Handler) handleHashes(w http.ResponseWriter, r *http.Request) {
	available, err := h.service.ListAvailable(r.Context())
	if err != nil {
		h.logger.Error("listing trees", "error", err)
		h.sendError(w, http.StatusInternalServerError, "listing trees failed")
		return
	}
	sealed, err := h.service.SealTimes(r.Context())
	if err != nil {
		h.logger.Error("listing seal times", "error", err)
		h.sendError(w, http.StatusInternalServerError, "listing trees failed")
		return
	}
	h.writeResponse(w, r, Summaries(available, sealed))
}

func (h *Handler) handlePiece(w http.ResponseWriter, r *http.Request) {
	algorithm := r.URL.Query().Get("algorithm")
	if algorithm == "" {
		algorithm = merkle.CanonicalAlgorithm
	}
	root, err := merkle.ParseHash(algorithm, r.PathValue("hash"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid root hash: %v", err)
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid piece index %q", r.PathValue("index"))
		return
	}

	proof, err := h.service.GetProofForPiece(r.Context(), root, index)
	if err != nil {
		var failure *Failure
		if errors.As(err, &failure) {
			h.sendError(w, http.StatusBadRequest, "%s", failure.Error())
			return
		}
		h.logger.Error("building piece proof", "root", root.Hex(), "index", index, "error", err)
		h.sendError(w, http.StatusInternalServerError, "building piece proof failed")
		return
	}
	h.writeResponse(w, r, NewPieceResponse(proof))
}

// writeResponse encodes value as CBOR or JSON depending on the Accept
// header. Encoding failures mean the client went away, so they are
// only logged.
func (h *Handler) writeResponse(w http.ResponseWriter, r *http.Request, value any) {
	if netutil.AcceptsCBOR(r) {
		w.Header().Set("Content-Type", codec.ContentType)
		if err := codec.NewEncoder(w).Encode(value); err != nil {
			h.logger.Warn("writing CBOR response", "error", err)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		h.logger.Warn("writing JSON response", "error", err)
	}
}

// sendError writes the reason as a plain-text body.
func (h *Handler) sendError(w http.ResponseWriter, status int, format string, args ...any) {
	http.Error(w, fmt.Sprintf(format, args...), status)
}
