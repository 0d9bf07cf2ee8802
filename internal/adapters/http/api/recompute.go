// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/model"
)

// RecomputeDependencies defines the interface for triggering a ledger rebuild.
type RecomputeDependencies interface {
	Aggregate(ctx context.Context) (*model.Ledger, error)
}

// RecomputeHandler handles on-demand ledger recompute requests.
type RecomputeHandler struct {
	deps RecomputeDependencies
}

// NewRecomputeHandler creates a new recompute handler.
func NewRecomputeHandler(deps RecomputeDependencies) *RecomputeHandler {
	return &RecomputeHandler{deps: deps}
}

type recomputeResponse struct {
	Status  string `json:"status"`
	Members int    `json:"members"`
}

// HandleRecompute handles POST /recompute requests.
func (h *RecomputeHandler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	const op = "api.recompute"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	ledger, err := h.deps.Aggregate(r.Context())
	if err != nil {
		if errors.Is(err, source.ErrSourceUnavailable) {
			writeError(w, http.StatusBadGateway, "source_unavailable", WrapKind(op, ErrSourceUnavailable, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, err))
		return
	}
	writeJSON(w, http.StatusOK, recomputeResponse{Status: "ok", Members: len(ledger.Entries)})
}
