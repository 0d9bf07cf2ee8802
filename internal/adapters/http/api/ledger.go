// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"
)

// LedgerDependencies defines the interface for ledger read operations.
type LedgerDependencies interface {
	Ledger(ctx context.Context, includeEmails bool) ([]Entry, time.Time, error)
}

// LedgerHandler handles ledger read requests.
type LedgerHandler struct {
	deps LedgerDependencies
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(deps LedgerDependencies) *LedgerHandler {
	return &LedgerHandler{deps: deps}
}

// ledgerResponse mirrors the read shape for GET /ledger.
type ledgerResponse struct {
	Entries   []Entry   `json:"entries"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// HandleGetLedger handles GET /ledger?include_emails=1 requests.
func (h *LedgerHandler) HandleGetLedger(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ledger"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	includeEmails := r.URL.Query().Get("include_emails") == "1"
	entries, updatedAt, err := h.deps.Ledger(r.Context(), includeEmails)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ledgerResponse{Entries: entries, UpdatedAt: updatedAt})
}
