// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/tally/internal/adapters/repository"
)

// MemberDependencies defines the interface for single-member ledger reads.
type MemberDependencies interface {
	Member(ctx context.Context, email string) (Entry, error)
}

// MemberHandler handles single-member ledger reads.
type MemberHandler struct {
	deps MemberDependencies
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(deps MemberDependencies) *MemberHandler {
	return &MemberHandler{deps: deps}
}

// HandleGetMember handles GET /members?email=E requests.
func (h *MemberHandler) HandleGetMember(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_member"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Member(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
