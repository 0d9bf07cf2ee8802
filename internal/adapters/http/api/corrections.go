// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/identity"
)

// CorrectionDependencies defines the interface for identity corrections.
type CorrectionDependencies interface {
	CorrectEmail(ctx context.Context, oldEmail, newEmail string) (int, error)
	CorrectName(ctx context.Context, oldName, newName string) (int, error)
	DeleteMember(ctx context.Context, name, email string) (int, error)
}

// CorrectionHandler handles identity correction requests.
type CorrectionHandler struct {
	deps CorrectionDependencies
}

// NewCorrectionHandler creates a new correction handler.
func NewCorrectionHandler(deps CorrectionDependencies) *CorrectionHandler {
	return &CorrectionHandler{deps: deps}
}

// emailCorrectionRequest mirrors the schema for POST /corrections/email.
type emailCorrectionRequest struct {
	OldEmail string `json:"old_email"`
	NewEmail string `json:"new_email"`
}

// nameCorrectionRequest mirrors the schema for POST /corrections/name.
type nameCorrectionRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// memberDeleteRequest mirrors the schema for POST /members/delete.
type memberDeleteRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type correctionResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

// HandleCorrectEmail handles POST /corrections/email requests.
func (h *CorrectionHandler) HandleCorrectEmail(w http.ResponseWriter, r *http.Request) {
	const op = "api.correct_email"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req emailCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	changed, err := h.deps.CorrectEmail(r.Context(), req.OldEmail, req.NewEmail)
	if err != nil {
		writeCorrectionError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, correctionResponse{Status: "ok", Records: changed})
}

// HandleCorrectName handles POST /corrections/name requests.
func (h *CorrectionHandler) HandleCorrectName(w http.ResponseWriter, r *http.Request) {
	const op = "api.correct_name"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req nameCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	changed, err := h.deps.CorrectName(r.Context(), req.OldName, req.NewName)
	if err != nil {
		writeCorrectionError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, correctionResponse{Status: "ok", Records: changed})
}

// HandleDeleteMember handles POST /members/delete requests.
func (h *CorrectionHandler) HandleDeleteMember(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_member"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req memberDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	removed, err := h.deps.DeleteMember(r.Context(), req.Name, req.Email)
	if err != nil {
		writeCorrectionError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, correctionResponse{Status: "ok", Records: removed})
}

// writeCorrectionError maps correction failures onto HTTP statuses. Field
// validation is the caller's fault; an unreachable source is upstream's.
func writeCorrectionError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, identity.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, source.ErrSourceUnavailable):
		writeError(w, http.StatusBadGateway, "source_unavailable", WrapKind(op, ErrSourceUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, err))
	}
}
