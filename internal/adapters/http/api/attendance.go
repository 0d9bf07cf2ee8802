// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/lookup"
	"github.com/okian/tally/internal/domain/types"
)

// AttendanceDependencies defines the interface for per-member lookups.
type AttendanceDependencies interface {
	FindAttendance(ctx context.Context, memberName string) (lookup.Result, error)
}

// AttendanceHandler handles per-member attendance lookups.
type AttendanceHandler struct {
	deps AttendanceDependencies
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(deps AttendanceDependencies) *AttendanceHandler {
	return &AttendanceHandler{deps: deps}
}

// attendanceResponse mirrors the read shape for GET /attendance.
type attendanceResponse struct {
	Name        string                 `json:"name"`
	Breakdown   []types.AttendanceLine `json:"breakdown"`
	TotalPoints float64                `json:"total_points"`
	EventCount  int                    `json:"event_count"`
}

// HandleGetAttendance handles GET /attendance?name=N requests.
func (h *AttendanceHandler) HandleGetAttendance(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_attendance"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.FindAttendance(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, lookup.ErrEmptyName):
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		case errors.Is(err, source.ErrSourceUnavailable):
			writeError(w, http.StatusBadGateway, "source_unavailable", WrapKind(op, ErrSourceUnavailable, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, err))
		}
		return
	}

	breakdown := make([]types.AttendanceLine, len(res.Breakdown))
	for i, line := range res.Breakdown {
		breakdown[i] = types.AttendanceLine{EventLabel: line.EventLabel, Points: line.Points}
	}
	writeJSON(w, http.StatusOK, attendanceResponse{
		Name:        name,
		Breakdown:   breakdown,
		TotalPoints: res.TotalPoints,
		EventCount:  res.EventCount,
	})
}
