// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/tally/internal/domain/lookup"
	"github.com/okian/tally/internal/domain/model"
	"github.com/okian/tally/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Aggregate rebuilds the ledger from every event source.
	Aggregate(ctx context.Context) (*model.Ledger, error)

	// Correction operations rewrite identity fields across all sources.
	CorrectEmail(ctx context.Context, oldEmail, newEmail string) (int, error)
	CorrectName(ctx context.Context, oldName, newName string) (int, error)
	DeleteMember(ctx context.Context, name, email string) (int, error)

	// Read operations expose ledger data.
	Ledger(ctx context.Context, includeEmails bool) ([]Entry, time.Time, error)
	Member(ctx context.Context, email string) (Entry, error)
	FindAttendance(ctx context.Context, memberName string) (lookup.Result, error)
}

// Entry mirrors the read shape returned by ledger queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	ledgerHandler     *LedgerHandler
	memberHandler     *MemberHandler
	recomputeHandler  *RecomputeHandler
	correctionHandler *CorrectionHandler
	attendanceHandler *AttendanceHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		ledgerHandler:     NewLedgerHandler(deps),
		memberHandler:     NewMemberHandler(deps),
		recomputeHandler:  NewRecomputeHandler(deps),
		correctionHandler: NewCorrectionHandler(deps),
		attendanceHandler: NewAttendanceHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/ledger", MetricsMiddleware(s.ledgerHandler.HandleGetLedger, "ledger"))
	mux.HandleFunc("/members", MetricsMiddleware(s.memberHandler.HandleGetMember, "members"))
	mux.HandleFunc("/recompute", MetricsMiddleware(s.recomputeHandler.HandleRecompute, "recompute"))
	mux.HandleFunc("/corrections/email", MetricsMiddleware(s.correctionHandler.HandleCorrectEmail, "corrections_email"))
	mux.HandleFunc("/corrections/name", MetricsMiddleware(s.correctionHandler.HandleCorrectName, "corrections_name"))
	mux.HandleFunc("/members/delete", MetricsMiddleware(s.correctionHandler.HandleDeleteMember, "members_delete"))
	mux.HandleFunc("/attendance", MetricsMiddleware(s.attendanceHandler.HandleGetAttendance, "attendance"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// NewKind builds an operation-scoped error from a sentinel kind.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind builds an operation-scoped error carrying both a sentinel kind
// and the underlying cause.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
