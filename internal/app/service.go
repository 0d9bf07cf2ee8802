// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	repository "github.com/okian/tally/internal/adapters/repository"
	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/aggregate"
	"github.com/okian/tally/internal/domain/identity"
	"github.com/okian/tally/internal/domain/lookup"
	"github.com/okian/tally/internal/domain/model"
	"github.com/okian/tally/internal/domain/tier"
	"github.com/okian/tally/internal/domain/types"
	"github.com/okian/tally/pkg/logger"
	"github.com/okian/tally/pkg/metrics"
)

// Snapshotter persists and restores the external ledger representation.
// The sqlite catalog implements it; the in-memory catalog does not.
type Snapshotter interface {
	SaveLedger(ctx context.Context, ledger *model.Ledger) error
	LoadLedger(ctx context.Context) (*model.Ledger, error)
}

// Service implements the reconciliation operations behind the HTTP API.
//
// A single mutex serializes every operation that touches event sources.
// The engine has no fine-grained concurrency control: interleaving one
// correction's writes with another operation's reads would leave the ledger
// in an undefined state, so overlapping triggers simply queue up.
type Service struct {
	mu sync.RWMutex

	// opMu is the advisory lock scoped to the active tracking period.
	opMu sync.Mutex

	// Core components
	catalog     source.Catalog
	store       repository.Store
	snapshotter Snapshotter
	aggregator  *aggregate.Aggregator
	corrector   *identity.Corrector
	finder      *lookup.Lookup

	// Configuration
	activeThreshold   float64
	involvedThreshold float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the event source catalog.
func WithCatalog(catalog source.Catalog) Option {
	return func(s *Service) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithStore sets the ledger store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSnapshotter sets the ledger snapshot persister.
func WithSnapshotter(sn Snapshotter) Option {
	return func(s *Service) {
		if sn != nil {
			s.snapshotter = sn
		}
	}
}

// WithTierThresholds sets the Active and Involved tier thresholds.
func WithTierThresholds(active, involved float64) Option {
	return func(s *Service) {
		if active > 0 && involved > active {
			s.activeThreshold = active
			s.involvedThreshold = involved
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		activeThreshold:   3,
		involvedThreshold: 15,
		logger:            nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting reconciliation service...")

	if s.catalog == nil {
		return ErrNoCatalog
	}
	if s.store == nil {
		s.store = repository.NewMemStore(ctx)
	}
	s.aggregator = aggregate.New(
		aggregate.WithClassifier(tier.NewClassifier(
			tier.WithActiveThreshold(s.activeThreshold),
			tier.WithInvolvedThreshold(s.involvedThreshold),
		)),
	)
	s.corrector = identity.New()
	s.finder = lookup.New()

	// Warm the store from the last persisted snapshot so reads work before
	// the first recompute.
	if s.snapshotter != nil {
		if ledger, err := s.snapshotter.LoadLedger(ctx); err != nil {
			s.logger.Warn(ctx, "failed to load ledger snapshot", logger.Error(err))
		} else if len(ledger.Entries) > 0 {
			if err := s.store.Replace(ctx, ledger); err != nil {
				return err
			}
			s.logger.Info(ctx, "restored ledger snapshot",
				logger.Int("members", len(ledger.Entries)),
			)
		}
	}

	s.started = true
	s.logger.Info(ctx, "reconciliation service started",
		logger.Float64("activeThreshold", s.activeThreshold),
		logger.Float64("involvedThreshold", s.involvedThreshold),
	)

	return nil
}

// Stop shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "reconciliation service stopped")
}

// Aggregate rebuilds the ledger from every source in the catalog and swaps
// it into the store. Serialized against corrections.
func (s *Service) Aggregate(ctx context.Context) (*model.Ledger, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.aggregateLocked(ctx)
}

// aggregateLocked runs the recompute. Callers must hold opMu.
func (s *Service) aggregateLocked(ctx context.Context) (*model.Ledger, error) {
	start := time.Now()
	ledger, err := s.aggregator.Aggregate(ctx, s.catalog)
	if err != nil {
		metrics.RecordAggregationFailure()
		metrics.RecordErrorByComponent("aggregate", "source_unavailable")
		s.logger.Error(ctx, "aggregation aborted", logger.Error(err))
		return nil, err
	}

	if err := s.store.Replace(ctx, ledger); err != nil {
		metrics.RecordAggregationFailure()
		return nil, err
	}
	if s.snapshotter != nil {
		if err := s.snapshotter.SaveLedger(ctx, ledger); err != nil {
			metrics.RecordAggregationFailure()
			s.logger.Error(ctx, "failed to persist ledger snapshot", logger.Error(err))
			return nil, err
		}
	}

	metrics.RecordAggregationRun()
	metrics.RecordAggregationDuration(float64(time.Since(start).Milliseconds()))
	metrics.RecordRecordsMerged(ledger.Records)
	metrics.UpdateMemberCount(len(ledger.Entries))

	s.logger.Info(ctx, "ledger recomputed",
		logger.Int("members", len(ledger.Entries)),
	)
	return ledger, nil
}

// CorrectEmail rewrites oldEmail to newEmail across every source, then
// recomputes the ledger before reporting success. Returns the number of
// rewritten records.
func (s *Service) CorrectEmail(ctx context.Context, oldEmail, newEmail string) (int, error) {
	return s.correct(ctx, "email", func() (int, error) {
		return s.corrector.CorrectEmail(ctx, s.catalog, oldEmail, newEmail)
	})
}

// CorrectName rewrites oldName to newName across every source, then
// recomputes the ledger before reporting success.
func (s *Service) CorrectName(ctx context.Context, oldName, newName string) (int, error) {
	return s.correct(ctx, "name", func() (int, error) {
		return s.corrector.CorrectName(ctx, s.catalog, oldName, newName)
	})
}

// DeleteMember removes every record matching both name and email across
// every source, then recomputes the ledger before reporting success.
func (s *Service) DeleteMember(ctx context.Context, name, email string) (int, error) {
	return s.correct(ctx, "delete", func() (int, error) {
		return s.corrector.DeleteMember(ctx, s.catalog, name, email)
	})
}

// correct serializes one correction and its mandatory recompute. The caller
// never observes a success while the ledger still reflects pre-correction
// sources.
func (s *Service) correct(ctx context.Context, kind string, apply func() (int, error)) (int, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	changed, err := apply()
	if err != nil {
		metrics.RecordCorrectionFailure(kind)
		if !errors.Is(err, identity.ErrValidation) {
			s.logger.Error(ctx, "correction failed",
				logger.String("kind", kind),
				logger.Error(err),
			)
		}
		return 0, err
	}

	if _, err := s.aggregateLocked(ctx); err != nil {
		metrics.RecordCorrectionFailure(kind)
		return 0, err
	}

	metrics.RecordCorrection(kind)
	metrics.RecordCorrectionRecords(changed)
	s.logger.Info(ctx, "correction applied",
		logger.String("kind", kind),
		logger.Int("records", changed),
	)
	return changed, nil
}

// FindAttendance returns the named member's per-event breakdown and total.
// Serialized against corrections so it never reads half-rewritten sources.
func (s *Service) FindAttendance(ctx context.Context, memberName string) (lookup.Result, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	start := time.Now()
	metrics.RecordLookupRequest()
	res, err := s.finder.FindAttendance(ctx, s.catalog, memberName)
	if err != nil {
		metrics.RecordErrorByComponent("lookup", "source_unavailable")
		return lookup.Result{}, err
	}
	if res.EventCount == 0 {
		metrics.RecordLookupEmpty()
	}
	metrics.RecordLookupDuration(float64(time.Since(start).Milliseconds()))
	return res, nil
}

// Ledger returns the current ledger entries in wire shape plus its
// last-updated timestamp. Emails travel only when includeEmails is set.
func (s *Service) Ledger(ctx context.Context, includeEmails bool) ([]types.Entry, time.Time, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	entries := make([]types.Entry, len(snapshot.Entries))
	for i, e := range snapshot.Entries {
		entries[i] = types.Entry{
			Name:        e.Name,
			TotalPoints: e.TotalPoints,
			Tier:        string(e.Tier),
		}
		if includeEmails {
			entries[i].Email = e.Email
		}
	}
	return entries, snapshot.UpdatedAt, nil
}

// Member returns the canonical ledger entry for one member, keyed by email.
// The email travels back: a caller asking for a specific member already
// holds it. Returns repository.ErrNotFound for unknown members.
func (s *Service) Member(ctx context.Context, email string) (types.Entry, error) {
	entry, err := s.store.Member(ctx, email)
	if err != nil {
		return types.Entry{}, err
	}
	return types.Entry{
		Name:        entry.Name,
		Email:       entry.Email,
		TotalPoints: entry.TotalPoints,
		Tier:        string(entry.Tier),
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
	}

	if s.started {
		members := s.store.Count(ctx)
		stats["members"] = members
		metrics.UpdateMemberCount(members)

		if sources, err := s.catalog.Enumerate(ctx); err == nil {
			stats["sources"] = len(sources)
			metrics.UpdateSourceCount(len(sources))
		}

		if snapshot, err := s.store.Snapshot(ctx); err == nil && !snapshot.UpdatedAt.IsZero() {
			stats["lastUpdated"] = snapshot.UpdatedAt
		}
	}

	return stats
}
