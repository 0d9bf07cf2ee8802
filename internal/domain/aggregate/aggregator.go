// Package aggregate merges per-event attendance records into the canonical
// per-member point ledger.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/model"
	"github.com/okian/tally/internal/domain/tier"
)

// Aggregator rebuilds the ledger from raw records. Each run starts from an
// empty mapping; the previous ledger is never patched incrementally.
type Aggregator struct {
	classifier *tier.Classifier
	clock      func() time.Time
}

// New creates an aggregator with configuration options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		classifier: tier.NewClassifier(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate merges every record from every source in the catalog into one
// ledger keyed by normalized email. A member's points accumulate across
// sources; the display name and email spelling are fixed at first sighting.
// Any unreadable source aborts the whole run — a partial aggregate would
// corrupt totals for every other member.
func (a *Aggregator) Aggregate(ctx context.Context, catalog source.Catalog) (*model.Ledger, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}

	sources, err := catalog.Enumerate(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate: enumerate sources: %w", err)
	}

	merged := make(map[string]*model.LedgerEntry)
	recordCount := 0
	for _, src := range sources {
		defaultPoints, err := src.DefaultPoints(ctx)
		if err != nil {
			return nil, fmt.Errorf("aggregate: default points for %q: %w", src.DisplayName(), err)
		}
		records, err := src.ReadRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("aggregate: read %q: %w", src.DisplayName(), err)
		}

		for _, rec := range records {
			key := model.NormalizeKey(rec.Email)
			if key == "" {
				// No identity key; the row cannot participate in the ledger.
				continue
			}
			recordCount++
			points := defaultPoints + rec.BonusPoints
			if entry, ok := merged[key]; ok {
				entry.TotalPoints += points
				continue
			}
			merged[key] = &model.LedgerEntry{
				Name:        rec.Name,
				Email:       rec.Email,
				TotalPoints: points,
			}
		}
	}

	entries := make([]model.LedgerEntry, 0, len(merged))
	for _, entry := range merged {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		ni, nj := model.NormalizeKey(entries[i].Name), model.NormalizeKey(entries[j].Name)
		if ni != nj {
			return ni < nj
		}
		return model.NormalizeKey(entries[i].Email) < model.NormalizeKey(entries[j].Email)
	})

	a.classifier.Apply(entries)

	return &model.Ledger{
		Entries:   entries,
		Records:   recordCount,
		UpdatedAt: a.clock().UTC(),
	}, nil
}
