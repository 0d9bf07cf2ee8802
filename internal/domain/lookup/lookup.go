// Package lookup answers per-member attendance queries with per-event detail.
package lookup

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/model"
)

// Line is one attended event in a member's breakdown.
type Line struct {
	EventLabel string
	Points     float64
}

// Result is a member's full attendance breakdown. EventCount lets the
// presentation layer adjust display density; the engine itself never styles
// anything. An empty breakdown with a zero total is a valid answer, not an
// error.
type Result struct {
	Breakdown   []Line
	TotalPoints float64
	EventCount  int
}

// Lookup scans sources directly rather than the ledger: the ledger only
// carries totals, while a breakdown needs per-event detail.
type Lookup struct{}

// New creates a Lookup.
func New() *Lookup {
	return &Lookup{}
}

// FindAttendance returns every event the named member attended, in catalog
// enumeration order, with the points earned at each and the grand total.
// Matching is by normalized name.
func (l *Lookup) FindAttendance(ctx context.Context, catalog source.Catalog, memberName string) (Result, error) {
	if catalog == nil {
		return Result{}, ErrNilCatalog
	}
	nameKey := model.NormalizeKey(memberName)
	if nameKey == "" {
		return Result{}, ErrEmptyName
	}

	sources, err := catalog.Enumerate(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("find attendance: enumerate sources: %w", err)
	}

	var res Result
	for _, src := range sources {
		records, err := src.ReadRecords(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("find attendance: read %q: %w", src.DisplayName(), err)
		}

		var defaultPoints float64
		haveDefault := false
		for _, rec := range records {
			if model.NormalizeKey(rec.Name) != nameKey {
				continue
			}
			if !haveDefault {
				defaultPoints, err = src.DefaultPoints(ctx)
				if err != nil {
					return Result{}, fmt.Errorf("find attendance: default points for %q: %w", src.DisplayName(), err)
				}
				haveDefault = true
			}
			// One line per matching record, mirroring how aggregation counts.
			points := defaultPoints + rec.BonusPoints
			res.Breakdown = append(res.Breakdown, Line{
				EventLabel: eventLabel(src.DisplayName(), points),
				Points:     points,
			})
			res.TotalPoints += points
		}
	}
	res.EventCount = len(res.Breakdown)
	return res, nil
}

// eventLabel renders the human-readable breakdown label, with the
// singular/plural suffix keyed on points == 1.
func eventLabel(displayName string, points float64) string {
	suffix := "Member Points"
	if points == 1 {
		suffix = "Member Point"
	}
	return fmt.Sprintf("%s - %s %s", displayName, strconv.FormatFloat(points, 'f', -1, 64), suffix)
}
