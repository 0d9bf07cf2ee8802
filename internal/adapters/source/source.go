// Package source defines the event record source and catalog contracts.
//
// A source holds one event's attendance submissions plus the event's default
// point value. The catalog enumerates every source belonging to the active
// tracking period. Both are supplied by an adapter (in-memory or sqlite); the
// reconciliation engine only ever talks to these interfaces.
package source

import (
	"context"

	"github.com/okian/tally/internal/domain/model"
)

// Source provides read/write access to one event's attendance records.
type Source interface {
	// DisplayName returns the event's human-readable name, used for
	// attendance breakdown labels.
	DisplayName() string

	// DefaultPoints returns the point value every record in this event earns
	// before bonus points.
	DefaultPoints(ctx context.Context) (float64, error)

	// ReadRecords returns the event's records in order. The list is a finite
	// prefix: it ends at the first structurally-absent record, never at a
	// sentinel blank row.
	ReadRecords(ctx context.Context) ([]model.AttendanceRecord, error)

	// WriteRecords replaces the event's record list wholesale. Used by
	// identity corrections; never called during aggregation.
	WriteRecords(ctx context.Context, records []model.AttendanceRecord) error
}

// Catalog enumerates every source of the active tracking period.
// Membership can change between calls as events are provisioned externally.
type Catalog interface {
	// Enumerate returns the catalog's sources in a stable order.
	Enumerate(ctx context.Context) ([]Source, error)
}
