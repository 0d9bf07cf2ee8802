// Package repository defines the ledger store interface and errors.
package repository

import (
	"context"

	"github.com/okian/tally/internal/domain/model"
)

// Store holds the current canonical ledger. The ledger is only ever replaced
// wholesale by an aggregation run, never patched entry by entry.
type Store interface {
	// Replace swaps in a freshly aggregated ledger.
	Replace(ctx context.Context, ledger *model.Ledger) error

	// Snapshot returns a copy of the current ledger. Before the first
	// aggregation run it is empty with a zero UpdatedAt.
	Snapshot(ctx context.Context) (*model.Ledger, error)

	// Member returns the ledger entry for a normalized email.
	// Returns ErrNotFound if the member is unknown.
	Member(ctx context.Context, email string) (model.LedgerEntry, error)

	// Count returns the number of members in the current ledger.
	Count(ctx context.Context) int
}
