// Package identity applies retroactive identity corrections across every
// event record source.
package identity

import (
	"context"
	"fmt"

	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/model"
)

// Corrector rewrites a member's identity (or removes the member) in every
// source of a catalog. It never touches the ledger itself: callers must
// re-aggregate unconditionally after a successful correction so the ledger
// always reflects post-correction sources.
type Corrector struct{}

// New creates a Corrector.
func New() *Corrector {
	return &Corrector{}
}

// rewrite is one source's pending update, staged before any write happens.
type rewrite struct {
	src     source.Source
	records []model.AttendanceRecord
	touched int
}

// CorrectEmail rewrites every record whose normalized email equals oldEmail
// to carry newEmail instead. Returns the number of rewritten records.
//
// If newEmail already accumulated points independently, the next aggregation
// merges both histories under newEmail — totals are re-derived from raw
// records, so the operation is correct under merges, not just renames.
func (c *Corrector) CorrectEmail(ctx context.Context, catalog source.Catalog, oldEmail, newEmail string) (int, error) {
	if err := requireField("old_email", oldEmail); err != nil {
		return 0, err
	}
	if err := requireField("new_email", newEmail); err != nil {
		return 0, err
	}
	oldKey := model.NormalizeKey(oldEmail)
	if oldKey == model.NormalizeKey(newEmail) {
		return 0, &ValidationError{Field: "new_email", Reason: "identical to old email"}
	}

	return c.apply(ctx, catalog, "correct email", func(rec *model.AttendanceRecord) bool {
		if model.NormalizeKey(rec.Email) != oldKey {
			return false
		}
		rec.Email = newEmail
		return true
	})
}

// CorrectName rewrites every record whose normalized name equals oldName to
// carry newName instead. Returns the number of rewritten records.
func (c *Corrector) CorrectName(ctx context.Context, catalog source.Catalog, oldName, newName string) (int, error) {
	if err := requireField("old_name", oldName); err != nil {
		return 0, err
	}
	if err := requireField("new_name", newName); err != nil {
		return 0, err
	}
	oldKey := model.NormalizeKey(oldName)
	if oldKey == model.NormalizeKey(newName) {
		return 0, &ValidationError{Field: "new_name", Reason: "identical to old name"}
	}

	return c.apply(ctx, catalog, "correct name", func(rec *model.AttendanceRecord) bool {
		if model.NormalizeKey(rec.Name) != oldKey {
			return false
		}
		rec.Name = newName
		return true
	})
}

// DeleteMember removes every record matching BOTH the normalized name and the
// normalized email. A record matching only one field is left alone, so a
// namesake or a reused email never gets deleted by accident. Returns the
// number of removed records.
func (c *Corrector) DeleteMember(ctx context.Context, catalog source.Catalog, name, email string) (int, error) {
	if err := requireField("name", name); err != nil {
		return 0, err
	}
	if err := requireField("email", email); err != nil {
		return 0, err
	}
	nameKey := model.NormalizeKey(name)
	emailKey := model.NormalizeKey(email)

	if catalog == nil {
		return 0, ErrNilCatalog
	}
	sources, err := catalog.Enumerate(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete member: enumerate sources: %w", err)
	}

	// Read phase: stage every source's surviving records before writing
	// anything, so an unreachable source fails the operation with all
	// sources still unmodified.
	staged := make([]rewrite, 0, len(sources))
	for _, src := range sources {
		records, err := src.ReadRecords(ctx)
		if err != nil {
			return 0, fmt.Errorf("delete member: read %q: %w", src.DisplayName(), err)
		}
		kept := make([]model.AttendanceRecord, 0, len(records))
		removed := 0
		for _, rec := range records {
			if model.NormalizeKey(rec.Name) == nameKey && model.NormalizeKey(rec.Email) == emailKey {
				removed++
				continue
			}
			kept = append(kept, rec)
		}
		if removed > 0 {
			staged = append(staged, rewrite{src: src, records: kept, touched: removed})
		}
	}

	return commit(ctx, "delete member", staged)
}

// apply runs the shared read-all-then-write-changed cycle for the rename
// operations. mutate rewrites one record in place and reports whether it
// changed.
func (c *Corrector) apply(ctx context.Context, catalog source.Catalog, op string, mutate func(*model.AttendanceRecord) bool) (int, error) {
	if catalog == nil {
		return 0, ErrNilCatalog
	}
	sources, err := catalog.Enumerate(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: enumerate sources: %w", op, err)
	}

	staged := make([]rewrite, 0, len(sources))
	for _, src := range sources {
		records, err := src.ReadRecords(ctx)
		if err != nil {
			return 0, fmt.Errorf("%s: read %q: %w", op, src.DisplayName(), err)
		}
		touched := 0
		for i := range records {
			if mutate(&records[i]) {
				touched++
			}
		}
		if touched > 0 {
			staged = append(staged, rewrite{src: src, records: records, touched: touched})
		}
	}

	return commit(ctx, op, staged)
}

// commit writes every staged rewrite. A failed write aborts immediately and
// is reported as-is; it is never downgraded to success.
func commit(ctx context.Context, op string, staged []rewrite) (int, error) {
	total := 0
	for _, rw := range staged {
		if err := rw.src.WriteRecords(ctx, rw.records); err != nil {
			return 0, fmt.Errorf("%s: write %q: %w", op, rw.src.DisplayName(), err)
		}
		total += rw.touched
	}
	return total, nil
}

func requireField(field, value string) error {
	if model.NormalizeKey(value) == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}
