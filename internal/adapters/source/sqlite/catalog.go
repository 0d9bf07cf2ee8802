package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/model"
)

// sourceTemplates names the provisioning presets an event source can be
// created from. Each supplies the default point value for the event kind.
var sourceTemplates = map[string]float64{
	"meeting":  1,
	"workshop": 2,
	"service":  3,
}

// Catalog implements source.Catalog over the event_source table, scoped to
// one tracking period.
type Catalog struct {
	db     *sql.DB
	period string
}

// NewCatalog creates a catalog for the given tracking period.
func NewCatalog(db *sql.DB, period string) *Catalog {
	return &Catalog{db: db, period: period}
}

// Period returns the catalog's tracking period label.
func (c *Catalog) Period() string {
	return c.period
}

// Enumerate returns the period's sources ordered by position.
func (c *Catalog) Enumerate(ctx context.Context) ([]source.Source, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT id, display_name FROM event_source WHERE period = ? ORDER BY position",
		c.period)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
	}
	defer rows.Close()

	var out []source.Source
	for rows.Next() {
		s := &EventSource{db: c.db}
		if err := rows.Scan(&s.id, &s.displayName); err != nil {
			return nil, fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
	}
	return out, nil
}

// CreateSpec describes a new event source. Template must name a known
// provisioning preset; DefaultPoints overrides the template's point value
// when positive.
type CreateSpec struct {
	DisplayName   string
	Template      string
	DefaultPoints float64
}

// CreateSource provisions a new event source from a named template. An
// unknown template fails fast with ErrTemplateMissing before any row is
// written.
func (c *Catalog) CreateSource(ctx context.Context, spec CreateSpec) (*EventSource, error) {
	name := strings.TrimSpace(spec.DisplayName)
	if name == "" {
		return nil, fmt.Errorf("create source: display name must not be empty")
	}
	points, ok := sourceTemplates[spec.Template]
	if !ok {
		return nil, fmt.Errorf("%w: %q", source.ErrTemplateMissing, spec.Template)
	}
	if spec.DefaultPoints > 0 {
		points = spec.DefaultPoints
	}

	var position int
	err := c.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position)+1, 0) FROM event_source WHERE period = ?",
		c.period).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
	}

	id := uuid.NewString()
	if _, err := c.db.ExecContext(ctx,
		"INSERT INTO event_source (id, period, display_name, default_points, position) VALUES (?, ?, ?, ?, ?)",
		id, c.period, name, points, position); err != nil {
		return nil, fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
	}
	return &EventSource{db: c.db, id: id, displayName: name}, nil
}

// SaveLedger replaces the period's ledger snapshot in one transaction,
// preserving the legacy column order (name, total points, email) with the
// email column flagged hidden.
func (c *Catalog) SaveLedger(ctx context.Context, ledger *model.Ledger) error {
	if ledger == nil {
		return fmt.Errorf("save ledger: nil ledger")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM ledger_snapshot WHERE period = ?", c.period); err != nil {
		return fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
	}
	updated := ledger.UpdatedAt.Format("2006-01-02T15:04:05.999999999Z07:00")
	for i, entry := range ledger.Entries {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO ledger_snapshot (period, position, name, total_points, email, email_hidden, tier, updated_at) VALUES (?, ?, ?, ?, ?, 1, ?, ?)",
			c.period, i, entry.Name, entry.TotalPoints, entry.Email, string(entry.Tier), updated); err != nil {
			return fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
	}
	return nil
}

// LoadLedger reads the period's last persisted snapshot. Returns an empty
// ledger when no snapshot exists yet.
func (c *Catalog) LoadLedger(ctx context.Context) (*model.Ledger, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT name, total_points, email, tier, updated_at FROM ledger_snapshot WHERE period = ? ORDER BY position",
		c.period)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
	}
	defer rows.Close()

	ledger := &model.Ledger{}
	for rows.Next() {
		var entry model.LedgerEntry
		var tierStr, updated string
		if err := rows.Scan(&entry.Name, &entry.TotalPoints, &entry.Email, &tierStr, &updated); err != nil {
			return nil, fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
		}
		entry.Tier = model.Tier(tierStr)
		if ledger.UpdatedAt.IsZero() {
			if t, err := parseSnapshotTime(updated); err == nil {
				ledger.UpdatedAt = t
			}
		}
		ledger.Entries = append(ledger.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, err)
	}
	return ledger, nil
}
