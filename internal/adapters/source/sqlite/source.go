package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/model"
	"github.com/okian/tally/pkg/metrics"
)

// EventSource implements source.Source over one event_source row and its
// attendance_record rows.
type EventSource struct {
	db          *sql.DB
	id          string
	displayName string
}

// DisplayName returns the event's name.
func (s *EventSource) DisplayName() string {
	return s.displayName
}

// ID returns the source's storage id.
func (s *EventSource) ID() string {
	return s.id
}

// DefaultPoints reads the event's default point value.
func (s *EventSource) DefaultPoints(ctx context.Context) (float64, error) {
	var points float64
	err := s.db.QueryRowContext(ctx,
		"SELECT default_points FROM event_source WHERE id = ?", s.id).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", source.ErrSourceUnavailable, s.displayName, err)
	}
	return points, nil
}

// ReadRecords returns the event's records ordered by position. The list is
// bounded at the first blank record; rows past a blank one are a structural
// defect of imported data and never reach the engine.
func (s *EventSource) ReadRecords(ctx context.Context) ([]model.AttendanceRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSourceReadLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, email, bonus_points FROM attendance_record WHERE source_id = ? ORDER BY position",
		s.id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", source.ErrSourceUnavailable, s.displayName, err)
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.Name, &rec.Email, &rec.BonusPoints); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", source.ErrSourceUnavailable, s.displayName, err)
		}
		if rec.Blank() {
			break
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", source.ErrSourceUnavailable, s.displayName, err)
	}
	return records, nil
}

// WriteRecords replaces the event's record list in one transaction.
func (s *EventSource) WriteRecords(ctx context.Context, records []model.AttendanceRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordSourceWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", source.ErrSourceUnavailable, s.displayName, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM attendance_record WHERE source_id = ?", s.id); err != nil {
		return fmt.Errorf("%w: %s: %w", source.ErrSourceUnavailable, s.displayName, err)
	}
	for i, rec := range records {
		if rec.Blank() {
			break
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO attendance_record (source_id, position, name, email, bonus_points) VALUES (?, ?, ?, ?, ?)",
			s.id, i, rec.Name, rec.Email, rec.BonusPoints); err != nil {
			return fmt.Errorf("%w: %s: %w", source.ErrSourceUnavailable, s.displayName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %s: %w", source.ErrSourceUnavailable, s.displayName, err)
	}
	return nil
}
