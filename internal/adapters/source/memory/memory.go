// Package memory provides in-memory source and catalog implementations.
//
// They back unit tests and the seed tooling; production deployments use the
// sqlite adapter instead.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/model"
)

// EventSource implements source.Source over a slice of records.
type EventSource struct {
	mu            sync.RWMutex
	name          string
	defaultPoints float64
	records       []model.AttendanceRecord

	readErr  error
	writeErr error
}

// NewEventSource creates an in-memory event source with configuration options.
func NewEventSource(name string, defaultPoints float64, opts ...SourceOption) *EventSource {
	s := &EventSource{
		name:          name,
		defaultPoints: defaultPoints,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DisplayName returns the event's name.
func (s *EventSource) DisplayName() string {
	return s.name
}

// DefaultPoints returns the event's default point value.
func (s *EventSource) DefaultPoints(ctx context.Context) (float64, error) {
	if s.readErr != nil {
		return 0, fmt.Errorf("%w: %s: %w", source.ErrSourceUnavailable, s.name, s.readErr)
	}
	return s.defaultPoints, nil
}

// ReadRecords returns a copy of the record list, truncated at the first
// blank record.
func (s *EventSource) ReadRecords(ctx context.Context) ([]model.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.readErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", source.ErrSourceUnavailable, s.name, s.readErr)
	}

	out := make([]model.AttendanceRecord, 0, len(s.records))
	for _, r := range s.records {
		if r.Blank() {
			break
		}
		out = append(out, r)
	}
	return out, nil
}

// WriteRecords replaces the record list wholesale.
func (s *EventSource) WriteRecords(ctx context.Context, records []model.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return fmt.Errorf("%w: %s: %w", source.ErrSourceUnavailable, s.name, s.writeErr)
	}

	s.records = make([]model.AttendanceRecord, len(records))
	copy(s.records, records)
	return nil
}

// Catalog implements source.Catalog over a fixed list of sources.
type Catalog struct {
	mu      sync.RWMutex
	period  string
	sources []source.Source

	enumerateErr error
}

// NewCatalog creates an in-memory catalog with configuration options.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enumerate returns the catalog's sources in registration order.
func (c *Catalog) Enumerate(ctx context.Context) ([]source.Source, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.enumerateErr != nil {
		return nil, fmt.Errorf("%w: catalog %q: %w", source.ErrSourceUnavailable, c.period, c.enumerateErr)
	}

	out := make([]source.Source, len(c.sources))
	copy(out, c.sources)
	return out, nil
}

// Add registers another source. Catalog membership may grow between
// aggregation runs as events are provisioned.
func (c *Catalog) Add(s source.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, s)
}
