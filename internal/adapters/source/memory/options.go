package memory

import (
	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/model"
)

// SourceOption applies a configuration option to an EventSource.
type SourceOption func(*EventSource)

// WithRecords seeds the source's record list.
func WithRecords(records ...model.AttendanceRecord) SourceOption {
	return func(s *EventSource) {
		s.records = append(s.records, records...)
	}
}

// WithReadError makes every read fail with the given cause. Test hook for
// exercising source-unavailable handling.
func WithReadError(err error) SourceOption {
	return func(s *EventSource) {
		s.readErr = err
	}
}

// WithWriteError makes every write fail with the given cause.
func WithWriteError(err error) SourceOption {
	return func(s *EventSource) {
		s.writeErr = err
	}
}

// CatalogOption applies a configuration option to a Catalog.
type CatalogOption func(*Catalog)

// WithPeriod labels the catalog with its tracking period.
func WithPeriod(period string) CatalogOption {
	return func(c *Catalog) {
		c.period = period
	}
}

// WithSources registers the catalog's initial sources.
func WithSources(sources ...source.Source) CatalogOption {
	return func(c *Catalog) {
		c.sources = append(c.sources, sources...)
	}
}

// WithEnumerateError makes enumeration fail with the given cause. Test hook.
func WithEnumerateError(err error) CatalogOption {
	return func(c *Catalog) {
		c.enumerateErr = err
	}
}
