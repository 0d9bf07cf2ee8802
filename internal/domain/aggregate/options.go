package aggregate

import (
	"time"

	"github.com/okian/tally/internal/domain/tier"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithClassifier sets the tier classifier used after merging.
func WithClassifier(c *tier.Classifier) Option {
	return func(a *Aggregator) {
		if c != nil {
			a.classifier = c
		}
	}
}

// WithClock overrides the timestamp source for the ledger's UpdatedAt.
func WithClock(clock func() time.Time) Option {
	return func(a *Aggregator) {
		if clock != nil {
			a.clock = clock
		}
	}
}
