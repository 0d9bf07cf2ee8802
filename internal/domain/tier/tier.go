// Package tier maps total point values to display tiers.
package tier

import (
	"github.com/okian/tally/internal/domain/model"
)

// Default tier thresholds.
const (
	defaultActiveMin   = 3
	defaultInvolvedMin = 15
)

// Classifier assigns tiers from point totals. Pure computation; safe for
// concurrent use once constructed.
type Classifier struct {
	activeMin   float64
	involvedMin float64
}

// NewClassifier creates a classifier with configuration options.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		activeMin:   defaultActiveMin,
		involvedMin: defaultInvolvedMin,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify maps a total to its tier. topEarner marks membership in the
// current maximum among qualifying totals; it only matters at or above the
// involved threshold — lower totals are never promoted regardless of rank.
func (c *Classifier) Classify(totalPoints float64, topEarner bool) model.Tier {
	switch {
	case totalPoints >= c.involvedMin && topEarner:
		return model.TierMostInvolved
	case totalPoints >= c.involvedMin:
		return model.TierInvolved
	case totalPoints >= c.activeMin:
		return model.TierActive
	default:
		return model.TierBase
	}
}

// Apply assigns a tier to every entry in place. Two passes: the first finds
// the maximum total among entries at or above the involved threshold, the
// second classifies each entry against it. Every entry tied for that maximum
// is promoted, not just the first.
func (c *Classifier) Apply(entries []model.LedgerEntry) {
	var maxQualifying float64
	found := false
	for i := range entries {
		if entries[i].TotalPoints >= c.involvedMin {
			if !found || entries[i].TotalPoints > maxQualifying {
				maxQualifying = entries[i].TotalPoints
				found = true
			}
		}
	}

	for i := range entries {
		top := found && entries[i].TotalPoints == maxQualifying
		entries[i].Tier = c.Classify(entries[i].TotalPoints, top)
	}
}
