// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Tier is a named point-range classification used for display styling.
type Tier string

// Tier values ordered by increasing involvement.
const (
	TierBase         Tier = "Base"
	TierActive       Tier = "Active"
	TierInvolved     Tier = "Involved"
	TierMostInvolved Tier = "Most Involved"
)

// AttendanceRecord is one person's submission to one event.
type AttendanceRecord struct {
	Name        string  // display name as submitted
	Email       string  // identity key, compared case-insensitively
	BonusPoints float64 // optional extra points, zero when absent
}

// Blank reports whether the record carries no identity at all. A source's
// record list is a finite prefix bounded at the first blank record.
func (r AttendanceRecord) Blank() bool {
	return strings.TrimSpace(r.Name) == "" && strings.TrimSpace(r.Email) == ""
}

// LedgerEntry is the canonical per-member aggregate for one tracking period.
type LedgerEntry struct {
	Name        string  // first-seen display name across sources
	Email       string  // first-seen email spelling; identity is the normalized form
	TotalPoints float64 // sum of defaultPoints+bonusPoints over every appearance
	Tier        Tier
}

// Ledger holds one entry per distinct normalized email, sorted by name
// ascending. It is rebuilt wholesale on every aggregation run.
type Ledger struct {
	Entries   []LedgerEntry
	Records   int // how many attendance records contributed to this build
	UpdatedAt time.Time
}

// NormalizeKey lower-cases and trims an identity value so that two spellings
// differing only in case or surrounding whitespace compare equal.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
