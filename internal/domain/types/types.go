// Package types contains common types used across the application
package types

// Entry is the wire shape of one ledger row. Email travels only when the
// caller explicitly asks for it; default display hides the column.
type Entry struct {
	Name        string  `json:"name"`
	Email       string  `json:"email,omitempty"`
	TotalPoints float64 `json:"total_points"`
	Tier        string  `json:"tier"`
}

// AttendanceLine is one row of a member's per-event breakdown.
type AttendanceLine struct {
	EventLabel string  `json:"event_label"`
	Points     float64 `json:"points"`
}
