package source

import "errors"

// Sentinel kinds for source access errors.
var (
	// ErrSourceUnavailable marks a source that could not be read or written.
	// Fatal to the operation that touched it; never downgraded to a partial
	// result.
	ErrSourceUnavailable = errors.New("event source unavailable")

	// ErrTemplateMissing marks a provisioning request that referenced an
	// unknown source template. Surfaced before any row is written.
	ErrTemplateMissing = errors.New("source template missing")
)
