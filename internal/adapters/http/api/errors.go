package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest        = errors.New("bad request")
	ErrNotFound          = errors.New("not found")
	ErrSourceUnavailable = errors.New("source unavailable")
)
