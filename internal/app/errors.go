package service

import "errors"

// Sentinel kinds for service lifecycle errors.
var (
	ErrNoCatalog = errors.New("no source catalog configured")
)
