package repository

import "errors"

// Sentinel kinds for ledger store errors.
var (
	ErrNotFound  = errors.New("member not found")
	ErrNilLedger = errors.New("nil ledger")
)
