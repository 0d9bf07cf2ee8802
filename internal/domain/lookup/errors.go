package lookup

import "errors"

// Sentinel kinds for lookup errors.
var (
	ErrNilCatalog = errors.New("nil source catalog")
	ErrEmptyName  = errors.New("member name must not be empty")
)
