package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	ErrNilCatalog = errors.New("nil source catalog")
)
