package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)
