package upstream

import "errors"

// Sentinel kinds for upstream call failures. Callers translate these to
// HTTP statuses at the API boundary.
var (
	// ErrNotFound means the upstream reported the requested entity absent.
	ErrNotFound = errors.New("entity not found")

	// ErrBadRequest means the upstream rejected the request as malformed.
	ErrBadRequest = errors.New("upstream rejected request")

	// ErrUnavailable means the upstream could not be reached or is overloaded.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrUpstream means the upstream failed while processing the request.
	ErrUpstream = errors.New("upstream failure")
)
