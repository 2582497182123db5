// Package repository defines the calculation session store interface and
// errors. Sessions carry the full output of an anomaly calculation so later
// explainability requests can be answered without recomputing.
package repository

import (
	"context"

	"github.com/sensorhub-io/argus/internal/domain/model"
)

// Store provides read/write access to calculation sessions keyed by the
// caller's session id.
type Store interface {
	// Put stores or replaces the session for id.
	Put(ctx context.Context, id string, session model.Session) error

	// Get returns the session for id.
	// Returns ErrNotFound if the id is unknown or the session expired.
	Get(ctx context.Context, id string) (model.Session, error)

	// Delete removes the session for id, if present.
	Delete(ctx context.Context, id string)

	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
