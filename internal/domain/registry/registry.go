// Package registry maintains the set of available anomaly-detection
// algorithms and routes calculation requests to the selected one.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/sensorhub-io/argus/internal/domain/model"
	"github.com/sensorhub-io/argus/pkg/logger"
	"github.com/sensorhub-io/argus/pkg/metrics"
)

// Default registry configuration constants.
const (
	defaultCatalogTTL = 30 * time.Second
)

// Provider is the upstream source of the algorithm catalog and the executor
// of calculations.
type Provider interface {
	// Algorithms returns the provider's current catalog.
	Algorithms(ctx context.Context) ([]model.Algorithm, error)

	// Calculate runs the selected algorithm over the frame.
	Calculate(ctx context.Context, algoID int, building string, cfg map[string]interface{}, frame model.Frame) (model.Detection, error)
}

// Registry caches the provider's algorithm catalog and validates selections
// before dispatching calculations.
type Registry struct {
	provider Provider
	ttl      time.Duration
	log      logger.Logger

	mu          sync.RWMutex
	catalog     []model.Algorithm
	byID        map[int]model.Algorithm
	refreshedAt time.Time
}

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithCatalogTTL sets how long a fetched catalog stays fresh.
func WithCatalogTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a Registry backed by provider.
func New(provider Provider, opts ...Option) *Registry {
	r := &Registry{
		provider: provider,
		ttl:      defaultCatalogTTL,
		byID:     make(map[int]model.Algorithm),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Named("registry")
	}
	return r
}

// Algorithms returns the catalog, refreshing it when stale. A failed refresh
// falls back to the last good catalog if one is held.
func (r *Registry) Algorithms(ctx context.Context) ([]model.Algorithm, error) {
	if err := r.ensureFresh(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Algorithm, len(r.catalog))
	copy(out, r.catalog)
	return out, nil
}

// Lookup returns the algorithm for id.
// Returns ErrUnknownAlgorithm when the id is not in the catalog.
func (r *Registry) Lookup(ctx context.Context, id int) (model.Algorithm, error) {
	if err := r.ensureFresh(ctx); err != nil {
		return model.Algorithm{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	algo, ok := r.byID[id]
	if !ok {
		return model.Algorithm{}, ErrUnknownAlgorithm
	}
	return algo, nil
}

// Detect validates the selection and routes the calculation to the provider.
func (r *Registry) Detect(ctx context.Context, req model.CalculateRequest, frame model.Frame) (model.Detection, error) {
	algo, err := r.Lookup(ctx, req.AlgorithmID)
	if err != nil {
		return model.Detection{}, err
	}

	start := time.Now()
	det, err := r.provider.Calculate(ctx, algo.ID, req.Building, req.Config, frame)
	latencyMs := float64(time.Since(start).Milliseconds())
	metrics.RecordCalculationLatency(latencyMs)

	if err != nil {
		metrics.RecordCalculationError()
		return model.Detection{}, err
	}

	metrics.RecordCalculation(algo.Name)
	metrics.RecordAnomaliesDetected(len(det.Anomalies))
	r.log.Debug(ctx, "calculation finished",
		logger.String("algorithm", algo.Name),
		logger.Int("anomalies", len(det.Anomalies)),
		logger.Float64("latency_ms", latencyMs),
	)
	return det, nil
}

// ensureFresh refreshes the catalog when it is older than the TTL.
func (r *Registry) ensureFresh(ctx context.Context) error {
	r.mu.RLock()
	fresh := time.Since(r.refreshedAt) < r.ttl && len(r.catalog) > 0
	r.mu.RUnlock()
	if fresh {
		return nil
	}

	catalog, err := r.provider.Algorithms(ctx)
	if err != nil {
		metrics.RecordCatalogRefreshError()
		r.mu.RLock()
		held := len(r.catalog) > 0
		r.mu.RUnlock()
		if held {
			// Serve the stale catalog rather than failing reads outright.
			r.log.Warn(ctx, "catalog refresh failed; serving stale catalog", logger.Error(err))
			return nil
		}
		return err
	}

	r.mu.Lock()
	r.catalog = catalog
	r.byID = make(map[int]model.Algorithm, len(catalog))
	for _, a := range catalog {
		r.byID[a.ID] = a
	}
	r.refreshedAt = time.Now()
	r.mu.Unlock()

	metrics.RecordCatalogRefresh()
	metrics.UpdateCatalogSize(len(catalog))
	return nil
}

// SetTTL updates the catalog TTL at runtime (config hot-reload).
func (r *Registry) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	r.mu.Lock()
	r.ttl = ttl
	r.mu.Unlock()
}

// Size returns the number of algorithms in the cached catalog.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.catalog)
}
