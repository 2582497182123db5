// Package service provides the core gateway service that implements the
// dependencies required by the HTTP API: data access, algorithm dispatch
// and session bookkeeping.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sensorhub-io/argus/internal/adapters/repository"
	"github.com/sensorhub-io/argus/internal/adapters/upstream"
	"github.com/sensorhub-io/argus/internal/adapters/upstream/datamgmt"
	"github.com/sensorhub-io/argus/internal/adapters/upstream/detect"
	"github.com/sensorhub-io/argus/internal/adapters/upstream/explain"
	"github.com/sensorhub-io/argus/internal/domain/model"
	"github.com/sensorhub-io/argus/internal/domain/registry"
	"github.com/sensorhub-io/argus/pkg/logger"
	"github.com/sensorhub-io/argus/pkg/metrics"
)

// DataSource is the read surface of the sensor-data storage backend.
type DataSource interface {
	Buildings(ctx context.Context) ([]string, error)
	Sensors(ctx context.Context, building string) ([]model.SensorInfo, error)
	SensorData(ctx context.Context, building, sensor string) ([]float64, error)
	Timestamps(ctx context.Context, building string) ([]string, error)
	Slice(ctx context.Context, building string, sensors []string, start, stop string) (model.Frame, error)
}

// Explainer produces prototypes and feature attributions for a stored
// calculation session.
type Explainer interface {
	Prototypes(ctx context.Context, idx int, session model.Session) (model.Prototypes, error)
	FeatureAttribution(ctx context.Context, idx int, session model.Session) ([]model.AttributionEntry, error)
}

// Service implements the API dependencies for the gateway.
type Service struct {
	mu sync.RWMutex

	// Core components
	data      DataSource
	provider  registry.Provider
	explainer Explainer
	registry  *registry.Registry
	sessions  repository.Store

	// Configuration
	dataURL           string
	detectURL         string
	explainURL        string
	upstreamTimeout   time.Duration
	upstreamRetries   int
	upstreamRateLimit int
	catalogTTL        time.Duration
	sessionTTL        time.Duration
	sessionSweep      time.Duration
	sessionMax        int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataURL:           "http://data-management",
		detectURL:         "http://anomaly-detection",
		explainURL:        "http://explainability",
		upstreamTimeout:   15 * time.Second,
		upstreamRetries:   2,
		upstreamRateLimit: 50,
		catalogTTL:        30 * time.Second,
		sessionTTL:        time.Hour,
		sessionSweep:      time.Minute,
		sessionMax:        10_000,
		stopCh:            make(chan struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting gateway service...")

	upstreamOpts := []upstream.Option{
		upstream.WithTimeout(s.upstreamTimeout),
		upstream.WithRetries(s.upstreamRetries),
		upstream.WithRateLimit(s.upstreamRateLimit),
	}

	if s.data == nil {
		s.data = datamgmt.New(s.dataURL, upstreamOpts...)
	}
	if s.provider == nil {
		s.provider = detect.New(s.detectURL, upstreamOpts...)
	}
	if s.explainer == nil {
		s.explainer = explain.New(s.explainURL, upstreamOpts...)
	}
	if s.sessions == nil {
		s.sessions = repository.NewMemStore(ctx,
			repository.WithTTL(s.sessionTTL),
			repository.WithSweepInterval(s.sessionSweep),
			repository.WithMaxEntries(s.sessionMax),
		)
	}
	s.registry = registry.New(s.provider,
		registry.WithCatalogTTL(s.catalogTTL),
		registry.WithLogger(s.logger),
	)

	s.started = true
	s.logger.Info(ctx, "gateway service started",
		logger.String("data_service", s.dataURL),
		logger.String("detect_service", s.detectURL),
		logger.String("explain_service", s.explainURL),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping gateway service...")

	if closer, ok := s.sessions.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "gateway service stopped")
}

// Buildings returns all building names from the storage backend.
func (s *Service) Buildings(ctx context.Context) ([]string, error) {
	return s.data.Buildings(ctx)
}

// Sensors returns the sensors of a building.
func (s *Service) Sensors(ctx context.Context, building string) ([]model.SensorInfo, error) {
	return s.data.Sensors(ctx, building)
}

// SensorData returns the reading series of one sensor.
func (s *Service) SensorData(ctx context.Context, building, sensor string) ([]float64, error) {
	return s.data.SensorData(ctx, building, sensor)
}

// Timestamps returns all data timestamps of a building.
func (s *Service) Timestamps(ctx context.Context, building string) ([]string, error) {
	return s.data.Timestamps(ctx, building)
}

// Algorithms returns the cached algorithm catalog.
func (s *Service) Algorithms(ctx context.Context) ([]model.Algorithm, error) {
	return s.registry.Algorithms(ctx)
}

// CalculateAnomalies resolves the data selection, dispatches the calculation
// and stores the full result under sessionID for later explainability
// requests. The returned detection is sanitized for public consumption.
func (s *Service) CalculateAnomalies(ctx context.Context, sessionID string, req model.CalculateRequest) (model.Detection, error) {
	var frame model.Frame
	if req.Frame != nil {
		frame = *req.Frame
	} else {
		var err error
		frame, err = s.data.Slice(ctx, req.Building, req.Sensors, req.Start, req.Stop)
		if err != nil {
			return model.Detection{}, err
		}
	}

	det, err := s.registry.Detect(ctx, req, frame)
	if err != nil {
		return model.Detection{}, err
	}

	session := model.Session{
		DeepError:    det.DeepError,
		Frame:        frame,
		Sensors:      req.Sensors,
		AlgorithmID:  req.AlgorithmID,
		Timestamps:   det.Timestamps,
		RawAnomalies: det.RawAnomalies,
		Error:        det.Error,
	}
	if err := s.sessions.Put(ctx, sessionID, session); err != nil {
		return model.Detection{}, err
	}

	return det.Sanitized(), nil
}

// Prototypes returns reference patterns for one anomaly of a stored session.
func (s *Service) Prototypes(ctx context.Context, sessionID string, anomalyIdx int) (model.Prototypes, error) {
	session, err := s.loadAnomaly(ctx, sessionID, anomalyIdx)
	if err != nil {
		return model.Prototypes{}, err
	}
	return s.explainer.Prototypes(ctx, anomalyIdx, session)
}

// FeatureAttribution returns per-feature contribution scores for one anomaly
// of a stored session.
func (s *Service) FeatureAttribution(ctx context.Context, sessionID string, anomalyIdx int) ([]model.AttributionEntry, error) {
	session, err := s.loadAnomaly(ctx, sessionID, anomalyIdx)
	if err != nil {
		return nil, err
	}
	return s.explainer.FeatureAttribution(ctx, anomalyIdx, session)
}

// loadAnomaly fetches the session and checks the anomaly reference.
func (s *Service) loadAnomaly(ctx context.Context, sessionID string, anomalyIdx int) (model.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return model.Session{}, err
	}
	if !session.HasAnomaly(anomalyIdx) {
		return model.Session{}, errors.Join(repository.ErrNotFound, errors.New("anomaly index out of range"))
	}
	return session, nil
}

// SetCatalogTTL updates the catalog TTL at runtime (config hot-reload).
func (s *Service) SetCatalogTTL(ttl time.Duration) {
	s.mu.RLock()
	reg := s.registry
	s.mu.RUnlock()
	if reg != nil {
		reg.SetTTL(ttl)
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
	}

	if s.started {
		sessionCount := s.sessions.Count(ctx)
		catalogSize := s.registry.Size()

		stats["sessionCount"] = sessionCount
		stats["catalogSize"] = catalogSize

		metrics.UpdateSessionCount(sessionCount)
		metrics.UpdateCatalogSize(catalogSize)
	}

	return stats
}
