package service

import (
	"time"

	"github.com/sensorhub-io/argus/internal/adapters/repository"
	"github.com/sensorhub-io/argus/internal/domain/registry"
	"github.com/sensorhub-io/argus/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithDataServiceURL sets the base URL of the data-management service.
func WithDataServiceURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.dataURL = url
		}
	}
}

// WithDetectServiceURL sets the base URL of the anomaly-detection service.
func WithDetectServiceURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.detectURL = url
		}
	}
}

// WithExplainServiceURL sets the base URL of the explainability service.
func WithExplainServiceURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.explainURL = url
		}
	}
}

// WithUpstreamTimeout sets the per-call timeout for upstream requests.
func WithUpstreamTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.upstreamTimeout = d
		}
	}
}

// WithUpstreamRetries sets how often idempotent upstream calls are retried.
func WithUpstreamRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.upstreamRetries = n
		}
	}
}

// WithUpstreamRateLimit caps upstream requests per second per backend.
func WithUpstreamRateLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.upstreamRateLimit = n
		}
	}
}

// WithCatalogTTL sets how long the algorithm catalog stays fresh.
func WithCatalogTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.catalogTTL = d
		}
	}
}

// WithSessionTTL sets how long calculation sessions are retained.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sessionTTL = d
		}
	}
}

// WithSessionSweepInterval sets how often expired sessions are swept.
func WithSessionSweepInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sessionSweep = d
		}
	}
}

// WithSessionMax bounds the number of retained sessions.
func WithSessionMax(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sessionMax = n
		}
	}
}

// WithDataSource injects a data source, bypassing construction on Start.
// Primarily used in tests.
func WithDataSource(d DataSource) Option {
	return func(s *Service) {
		if d != nil {
			s.data = d
		}
	}
}

// WithProvider injects an algorithm provider, bypassing construction on
// Start. Primarily used in tests.
func WithProvider(p registry.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithExplainer injects an explainer, bypassing construction on Start.
// Primarily used in tests.
func WithExplainer(e Explainer) Option {
	return func(s *Service) {
		if e != nil {
			s.explainer = e
		}
	}
}

// WithStore injects a session store, bypassing construction on Start.
// Primarily used in tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.sessions = store
		}
	}
}
