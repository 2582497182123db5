// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sensorhub-io/argus/internal/adapters/repository"
	"github.com/sensorhub-io/argus/internal/adapters/upstream"
	"github.com/sensorhub-io/argus/internal/domain/model"
	"github.com/sensorhub-io/argus/internal/domain/registry"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations expose the sensor-data backend.
	Buildings(ctx context.Context) ([]string, error)
	Sensors(ctx context.Context, building string) ([]model.SensorInfo, error)
	SensorData(ctx context.Context, building, sensor string) ([]float64, error)
	Timestamps(ctx context.Context, building string) ([]string, error)

	// Algorithms exposes the cached detection catalog.
	Algorithms(ctx context.Context) ([]model.Algorithm, error)

	// CalculateAnomalies dispatches a calculation and stores the result
	// under the session id.
	CalculateAnomalies(ctx context.Context, sessionID string, req model.CalculateRequest) (model.Detection, error)

	// Explainability operations over a stored session.
	Prototypes(ctx context.Context, sessionID string, anomalyIdx int) (model.Prototypes, error)
	FeatureAttribution(ctx context.Context, sessionID string, anomalyIdx int) ([]model.AttributionEntry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	routesHandler     *RoutesHandler
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	buildingsHandler  *BuildingsHandler
	sensorsHandler    *SensorsHandler
	timestampsHandler *TimestampsHandler
	algorithmsHandler *AlgorithmsHandler
	calculateHandler  *CalculateHandler
	explainHandler    *ExplainHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		routesHandler:     NewRoutesHandler(),
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		buildingsHandler:  NewBuildingsHandler(deps),
		sensorsHandler:    NewSensorsHandler(deps),
		timestampsHandler: NewTimestampsHandler(deps),
		algorithmsHandler: NewAlgorithmsHandler(deps),
		calculateHandler:  NewCalculateHandler(deps),
		explainHandler:    NewExplainHandler(deps),
		dashboardHandler:  newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/{$}", chain(s.routesHandler.HandleIndex, "index"))
	mux.HandleFunc("/healthz", chain(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", chain(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/buildings", chain(s.buildingsHandler.HandleListBuildings, "buildings"))
	mux.HandleFunc("/buildings/{building}/sensors", chain(s.sensorsHandler.HandleListSensors, "sensors"))
	mux.HandleFunc("/buildings/{building}/sensors/{sensor}", chain(s.sensorsHandler.HandleSensorData, "sensor_data"))
	mux.HandleFunc("/buildings/{building}/timestamps", chain(s.timestampsHandler.HandleTimestamps, "timestamps"))
	mux.HandleFunc("/algorithms", chain(s.algorithmsHandler.HandleListAlgorithms, "algorithms"))
	mux.HandleFunc("/calculate/anomalies", chain(s.calculateHandler.HandleAnomalies, "anomalies"))
	mux.HandleFunc("/calculate/prototypes", chain(s.explainHandler.HandlePrototypes, "prototypes"))
	mux.HandleFunc("/calculate/feature-attribution", chain(s.explainHandler.HandleFeatureAttribution, "feature_attribution"))
}

// chain applies the standard middleware stack to a handler.
func chain(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return MetricsMiddleware(CORSMiddleware(next), endpoint)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates service and upstream errors to HTTP responses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrUnknownAlgorithm):
		writeError(w, http.StatusBadRequest, "unknown_algorithm", err)
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, upstream.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, upstream.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, upstream.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", err)
	case errors.Is(err, upstream.ErrUpstream):
		writeError(w, http.StatusBadGateway, "computation_failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
