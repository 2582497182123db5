package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/sensorhub-io/argus/internal/domain/model"
)

// ExplainDependencies defines the interface for explainability operations.
type ExplainDependencies interface {
	Prototypes(ctx context.Context, sessionID string, anomalyIdx int) (model.Prototypes, error)
	FeatureAttribution(ctx context.Context, sessionID string, anomalyIdx int) ([]model.AttributionEntry, error)
}

// ExplainHandler handles prototype and feature-attribution requests.
type ExplainHandler struct {
	deps ExplainDependencies
}

// NewExplainHandler creates a new explain handler.
func NewExplainHandler(deps ExplainDependencies) *ExplainHandler {
	return &ExplainHandler{deps: deps}
}

type prototypesResponse struct {
	Prototypes model.Prototypes `json:"prototypes"`
}

type attributionResponse struct {
	Attribution []model.AttributionEntry `json:"attribution"`
}

// HandlePrototypes handles GET /calculate/prototypes requests.
func (h *ExplainHandler) HandlePrototypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	idx, err := anomalyIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	id := sessionID(w, r)
	protos, err := h.deps.Prototypes(r.Context(), id, idx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prototypesResponse{Prototypes: protos})
}

// HandleFeatureAttribution handles GET /calculate/feature-attribution requests.
func (h *ExplainHandler) HandleFeatureAttribution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	idx, err := anomalyIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	id := sessionID(w, r)
	entries, err := h.deps.FeatureAttribution(r.Context(), id, idx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []model.AttributionEntry{}
	}
	writeJSON(w, http.StatusOK, attributionResponse{Attribution: entries})
}

// anomalyIndex parses the anomaly query parameter.
func anomalyIndex(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("anomaly")
	if raw == "" {
		return 0, errors.New("missing anomaly")
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, errors.New("invalid anomaly; must be a non-negative index")
	}
	return idx, nil
}
