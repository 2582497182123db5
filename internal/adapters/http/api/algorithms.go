package api

import (
	"context"
	"net/http"

	"github.com/sensorhub-io/argus/internal/domain/model"
)

// AlgorithmDependencies defines the interface for catalog listing.
type AlgorithmDependencies interface {
	Algorithms(ctx context.Context) ([]model.Algorithm, error)
}

// AlgorithmsHandler handles algorithm catalog requests.
type AlgorithmsHandler struct {
	deps AlgorithmDependencies
}

// NewAlgorithmsHandler creates a new algorithms handler.
func NewAlgorithmsHandler(deps AlgorithmDependencies) *AlgorithmsHandler {
	return &AlgorithmsHandler{deps: deps}
}

type algorithmsResponse struct {
	Algorithms []model.Algorithm `json:"algorithms"`
}

// HandleListAlgorithms handles GET /algorithms requests.
func (h *AlgorithmsHandler) HandleListAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	algorithms, err := h.deps.Algorithms(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if algorithms == nil {
		algorithms = []model.Algorithm{}
	}
	writeJSON(w, http.StatusOK, algorithmsResponse{Algorithms: algorithms})
}
