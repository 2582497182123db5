package api

import (
	"context"
	"net/http"
)

// BuildingDependencies defines the interface for building listing.
type BuildingDependencies interface {
	Buildings(ctx context.Context) ([]string, error)
}

// BuildingsHandler handles building listing requests.
type BuildingsHandler struct {
	deps BuildingDependencies
}

// NewBuildingsHandler creates a new buildings handler.
func NewBuildingsHandler(deps BuildingDependencies) *BuildingsHandler {
	return &BuildingsHandler{deps: deps}
}

type buildingsResponse struct {
	Buildings []string `json:"buildings"`
}

// HandleListBuildings handles GET /buildings requests.
func (h *BuildingsHandler) HandleListBuildings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	buildings, err := h.deps.Buildings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if buildings == nil {
		buildings = []string{}
	}
	writeJSON(w, http.StatusOK, buildingsResponse{Buildings: buildings})
}
