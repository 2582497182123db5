package api

import (
	"context"
	"net/http"
)

// TimestampDependencies defines the interface for timestamp listing.
type TimestampDependencies interface {
	Timestamps(ctx context.Context, building string) ([]string, error)
}

// TimestampsHandler handles timestamp listing requests.
type TimestampsHandler struct {
	deps TimestampDependencies
}

// NewTimestampsHandler creates a new timestamps handler.
func NewTimestampsHandler(deps TimestampDependencies) *TimestampsHandler {
	return &TimestampsHandler{deps: deps}
}

type timestampsResponse struct {
	Timestamps []string `json:"timestamps"`
	First      string   `json:"first,omitempty"`
	Last       string   `json:"last,omitempty"`
	Count      int      `json:"count"`
}

// HandleTimestamps handles GET /buildings/{building}/timestamps requests.
func (h *TimestampsHandler) HandleTimestamps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	building := r.PathValue("building")
	if building == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	timestamps, err := h.deps.Timestamps(r.Context(), building)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := timestampsResponse{Timestamps: timestamps, Count: len(timestamps)}
	if resp.Timestamps == nil {
		resp.Timestamps = []string{}
	}
	if len(timestamps) > 0 {
		resp.First = timestamps[0]
		resp.Last = timestamps[len(timestamps)-1]
	}
	writeJSON(w, http.StatusOK, resp)
}
