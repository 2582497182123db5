package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sensorhub-io/argus/internal/domain/model"
)

// CalculateDependencies defines the interface for anomaly calculations.
type CalculateDependencies interface {
	CalculateAnomalies(ctx context.Context, sessionID string, req model.CalculateRequest) (model.Detection, error)
}

// CalculateHandler handles anomaly calculation requests.
type CalculateHandler struct {
	deps CalculateDependencies
}

// NewCalculateHandler creates a new calculate handler.
func NewCalculateHandler(deps CalculateDependencies) *CalculateHandler {
	return &CalculateHandler{deps: deps}
}

// HandleAnomalies handles GET /calculate/anomalies requests.
// The data selection comes from query parameters: algo (required id) plus
// either building/sensors/start/stop or an inline frame.
func (h *CalculateHandler) HandleAnomalies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	req, err := parseCalculateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	id := sessionID(w, r)
	det, err := h.deps.CalculateAnomalies(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, det)
}

// parseCalculateQuery builds a validated CalculateRequest from the query
// string.
func parseCalculateQuery(r *http.Request) (model.CalculateRequest, error) {
	q := r.URL.Query()

	algoStr := q.Get("algo")
	if algoStr == "" {
		return model.CalculateRequest{}, errors.New("missing algo")
	}
	algoID, err := strconv.Atoi(algoStr)
	if err != nil {
		return model.CalculateRequest{}, errors.New("invalid algo; must be an integer id")
	}

	req := model.CalculateRequest{
		AlgorithmID: algoID,
		Building:    q.Get("building"),
		Start:       q.Get("start"),
		Stop:        q.Get("stop"),
	}

	if raw := q.Get("sensors"); raw != "" {
		for _, s := range strings.Split(raw, ";") {
			if s = strings.TrimSpace(s); s != "" {
				req.Sensors = append(req.Sensors, s)
			}
		}
	}

	if raw := q.Get("frame"); raw != "" {
		var frame model.Frame
		if err := json.Unmarshal([]byte(raw), &frame); err != nil {
			return model.CalculateRequest{}, fmt.Errorf("invalid frame: %w", err)
		}
		req.Frame = &frame
	}

	if raw := q.Get("config"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Config); err != nil {
			return model.CalculateRequest{}, fmt.Errorf("invalid config: %w", err)
		}
	}

	if err := req.Validate(); err != nil {
		return model.CalculateRequest{}, err
	}
	return req, nil
}
