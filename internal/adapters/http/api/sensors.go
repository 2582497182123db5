package api

import (
	"context"
	"net/http"

	"github.com/sensorhub-io/argus/internal/domain/model"
)

// SensorDependencies defines the interface for sensor operations.
type SensorDependencies interface {
	Sensors(ctx context.Context, building string) ([]model.SensorInfo, error)
	SensorData(ctx context.Context, building, sensor string) ([]float64, error)
}

// SensorsHandler handles sensor listing and sensor data requests.
type SensorsHandler struct {
	deps SensorDependencies
}

// NewSensorsHandler creates a new sensors handler.
func NewSensorsHandler(deps SensorDependencies) *SensorsHandler {
	return &SensorsHandler{deps: deps}
}

type sensorsResponse struct {
	Sensors []model.SensorInfo `json:"sensors"`
}

type sensorDataResponse struct {
	Sensor []float64 `json:"sensor"`
}

// HandleListSensors handles GET /buildings/{building}/sensors requests.
func (h *SensorsHandler) HandleListSensors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	building := r.PathValue("building")
	if building == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	sensors, err := h.deps.Sensors(r.Context(), building)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if sensors == nil {
		sensors = []model.SensorInfo{}
	}
	writeJSON(w, http.StatusOK, sensorsResponse{Sensors: sensors})
}

// HandleSensorData handles GET /buildings/{building}/sensors/{sensor} requests.
func (h *SensorsHandler) HandleSensorData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	building := r.PathValue("building")
	sensor := r.PathValue("sensor")
	if building == "" || sensor == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	readings, err := h.deps.SensorData(r.Context(), building, sensor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if readings == nil {
		readings = []float64{}
	}
	writeJSON(w, http.StatusOK, sensorDataResponse{Sensor: readings})
}
