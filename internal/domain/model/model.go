// Package model contains the domain types shared across the gateway:
// buildings, sensors, time-series frames and anomaly-detection results.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SensorInfo describes a sensor attached to a building.
type SensorInfo struct {
	Type string `json:"type"`
	Desc string `json:"desc"`
	Unit string `json:"unit"`
}

// Frame is a normalized tabular slice of sensor data: one timestamp column
// and one series of readings per selected sensor.
type Frame struct {
	Timestamps []string             `json:"timestamps"`
	Series     map[string][]float64 `json:"series"`
}

// Validate checks that every series matches the timestamp column length.
func (f *Frame) Validate() error {
	if len(f.Timestamps) == 0 {
		return errors.New("frame has no timestamps")
	}
	for name, values := range f.Series {
		if len(values) != len(f.Timestamps) {
			return fmt.Errorf("series %q has %d values for %d timestamps", name, len(values), len(f.Timestamps))
		}
	}
	return nil
}

// AlgorithmSetting is a single configurable knob exposed by an algorithm.
type AlgorithmSetting struct {
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Default interface{} `json:"default,omitempty"`
}

// AlgorithmConfig groups an algorithm's configurable settings.
type AlgorithmConfig struct {
	Settings []AlgorithmSetting `json:"settings"`
}

// Algorithm is a named, selectable anomaly-detection procedure offered by a
// detection provider.
type Algorithm struct {
	Name        string          `json:"name"`
	ID          int             `json:"id"`
	Explainable bool            `json:"explainable"`
	Config      AlgorithmConfig `json:"config"`
}

// Anomaly is a single detected deviation in the analyzed slice.
type Anomaly struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// Detection is the full result of an anomaly calculation as returned by a
// detection provider. DeepError and RawAnomalies are internal inputs for the
// explainability provider and are stripped from public responses.
type Detection struct {
	Error        []float64   `json:"error"`
	Timestamps   []string    `json:"timestamps"`
	Anomalies    []Anomaly   `json:"anomalies"`
	Threshold    float64     `json:"threshold"`
	DeepError    [][]float64 `json:"deep-error,omitempty"`
	RawAnomalies []Anomaly   `json:"raw-anomalies,omitempty"`
}

// Sanitized returns a copy of the detection without the internal fields.
func (d Detection) Sanitized() Detection {
	d.DeepError = nil
	d.RawAnomalies = nil
	return d
}

// Session captures everything a later explainability request needs about a
// completed calculation.
type Session struct {
	DeepError    [][]float64 `json:"deep-error"`
	Frame        Frame       `json:"dataframe"`
	Sensors      []string    `json:"sensors"`
	AlgorithmID  int         `json:"algo"`
	Timestamps   []string    `json:"timestamps"`
	RawAnomalies []Anomaly   `json:"anomalies"`
	Error        []float64   `json:"error"`
}

// HasAnomaly reports whether idx references a stored raw anomaly.
func (s *Session) HasAnomaly(idx int) bool {
	return idx >= 0 && idx < len(s.RawAnomalies)
}

// Prototypes holds the two reference patterns generated for an anomaly plus
// the anomaly window itself, aligned on the same timeframe.
type Prototypes struct {
	PrototypeA []float64 `json:"prototype a"`
	PrototypeB []float64 `json:"prototype b"`
	Anomaly    []float64 `json:"anomaly"`
}

// AttributionEntry scores how much one input feature contributed to an
// anomaly determination.
type AttributionEntry struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// CalculateRequest is the validated form of a /calculate/anomalies query.
// Exactly one of Building or Frame selects the data.
type CalculateRequest struct {
	AlgorithmID int
	Building    string
	Sensors     []string
	Start       string
	Stop        string
	Frame       *Frame
	Config      map[string]interface{}
}

// Validate enforces the selector rules: a building selection needs sensors
// and an RFC3339 start/stop window; an inline frame needs a consistent shape.
func (r *CalculateRequest) Validate() error {
	hasBuilding := strings.TrimSpace(r.Building) != ""
	hasFrame := r.Frame != nil

	switch {
	case hasBuilding && hasFrame:
		return errors.New("building and frame selectors are mutually exclusive")
	case !hasBuilding && !hasFrame:
		return errors.New("missing data selector: provide building or frame")
	}

	if hasFrame {
		return r.Frame.Validate()
	}

	if len(r.Sensors) == 0 {
		return errors.New("missing sensors")
	}
	for _, s := range r.Sensors {
		if strings.TrimSpace(s) == "" {
			return errors.New("empty sensor name")
		}
	}

	start, err := parseTimestamp(r.Start)
	if err != nil {
		return errors.New("invalid start; must be RFC3339")
	}
	stop, err := parseTimestamp(r.Stop)
	if err != nil {
		return errors.New("invalid stop; must be RFC3339")
	}
	if !start.Before(stop) {
		return errors.New("start must be before stop")
	}
	return nil
}

// parseTimestamp accepts RFC3339 with or without fractional seconds.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
