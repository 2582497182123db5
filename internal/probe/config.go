package probe

import "time"

// Config holds configuration for the gateway probe.
type Config struct {
	BaseURL  string        // Base URL of the gateway
	Building string        // Building to probe; first listed building when empty
	Sensors  []string      // Sensors for the calculation; all sensors when empty
	AlgoID   int           // Algorithm id; -1 picks the first cataloged one
	Start    string        // Calculation window start (RFC3339)
	Stop     string        // Calculation window stop (RFC3339)
	Workers  int           // Number of concurrent workers for the walk
	Timeout  time.Duration // HTTP request timeout
	LogFile  string        // Log file for probe output
	Verbose  bool          // Enable verbose logging
}

// SensorInfo mirrors the gateway's sensor descriptor.
type SensorInfo struct {
	Type string `json:"type"`
	Desc string `json:"desc"`
	Unit string `json:"unit"`
}

// Algorithm mirrors the gateway's catalog entry.
type Algorithm struct {
	Name        string `json:"name"`
	ID          int    `json:"id"`
	Explainable bool   `json:"explainable"`
}

// Anomaly mirrors a detected anomaly.
type Anomaly struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// Detection mirrors the sanitized calculation response.
type Detection struct {
	Error        []float64   `json:"error"`
	Timestamps   []string    `json:"timestamps"`
	Anomalies    []Anomaly   `json:"anomalies"`
	Threshold    float64     `json:"threshold"`
	DeepError    [][]float64 `json:"deep-error"`
	RawAnomalies []Anomaly   `json:"raw-anomalies"`
}

// Stats holds probe statistics.
type Stats struct {
	Buildings         int
	SensorsWalked     int
	TimestampsCounted int
	Algorithms        int
	AnomaliesFound    int
	ChecksRun         int
	ChecksFailed      int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
