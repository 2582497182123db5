package probe

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/sensorhub-io/argus/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "probe_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`Argus Gateway Probe
===================

An end-to-end smoke probe for a running Argus gateway: walks the data
surface, runs an anomaly calculation and verifies the explainability flow.

Usage:
  go run cmd/probe/main.go [options]

Options:
  -url string
        Base URL of the gateway (default "http://localhost:8080")
  -building string
        Building to calculate over (default: first listed building)
  -sensors string
        Semicolon-separated sensors (default: all sensors of the building)
  -algo int
        Algorithm id (default: first cataloged algorithm)
  -start string
        Calculation window start, RFC3339 (default: 24h ago)
  -stop string
        Calculation window stop, RFC3339 (default: now)
  -workers int
        Number of concurrent workers for the walk (default CPU cores)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for probe output (default: probe_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Probe a local gateway with defaults
  go run cmd/probe/main.go

  # Probe a specific building and algorithm
  go run cmd/probe/main.go -building "EF 40a" -algo 2 -sensors "Temperatur;CO2"
`)
}
