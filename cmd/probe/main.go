package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/sensorhub-io/argus/internal/probe"
)

// Default configuration constants.
const (
	defaultTimeout      = 30 * time.Second
	defaultProbeTimeout = 5 * time.Minute
	defaultWindow       = 24 * time.Hour
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "Base URL of the gateway")
		building = flag.String("building", "", "Building to calculate over (default: first listed)")
		sensors  = flag.String("sensors", "", "Semicolon-separated sensors (default: all)")
		algoID   = flag.Int("algo", -1, "Algorithm id (default: first cataloged)")
		start    = flag.String("start", "", "Calculation window start, RFC3339 (default: 24h ago)")
		stop     = flag.String("stop", "", "Calculation window stop, RFC3339 (default: now)")
		workers  = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Log file for probe output (default: probe_log_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	// Setup logging
	if err := probe.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	now := time.Now().UTC()
	if *stop == "" {
		*stop = now.Format(time.RFC3339)
	}
	if *start == "" {
		*start = now.Add(-defaultWindow).Format(time.RFC3339)
	}

	var sensorList []string
	if *sensors != "" {
		sensorList = strings.Split(*sensors, ";")
	}

	// Create probe configuration
	config := &probe.Config{
		BaseURL:  *baseURL,
		Building: *building,
		Sensors:  sensorList,
		AlgoID:   *algoID,
		Start:    *start,
		Stop:     *stop,
		Workers:  *workers,
		Timeout:  *timeout,
		LogFile:  *logFile,
		Verbose:  *verbose,
	}

	// Run the probe
	if err := probe.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
