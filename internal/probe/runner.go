package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/sensorhub-io/argus/pkg/logger"
)

// Run executes the complete gateway probe.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting argus gateway probe",
		logger.String("baseURL", config.BaseURL),
		logger.String("building", config.Building),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check gateway health
	if err := checkGatewayHealth(ctx, config, client); err != nil {
		return fmt.Errorf("gateway health check failed: %w", err)
	}

	// Step 2: Walk the data surface
	buildings, sensors, err := walkBuildings(ctx, config, client, stats)
	if err != nil {
		return fmt.Errorf("building walk failed: %w", err)
	}

	// Step 3: Fetch the algorithm catalog
	algos, err := fetchAlgorithms(ctx, config, client, stats)
	if err != nil {
		return fmt.Errorf("catalog fetch failed: %w", err)
	}

	// Step 4: Run a calculation against the target building
	target := config.Building
	if target == "" {
		target = buildings[0]
	}
	det, err := runCalculation(ctx, config, client, target, sensors, algos, stats)
	if err != nil {
		return fmt.Errorf("calculation probe failed: %w", err)
	}

	// Step 5: Exercise explainability over the stored session
	if err := verifyExplainability(ctx, config, client, det, stats); err != nil {
		return fmt.Errorf("explainability probe failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.ChecksFailed > 0 {
		return fmt.Errorf("%d of %d checks failed", stats.ChecksFailed, stats.ChecksRun)
	}
	logger.Get().Info(ctx, "probe completed successfully")
	return nil
}

// checkGatewayHealth verifies the gateway is running.
func checkGatewayHealth(ctx context.Context, config *Config, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking gateway health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to gateway: %w", err)
	}
	defer resp.Body.Close()

	// Any 200 counts as healthy (the gateway returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("gateway health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "gateway is healthy")
	return nil
}

// displayFinalStats prints the final probe statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("buildings", stats.Buildings),
		logger.Int("sensorsWalked", stats.SensorsWalked),
		logger.Int("timestampsCounted", stats.TimestampsCounted),
		logger.Int("algorithms", stats.Algorithms),
		logger.Int("anomaliesFound", stats.AnomaliesFound),
		logger.Int("checksRun", stats.ChecksRun),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.String("duration", stats.Duration.String()))
}
