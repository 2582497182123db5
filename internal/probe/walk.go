package probe

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sensorhub-io/argus/pkg/logger"
)

// walkBuildings lists every building and fans out over the workers to fetch
// each building's sensors and timestamps. It returns the buildings and the
// sensor listing of the probed building.
func walkBuildings(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) ([]string, []SensorInfo, error) {
	log := logger.Named("probe")

	var buildingsResp struct {
		Buildings []string `json:"buildings"`
	}
	if _, err := client.getJSON(ctx, config.BaseURL+"/buildings", &buildingsResp); err != nil {
		return nil, nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	if len(buildingsResp.Buildings) == 0 {
		return nil, nil, fmt.Errorf("gateway reports no buildings")
	}
	stats.Buildings = len(buildingsResp.Buildings)
	log.Info(ctx, "buildings listed", logger.Int("count", stats.Buildings))

	var (
		sensorsWalked   int64
		timestampsTotal int64
	)

	buildingChan := make(chan string, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for building := range buildingChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				var sensorsResp struct {
					Sensors []SensorInfo `json:"sensors"`
				}
				if _, err := client.getJSON(ctx, buildingURL(config.BaseURL, building, "sensors"), &sensorsResp); err != nil {
					log.Warn(ctx, "sensor listing failed", logger.String("building", building), logger.Error(err))
					continue
				}
				atomic.AddInt64(&sensorsWalked, int64(len(sensorsResp.Sensors)))

				var tsResp struct {
					Count int `json:"count"`
				}
				if _, err := client.getJSON(ctx, buildingURL(config.BaseURL, building, "timestamps"), &tsResp); err != nil {
					log.Warn(ctx, "timestamp listing failed", logger.String("building", building), logger.Error(err))
					continue
				}
				atomic.AddInt64(&timestampsTotal, int64(tsResp.Count))

				if config.Verbose {
					log.Info(ctx, "building walked",
						logger.String("building", building),
						logger.Int("sensors", len(sensorsResp.Sensors)),
						logger.Int("timestamps", tsResp.Count),
					)
				}
			}
		}()
	}

	go func() {
		defer close(buildingChan)
		for _, b := range buildingsResp.Buildings {
			select {
			case <-ctx.Done():
				return
			case buildingChan <- b:
			}
		}
	}()

	wg.Wait()

	stats.SensorsWalked = int(atomic.LoadInt64(&sensorsWalked))
	stats.TimestampsCounted = int(atomic.LoadInt64(&timestampsTotal))

	// Resolve the building the calculation will run against.
	target := config.Building
	if target == "" {
		target = buildingsResp.Buildings[0]
	}

	var targetSensors struct {
		Sensors []SensorInfo `json:"sensors"`
	}
	if _, err := client.getJSON(ctx, buildingURL(config.BaseURL, target, "sensors"), &targetSensors); err != nil {
		return nil, nil, fmt.Errorf("failed to list sensors of %q: %w", target, err)
	}

	return buildingsResp.Buildings, targetSensors.Sensors, nil
}

// fetchAlgorithms retrieves the detection catalog.
func fetchAlgorithms(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) ([]Algorithm, error) {
	var resp struct {
		Algorithms []Algorithm `json:"algorithms"`
	}
	if _, err := client.getJSON(ctx, config.BaseURL+"/algorithms", &resp); err != nil {
		return nil, fmt.Errorf("failed to list algorithms: %w", err)
	}
	if len(resp.Algorithms) == 0 {
		return nil, fmt.Errorf("gateway reports no algorithms")
	}
	stats.Algorithms = len(resp.Algorithms)
	return resp.Algorithms, nil
}
