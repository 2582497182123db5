package probe

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sensorhub-io/argus/pkg/logger"
)

// runCalculation dispatches an anomaly calculation for the target building
// and verifies the response shape.
func runCalculation(ctx context.Context, config *Config, client *HTTPClient, building string, sensors []SensorInfo, algos []Algorithm, stats *Stats) (*Detection, error) {
	log := logger.Named("probe")

	algoID := config.AlgoID
	if algoID < 0 {
		algoID = algos[0].ID
	}

	selected := config.Sensors
	if len(selected) == 0 {
		for _, s := range sensors {
			selected = append(selected, s.Type)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("building %q has no sensors to calculate over", building)
	}

	q := url.Values{
		"algo":     {strconv.Itoa(algoID)},
		"building": {building},
		"sensors":  {strings.Join(selected, ";")},
		"start":    {config.Start},
		"stop":     {config.Stop},
	}

	var det Detection
	if _, err := client.getJSON(ctx, config.BaseURL+"/calculate/anomalies?"+q.Encode(), &det); err != nil {
		return nil, fmt.Errorf("calculation failed: %w", err)
	}

	stats.AnomaliesFound = len(det.Anomalies)
	log.Info(ctx, "calculation finished",
		logger.Int("algo", algoID),
		logger.String("building", building),
		logger.Int("anomalies", len(det.Anomalies)),
		logger.Float64("threshold", det.Threshold),
	)

	stats.ChecksRun++
	if det.DeepError != nil || det.RawAnomalies != nil {
		stats.ChecksFailed++
		log.Error(ctx, "sanitization check failed: internal fields present in response")
	}

	stats.ChecksRun++
	if client.session == "" {
		stats.ChecksFailed++
		log.Error(ctx, "session check failed: no session id echoed by the gateway")
	}

	return &det, nil
}

// verifyExplainability exercises the prototype and feature-attribution
// routes against the stored session.
func verifyExplainability(ctx context.Context, config *Config, client *HTTPClient, det *Detection, stats *Stats) error {
	log := logger.Named("probe")

	if len(det.Anomalies) == 0 {
		log.Info(ctx, "no anomalies detected; skipping explainability checks")
		return nil
	}

	var protosResp struct {
		Prototypes struct {
			PrototypeA []float64 `json:"prototype a"`
			PrototypeB []float64 `json:"prototype b"`
			Anomaly    []float64 `json:"anomaly"`
		} `json:"prototypes"`
	}
	stats.ChecksRun++
	if _, err := client.getJSON(ctx, config.BaseURL+"/calculate/prototypes?anomaly=0", &protosResp); err != nil {
		stats.ChecksFailed++
		return fmt.Errorf("prototypes failed: %w", err)
	}
	if len(protosResp.Prototypes.Anomaly) == 0 {
		log.Warn(ctx, "prototypes returned an empty anomaly window")
	}

	var attribResp struct {
		Attribution []struct {
			Name    string  `json:"name"`
			Percent float64 `json:"percent"`
		} `json:"attribution"`
	}
	stats.ChecksRun++
	if _, err := client.getJSON(ctx, config.BaseURL+"/calculate/feature-attribution?anomaly=0", &attribResp); err != nil {
		stats.ChecksFailed++
		return fmt.Errorf("feature attribution failed: %w", err)
	}

	// An index past the stored anomalies must be rejected.
	stats.ChecksRun++
	outOfRange := strconv.Itoa(len(det.Anomalies) + 1000)
	status, err := client.getJSON(ctx, config.BaseURL+"/calculate/prototypes?anomaly="+outOfRange, nil)
	if err == nil || status != StatusNotFound {
		stats.ChecksFailed++
		log.Error(ctx, "bounds check failed: out-of-range anomaly index was not a 404",
			logger.Int("status", status))
	}

	log.Info(ctx, "explainability verified",
		logger.Int("attribution_entries", len(attribResp.Attribution)),
	)
	return nil
}
