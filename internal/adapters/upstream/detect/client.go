// Package detect adapts an anomaly-detection provider: it lists the
// provider's algorithm catalog and dispatches calculation requests.
package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sensorhub-io/argus/internal/adapters/upstream"
	"github.com/sensorhub-io/argus/internal/domain/model"
)

// Client talks to the anomaly-detection service.
type Client struct {
	c *upstream.Client
}

// New creates a detection client rooted at baseURL.
func New(baseURL string, opts ...upstream.Option) *Client {
	return &Client{c: upstream.New("anomaly-detection", baseURL, opts...)}
}

type algorithmsEnvelope struct {
	Algorithms []model.Algorithm `json:"algorithms"`
}

type calculateBody struct {
	Payload model.Frame `json:"payload"`
}

// Algorithms returns the provider's algorithm catalog.
func (c *Client) Algorithms(ctx context.Context) ([]model.Algorithm, error) {
	var env algorithmsEnvelope
	if err := c.c.GetJSON(ctx, "algorithms", "/algorithms", nil, &env); err != nil {
		return nil, err
	}
	return env.Algorithms, nil
}

// Calculate runs the selected algorithm over the frame and returns the full
// detection, internal fields included.
func (c *Client) Calculate(ctx context.Context, algoID int, building string, cfg map[string]interface{}, frame model.Frame) (model.Detection, error) {
	q := url.Values{}
	q.Set("algo", fmt.Sprintf("%d", algoID))
	if building != "" {
		q.Set("building", building)
	}
	if cfg != nil {
		raw, err := json.Marshal(cfg)
		if err != nil {
			return model.Detection{}, fmt.Errorf("encode algorithm config: %w", err)
		}
		q.Set("config", string(raw))
	}

	var out model.Detection
	if err := c.c.PostJSON(ctx, "calculate", "/calculate", q, calculateBody{Payload: frame}, &out); err != nil {
		return model.Detection{}, err
	}
	return out, nil
}
