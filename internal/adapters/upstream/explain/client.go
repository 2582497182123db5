// Package explain adapts the explainability provider: prototype generation
// and feature attribution for previously calculated anomalies.
package explain

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sensorhub-io/argus/internal/adapters/upstream"
	"github.com/sensorhub-io/argus/internal/domain/model"
)

// Client talks to the explainability service.
type Client struct {
	c *upstream.Client
}

// New creates an explainability client rooted at baseURL.
func New(baseURL string, opts ...upstream.Option) *Client {
	return &Client{c: upstream.New("explainability", baseURL, opts...)}
}

type sessionBody struct {
	Payload model.Session `json:"payload"`
}

type prototypesEnvelope struct {
	Prototypes model.Prototypes `json:"prototypes"`
}

type attributionEnvelope struct {
	Attribution []model.AttributionEntry `json:"attribution"`
}

// Prototypes generates reference patterns for the anomaly at idx within the
// stored session.
func (c *Client) Prototypes(ctx context.Context, idx int, session model.Session) (model.Prototypes, error) {
	q := url.Values{}
	q.Set("anomaly", strconv.Itoa(idx))

	var env prototypesEnvelope
	if err := c.c.PostJSON(ctx, "prototypes", "/prototypes", q, sessionBody{Payload: session}, &env); err != nil {
		return model.Prototypes{}, err
	}
	return env.Prototypes, nil
}

// FeatureAttribution scores the per-feature contribution to the anomaly at
// idx within the stored session.
func (c *Client) FeatureAttribution(ctx context.Context, idx int, session model.Session) ([]model.AttributionEntry, error) {
	q := url.Values{}
	q.Set("anomaly", strconv.Itoa(idx))

	var env attributionEnvelope
	if err := c.c.PostJSON(ctx, "feature_attribution", "/feature-attribution", q, sessionBody{Payload: session}, &env); err != nil {
		return nil, err
	}
	return env.Attribution, nil
}
