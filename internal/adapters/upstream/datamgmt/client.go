// Package datamgmt adapts the sensor-data storage service: it translates
// building/sensor/timestamp queries into HTTP calls and returns normalized
// tabular results.
package datamgmt

import (
	"context"
	"net/url"

	"github.com/sensorhub-io/argus/internal/adapters/upstream"
	"github.com/sensorhub-io/argus/internal/domain/model"
)

// Client fetches building and sensor data from the data-management service.
type Client struct {
	c *upstream.Client
}

// New creates a data-management client rooted at baseURL.
func New(baseURL string, opts ...upstream.Option) *Client {
	return &Client{c: upstream.New("data-management", baseURL, opts...)}
}

type buildingsEnvelope struct {
	Buildings []string `json:"buildings"`
}

type sensorsEnvelope struct {
	Sensors []model.SensorInfo `json:"sensors"`
}

type sensorDataEnvelope struct {
	Sensor []float64 `json:"sensor"`
}

type timestampsEnvelope struct {
	Timestamps []string `json:"timestamps"`
}

type sliceEnvelope struct {
	Payload model.Frame `json:"payload"`
}

// Buildings returns all building names known to the storage backend.
func (c *Client) Buildings(ctx context.Context) ([]string, error) {
	var env buildingsEnvelope
	if err := c.c.GetJSON(ctx, "buildings", "/buildings", nil, &env); err != nil {
		return nil, err
	}
	return env.Buildings, nil
}

// Sensors returns the sensors available for a building.
func (c *Client) Sensors(ctx context.Context, building string) ([]model.SensorInfo, error) {
	var env sensorsEnvelope
	path := "/buildings/" + url.PathEscape(building) + "/sensors"
	if err := c.c.GetJSON(ctx, "sensors", path, nil, &env); err != nil {
		return nil, err
	}
	return env.Sensors, nil
}

// SensorData returns the reading series of one sensor.
func (c *Client) SensorData(ctx context.Context, building, sensor string) ([]float64, error) {
	var env sensorDataEnvelope
	path := "/buildings/" + url.PathEscape(building) + "/sensors/" + url.PathEscape(sensor)
	if err := c.c.GetJSON(ctx, "sensor_data", path, nil, &env); err != nil {
		return nil, err
	}
	return env.Sensor, nil
}

// Timestamps returns all data timestamps recorded for a building.
func (c *Client) Timestamps(ctx context.Context, building string) ([]string, error) {
	var env timestampsEnvelope
	path := "/buildings/" + url.PathEscape(building) + "/timestamps"
	if err := c.c.GetJSON(ctx, "timestamps", path, nil, &env); err != nil {
		return nil, err
	}
	return env.Timestamps, nil
}

// Slice returns the tabular frame for a building, a sensor selection and a
// time window.
func (c *Client) Slice(ctx context.Context, building string, sensors []string, start, stop string) (model.Frame, error) {
	q := url.Values{}
	for _, s := range sensors {
		q.Add("sensors", s)
	}
	q.Set("start", start)
	q.Set("stop", stop)

	var env sliceEnvelope
	path := "/buildings/" + url.PathEscape(building) + "/slice"
	if err := c.c.GetJSON(ctx, "slice", path, q, &env); err != nil {
		return model.Frame{}, err
	}
	return env.Payload, nil
}
