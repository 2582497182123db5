package detect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sensorhub-io/argus/internal/adapters/upstream"
	"github.com/sensorhub-io/argus/internal/domain/model"
	"github.com/sensorhub-io/argus/pkg/logger"
)

func TestAlgorithms(t *testing.T) {
	Convey("Given a fake detection service", t, func(c C) {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.So(r.URL.Path, ShouldEqual, "/algorithms")
			_ = json.NewEncoder(w).Encode(map[string]any{"algorithms": []map[string]any{
				{"name": "Isolation Forest", "id": 0, "explainable": false, "config": map[string]any{"settings": []any{}}},
				{"name": "LSTM Autoencoder", "id": 2, "explainable": true, "config": map[string]any{"settings": []any{}}},
			}})
		}))
		defer srv.Close()

		Convey("The catalog decodes into typed algorithms", func() {
			got, err := New(srv.URL).Algorithms(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].Name, ShouldEqual, "Isolation Forest")
			So(got[1].ID, ShouldEqual, 2)
			So(got[1].Explainable, ShouldBeTrue)
		})
	})
}

func TestCalculate(t *testing.T) {
	Convey("Given a fake detection service", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		frame := model.Frame{
			Timestamps: []string{"2020-03-14T11:00:00Z"},
			Series:     map[string][]float64{"Temperatur": {12.4}},
		}

		Convey("Calculate posts the frame with the selection encoded in the query", func(c C) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.So(r.Method, ShouldEqual, http.MethodPost)
				c.So(r.URL.Path, ShouldEqual, "/calculate")
				q := r.URL.Query()
				c.So(q.Get("algo"), ShouldEqual, "1")
				c.So(q.Get("building"), ShouldEqual, "EF 40a")

				var cfg map[string]any
				c.So(json.Unmarshal([]byte(q.Get("config")), &cfg), ShouldBeNil)
				c.So(cfg["percentile"], ShouldEqual, 99.5)

				var body struct {
					Payload model.Frame `json:"payload"`
				}
				c.So(json.NewDecoder(r.Body).Decode(&body), ShouldBeNil)
				c.So(body.Payload.Timestamps, ShouldResemble, frame.Timestamps)

				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":      []float64{0.03, 0.02},
					"timestamps": []string{"2020-03-14T11:00:00Z", "2020-03-14T11:15:00Z"},
					"anomalies":  []map[string]string{{"timestamp": "2021-12-21T09:45:00Z", "type": "Area"}},
					"threshold":  0.29,
					"deep-error": [][]float64{{0.01}},
					"raw-anomalies": []map[string]string{
						{"timestamp": "2021-12-21T09:45:00Z", "type": "Area"},
					},
				})
			}))
			defer srv.Close()

			det, err := New(srv.URL).Calculate(ctx, 1, "EF 40a",
				map[string]interface{}{"dropdown": "Percentile", "percentile": 99.5}, frame)

			So(err, ShouldBeNil)
			So(det.Threshold, ShouldEqual, 0.29)
			So(det.Anomalies, ShouldHaveLength, 1)
			So(det.DeepError, ShouldHaveLength, 1)
			So(det.RawAnomalies, ShouldHaveLength, 1)
		})

		Convey("Provider failures map to ErrUpstream", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "model blew up"})
			}))
			defer srv.Close()

			_, err := New(srv.URL).Calculate(ctx, 1, "EF 40a", nil, frame)
			So(errors.Is(err, upstream.ErrUpstream), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "model blew up")
		})
	})
}
