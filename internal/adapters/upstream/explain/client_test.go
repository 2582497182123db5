package explain

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

func testSession() model.Session {
	return model.Session{
		DeepError:   [][]float64{{0.1, 0.2}},
		Sensors:     []string{"Wasser.1 Diff", "Elektrizität.1 Diff"},
		AlgorithmID: 2,
		Timestamps:  []string{"2020-03-14T11:00:00Z"},
		RawAnomalies: []model.Anomaly{
			{Timestamp: "2021-12-21T09:45:00Z", Type: "Area"},
		},
		Error: []float64{0.03},
	}
}

func TestPrototypes(t *testing.T) {
	Convey("Given a fake explainability service", t, func(c C) {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.So(r.Method, ShouldEqual, http.MethodPost)
			c.So(r.URL.Path, ShouldEqual, "/prototypes")
			c.So(r.URL.Query().Get("anomaly"), ShouldEqual, "0")

			var body struct {
				Payload model.Session `json:"payload"`
			}
			c.So(json.NewDecoder(r.Body).Decode(&body), ShouldBeNil)
			c.So(body.Payload.AlgorithmID, ShouldEqual, 2)

			_ = json.NewEncoder(w).Encode(map[string]any{"prototypes": map[string]any{
				"prototype a": []float64{0.01675, 0.07375},
				"prototype b": []float64{0.004, 0.00275},
				"anomaly":     []float64{0.0055, 0.4355},
			}})
		}))
		defer srv.Close()

		Convey("Prototypes decode with their original keys", func() {
			got, err := New(srv.URL).Prototypes(ctx, 0, testSession())
			So(err, ShouldBeNil)
			So(got.PrototypeA, ShouldResemble, []float64{0.01675, 0.07375})
			So(got.PrototypeB, ShouldResemble, []float64{0.004, 0.00275})
			So(got.Anomaly, ShouldResemble, []float64{0.0055, 0.4355})
		})
	})
}

func TestFeatureAttribution(t *testing.T) {
	Convey("Given a fake explainability service", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("Attribution entries decode", func(c C) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.So(r.URL.Path, ShouldEqual, "/feature-attribution")
				_ = json.NewEncoder(w).Encode(map[string]any{"attribution": []map[string]any{
					{"name": "Wasser.1 Diff", "percent": 82.656},
					{"name": "Elektrizität.1 Diff", "percent": 17.344},
				}})
			}))
			defer srv.Close()

			got, err := New(srv.URL).FeatureAttribution(ctx, 0, testSession())
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[0].Name, ShouldEqual, "Wasser.1 Diff")
			So(got[0].Percent, ShouldAlmostEqual, 82.656, 0.001)
		})

		Convey("Empty-payload rejections map to ErrBadRequest", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Payload can not be empty"})
			}))
			defer srv.Close()

			_, err := New(srv.URL).FeatureAttribution(ctx, 0, model.Session{})
			So(errors.Is(err, upstream.ErrBadRequest), ShouldBeTrue)
		})
	})
}
