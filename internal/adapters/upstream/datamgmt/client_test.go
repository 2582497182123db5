package datamgmt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sensorhub-io/argus/internal/adapters/upstream"
	"github.com/sensorhub-io/argus/pkg/logger"
)

func TestClient(t *testing.T) {
	Convey("Given a fake data-management service", t, func(cv C) {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		mux := http.NewServeMux()
		mux.HandleFunc("/buildings", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"buildings": []string{"EF 40", "EF 40a"}})
		})
		mux.HandleFunc("/buildings/EF%2040a/sensors", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"sensors": []map[string]string{
				{"type": "Temperatur", "desc": "Wetterstation", "unit": "°C"},
			}})
		})
		mux.HandleFunc("/buildings/EF%2040a/sensors/Temperatur", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"sensor": []float64{12.4, 12.1, 11.8}})
		})
		mux.HandleFunc("/buildings/EF%2040a/timestamps", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"timestamps": []string{
				"2020-03-14T15:00:00", "2020-03-14T15:15:00",
			}})
		})
		mux.HandleFunc("/buildings/EF%2040a/slice", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			cv.So(q["sensors"], ShouldResemble, []string{"Temperatur", "Wärme Diff"})
			cv.So(q.Get("start"), ShouldEqual, "2021-01-01T23:00:00Z")
			cv.So(q.Get("stop"), ShouldEqual, "2022-01-01T23:00:00Z")
			_ = json.NewEncoder(w).Encode(map[string]any{"payload": map[string]any{
				"timestamps": []string{"2021-06-01T00:00:00Z"},
				"series":     map[string][]float64{"Temperatur": {20.5}},
			}})
		})
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Building not found"})
		})

		srv := httptest.NewServer(mux)
		defer srv.Close()
		c := New(srv.URL)

		Convey("Buildings returns the name list", func() {
			got, err := c.Buildings(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []string{"EF 40", "EF 40a"})
		})

		Convey("Sensors returns typed sensor info", func() {
			got, err := c.Sensors(ctx, "EF 40a")
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].Type, ShouldEqual, "Temperatur")
			So(got[0].Unit, ShouldEqual, "°C")
		})

		Convey("SensorData returns the series", func() {
			got, err := c.SensorData(ctx, "EF 40a", "Temperatur")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []float64{12.4, 12.1, 11.8})
		})

		Convey("Timestamps returns the timestamp list", func() {
			got, err := c.Timestamps(ctx, "EF 40a")
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
		})

		Convey("Slice passes the selection and decodes the frame", func() {
			frame, err := c.Slice(ctx, "EF 40a", []string{"Temperatur", "Wärme Diff"},
				"2021-01-01T23:00:00Z", "2022-01-01T23:00:00Z")
			So(err, ShouldBeNil)
			So(frame.Timestamps, ShouldHaveLength, 1)
			So(frame.Series["Temperatur"], ShouldResemble, []float64{20.5})
		})

		Convey("Unknown buildings map to ErrNotFound", func() {
			_, err := c.Sensors(ctx, "No Such Building")
			So(errors.Is(err, upstream.ErrNotFound), ShouldBeTrue)
		})
	})
}
