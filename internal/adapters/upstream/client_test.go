package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sensorhub-io/argus/pkg/logger"
)

func TestGetJSON(t *testing.T) {
	Convey("Given an upstream service", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("A 200 response decodes into the target", func(cv C) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				cv.So(r.URL.Path, ShouldEqual, "/buildings")
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string][]string{"buildings": {"EF 40", "EF 40a"}})
			}))
			defer srv.Close()

			c := New("data", srv.URL)
			var out struct {
				Buildings []string `json:"buildings"`
			}
			err := c.GetJSON(ctx, "buildings", "/buildings", nil, &out)

			So(err, ShouldBeNil)
			So(out.Buildings, ShouldResemble, []string{"EF 40", "EF 40a"})
		})

		Convey("A 404 maps to ErrNotFound with the upstream detail", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Building not found"})
			}))
			defer srv.Close()

			err := New("data", srv.URL).GetJSON(ctx, "sensors", "/x", nil, nil)

			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Building not found")
		})

		Convey("A 400 maps to ErrBadRequest", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Payload can not be empty"})
			}))
			defer srv.Close()

			err := New("detect", srv.URL).GetJSON(ctx, "calculate", "/x", nil, nil)

			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
		})

		Convey("A 500 maps to ErrUpstream and is not retried", func() {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer srv.Close()

			err := New("data", srv.URL, WithRetries(3)).GetJSON(ctx, "buildings", "/x", nil, nil)

			So(errors.Is(err, ErrUpstream), ShouldBeTrue)
			So(atomic.LoadInt32(&calls), ShouldEqual, 1)
		})

		Convey("A 503 is retried and can recover", func() {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
			}))
			defer srv.Close()

			c := New("data", srv.URL, WithRetries(2), WithBackoff(time.Millisecond))
			var out map[string]string
			err := c.GetJSON(ctx, "buildings", "/x", nil, &out)

			So(err, ShouldBeNil)
			So(atomic.LoadInt32(&calls), ShouldEqual, 3)
			So(out["ok"], ShouldEqual, "yes")
		})

		Convey("A dead endpoint maps to ErrUnavailable", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			srv.Close()

			c := New("data", srv.URL, WithRetries(1), WithBackoff(time.Millisecond))
			err := c.GetJSON(ctx, "buildings", "/x", nil, nil)

			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
		})

		Convey("Malformed response bodies map to ErrUpstream", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			}))
			defer srv.Close()

			var out map[string]string
			err := New("data", srv.URL).GetJSON(ctx, "buildings", "/x", nil, &out)

			So(errors.Is(err, ErrUpstream), ShouldBeTrue)
		})
	})
}

func TestPostJSON(t *testing.T) {
	Convey("Given an upstream service", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		Convey("POST sends a JSON body and decodes the response", func(c C) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.So(r.Method, ShouldEqual, http.MethodPost)
				c.So(r.Header.Get("Content-Type"), ShouldEqual, "application/json")
				var body map[string]any
				c.So(json.NewDecoder(r.Body).Decode(&body), ShouldBeNil)
				c.So(body["payload"], ShouldNotBeNil)
				_ = json.NewEncoder(w).Encode(map[string]float64{"threshold": 0.29})
			}))
			defer srv.Close()

			var out map[string]float64
			err := New("detect", srv.URL).PostJSON(ctx, "calculate", "/calculate", nil,
				map[string]any{"payload": []float64{1, 2}}, &out)

			So(err, ShouldBeNil)
			So(out["threshold"], ShouldEqual, 0.29)
		})

		Convey("POSTs are never retried", func() {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer srv.Close()

			c := New("detect", srv.URL, WithRetries(3), WithBackoff(time.Millisecond))
			err := c.PostJSON(ctx, "calculate", "/calculate", nil, map[string]int{"a": 1}, nil)

			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
			So(atomic.LoadInt32(&calls), ShouldEqual, 1)
		})
	})
}

func TestRateLimit(t *testing.T) {
	Convey("Given a client limited to 1 rps", t, func() {
		So(logger.Init(), ShouldBeNil)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer srv.Close()

		c := New("data", srv.URL, WithRateLimit(1))

		Convey("A cancelled context aborts the limiter wait", func() {
			ctx, cancel := context.WithCancel(context.Background())
			// First call consumes the initial token.
			So(c.GetJSON(ctx, "buildings", "/x", nil, nil), ShouldBeNil)
			cancel()

			err := c.GetJSON(ctx, "buildings", "/x", nil, nil)
			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
		})
	})
}
