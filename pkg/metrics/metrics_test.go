package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		reg := prometheus.NewRegistry()

		Convey("When creating a manager with defaults", func() {
			m := NewManager(WithPrometheusRegistry(reg))

			Convey("Then it uses the argus namespace", func() {
				So(m.namespace, ShouldEqual, "argus")
				So(m.subsystem, ShouldEqual, "gateway")
				So(m.enabled, ShouldBeTrue)
			})
		})

		Convey("When creating a manager with options", func() {
			m := NewManager(
				WithPrometheusRegistry(reg),
				WithNamespace("custom"),
				WithSubsystem("sub"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithMetricsEnabled(false),
				WithRefreshInterval(time.Minute),
				WithCustomLabels(map[string]string{"env": "test"}),
			)

			Convey("Then options are applied", func() {
				So(m.namespace, ShouldEqual, "custom")
				So(m.subsystem, ShouldEqual, "sub")
				So(m.histogramBuckets, ShouldResemble, []float64{1, 2, 3})
				So(m.enabled, ShouldBeFalse)
				So(m.refreshInterval, ShouldEqual, time.Minute)
				So(m.customLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("Empty option values keep defaults", func() {
			m := NewManager(
				WithPrometheusRegistry(reg),
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(0),
			)
			So(m.namespace, ShouldEqual, "argus")
			So(m.subsystem, ShouldEqual, "gateway")
			So(m.refreshInterval, ShouldEqual, defaultRefreshInterval)
		})
	})
}

func TestRecordFunctions(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Record helpers do not panic", func() {
			So(func() {
				RecordHTTPRequest("buildings", "GET", "200")
				RecordHTTPRequestDuration("buildings", "GET", "200", 1.2)
				RecordUpstreamRequest("data", "buildings", "200")
				RecordUpstreamRequestDuration("data", "buildings", 3.4)
				RecordUpstreamError("data", "unavailable")
				RecordUpstreamRetry()
				RecordCalculation("Isolation Forest")
				RecordCalculationError()
				RecordCalculationLatency(120)
				RecordAnomaliesDetected(2)
				RecordSessionStore()
				RecordSessionEviction()
				RecordSessionExpiration()
				UpdateSessionCount(3)
				UpdateCatalogSize(4)
				RecordCatalogRefresh()
				RecordCatalogRefreshError()
				RecordErrorByType("not_found", "medium")
				RecordErrorByEndpoint("buildings", "GET", "not_found")
				RecordErrorLatency("http", "not_found", 0.5)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})

		Convey("GetRegistry exposes the custom registry", func() {
			reg := GetRegistry()
			So(reg, ShouldNotBeNil)

			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)

			names := make(map[string]bool, len(families))
			for _, f := range families {
				names[f.GetName()] = true
			}
			So(names["argus_gateway_http_requests_total"], ShouldBeTrue)
			So(names["argus_gateway_upstream_requests_total"], ShouldBeTrue)
			So(names["argus_gateway_calculations_total"], ShouldBeTrue)
		})
	})
}
