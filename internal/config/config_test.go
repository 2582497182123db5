package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewDefaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		c := New()

		So(c.LogLevel, ShouldEqual, "info")
		So(c.Addr, ShouldEqual, ":8080")
		So(c.DataServiceURL, ShouldEqual, "http://data-management")
		So(c.DetectServiceURL, ShouldEqual, "http://anomaly-detection")
		So(c.ExplainServiceURL, ShouldEqual, "http://explainability")
		So(c.UpstreamRetries, ShouldEqual, 2)
		So(c.SessionMax, ShouldEqual, 10_000)

		Convey("Duration accessors convert milliseconds", func() {
			So(c.UpstreamTimeout(), ShouldEqual, 15*time.Second)
			So(c.CatalogTTL(), ShouldEqual, 30*time.Second)
			So(c.SessionTTL(), ShouldEqual, time.Hour)
			So(c.SessionSweepInterval(), ShouldEqual, time.Minute)
		})
	})
}
