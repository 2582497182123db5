package logger

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Get returns the global logger", func() {
			So(Get(), ShouldNotBeNil)
		})

		Convey("Named returns a derived logger", func() {
			So(Named("api"), ShouldNotBeNil)
		})

		Convey("Logging at all levels does not panic", func() {
			ctx := context.Background()
			l := Get()
			So(func() {
				l.Debug(ctx, "debug", String("k", "v"))
				l.Info(ctx, "info", Int("n", 1))
				l.Warn(ctx, "warn", Float64("f", 1.5))
				l.Error(ctx, "error", Bool("b", true), Any("x", nil))
			}, ShouldNotPanic)
		})

		Convey("Sync is a no-op", func() {
			So(Sync(), ShouldBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Valid levels are accepted", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", "", "  INFO "} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})

		Convey("SetLevel applies directly", func() {
			SetLevel(slog.LevelWarn)
			So(levelVar.Level(), ShouldEqual, slog.LevelWarn)
		})
	})
}
