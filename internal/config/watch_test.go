package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sensorhub-io/argus/pkg/logger"
)

func TestWatch(t *testing.T) {
	Convey("Given a watched config file", t, func() {
		So(logger.Init(), ShouldBeNil)

		dir := t.TempDir()
		path := filepath.Join(dir, "argus.yaml")
		So(os.WriteFile(path, []byte("log_level: info\n"), 0o600), ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reloaded := make(chan *Config, 4)
		done := make(chan error, 1)
		go func() {
			done <- Watch(ctx, path, func(c *Config) { reloaded <- c })
		}()
		// Give the watcher a moment to register.
		time.Sleep(100 * time.Millisecond)

		Convey("When the file is rewritten with valid YAML", func() {
			So(os.WriteFile(path, []byte("log_level: debug\n"), 0o600), ShouldBeNil)

			Convey("Then onChange fires with the new config", func() {
				select {
				case cfg := <-reloaded:
					So(cfg.LogLevel, ShouldEqual, "debug")
				case <-time.After(3 * time.Second):
					So("timed out waiting for reload", ShouldBeEmpty)
				}
			})
		})

		Convey("When the file is rewritten with invalid YAML", func() {
			So(os.WriteFile(path, []byte(":\n\t-"), 0o600), ShouldBeNil)

			Convey("Then onChange does not fire", func() {
				select {
				case <-reloaded:
					So("unexpected reload", ShouldBeEmpty)
				case <-time.After(500 * time.Millisecond):
					// previous config stays active
				}
			})
		})

		Convey("Cancelling the context stops the watcher", func() {
			cancel()
			select {
			case err := <-done:
				So(err, ShouldBeNil)
			case <-time.After(3 * time.Second):
				So("watcher did not stop", ShouldBeEmpty)
			}
		})
	})
}
