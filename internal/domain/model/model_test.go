package model

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFrameValidate(t *testing.T) {
	Convey("Given a frame", t, func() {
		Convey("A consistent frame validates", func() {
			f := &Frame{
				Timestamps: []string{"2020-03-14T15:00:00Z", "2020-03-14T15:15:00Z"},
				Series: map[string][]float64{
					"Temperatur": {12.4, 12.1},
				},
			}
			So(f.Validate(), ShouldBeNil)
		})

		Convey("An empty frame is rejected", func() {
			f := &Frame{}
			So(f.Validate(), ShouldNotBeNil)
		})

		Convey("A ragged series is rejected", func() {
			f := &Frame{
				Timestamps: []string{"2020-03-14T15:00:00Z", "2020-03-14T15:15:00Z"},
				Series: map[string][]float64{
					"Temperatur": {12.4},
				},
			}
			So(f.Validate(), ShouldNotBeNil)
		})
	})
}

func TestDetectionSanitized(t *testing.T) {
	Convey("Given a detection with internal fields", t, func() {
		d := Detection{
			Error:        []float64{0.1, 0.2},
			Timestamps:   []string{"2020-03-14T11:00:00Z"},
			Anomalies:    []Anomaly{{Timestamp: "2021-12-21T09:45:00Z", Type: "Area"}},
			Threshold:    0.29,
			DeepError:    [][]float64{{0.1}},
			RawAnomalies: []Anomaly{{Timestamp: "2021-12-21T09:45:00Z", Type: "Area"}},
		}

		Convey("Sanitized strips deep error and raw anomalies", func() {
			s := d.Sanitized()
			So(s.DeepError, ShouldBeNil)
			So(s.RawAnomalies, ShouldBeNil)
			So(s.Threshold, ShouldEqual, d.Threshold)
			So(s.Anomalies, ShouldResemble, d.Anomalies)
		})

		Convey("Sanitized detections marshal without internal keys", func() {
			b, err := json.Marshal(d.Sanitized())
			So(err, ShouldBeNil)
			So(string(b), ShouldNotContainSubstring, "deep-error")
			So(string(b), ShouldNotContainSubstring, "raw-anomalies")
		})
	})
}

func TestSessionHasAnomaly(t *testing.T) {
	Convey("Given a session with two raw anomalies", t, func() {
		s := &Session{RawAnomalies: []Anomaly{{}, {}}}

		So(s.HasAnomaly(0), ShouldBeTrue)
		So(s.HasAnomaly(1), ShouldBeTrue)
		So(s.HasAnomaly(2), ShouldBeFalse)
		So(s.HasAnomaly(-1), ShouldBeFalse)
	})
}

func TestCalculateRequestValidate(t *testing.T) {
	Convey("Given calculate requests", t, func() {
		valid := func() *CalculateRequest {
			return &CalculateRequest{
				AlgorithmID: 1,
				Building:    "EF 40a",
				Sensors:     []string{"Temperatur", "Wärme Diff"},
				Start:       "2021-01-01T23:00:00Z",
				Stop:        "2022-01-01T23:00:00Z",
			}
		}

		Convey("A building selection with window validates", func() {
			So(valid().Validate(), ShouldBeNil)
		})

		Convey("Fractional-second timestamps are accepted", func() {
			r := valid()
			r.Start = "2021-01-01T23:00:00.000Z"
			r.Stop = "2022-01-01T23:00:00.000Z"
			So(r.Validate(), ShouldBeNil)
		})

		Convey("Missing both selectors is rejected", func() {
			r := valid()
			r.Building = ""
			So(r.Validate(), ShouldNotBeNil)
		})

		Convey("Both selectors at once is rejected", func() {
			r := valid()
			r.Frame = &Frame{Timestamps: []string{"t"}, Series: map[string][]float64{"a": {1}}}
			So(r.Validate(), ShouldNotBeNil)
		})

		Convey("An inline frame skips the window checks", func() {
			r := &CalculateRequest{
				AlgorithmID: 0,
				Frame: &Frame{
					Timestamps: []string{"2020-03-14T15:00:00Z"},
					Series:     map[string][]float64{"Temperatur": {12.4}},
				},
			}
			So(r.Validate(), ShouldBeNil)
		})

		Convey("Missing sensors is rejected", func() {
			r := valid()
			r.Sensors = nil
			So(r.Validate(), ShouldNotBeNil)
		})

		Convey("Blank sensor names are rejected", func() {
			r := valid()
			r.Sensors = []string{"Temperatur", " "}
			So(r.Validate(), ShouldNotBeNil)
		})

		Convey("Malformed timestamps are rejected", func() {
			r := valid()
			r.Start = "yesterday"
			So(r.Validate(), ShouldNotBeNil)
		})

		Convey("Inverted windows are rejected", func() {
			r := valid()
			r.Start, r.Stop = r.Stop, r.Start
			So(r.Validate(), ShouldNotBeNil)
		})
	})
}
