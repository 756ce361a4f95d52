package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInit(t *testing.T) {
	Convey("Given a buffer as log output", t, func() {
		var buf bytes.Buffer
		ctx := context.Background()

		Convey("When the text format is selected", func() {
			So(Init(WithWriter(&buf), WithFormat("text")), ShouldBeNil)
			Get().Info(ctx, "scored", String("player_id", "p-1"), Int("ovr", 77))

			Convey("Then fields are written as key=value pairs", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "msg=scored")
				So(out, ShouldContainSubstring, "player_id=p-1")
				So(out, ShouldContainSubstring, "ovr=77")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the JSON format is selected", func() {
			So(Init(WithWriter(&buf), WithFormat("JSON")), ShouldBeNil)
			Named("worker").Warn(ctx, "slow", Duration("took", time.Second), Bool("retry", false), Error(errors.New("boom")))

			Convey("Then every line is a JSON object carrying the component", func() {
				var rec map[string]interface{}
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "slow")
				So(rec["component"], ShouldEqual, "worker")
				So(rec["error"], ShouldEqual, "boom")
			})
		})

		Convey("When auto is selected for a non-terminal writer", func() {
			So(Init(WithWriter(&buf), WithFormat(FormatAuto)), ShouldBeNil)
			Get().Info(ctx, "hello")

			Convey("Then JSON is used", func() {
				So(strings.HasPrefix(buf.String(), "{"), ShouldBeTrue)
			})
		})

		Convey("When an unknown format is selected", func() {
			Convey("Then Init fails", func() {
				So(Init(WithFormat("xml")), ShouldNotBeNil)
			})
		})
	})
}

func TestLevels(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("WARN"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then lower levels are dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Convey("When debug is enabled", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(ctx, "details", Float64("score", 3.9))

			Convey("Then debug lines are written", func() {
				So(buf.String(), ShouldContainSubstring, "score=3.9")
			})
		})

		Convey("When the level is unknown", func() {
			Convey("Then an error is returned", func() {
				So(SetLevelString("loud"), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})
	})
}
