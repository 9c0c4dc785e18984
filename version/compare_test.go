package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		for _, tc := range []struct {
			a, b string
			want int
		}{
			{"0.37.0", "0.33.0", 1},
			{"0.33.0", "0.33.0", 0},
			{"0.32.9", "0.33.0", -1},
			{"v1.0.0", "0.40.2", 1},
			{"0.35", "0.35.0", 0},
			{"0.36.0-573-gab1234", "0.36.0", 0},
			{"0.38.0+git", "0.38.1", -1},
		} {
			got, err := Compare(tc.a, tc.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, tc.want)
		}

		Convey("Garbage should be an error", func() {
			_, err := Compare("git-master", "0.33.0")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseMPV(t *testing.T) {
	Convey("ParseMPV", t, func() {
		Convey("Release builds", func() {
			v, err := ParseMPV("mpv 0.37.0 Copyright © 2000-2023 mpv/MPlayer/mplayer2 projects\n built on ...")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.37.0")
		})

		Convey("Git builds", func() {
			v, err := ParseMPV("mpv v0.36.0-573-g6c8f8e5 Copyright © 2000-2023 mpv/MPlayer/mplayer2 projects")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "0.36.0")
			So(SupportedMPV(v), ShouldBeTrue)
		})

		Convey("Unrecognized output", func() {
			_, err := ParseMPV("command not found\nsecond line")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldNotContainSubstring, "second line")
		})
	})
}

func TestSupportedMPV(t *testing.T) {
	Convey("SupportedMPV", t, func() {
		So(SupportedMPV(MinMPV), ShouldBeTrue)
		So(SupportedMPV("0.40.0"), ShouldBeTrue)
		So(SupportedMPV("0.29.1"), ShouldBeFalse)
		So(SupportedMPV("unknown"), ShouldBeTrue)
	})
}
