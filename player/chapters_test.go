package player

import (
	"testing"

	"github.com/clipreel/clipreel/clip"
	"github.com/clipreel/clipreel/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClipChapters(t *testing.T) {
	Convey("Given clips with gaps between them", t, func() {
		tl := timeline.Build([]clip.Clip{
			{Start: 10, End: 20, Label: "a"},
			{Start: 20, End: 30},
			{Start: 100, End: 110, Label: "c"},
		})

		Convey("Every clip start and every skipped stretch should get a chapter", func() {
			So(ClipChapters(tl), ShouldResemble, []Chapter{
				{Title: "a", Time: 10},
				{Title: "Clip 2", Time: 20},
				{Title: "(skipped)", Time: 30},
				{Title: "c", Time: 100},
				{Title: "(skipped)", Time: 110},
			})
		})
	})

	Convey("Clips authored out of order should still be listed by time", t, func() {
		tl := timeline.Build([]clip.Clip{
			{Start: 50, End: 60, Label: "late"},
			{Start: 5, End: 8, Label: "early"},
		})

		chapters := ClipChapters(tl)
		So(chapters[0], ShouldResemble, Chapter{Title: "early", Time: 5})
		So(chapters[2], ShouldResemble, Chapter{Title: "late", Time: 50})
	})

	Convey("No clips means no chapters", t, func() {
		So(ClipChapters(timeline.Build(nil)), ShouldBeEmpty)
	})
}
