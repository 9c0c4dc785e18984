package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/clipreel/clipreel/clip"
	"github.com/clipreel/clipreel/filesystem"
	"github.com/clipreel/clipreel/playback"
	"github.com/clipreel/clipreel/timeline"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const reelYAML = `media: holiday.mkv
clips:
  - {start: 10, end: 20, label: arrival}
  - {start: 50, end: 65, label: speech}
  - {start: 100, end: 110, label: fireworks}
`

func writeReel() {
	filesystem.SetMemMapFs()
	So(filesystem.API().MkdirAll("/reels", 0o755), ShouldBeNil)
	So(filesystem.API().WriteFile("/reels/holiday.yaml", []byte(reelYAML), 0o644), ShouldBeNil)
	So(filesystem.API().WriteFile("/reels/holiday.mkv", []byte{0}, 0o644), ShouldBeNil)
}

// execute runs the root command with args and returns what it printed.
func execute(args ...string) string {
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	So(rootCmd.Execute(), ShouldBeNil)
	return out.String()
}

// resetFlags undoes the previous run, since cobra keeps parsed flag values on the commands.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestTimelineCommand(t *testing.T) {
	Convey("Given a clip file", t, func() {
		writeReel()

		Convey("timeline show should list every clip", func() {
			out := execute("timeline", "show", "/reels/holiday.yaml")
			So(out, ShouldContainSubstring, "arrival")
			So(out, ShouldContainSubstring, "speech")
			So(out, ShouldContainSubstring, "fireworks")
			So(out, ShouldContainSubstring, "0:35.0")
			So(out, ShouldContainSubstring, "3 clips")
		})

		Convey("timeline show --json should print the ranges", func() {
			out := execute("timeline", "show", "--json", "/reels/holiday.yaml")

			var parsed struct {
				Total  float64     `json:"total"`
				Ranges []rangeJSON `json:"ranges"`
			}
			So(json.Unmarshal([]byte(out), &parsed), ShouldBeNil)
			So(parsed.Total, ShouldEqual, 35)
			So(parsed.Ranges, ShouldHaveLength, 3)
			So(parsed.Ranges[1].Label, ShouldEqual, "speech")
			So(parsed.Ranges[1].VirtualStart, ShouldEqual, 10)
			So(parsed.Ranges[2].VirtualEnd, ShouldEqual, 35)
		})

		Convey("timeline map --actual should give the reel time", func() {
			out := execute("timeline", "map", "--actual", "62.5", "/reels/holiday.yaml")
			So(out, ShouldContainSubstring, "1:02.5 actual → 0:22.5 reel (in speech)")
		})

		Convey("timeline map --actual in a gap should say so", func() {
			out := execute("timeline", "map", "--actual", "30", "/reels/holiday.yaml")
			So(out, ShouldContainSubstring, "0:30.0 actual → 0:10.0 reel (outside every clip)")
		})

		Convey("timeline map --virtual should give the media time", func() {
			out := execute("timeline", "map", "--virtual", "20", "/reels/holiday.yaml")
			So(out, ShouldContainSubstring, "0:20.0 reel → 1:00.0 actual (in speech)")
		})
	})
}

func TestHistoryCommand(t *testing.T) {
	Convey("Given no saved reels", t, func() {
		writeReel()

		Convey("history should say there is nothing to resume", func() {
			So(execute("history"), ShouldContainSubstring, "Nothing to resume.")
		})

		Convey("history --json should print an empty list", func() {
			var parsed []map[string]any
			So(json.Unmarshal([]byte(execute("history", "--json")), &parsed), ShouldBeNil)
			So(parsed, ShouldBeEmpty)
		})
	})
}

func TestSchemaCommand(t *testing.T) {
	Convey("schema should describe clip files", t, func() {
		out := execute("schema")

		var parsed map[string]any
		So(json.Unmarshal([]byte(out), &parsed), ShouldBeNil)
		So(parsed["title"], ShouldEqual, "clipreel clip file")
		So(out, ShouldContainSubstring, "clips")
		So(out, ShouldContainSubstring, "label")
	})
}

func TestResolveMedia(t *testing.T) {
	Convey("Given a clip file next to its media", t, func() {
		writeReel()
		file := &clip.File{Media: "holiday.mkv"}

		Convey("The media entry should resolve next to the clip file", func() {
			media, err := resolveMedia("", "/reels/holiday.yaml", file)
			So(err, ShouldBeNil)
			So(media, ShouldEqual, "/reels/holiday.mkv")
		})

		Convey("An explicit media argument should win", func() {
			media, err := resolveMedia("/reels/holiday.mkv", "/elsewhere/clips.json", &clip.File{})
			So(err, ShouldBeNil)
			So(media, ShouldEqual, "/reels/holiday.mkv")
		})

		Convey("URLs should pass through unchecked", func() {
			media, err := resolveMedia("", "/reels/holiday.yaml", &clip.File{Media: "https://example.com/v.mp4"})
			So(err, ShouldBeNil)
			So(media, ShouldEqual, "https://example.com/v.mp4")
		})

		Convey("Missing media should be an error", func() {
			_, err := resolveMedia("", "/reels/holiday.yaml", &clip.File{})
			So(err, ShouldNotBeNil)

			_, err = resolveMedia("/reels/missing.mkv", "/reels/holiday.yaml", file)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestHelpers(t *testing.T) {
	Convey("Given three clips", t, func() {
		clips := []clip.Clip{
			{Start: 10, End: 20, Label: "arrival"},
			{Start: 50, End: 65},
			{Start: 100, End: 110, Label: "fireworks"},
		}

		Convey("clipOptions should number and label them", func() {
			options := clipOptions(clips)
			So(options, ShouldHaveLength, 3)
			So(options[0], ShouldEqual, "1. arrival (0:10.0 → 0:20.0)")
			So(options[1], ShouldEqual, "2. Clip 2 (0:50.0 → 1:05.0)")
		})

		Convey("reelBar should fill the width", func() {
			bar := reelBar(timeline.Build(clips), 35)
			So(bar, ShouldContainSubstring, "█")
			So(bytes.Count([]byte(bar), []byte("█")), ShouldEqual, 35)
			So(reelBar(timeline.Build(nil), 35), ShouldBeEmpty)
		})

		Convey("statusLine should show reel time and clip", func() {
			line := statusLine(playback.State{
				Mode:                 playback.VirtualBound,
				CurrentVirtualTime:   12,
				TotalVirtualDuration: 35,
				CurrentClipIndex:     1,
				ClipCount:            3,
			})
			So(line, ShouldEqual, "0:12.0 / 0:35.0  clip 2/3  virtual")

			line = statusLine(playback.State{CurrentClipIndex: -1, ClipCount: 3})
			So(line, ShouldContainSubstring, "clip -")
		})
	})
}

// idleAdapter accepts every command and reports the player standing still.
type idleAdapter struct{}

func (idleAdapter) Seek(float64) error { return nil }
func (idleAdapter) Play() error { return nil }
func (idleAdapter) Pause() error { return nil }
func (idleAdapter) CurrentTime() (float64, error) { return 0, nil }

func TestReloadClips(t *testing.T) {
	Convey("Given a reel playing from a clip file", t, func() {
		writeReel()
		file, err := clip.Load("/reels/holiday.yaml")
		So(err, ShouldBeNil)

		store, err := clip.NewStore(file.Clips)
		So(err, ShouldBeNil)
		ctrl := playback.New(idleAdapter{}, file.Clips, playback.DefaultConfig())
		ctrl.JumpToClip(2)

		var published []timeline.Timeline
		publish := func(tl timeline.Timeline) { published = append(published, tl) }

		Convey("A saved edit should rebuild the timeline", func() {
			edited := "clips:\n  - {start: 10, end: 20, label: arrival}\n  - {start: 50, end: 70, label: speech}\n"
			So(filesystem.API().WriteFile("/reels/holiday.yaml", []byte(edited), 0o644), ShouldBeNil)

			So(reloadClips("/reels/holiday.yaml", store, ctrl, publish), ShouldBeNil)

			clips, revision := store.Snapshot()
			So(clips, ShouldHaveLength, 2)
			So(revision, ShouldEqual, 1)
			So(ctrl.Timeline().TotalVirtualDuration, ShouldEqual, 30)
			So(ctrl.State().CurrentClipIndex, ShouldEqual, 1)
			So(published, ShouldHaveLength, 1)
			So(published[0].Len(), ShouldEqual, 2)
		})

		Convey("A broken file should leave the reel as it was", func() {
			So(filesystem.API().WriteFile("/reels/holiday.yaml", []byte("clips:\n  - {start: 20, end: 10}\n"), 0o644), ShouldBeNil)

			So(reloadClips("/reels/holiday.yaml", store, ctrl, publish), ShouldNotBeNil)

			_, revision := store.Snapshot()
			So(revision, ShouldEqual, 0)
			So(ctrl.Timeline().TotalVirtualDuration, ShouldEqual, 35)
			So(published, ShouldBeEmpty)
		})
	})
}
