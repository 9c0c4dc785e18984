package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/clipreel/clipreel/clip"
	"github.com/clipreel/clipreel/playback"
	"github.com/clipreel/clipreel/timeline"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeController struct {
	tl      timeline.Timeline
	state   playback.State
	calls   []string
	watcher func(playback.State)
}

func newFakeController() *fakeController {
	tl := timeline.Build([]clip.Clip{
		{Start: 10, End: 20, Label: "arrival"},
		{Start: 50, End: 65, Label: "speech"},
		{Start: 100, End: 110},
	})
	return &fakeController{
		tl: tl,
		state: playback.State{
			CurrentClipIndex:     -1,
			ClipCount:            tl.Len(),
			TotalVirtualDuration: tl.TotalVirtualDuration,
		},
	}
}

func (f *fakeController) State() playback.State { return f.state }
func (f *fakeController) Timeline() timeline.Timeline { return f.tl }
func (f *fakeController) Watch(fn func(playback.State)) { f.watcher = fn }
func (f *fakeController) JumpToClip(i int) { f.calls = append(f.calls, fmt.Sprintf("jump %d", i)) }
func (f *fakeController) PlayAllClips() { f.calls = append(f.calls, "all") }
func (f *fakeController) TogglePlay() { f.calls = append(f.calls, "toggle") }
func (f *fakeController) SkipNext() { f.calls = append(f.calls, "next") }
func (f *fakeController) SkipPrevious() { f.calls = append(f.calls, "prev") }
func (f *fakeController) SeekToVirtualTime(v float64) { f.calls = append(f.calls, fmt.Sprintf("seek %.1f", v)) }
func (f *fakeController) PlayFromVirtualTime(v float64) {
	f.calls = append(f.calls, fmt.Sprintf("resume %.1f", v))
}
func (f *fakeController) ExitVirtualMode() { f.calls = append(f.calls, "free") }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeys(t *testing.T) {
	Convey("Given the playing view", t, func() {
		ctrl := newFakeController()
		b := newBubble(ctrl, &Options{Title: "holiday.mkv"})
		b.resize(100, 40)

		press := func(msgs ...tea.Msg) []string {
			for _, msg := range msgs {
				b.Update(msg)
			}
			return ctrl.calls
		}

		Convey("Init should start the reel at the requested clip", func() {
			b.options.StartClip = 1
			b.Init()
			So(ctrl.calls, ShouldResemble, []string{"jump 1"})
		})

		Convey("Init should continue from a resume point when given one", func() {
			b.options.StartClip = 2
			b.options.ResumeAt = mo.Some(14.5)
			b.Init()
			So(ctrl.calls, ShouldResemble, []string{"resume 14.5"})
		})

		Convey("Playback keys should map to controller commands", func() {
			So(press(runes(" "), runes("n"), runes("p"), runes("f"), runes("r")), ShouldResemble,
				[]string{"toggle", "next", "prev", "free", "all"})
		})

		Convey("Digits should jump to existing clips only", func() {
			So(press(runes("2"), runes("9")), ShouldResemble, []string{"jump 1"})
		})

		Convey("Arrows should seek on the virtual timeline and clamp", func() {
			ctrl.state.CurrentVirtualTime = 3
			b.Update(stateMsg(ctrl.state))
			So(press(tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyLeft}), ShouldResemble,
				[]string{"seek 8.0", "seek 0.0"})

			ctrl.calls = nil
			ctrl.state.CurrentVirtualTime = 33
			b.Update(stateMsg(ctrl.state))
			So(press(tea.KeyMsg{Type: tea.KeyRight}), ShouldResemble, []string{"seek 35.0"})
		})

		Convey("Enter should play the selected clip", func() {
			So(press(tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter}),
				ShouldResemble, []string{"jump 2"})
		})

		Convey("q should quit without touching playback", func() {
			_, cmd := b.Update(runes("q"))
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldResemble, tea.Quit())
			So(ctrl.calls, ShouldBeEmpty)
		})

		Convey("The player exiting should quit", func() {
			_, cmd := b.Update(playerExitedMsg{})
			So(cmd(), ShouldResemble, tea.Quit())
		})
	})
}

func TestStateUpdates(t *testing.T) {
	Convey("Given the playing view", t, func() {
		ctrl := newFakeController()
		b := newBubble(ctrl, &Options{Title: "holiday.mkv"})
		b.resize(100, 40)

		Convey("Published snapshots should reach Update, newest first", func() {
			first, second := ctrl.state, ctrl.state
			first.CurrentClipIndex = 0
			second.CurrentClipIndex = 2
			b.publish(first)
			b.publish(second)

			msg := b.waitForState()()
			So(playback.State(msg.(stateMsg)).CurrentClipIndex, ShouldEqual, 2)
		})

		Convey("A new clip index should move the list selection", func() {
			ctrl.state.CurrentClipIndex = 1
			ctrl.state.Mode = playback.VirtualBound
			ctrl.state.IsPlaying = true
			_, cmd := b.Update(stateMsg(ctrl.state))
			So(cmd, ShouldNotBeNil)
			So(b.clipsC.Index(), ShouldEqual, 1)

			view := b.View()
			So(view, ShouldContainSubstring, "holiday.mkv")
			So(view, ShouldContainSubstring, "clip 2/3")
			So(view, ShouldContainSubstring, "speech")
			So(view, ShouldContainSubstring, "playing")
		})

		Convey("An edited clip file should refresh the clip list", func() {
			ctrl.tl = timeline.Build([]clip.Clip{
				{Start: 10, End: 20, Label: "arrival"},
				{Start: 50, End: 70, Label: "full speech"},
				{Start: 100, End: 110},
			})
			ctrl.state.TotalVirtualDuration = ctrl.tl.TotalVirtualDuration
			b.Update(stateMsg(ctrl.state))

			So(b.timeline.TotalVirtualDuration, ShouldEqual, 40)
			So(b.View(), ShouldContainSubstring, "full speech")
		})

		Convey("A finished free-mode snapshot should say so", func() {
			ctrl.state.PlaybackFinished = true
			b.Update(stateMsg(ctrl.state))
			view := b.View()
			So(view, ShouldContainSubstring, "finished")
			So(view, ShouldContainSubstring, "free")
			So(view, ShouldContainSubstring, "between clips")
		})

		Convey("Errors should switch to the error view", func() {
			b.Update(errors.New("mpv went away"))
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "mpv went away")

			_, cmd := b.Update(runes(" "))
			So(cmd, ShouldBeNil)
			So(ctrl.calls, ShouldBeEmpty)
		})
	})
}

func TestScrubber(t *testing.T) {
	Convey("scrubberCells", t, func() {
		Convey("Should mark played cells, clip boundaries and the head", func() {
			cells := scrubberCells(10, 5, 20, []float64{0, 10})
			So(cells, ShouldResemble, []cell{
				playedCell, playedCell, headCell, unplayedCell, unplayedCell,
				boundaryCell, unplayedCell, unplayedCell, unplayedCell, unplayedCell,
			})
		})

		Convey("The head should sit on the last cell at the end", func() {
			cells := scrubberCells(4, 20, 20, nil)
			So(cells[3], ShouldEqual, headCell)
		})

		Convey("An empty timeline should render an empty track", func() {
			So(scrubberCells(3, 0, 0, nil), ShouldResemble, []cell{unplayedCell, unplayedCell, unplayedCell})
			So(scrubberCells(0, 0, 10, nil), ShouldBeEmpty)
		})

		Convey("Rendering should produce one glyph per cell", func() {
			out := renderScrubber(8, 4, 8, []float64{2})
			So(strings.Count(out, "●"), ShouldEqual, 1)
			So(strings.Count(out, "┃"), ShouldEqual, 1)
		})
	})
}

func TestListItem(t *testing.T) {
	Convey("listItem", t, func() {
		tl := newFakeController().tl

		labelled := &listItem{index: 1, rng: tl.Ranges[1]}
		So(labelled.Title(), ShouldEqual, "speech")
		So(labelled.Description(), ShouldEqual, "0:50.0 → 1:05.0  (0:15.0 at 0:10.0)")

		unlabelled := &listItem{index: 2, rng: tl.Ranges[2]}
		So(unlabelled.Title(), ShouldEqual, "Clip 3")
		So(unlabelled.FilterValue(), ShouldEqual, "Clip 3")
	})
}
