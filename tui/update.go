package tui

import (
	"strconv"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/clipreel/clipreel/playback"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		b.applyState(msg)
		return b, b.waitForState()
	case playerExitedMsg:
		return b, tea.Quit
	case error:
		b.raiseError(msg)
		return b, nil
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit, b.keymap.quit) {
			return b, tea.Quit
		}
	}

	switch b.state {
	case playState:
		return b.updatePlay(msg)
	}

	return b, nil
}

func (b *statefulBubble) applyState(msg stateMsg) {
	prev := b.playback
	b.playback = playback.State(msg)

	if b.playback.ClipCount != b.timeline.Len() || b.playback.TotalVirtualDuration != b.timeline.TotalVirtualDuration {
		b.setTimeline(b.ctrl.Timeline())
	}

	if idx := b.playback.CurrentClipIndex; idx >= 0 && idx != prev.CurrentClipIndex {
		b.clipsC.Select(idx)
	}
}

func (b *statefulBubble) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.playPause):
		b.ctrl.TogglePlay()
	case bubblesKey.Matches(keyMsg, b.keymap.next):
		b.ctrl.SkipNext()
	case bubblesKey.Matches(keyMsg, b.keymap.prev):
		b.ctrl.SkipPrevious()
	case bubblesKey.Matches(keyMsg, b.keymap.seekForward):
		b.seekBy(b.options.SeekStep)
	case bubblesKey.Matches(keyMsg, b.keymap.seekBack):
		b.seekBy(-b.options.SeekStep)
	case bubblesKey.Matches(keyMsg, b.keymap.jump):
		n, _ := strconv.Atoi(keyMsg.String())
		if n >= 1 && n <= b.timeline.Len() {
			b.ctrl.JumpToClip(n - 1)
		}
	case bubblesKey.Matches(keyMsg, b.keymap.jumpSelected):
		if it, ok := b.clipsC.SelectedItem().(*listItem); ok {
			b.ctrl.JumpToClip(it.index)
		}
	case bubblesKey.Matches(keyMsg, b.keymap.restart):
		b.ctrl.PlayAllClips()
	case bubblesKey.Matches(keyMsg, b.keymap.free):
		b.ctrl.ExitVirtualMode()
	case bubblesKey.Matches(keyMsg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	default:
		var cmd tea.Cmd
		b.clipsC, cmd = b.clipsC.Update(msg)
		return b, cmd
	}

	return b, nil
}

// seekBy moves the playhead by delta seconds of virtual time.
func (b *statefulBubble) seekBy(delta float64) {
	if b.timeline.Empty() {
		return
	}

	v := b.playback.CurrentVirtualTime + delta
	b.ctrl.SeekToVirtualTime(min(max(v, 0), b.timeline.TotalVirtualDuration))
}
