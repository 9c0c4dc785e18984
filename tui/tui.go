// Package tui provides the terminal front end for a playing reel: a virtual scrubber,
// the clip list, and key bindings for the playback commands.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/clipreel/clipreel/playback"
	"github.com/clipreel/clipreel/timeline"
	"github.com/samber/mo"
)

// Controller is the playback surface the interface drives.
type Controller interface {
	State() playback.State
	Timeline() timeline.Timeline
	Watch(fn func(playback.State))

	JumpToClip(index int)
	PlayAllClips()
	TogglePlay()
	SkipNext()
	SkipPrevious()
	SeekToVirtualTime(v float64)
	PlayFromVirtualTime(v float64)
	ExitVirtualMode()
}

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Title is shown above the scrubber, usually the media file name.
	Title string

	// SeekStep is how far left/right move on the virtual timeline, in seconds.
	SeekStep float64

	// StartClip is the clip played when the interface opens.
	StartClip int

	// ResumeAt, when present, is a reel time to continue from instead of StartClip.
	ResumeAt mo.Option[float64]

	// Exited is closed when the player goes away; the interface quits with it.
	Exited <-chan struct{}
}

// Run starts playback of the reel and blocks until the user quits or the player exits.
func Run(ctrl Controller, options *Options) error {
	bubble := newBubble(ctrl, options)
	ctrl.Watch(bubble.publish)

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
