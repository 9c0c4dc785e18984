// Package player drives an external media player on behalf of the playback controller.
// The only backend is mpv, controlled through its JSON-IPC interface.
package player

import (
	"fmt"
)

// Backend is the minimal control surface the Adapter needs.
type Backend interface {
	// Seek moves playback to an absolute position in seconds.
	Seek(seconds float64) error

	// SetPaused pauses or resumes playback.
	SetPaused(paused bool) error

	// TimePos returns the current playback position in seconds.
	TimePos() (float64, error)
}

// Player is a running media player process.
type Player interface {
	Backend

	// Open launches the player on a local file or http(s) URL. The player starts paused.
	Open(media, title string) error

	// Duration returns the length of the loaded media in seconds.
	Duration() (float64, error)

	// SetChapters replaces the chapter markers shown on the player's seek bar.
	SetChapters(chapters []Chapter) error

	// Listen starts delivering player events to callback.
	Listen(callback EventCallback) (*EventListener, error)

	// Close quits the player and releases its resources.
	Close() error

	// Wait returns a channel that is closed when the player process exits.
	Wait() <-chan struct{}
}

// Available lists the supported player names.
func Available() []string {
	return []string{"mpv"}
}

// New returns the player registered under name.
func New(name string) (Player, error) {
	switch name {
	case "mpv":
		return NewMPV(), nil
	default:
		return nil, fmt.Errorf("unknown player %q, available: %v", name, Available())
	}
}
