package playback

import "time"

// Mode says whether the controller is policing clip boundaries.
type Mode int

const (
	// Free leaves the player alone; it behaves like an ordinary continuous video.
	Free Mode = iota

	// VirtualBound keeps the player inside the clips.
	VirtualBound
)

func (m Mode) String() string {
	switch m {
	case Free:
		return "free"
	case VirtualBound:
		return "virtual"
	default:
		return "unknown"
	}
}

// State is a read-only snapshot of the controller, as shown to the host UI.
type State struct {
	Mode                     Mode
	CurrentActualTime        float64
	CurrentVirtualTime       float64
	TotalVirtualDuration     float64
	CurrentClipIndex         int
	ClipCount                int
	IsPlaying                bool
	PlaybackFinished         bool
	LastCorrectiveSeekTarget float64
	LastCorrectiveSeekTime   time.Time
}

// IsVirtualMode reports whether clip boundaries are being enforced.
func (s State) IsVirtualMode() bool {
	return s.Mode == VirtualBound
}

// HasClip reports whether CurrentClipIndex points at a clip.
func (s State) HasClip() bool {
	return s.CurrentClipIndex >= 0 && s.CurrentClipIndex < s.ClipCount
}
