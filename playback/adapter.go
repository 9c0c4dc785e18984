package playback

// Adapter is the small surface the controller needs from a video player that only
// knows about one continuous media timeline. Seek, Play and Pause are fire-and-forget:
// they may return before the player has acted on them.
type Adapter interface {
	Seek(seconds float64) error
	Play() error
	Pause() error

	// CurrentTime is a synchronous snapshot of the playhead, used until the first
	// progress tick arrives.
	CurrentTime() (float64, error)
}

// Progress is one periodic report of the playhead.
type Progress struct {
	PlayedFraction float64
	PlayedSeconds  float64
}

// ProgressSource is implemented by adapters that push progress ticks.
type ProgressSource interface {
	OnProgress(fn func(Progress))
}

// SeekObserver is implemented by adapters that can tell when a seek has taken effect.
type SeekObserver interface {
	OnSeekComplete(fn func())
}

// InteractionSource is implemented by adapters that notice the user operating the
// player's own controls.
type InteractionSource interface {
	OnUserInteraction(fn func())
}

// PauseObserver is implemented by adapters that report the player pausing or
// resuming by itself.
type PauseObserver interface {
	OnPauseChange(fn func(paused bool))
}
