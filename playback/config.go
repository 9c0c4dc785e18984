package playback

import "time"

// Config holds the tolerances of the correction loop. They depend on how quickly the
// player reacts to seeks, so they are tunable per adapter rather than fixed.
type Config struct {
	// EndEpsilon is how close to the end of the last clip counts as the end of the reel.
	EndEpsilon float64

	// RestartGuard keeps the end check from firing while a restart seek to the first
	// clip has not yet taken effect: playback only ends once the playhead is this far
	// past the first clip's start.
	RestartGuard float64

	// SeekDebounce is the minimum wall time between two seeks issued by the controller.
	SeekDebounce time.Duration

	// SeekTolerance is how far from a seek target a tick may land and still count as
	// the seek having taken effect.
	SeekTolerance float64

	// SeekSettle bounds how long ticks far from a pending seek target are treated as stale.
	SeekSettle time.Duration

	// PlayDelay defers Play after a jump when the adapter cannot acknowledge seeks.
	PlayDelay time.Duration

	// SeekAckTimeout is the fallback for adapters that acknowledge seeks, in case the
	// acknowledgement never arrives.
	SeekAckTimeout time.Duration

	// SkipPreviousThreshold is how far into a clip "previous" restarts the clip
	// instead of going to the one before it.
	SkipPreviousThreshold float64
}

// DefaultConfig returns tolerances suited to a local mpv instance.
func DefaultConfig() Config {
	return Config{
		EndEpsilon:            0.1,
		RestartGuard:          0.5,
		SeekDebounce:          500 * time.Millisecond,
		SeekTolerance:         1.0,
		SeekSettle:            1500 * time.Millisecond,
		PlayDelay:             150 * time.Millisecond,
		SeekAckTimeout:        time.Second,
		SkipPreviousThreshold: 2.0,
	}
}
