// Package playback keeps a free-running player on the virtual timeline.
//
// The player only knows the original media. The Controller watches its progress
// ticks and steers it with seeks: over gaps between clips, back into the first clip,
// and to a stop at the end of the last one. User commands (jump, skip, toggle, scrub)
// go through the same Controller, so there is one owner of the playback state.
//
// Ticks, commands and the deferred play timer may arrive on different goroutines;
// all of them serialize on the controller's lock.
package playback

import (
	"math"
	"sync"
	"time"

	"github.com/clipreel/clipreel/clip"
	"github.com/clipreel/clipreel/log"
	"github.com/clipreel/clipreel/timeline"
	"github.com/jonboulle/clockwork"
)

// Option customizes a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock and timer source.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// Controller is the playback state machine.
type Controller struct {
	mu sync.Mutex

	adapter  Adapter
	cfg      Config
	clock    clockwork.Clock
	timeline timeline.Timeline

	// seekAck is set when the adapter reports completed seeks.
	seekAck bool

	// seeksInFlight counts controller seeks not yet acknowledged. Only the
	// acknowledgement of the newest seek ends settling.
	seeksInFlight int

	mode        Mode
	currentTime float64
	haveTime    bool
	clipIndex   int
	playing     bool
	finished    bool

	lastSeekTarget float64
	lastSeekAt     time.Time

	// settling is set from a controller seek until the player is seen near its target.
	settling bool

	pendingPlay bool
	playTimer   clockwork.Timer
	generation  uint64

	watchers []func(State)
}

// New builds a controller over clips, in Free mode. Optional adapter capabilities
// (progress ticks, seek acknowledgement, user interaction) are wired up here.
func New(adapter Adapter, clips []clip.Clip, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		adapter:   adapter,
		cfg:       cfg,
		clock:     clockwork.NewRealClock(),
		timeline:  timeline.Build(clips),
		mode:      Free,
		clipIndex: -1,
	}

	for _, opt := range opts {
		opt(c)
	}

	if src, ok := adapter.(ProgressSource); ok {
		src.OnProgress(c.HandleProgress)
	}

	if obs, ok := adapter.(SeekObserver); ok {
		c.seekAck = true
		obs.OnSeekComplete(c.HandleSeekComplete)
	}

	if src, ok := adapter.(InteractionSource); ok {
		src.OnUserInteraction(c.ExitVirtualMode)
	}

	if obs, ok := adapter.(PauseObserver); ok {
		obs.OnPauseChange(c.HandlePauseChange)
	}

	return c
}

// Watch registers fn to receive a snapshot after every state change.
// fn runs outside the controller's lock and may call back into it.
func (c *Controller) Watch(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, fn)
}

// State returns a snapshot of the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Timeline returns the virtual timeline currently in use.
func (c *Controller) Timeline() timeline.Timeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeline
}

// SetClips rebuilds the timeline from a new clip list.
func (c *Controller) SetClips(clips []clip.Clip) {
	c.do(func() {
		c.timeline = timeline.Build(clips)

		n := c.timeline.Len()
		if c.clipIndex >= n {
			c.clipIndex = n - 1
		}

		log.WithFields(log.Fields{"clips": n, "duration": c.timeline.TotalVirtualDuration}).Info("timeline rebuilt")
	})
}

// HandleProgress consumes one progress tick from the player.
func (c *Controller) HandleProgress(p Progress) {
	c.do(func() {
		c.tick(p.PlayedSeconds)
	})
}

// HandleSeekComplete tells the controller the player has finished a seek. Once the
// newest controller seek is acknowledged, a play deferred by the last jump is released.
// Acknowledgements of seeks that a later one replaced are only counted.
func (c *Controller) HandleSeekComplete() {
	c.do(func() {
		if c.seeksInFlight > 1 {
			c.seeksInFlight--
			return
		}

		c.seeksInFlight = 0
		c.settled()
	})
}

// HandlePauseChange syncs the play state with a pause or resume the player made on
// its own, usually from its window. A pause while a deferred play is pending is the
// player still holding from before the jump and changes nothing.
func (c *Controller) HandlePauseChange(paused bool) {
	c.do(func() {
		if paused && c.pendingPlay {
			return
		}

		if c.playing == !paused {
			return
		}

		log.WithFields(log.Fields{"paused": paused}).Info("player changed pause state")
		c.playing = !paused
	})
}

// do runs fn under the lock and then notifies watchers.
func (c *Controller) do(fn func()) {
	c.mu.Lock()
	fn()
	snap := c.snapshot()
	watchers := c.watchers
	c.mu.Unlock()

	for _, w := range watchers {
		w(snap)
	}
}

func (c *Controller) snapshot() State {
	return State{
		Mode:                     c.mode,
		CurrentActualTime:        c.currentTime,
		CurrentVirtualTime:       timeline.ActualToVirtual(c.timeline, c.currentTime),
		TotalVirtualDuration:     c.timeline.TotalVirtualDuration,
		CurrentClipIndex:         c.clipIndex,
		ClipCount:                c.timeline.Len(),
		IsPlaying:                c.playing,
		PlaybackFinished:         c.finished,
		LastCorrectiveSeekTarget: c.lastSeekTarget,
		LastCorrectiveSeekTime:   c.lastSeekAt,
	}
}

// tick applies the correction rules to a new playhead position t.
func (c *Controller) tick(t float64) {
	if c.settling {
		// The player may still report its pre-seek position for a while.
		stale := math.Abs(t-c.lastSeekTarget) > c.cfg.SeekTolerance
		if stale && c.clock.Now().Sub(c.lastSeekAt) < c.cfg.SeekSettle {
			return
		}

		// Acknowledgements lost to seeks the player merged are not waited for.
		c.seeksInFlight = 0
		if !stale && c.seekAck {
			c.settled()
		} else {
			c.settling = false
		}
	}

	c.currentTime = t
	c.haveTime = true

	if c.mode != VirtualBound || c.finished || c.timeline.Empty() {
		return
	}

	first, last := c.timeline.First(), c.timeline.Last()

	if t >= last.ActualEnd-c.cfg.EndEpsilon && t > first.ActualStart+c.cfg.RestartGuard {
		c.finish()
		return
	}

	if idx := c.timeline.IndexAt(t); idx >= 0 {
		c.clipIndex = idx
		return
	}

	ranges := c.timeline.Ranges
	for i := 0; i+1 < len(ranges); i++ {
		if t >= ranges[i].ActualEnd && t < ranges[i+1].ActualStart {
			c.correctiveSeek(i + 1)
			return
		}
	}

	if t < first.ActualStart {
		c.correctiveSeek(0)
	}
}

// correctiveSeek moves the player to the start of clip i unless a seek went out too recently.
func (c *Controller) correctiveSeek(i int) {
	now := c.clock.Now()
	if !c.lastSeekAt.IsZero() && now.Sub(c.lastSeekAt) <= c.cfg.SeekDebounce {
		return
	}

	target := c.timeline.Ranges[i].ActualStart
	log.WithFields(log.Fields{"from": c.currentTime, "target": target, "clip": i}).Debug("corrective seek")

	c.clipIndex = i
	c.currentTime = target
	c.markSeek(target, now)
	c.seek(target)
}

func (c *Controller) finish() {
	log.WithFields(log.Fields{"at": c.currentTime}).Info("reached the end of the last clip")

	c.playing = false
	c.finished = true
	c.cancelPendingPlay()
	c.pause()
}

func (c *Controller) markSeek(target float64, at time.Time) {
	c.lastSeekTarget = target
	c.lastSeekAt = at
	c.settling = true
}

// position returns the best known playhead, asking the player if no tick has arrived.
func (c *Controller) position() float64 {
	if c.haveTime {
		return c.currentTime
	}

	t, err := c.adapter.CurrentTime()
	if err != nil {
		log.Warnf("playback: current time unavailable: %v", err)
		return c.currentTime
	}

	c.currentTime = t
	c.haveTime = true
	return t
}

// settled ends settling and releases a deferred play, the player having landed.
func (c *Controller) settled() {
	c.settling = false

	if c.pendingPlay {
		gen := c.generation
		if c.playTimer != nil {
			c.playTimer.Stop()
		}
		c.firePendingPlay(gen)
	}
}

func (c *Controller) schedulePlay() {
	c.cancelPendingPlay()

	delay := c.cfg.PlayDelay
	if c.seekAck {
		delay = c.cfg.SeekAckTimeout
	}

	gen := c.generation
	c.pendingPlay = true
	c.playTimer = c.clock.AfterFunc(delay, func() {
		c.do(func() {
			c.firePendingPlay(gen)
		})
	})
}

func (c *Controller) firePendingPlay(gen uint64) {
	if gen != c.generation || !c.pendingPlay {
		return
	}

	c.pendingPlay = false
	c.playTimer = nil

	if c.playing {
		c.play()
	}
}

// cancelPendingPlay drops any deferred play; a timer that already fired sees a newer generation.
func (c *Controller) cancelPendingPlay() {
	if c.playTimer != nil {
		c.playTimer.Stop()
		c.playTimer = nil
	}
	c.pendingPlay = false
	c.generation++
}

func (c *Controller) seek(t float64) {
	if err := c.adapter.Seek(t); err != nil {
		log.Warnf("playback: seek to %.2f: %v", t, err)
		return
	}

	if c.seekAck {
		c.seeksInFlight++
	}
}

func (c *Controller) play() {
	if err := c.adapter.Play(); err != nil {
		log.Warnf("playback: play: %v", err)
	}
}

func (c *Controller) pause() {
	if err := c.adapter.Pause(); err != nil {
		log.Warnf("playback: pause: %v", err)
	}
}
