package player

import (
	"errors"
	"sync"
	"time"

	"github.com/clipreel/clipreel/log"
	"github.com/clipreel/clipreel/playback"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrClosed is returned for commands issued after the adapter was closed.
	ErrClosed = errors.New("player adapter is closed")

	// ErrQueueFull is returned when the player has stopped taking commands and the
	// queue has no room left. The command is dropped.
	ErrQueueFull = errors.New("player command queue is full")
)

const (
	queueSize = 64

	// seekGrace bounds how long an issued seek may wait for mpv's seek event
	// before a seek event is attributed to the user instead.
	seekGrace = 2 * time.Second
)

type command struct {
	name string
	run  func() error
}

// Adapter connects a Backend to a playback.Controller. Commands are queued and
// sent in order from a single goroutine, so controller calls never wait on IPC.
// Player events come in through HandleEvent.
type Adapter struct {
	backend  Backend
	interval time.Duration
	clock    clockwork.Clock

	queue     chan command
	done      chan struct{}
	queueMu   sync.Mutex
	closed    bool
	closeOnce sync.Once

	mu            sync.Mutex
	onProgress    func(playback.Progress)
	onSeekDone    func()
	onInteraction func()
	onPause       func(bool)
	pos           float64
	havePos       bool
	duration      float64
	paused        bool
	havePause     bool
	lastTick      time.Time

	// pendingSeeks counts issued seeks whose seek event has not arrived.
	pendingSeeks int
	lastSeekAt   time.Time

	// unsentSeeks counts seeks mpv has not replied to yet; sentSinceEvent counts
	// those it replied to after the last seek event.
	unsentSeeks    int
	sentSinceEvent int
}

// NewAdapter starts the command queue for backend. Position ticks closer together
// than interval are dropped.
func NewAdapter(backend Backend, interval time.Duration) *Adapter {
	a := &Adapter{
		backend:  backend,
		interval: interval,
		clock:    clockwork.NewRealClock(),
		queue:    make(chan command, queueSize),
		done:     make(chan struct{}),
	}

	go a.worker()
	return a
}

func (a *Adapter) worker() {
	defer close(a.done)

	for cmd := range a.queue {
		if err := cmd.run(); err != nil {
			log.Warnf("player: %s: %v", cmd.name, err)
		}
	}
}

func (a *Adapter) enqueue(name string, run func() error) error {
	a.queueMu.Lock()
	defer a.queueMu.Unlock()

	if a.closed {
		return ErrClosed
	}

	select {
	case a.queue <- command{name: name, run: run}:
		return nil
	default:
		log.WithFields(log.Fields{"command": name, "queued": len(a.queue)}).Warn("player: not taking commands, dropping")
		return ErrQueueFull
	}
}

// Close stops accepting commands and waits for the queued ones to be sent.
func (a *Adapter) Close() {
	a.closeOnce.Do(func() {
		a.queueMu.Lock()
		a.closed = true
		close(a.queue)
		a.queueMu.Unlock()
	})
	<-a.done
}

// Seek queues an absolute seek.
func (a *Adapter) Seek(seconds float64) error {
	a.mu.Lock()
	a.pendingSeeks++
	a.unsentSeeks++
	a.lastSeekAt = a.clock.Now()
	a.mu.Unlock()

	err := a.enqueue("seek", func() error {
		err := a.backend.Seek(seconds)
		a.seekSent(err == nil)
		if err != nil {
			// No seek event will follow a rejected seek.
			a.forgetSeek()
		}
		return err
	})
	if err != nil {
		a.seekSent(false)
		a.forgetSeek()
	}
	return err
}

// Play queues an unpause.
func (a *Adapter) Play() error {
	return a.enqueue("play", func() error { return a.backend.SetPaused(false) })
}

// Pause queues a pause.
func (a *Adapter) Pause() error {
	return a.enqueue("pause", func() error { return a.backend.SetPaused(true) })
}

// CurrentTime returns the last reported position, asking the player when nothing was reported yet.
func (a *Adapter) CurrentTime() (float64, error) {
	a.mu.Lock()
	pos, ok := a.pos, a.havePos
	a.mu.Unlock()

	if ok {
		return pos, nil
	}
	return a.backend.TimePos()
}

// Duration returns the media duration reported by the player, or 0 if unknown.
func (a *Adapter) Duration() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duration
}

// Paused reports the player's pause property as last observed.
func (a *Adapter) Paused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

// OnProgress registers the progress tick receiver.
func (a *Adapter) OnProgress(fn func(playback.Progress)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onProgress = fn
}

// OnSeekComplete registers the receiver for mpv's playback-restart event.
func (a *Adapter) OnSeekComplete(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onSeekDone = fn
}

// OnUserInteraction registers the receiver for seeks the adapter did not issue.
func (a *Adapter) OnUserInteraction(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onInteraction = fn
}

// OnPauseChange registers the receiver for changes of mpv's pause property,
// including the ones the adapter's own commands cause.
func (a *Adapter) OnPauseChange(fn func(paused bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onPause = fn
}

// HandleEvent consumes one player event. It has the EventCallback signature.
func (a *Adapter) HandleEvent(name string, data any) {
	switch name {
	case "time-pos":
		if t, ok := data.(float64); ok {
			a.handlePosition(t)
		}

	case "duration":
		if d, ok := data.(float64); ok {
			a.mu.Lock()
			a.duration = d
			a.mu.Unlock()
		}

	case "pause":
		if p, ok := data.(bool); ok {
			a.handlePause(p)
		}

	case EventSeek:
		a.handleSeek()

	case EventPlaybackRestart:
		a.mu.Lock()
		// Let the first position after the seek through without waiting out the interval.
		a.lastTick = time.Time{}
		// mpv may have merged queued seeks into this one. Only seeks it had not
		// started yet can still produce a seek event.
		a.pendingSeeks = min(a.pendingSeeks, a.unsentSeeks+a.sentSinceEvent)
		fn := a.onSeekDone
		a.mu.Unlock()

		if fn != nil {
			fn()
		}
	}
}

func (a *Adapter) handlePosition(t float64) {
	a.mu.Lock()
	a.pos, a.havePos = t, true

	now := a.clock.Now()
	if !a.lastTick.IsZero() && now.Sub(a.lastTick) < a.interval {
		a.mu.Unlock()
		return
	}
	a.lastTick = now

	p := playback.Progress{PlayedSeconds: t}
	if a.duration > 0 {
		p.PlayedFraction = t / a.duration
	}
	fn := a.onProgress
	a.mu.Unlock()

	if fn != nil {
		fn(p)
	}
}

func (a *Adapter) handleSeek() {
	a.mu.Lock()
	ours := a.pendingSeeks > 0 && a.clock.Since(a.lastSeekAt) <= seekGrace
	a.sentSinceEvent = 0
	if ours {
		a.pendingSeeks--
	} else {
		a.pendingSeeks = 0
	}
	fn := a.onInteraction
	a.mu.Unlock()

	if !ours && fn != nil {
		log.Info("player: seek from the player's own controls")
		fn()
	}
}

func (a *Adapter) handlePause(paused bool) {
	a.mu.Lock()
	changed := !a.havePause || a.paused != paused
	a.paused, a.havePause = paused, true
	fn := a.onPause
	a.mu.Unlock()

	if changed && fn != nil {
		fn(paused)
	}
}

// seekSent records that mpv answered a seek command, or that it never will.
func (a *Adapter) seekSent(ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unsentSeeks > 0 {
		a.unsentSeeks--
	}
	if ok {
		a.sentSinceEvent++
	}
}

func (a *Adapter) forgetSeek() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pendingSeeks > 0 {
		a.pendingSeeks--
	}
}
