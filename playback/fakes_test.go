package playback

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
)

// call is one recorded adapter invocation, e.g. "seek 50.00" or "play".
type call string

// fakeAdapter records every call and lets tests push progress ticks.
type fakeAdapter struct {
	mu       sync.Mutex
	calls    []call
	now      float64
	progress func(Progress)
}

func (f *fakeAdapter) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAdapter) Seek(seconds float64) error {
	f.record(call(fmt.Sprintf("seek %.2f", seconds)))
	return nil
}

func (f *fakeAdapter) Play() error {
	f.record("play")
	return nil
}

func (f *fakeAdapter) Pause() error {
	f.record("pause")
	return nil
}

func (f *fakeAdapter) CurrentTime() (float64, error) {
	return f.now, nil
}

func (f *fakeAdapter) OnProgress(fn func(Progress)) {
	f.progress = fn
}

// tick delivers a progress report as the player would.
func (f *fakeAdapter) tick(seconds float64) {
	f.now = seconds
	f.progress(Progress{PlayedSeconds: seconds})
}

// take returns and clears the recorded calls.
func (f *fakeAdapter) take() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.calls
	f.calls = nil
	return out
}

// ackAdapter additionally acknowledges seeks and reports user interaction and
// pauses made in the player.
type ackAdapter struct {
	fakeAdapter
	seekDone    func()
	interaction func()
	pauseChange func(bool)
}

func (a *ackAdapter) OnPauseChange(fn func(bool)) {
	a.pauseChange = fn
}

func (a *ackAdapter) OnSeekComplete(fn func()) {
	a.seekDone = fn
}

func (a *ackAdapter) OnUserInteraction(fn func()) {
	a.interaction = fn
}

// testClock is a clockwork fake whose Advance returns only after the timers it
// fired have run, so tests can check their effects right away.
type testClock struct {
	*clockwork.FakeClock

	mu     sync.Mutex
	timers []*testTimer
}

type testTimer struct {
	clockwork.Timer

	clock   *testClock
	at      time.Time
	done    chan struct{}
	stopped bool
}

func (t *testTimer) Stop() bool {
	active := t.Timer.Stop()
	if active {
		t.clock.mu.Lock()
		t.stopped = true
		t.clock.mu.Unlock()
	}
	return active
}

func newTestClock() *testClock {
	return &testClock{FakeClock: clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}
}

func (c *testClock) AfterFunc(d time.Duration, fn func()) clockwork.Timer {
	t := &testTimer{clock: c, at: c.Now().Add(d), done: make(chan struct{})}
	t.Timer = c.FakeClock.AfterFunc(d, func() {
		defer close(t.done)
		fn()
	})

	c.mu.Lock()
	c.timers = append(c.timers, t)
	c.mu.Unlock()
	return t
}

// Advance moves time forward and waits for every timer that came due.
func (c *testClock) Advance(d time.Duration) {
	c.FakeClock.Advance(d)
	now := c.Now()

	c.mu.Lock()
	var due []*testTimer
	for _, t := range c.timers {
		if !t.stopped && !t.at.After(now) {
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		select {
		case <-t.done:
		case <-time.After(time.Second):
			panic("timer callback did not return")
		}
	}
}

// pending counts timers that have neither fired nor been stopped.
func (c *testClock) pending() int {
	now := c.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	return lo.CountBy(c.timers, func(t *testTimer) bool {
		return !t.stopped && t.at.After(now)
	})
}
