package player

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/clipreel/clipreel/clip"
	"github.com/clipreel/clipreel/playback"
	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeBackend struct {
	mu      sync.Mutex
	calls   []string
	pos     float64
	seekErr error

	// stall, when set, holds every seek until it is closed.
	stall chan struct{}
}

func (b *fakeBackend) record(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *fakeBackend) Seek(seconds float64) error {
	if b.stall != nil {
		<-b.stall
	}
	b.record("seek %.2f", seconds)
	return b.seekErr
}

func (b *fakeBackend) SetPaused(paused bool) error {
	b.record("pause %t", paused)
	return nil
}

func (b *fakeBackend) TimePos() (float64, error) {
	return b.pos, nil
}

func (b *fakeBackend) recorded() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func newTestAdapter() (*Adapter, *fakeBackend, *clockwork.FakeClock) {
	return newStalledAdapter(nil)
}

func newStalledAdapter(stall chan struct{}) (*Adapter, *fakeBackend, *clockwork.FakeClock) {
	backend := &fakeBackend{stall: stall}
	a := NewAdapter(backend, 250*time.Millisecond)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	a.clock = clock
	return a, backend, clock
}

// answered reports whether mpv has replied to every seek sent so far.
func answered(a *Adapter) func() bool {
	return func() bool {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.unsentSeeks == 0
	}
}

// waitFor polls cond until it holds or a second has passed.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func TestAdapterQueue(t *testing.T) {
	Convey("Given an adapter", t, func() {
		a, backend, _ := newTestAdapter()

		Convey("Commands should reach the player in the order issued", func() {
			So(a.Seek(10), ShouldBeNil)
			So(a.Play(), ShouldBeNil)
			So(a.Pause(), ShouldBeNil)
			a.Close()

			So(backend.recorded(), ShouldResemble, []string{"seek 10.00", "pause false", "pause true"})
		})

		Convey("Commands after Close should be refused", func() {
			a.Close()
			So(a.Seek(1), ShouldEqual, ErrClosed)
			So(a.Play(), ShouldEqual, ErrClosed)
			a.Close()
		})

		Convey("Commands should be dropped rather than block while the player stalls", func() {
			stall := make(chan struct{})
			a.Close()
			a, backend, _ := newStalledAdapter(stall)

			So(a.Seek(0), ShouldBeNil)
			So(waitFor(func() bool { return len(a.queue) == 0 }), ShouldBeTrue)

			var err error
			accepted := 1
			for i := 1; i < 2*queueSize && err == nil; i++ {
				if err = a.Seek(float64(i)); err == nil {
					accepted++
				}
			}

			So(err, ShouldEqual, ErrQueueFull)
			So(accepted, ShouldEqual, queueSize+1)
			So(a.Play(), ShouldEqual, ErrQueueFull)

			close(stall)
			a.Close()
			So(backend.recorded(), ShouldHaveLength, accepted)

			Convey("And dropped seeks should not be mistaken for the player's own", func() {
				a.mu.Lock()
				defer a.mu.Unlock()
				So(a.pendingSeeks, ShouldEqual, accepted)
				So(a.unsentSeeks, ShouldEqual, 0)
			})
		})

		Convey("CurrentTime should ask the player until a position is reported", func() {
			backend.pos = 42
			pos, err := a.CurrentTime()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 42)

			a.HandleEvent("time-pos", 43.5)
			pos, _ = a.CurrentTime()
			So(pos, ShouldEqual, 43.5)
			a.Close()
		})
	})
}

func TestAdapterEvents(t *testing.T) {
	Convey("Given an adapter with registered receivers", t, func() {
		a, backend, clock := newTestAdapter()
		defer a.Close()

		var ticks []playback.Progress
		var acks, interactions int
		var pauses []bool
		a.OnProgress(func(p playback.Progress) { ticks = append(ticks, p) })
		a.OnSeekComplete(func() { acks++ })
		a.OnUserInteraction(func() { interactions++ })
		a.OnPauseChange(func(p bool) { pauses = append(pauses, p) })

		a.HandleEvent("duration", 200.0)
		a.HandleEvent("pause", true)
		So(a.Duration(), ShouldEqual, 200)
		So(a.Paused(), ShouldBeTrue)

		Convey("Pause changes should be reported once each", func() {
			a.HandleEvent("pause", true)
			a.HandleEvent("pause", false)
			a.HandleEvent("pause", false)
			a.HandleEvent("pause", "yes")
			a.HandleEvent("pause", true)

			So(pauses, ShouldResemble, []bool{true, false, true})
			So(a.Paused(), ShouldBeTrue)
		})

		Convey("Position ticks should be throttled", func() {
			a.HandleEvent("time-pos", 10.0)
			a.HandleEvent("time-pos", 10.1)
			clock.Advance(250 * time.Millisecond)
			a.HandleEvent("time-pos", 10.3)

			So(ticks, ShouldHaveLength, 2)
			So(ticks[0].PlayedSeconds, ShouldEqual, 10)
			So(ticks[0].PlayedFraction, ShouldAlmostEqual, 0.05)
			So(ticks[1].PlayedSeconds, ShouldEqual, 10.3)
			So(ticks[1].PlayedFraction, ShouldAlmostEqual, 0.0515)
		})

		Convey("Non numeric positions should be ignored", func() {
			a.HandleEvent("time-pos", nil)
			So(ticks, ShouldBeEmpty)
		})

		Convey("playback-restart should acknowledge the seek and let the next tick through", func() {
			a.HandleEvent("time-pos", 10.0)
			a.HandleEvent(EventPlaybackRestart, nil)
			a.HandleEvent("time-pos", 50.0)

			So(acks, ShouldEqual, 1)
			So(ticks, ShouldHaveLength, 2)
			So(ticks[1].PlayedSeconds, ShouldEqual, 50)
		})

		Convey("Seek events should be matched against issued seeks", func() {
			So(a.Seek(50), ShouldBeNil)
			a.HandleEvent(EventSeek, nil)
			So(interactions, ShouldEqual, 0)

			a.HandleEvent(EventSeek, nil)
			So(interactions, ShouldEqual, 1)
		})

		Convey("Seeks mpv merged into one should not absorb the user's next seek", func() {
			So(a.Seek(50), ShouldBeNil)
			So(a.Seek(60), ShouldBeNil)
			So(waitFor(answered(a)), ShouldBeTrue)

			a.HandleEvent(EventSeek, nil)
			a.HandleEvent(EventPlaybackRestart, nil)
			So(interactions, ShouldEqual, 0)

			a.HandleEvent(EventSeek, nil)
			So(interactions, ShouldEqual, 1)
		})

		Convey("A seek answered after the restart should still be expected", func() {
			So(a.Seek(50), ShouldBeNil)
			So(waitFor(answered(a)), ShouldBeTrue)
			a.HandleEvent(EventSeek, nil)

			So(a.Seek(60), ShouldBeNil)
			So(waitFor(answered(a)), ShouldBeTrue)
			a.HandleEvent(EventPlaybackRestart, nil)

			a.HandleEvent(EventSeek, nil)
			So(interactions, ShouldEqual, 0)
		})

		Convey("An issued seek that never produced an event should expire", func() {
			So(a.Seek(50), ShouldBeNil)
			clock.Advance(3 * time.Second)
			a.HandleEvent(EventSeek, nil)
			So(interactions, ShouldEqual, 1)
		})

		Convey("A rejected seek should not absorb the user's next seek", func() {
			backend.mu.Lock()
			backend.seekErr = errors.New("property unavailable")
			backend.mu.Unlock()

			So(a.Seek(50), ShouldBeNil)
			a.Close()
			a.HandleEvent(EventSeek, nil)
			So(interactions, ShouldEqual, 1)
		})
	})
}

func TestAdapterWithController(t *testing.T) {
	Convey("Given a controller driving the adapter", t, func() {
		a, backend, _ := newTestAdapter()
		c := playback.New(a, []clip.Clip{
			{Start: 10, End: 20, Label: "a"},
			{Start: 50, End: 65, Label: "b"},
		}, playback.DefaultConfig())

		Convey("Play should follow the player's seek acknowledgement", func() {
			c.PlayAllClips()
			a.HandleEvent(EventSeek, nil)
			a.HandleEvent(EventPlaybackRestart, nil)
			a.Close()

			So(backend.recorded(), ShouldResemble, []string{"seek 10.00", "pause false"})
			So(c.State().IsVirtualMode(), ShouldBeTrue)
		})

		Convey("Seeking from the player's own controls should leave virtual mode", func() {
			c.PlayAllClips()
			a.HandleEvent(EventSeek, nil)
			a.HandleEvent(EventPlaybackRestart, nil)
			a.HandleEvent(EventSeek, nil)
			a.Close()

			So(c.State().Mode, ShouldEqual, playback.Free)
		})

		Convey("A pause from the player's window should make the next toggle resume", func() {
			a.HandleEvent("pause", true)
			c.JumpToClip(0)
			a.HandleEvent(EventSeek, nil)
			a.HandleEvent(EventPlaybackRestart, nil)
			a.HandleEvent("pause", false)
			So(c.State().IsPlaying, ShouldBeTrue)

			a.HandleEvent("pause", true)
			So(c.State().IsPlaying, ShouldBeFalse)
			So(c.State().Mode, ShouldEqual, playback.VirtualBound)

			c.TogglePlay()
			a.Close()

			So(backend.recorded(), ShouldResemble, []string{"seek 10.00", "pause false", "pause false"})
			So(c.State().IsPlaying, ShouldBeTrue)
		})

		Convey("Ticks should flow into the correction loop", func() {
			c.PlayAllClips()
			a.HandleEvent(EventSeek, nil)
			a.HandleEvent(EventPlaybackRestart, nil)
			a.HandleEvent("time-pos", 10.2)
			So(c.State().CurrentActualTime, ShouldEqual, 10.2)
			a.Close()
		})
	})
}
