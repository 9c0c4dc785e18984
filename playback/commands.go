package playback

import (
	"github.com/clipreel/clipreel/log"
	"github.com/clipreel/clipreel/timeline"
)

// JumpToClip starts playback from the beginning of clip index, entering virtual mode.
// Out of range indices clamp to the first or last clip.
func (c *Controller) JumpToClip(index int) {
	c.do(func() {
		c.jump(index)
	})
}

// PlayAllClips plays the reel from the first clip.
func (c *Controller) PlayAllClips() {
	c.do(func() {
		c.jump(0)
	})
}

// TogglePlay pauses when playing. Otherwise it resumes in place, or restarts the
// reel if playback has finished or the playhead is outside every clip.
func (c *Controller) TogglePlay() {
	c.do(func() {
		if c.timeline.Empty() {
			return
		}

		if c.playing {
			c.playing = false
			c.cancelPendingPlay()
			c.pause()
			return
		}

		t := c.position()
		idx := c.timeline.IndexAt(t)

		if c.finished || t >= c.timeline.Last().ActualEnd || idx < 0 {
			c.jump(0)
			return
		}

		c.enter()
		c.clipIndex = idx
		c.playing = true
		c.play()
	})
}

// SkipNext jumps to the clip after the current one, if there is one.
func (c *Controller) SkipNext() {
	c.do(func() {
		if c.timeline.Empty() {
			return
		}

		if next := c.clipIndex + 1; next < c.timeline.Len() {
			c.jump(next)
		}
	})
}

// SkipPrevious restarts the current clip when it has been playing for a while,
// otherwise jumps to the clip before it.
func (c *Controller) SkipPrevious() {
	c.do(func() {
		if c.timeline.Empty() {
			return
		}

		if c.clipIndex < 0 {
			c.jump(0)
			return
		}

		start := c.timeline.Ranges[c.clipIndex].ActualStart
		if c.position()-start > c.cfg.SkipPreviousThreshold {
			c.jump(c.clipIndex)
			return
		}

		c.jump(max(0, c.clipIndex-1))
	})
}

// SeekToVirtualTime moves the playhead to a point on the virtual timeline without
// changing whether the player is playing.
func (c *Controller) SeekToVirtualTime(v float64) {
	c.do(func() {
		if c.timeline.Empty() {
			return
		}

		pos := timeline.VirtualToActual(c.timeline, v)

		c.enter()
		if v < c.timeline.TotalVirtualDuration {
			c.finished = false
		}
		c.clipIndex = pos.ClipIndex
		c.currentTime = pos.ActualTime
		c.haveTime = true
		c.markSeek(pos.ActualTime, c.clock.Now())
		c.seek(pos.ActualTime)
	})
}

// PlayFromVirtualTime starts playback at a point on the virtual timeline. Like a
// jump, play waits until the seek has landed. A point at or past the end restarts
// the reel.
func (c *Controller) PlayFromVirtualTime(v float64) {
	c.do(func() {
		if c.timeline.Empty() {
			return
		}

		if v >= c.timeline.TotalVirtualDuration {
			c.jump(0)
			return
		}

		pos := timeline.VirtualToActual(c.timeline, v)
		c.jumpTo(pos.ClipIndex, pos.ActualTime)
	})
}

// ExitVirtualMode stops enforcing clip boundaries. The host calls it when the user
// operates the player's own controls directly.
func (c *Controller) ExitVirtualMode() {
	c.do(func() {
		if c.mode == Free {
			return
		}

		log.Info("leaving virtual mode")
		c.mode = Free
		c.settling = false
		c.cancelPendingPlay()
	})
}

// jump seeks to the start of clip index and defers Play until the seek has landed.
func (c *Controller) jump(index int) {
	if c.timeline.Empty() {
		return
	}

	index = min(max(index, 0), c.timeline.Len()-1)
	c.jumpTo(index, c.timeline.Ranges[index].ActualStart)
}

// jumpTo seeks to target inside clip index and schedules the deferred play.
func (c *Controller) jumpTo(index int, target float64) {
	log.WithFields(log.Fields{"clip": index, "target": target}).Debug("jump to clip")

	c.enter()
	c.finished = false
	c.clipIndex = index
	c.playing = true
	c.currentTime = target
	c.haveTime = true
	c.markSeek(target, c.clock.Now())
	c.seek(target)
	c.schedulePlay()
}

func (c *Controller) enter() {
	if c.mode != VirtualBound {
		log.Info("entering virtual mode")
		c.mode = VirtualBound
	}
}
