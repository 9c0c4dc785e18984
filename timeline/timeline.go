// Package timeline folds an ordered clip list into a virtual timeline: the clips laid
// end to end with the gaps between them removed. It also maps timestamps between the
// actual (source media) and virtual (clips only) coordinate spaces.
//
// Everything in this package is pure. A Timeline is immutable once built; a change to
// the clip list means building a new one.
package timeline

import (
	"github.com/clipreel/clipreel/clip"
	"github.com/clipreel/clipreel/log"
	"github.com/samber/lo"
)

// Range pairs one clip's extent in the source media with its slot on the virtual timeline.
type Range struct {
	Clip         clip.Clip
	ActualStart  float64
	ActualEnd    float64
	VirtualStart float64
	VirtualEnd   float64
	Duration     float64
}

// ContainsActual reports whether t lies inside [ActualStart, ActualEnd).
func (r Range) ContainsActual(t float64) bool {
	return t >= r.ActualStart && t < r.ActualEnd
}

// Timeline is the ordered set of ranges plus the length of the virtual reel.
// Ranges are contiguous in virtual space; in actual space they keep whatever
// order and spacing the clips were authored with.
type Timeline struct {
	Ranges               []Range
	TotalVirtualDuration float64
}

// Build lays clips out back to back in the order given. It never fails: degenerate
// clips should have been rejected by clip.Validate, and are only logged here.
func Build(clips []clip.Clip) Timeline {
	ranges := make([]Range, 0, len(clips))

	var cursor float64
	for i, c := range clips {
		if c.End <= c.Start {
			log.Warnf("timeline: clip #%d %s has no positive duration", i+1, c)
		}

		d := c.End - c.Start
		ranges = append(ranges, Range{
			Clip:         c,
			ActualStart:  c.Start,
			ActualEnd:    c.End,
			VirtualStart: cursor,
			VirtualEnd:   cursor + d,
			Duration:     d,
		})
		cursor += d
	}

	return Timeline{
		Ranges:               ranges,
		TotalVirtualDuration: lo.SumBy(ranges, func(r Range) float64 { return r.Duration }),
	}
}

// Len returns the number of ranges.
func (tl Timeline) Len() int {
	return len(tl.Ranges)
}

// Empty reports whether the timeline has no ranges.
func (tl Timeline) Empty() bool {
	return len(tl.Ranges) == 0
}

// First returns the first range. It panics on an empty timeline.
func (tl Timeline) First() Range {
	return tl.Ranges[0]
}

// Last returns the last range. It panics on an empty timeline.
func (tl Timeline) Last() Range {
	return tl.Ranges[len(tl.Ranges)-1]
}

// IndexAt returns the index of the first range whose actual extent contains t, or -1.
func (tl Timeline) IndexAt(t float64) int {
	_, idx, ok := lo.FindIndexOf(tl.Ranges, func(r Range) bool { return r.ContainsActual(t) })
	if !ok {
		return -1
	}
	return idx
}

// Boundaries returns the virtual time at which each range starts.
// Scrubbers use it to mark clip boundaries.
func (tl Timeline) Boundaries() []float64 {
	return lo.Map(tl.Ranges, func(r Range, _ int) float64 { return r.VirtualStart })
}
