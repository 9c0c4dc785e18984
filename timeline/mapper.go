package timeline

// Position is a point on the source media together with the clip it falls in.
// ClipIndex is -1 when there is no clip.
type Position struct {
	ActualTime float64
	ClipIndex  int
}

// ActualToVirtual maps a source media timestamp onto the virtual timeline.
//
// Time inside a clip maps linearly (both clip ends inclusive). Time in a gap, or
// before the first clip, collapses onto the start of the next clip to play; time past
// every clip maps to the total duration. An empty timeline maps everything to 0.
func ActualToVirtual(tl Timeline, actual float64) float64 {
	if tl.Empty() {
		return 0
	}

	for _, r := range tl.Ranges {
		if actual >= r.ActualStart && actual <= r.ActualEnd {
			return r.VirtualStart + (actual - r.ActualStart)
		}
	}

	for _, r := range tl.Ranges {
		if r.ActualStart > actual {
			return r.VirtualStart
		}
	}

	return tl.TotalVirtualDuration
}

// VirtualToActual maps a virtual timestamp back onto the source media.
//
// Virtual time at or past the end clamps to the end of the last clip. Negative
// virtual time clamps to the start of the first clip. An empty timeline yields
// {0, -1}.
func VirtualToActual(tl Timeline, virtual float64) Position {
	if tl.Empty() {
		return Position{ActualTime: 0, ClipIndex: -1}
	}

	if virtual < 0 {
		return Position{ActualTime: tl.First().ActualStart, ClipIndex: 0}
	}

	for i, r := range tl.Ranges {
		if virtual >= r.VirtualStart && virtual < r.VirtualEnd {
			return Position{ActualTime: r.ActualStart + (virtual - r.VirtualStart), ClipIndex: i}
		}
	}

	last := len(tl.Ranges) - 1
	return Position{ActualTime: tl.Ranges[last].ActualEnd, ClipIndex: last}
}
