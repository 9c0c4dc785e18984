package player

import (
	"fmt"
	"slices"

	"github.com/clipreel/clipreel/timeline"
)

// Chapter is a named marker on the player's seek bar.
type Chapter struct {
	Title string
	Time  float64
}

// ClipChapters marks the start of every clip, plus the start of each gap the
// reel skips, so the player's own seek bar shows the virtual timeline.
func ClipChapters(tl timeline.Timeline) []Chapter {
	var chapters []Chapter

	for i, r := range tl.Ranges {
		title := r.Clip.Label
		if title == "" {
			title = fmt.Sprintf("Clip %d", i+1)
		}
		chapters = append(chapters, Chapter{Title: title, Time: r.ActualStart})

		if tl.IndexAt(r.ActualEnd) < 0 {
			chapters = append(chapters, Chapter{Title: "(skipped)", Time: r.ActualEnd})
		}
	}

	// mpv expects chapters in playback order.
	slices.SortStableFunc(chapters, func(a, b Chapter) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		default:
			return 0
		}
	})

	return slices.CompactFunc(chapters, func(a, b Chapter) bool {
		return a.Time == b.Time
	})
}
