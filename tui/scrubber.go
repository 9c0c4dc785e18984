package tui

import (
	"math"
	"strings"

	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/style"
	"github.com/clipreel/clipreel/util"
)

type cell int

const (
	unplayedCell cell = iota
	playedCell
	boundaryCell
	headCell
)

var cellGlyphs = map[cell]string{
	unplayedCell: "─",
	playedCell:   "━",
	boundaryCell: "┃",
	headCell:     "●",
}

// scrubberCells lays the virtual timeline out over width cells. Boundaries are clip
// starts after the first; the head always wins its cell.
func scrubberCells(width int, current, total float64, boundaries []float64) []cell {
	if width <= 0 {
		return nil
	}

	cells := make([]cell, width)
	if total <= 0 {
		return cells
	}

	at := func(v float64) int {
		return util.Clamp(int(math.Floor(v/total*float64(width))), 0, width-1)
	}

	head := at(current)
	for i := 0; i < head; i++ {
		cells[i] = playedCell
	}

	for _, v := range boundaries {
		if v <= 0 || v >= total {
			continue
		}
		cells[at(v)] = boundaryCell
	}

	cells[head] = headCell
	return cells
}

func renderScrubber(width int, current, total float64, boundaries []float64) string {
	colors := map[cell]func(string) string{
		unplayedCell: style.Fg(color.Unplayed),
		playedCell:   style.Fg(color.Played),
		boundaryCell: style.Fg(color.Boundary),
		headCell:     style.Fg(color.Accent),
	}

	var sb strings.Builder
	for _, c := range scrubberCells(width, current, total, boundaries) {
		sb.WriteString(colors[c](cellGlyphs[c]))
	}
	return sb.String()
}
