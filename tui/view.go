package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/icon"
	"github.com/clipreel/clipreel/playback"
	"github.com/clipreel/clipreel/style"
	"github.com/clipreel/clipreel/util"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
)

// headerHeight is the number of lines viewPlay renders above the clip list.
const headerHeight = 7

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	switch b.state {
	case playState:
		return b.viewPlay()
	case errorState:
		return b.viewError()
	default:
		return "Unknown state"
	}
}

func (b *statefulBubble) viewPlay() string {
	s := b.playback
	width := max(b.width, 20)

	title := b.options.Title
	if title == "" {
		title = "clipreel"
	}

	lines := []string{
		style.Title(truncate.StringWithTail(title, uint(width-2), "…")),
		"",
		b.viewStatus(s),
		"",
		renderScrubber(width, s.CurrentVirtualTime, s.TotalVirtualDuration, b.timeline.Boundaries()),
		style.Faint(fmt.Sprintf(
			"%s / %s   source %s",
			util.FormatSeconds(s.CurrentVirtualTime),
			util.FormatSeconds(s.TotalVirtualDuration),
			util.FormatSeconds(s.CurrentActualTime),
		)),
		"",
	}

	if b.timeline.Empty() {
		lines = append(lines, style.Faint("No clips to play."))
	} else {
		lines = append(lines, b.clipsC.View())
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewStatus(s playback.State) string {
	var status string
	switch {
	case s.PlaybackFinished:
		status = icon.Get(icon.Finished) + " finished"
	case s.IsPlaying:
		status = icon.Get(icon.Play) + " playing"
	default:
		status = icon.Get(icon.Pause) + " paused"
	}

	mode := style.Fg(color.Green)(icon.Get(icon.Virtual) + " reel")
	if !s.IsVirtualMode() {
		mode = style.Fg(color.Yellow)(icon.Get(icon.Free) + " free")
	}

	clipInfo := style.Faint("between clips")
	if s.HasClip() && s.CurrentClipIndex < b.timeline.Len() {
		it := listItem{index: s.CurrentClipIndex, rng: b.timeline.Ranges[s.CurrentClipIndex]}
		clipInfo = fmt.Sprintf("clip %d/%d %s", s.CurrentClipIndex+1, s.ClipCount, style.Fg(color.Purple)(it.Title()))
	}

	return strings.Join([]string{status, mode, clipInfo}, "  ")
}

func (b *statefulBubble) viewError() string {
	errorBody := lipgloss.NewStyle().Foreground(color.Error).Bold(true).Render(b.lastError.Error())
	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " Playback failed:",
		"",
		wrap.String(errorBody, max(b.width, 20)),
	})
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	if addHelp {
		h := lipgloss.Height(l) + 1
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += "\n" + b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
