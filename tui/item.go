package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/icon"
	"github.com/clipreel/clipreel/style"
	"github.com/clipreel/clipreel/timeline"
	"github.com/clipreel/clipreel/util"
	"github.com/muesli/reflow/truncate"
)

// listItem wraps one timeline range for the clip list.
type listItem struct {
	index int
	rng   timeline.Range
}

// Title is the clip label, or its position when unlabelled.
func (t *listItem) Title() string {
	if t.rng.Clip.Label != "" {
		return t.rng.Clip.Label
	}
	return fmt.Sprintf("Clip %d", t.index+1)
}

// Description shows where the clip sits in the source media and on the reel.
func (t *listItem) Description() string {
	return fmt.Sprintf(
		"%s → %s  (%s at %s)",
		util.FormatSeconds(t.rng.ActualStart),
		util.FormatSeconds(t.rng.ActualEnd),
		util.FormatSeconds(t.rng.Duration),
		util.FormatSeconds(t.rng.VirtualStart),
	)
}

// FilterValue implements list.Item.
func (t *listItem) FilterValue() string {
	return t.Title()
}

var (
	currentItemStyle = lipgloss.NewStyle().
				Border(lipgloss.ThickBorder(), false, false, false, true).
				BorderForeground(color.Accent).
				Foreground(color.Accent).
				Padding(0, 0, 0, 1)
	selectedItemStyle = lipgloss.NewStyle().Foreground(color.Secondary).PaddingLeft(2)
	normalItemStyle   = lipgloss.NewStyle().Foreground(color.Text).PaddingLeft(2)
)

// itemDelegate renders clips on one line each, marking the one that is playing.
type itemDelegate struct {
	bubble *statefulBubble
}

func (d *itemDelegate) Height() int                         { return 1 }
func (d *itemDelegate) Spacing() int                        { return 0 }
func (d *itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d *itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(*listItem)
	if !ok {
		return
	}

	mark := " "
	if it.index == d.bubble.playback.CurrentClipIndex {
		mark = icon.Get(icon.Clip)
	}

	number := fmt.Sprintf("%d.", it.index+1)
	width := max(m.Width()-lipgloss.Width(number)-8, 10)
	title := truncate.StringWithTail(it.Title(), uint(width/2), "…")
	line := strings.Join([]string{mark, number, title, style.Faint(it.Description())}, " ")
	line = truncate.StringWithTail(line, uint(max(m.Width()-3, 10)), "…")

	switch {
	case it.index == d.bubble.playback.CurrentClipIndex:
		line = currentItemStyle.Render(line)
	case index == m.Index():
		line = selectedItemStyle.Render(line)
	default:
		line = normalItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
