package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/playback"
	"github.com/clipreel/clipreel/timeline"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const defaultSeekStep = 5.0

// statefulBubble is the root model: the controller, its latest snapshot and the components that show it.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	ctrl     Controller
	timeline timeline.Timeline
	playback playback.State

	clipsC list.Model
	helpC  help.Model

	statesChannel chan playback.State
	lastError     error

	width, height int
	options       *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// resize propagates terminal dimension changes to the child components.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	// Title, status, scrubber, times and their spacing sit above the list.
	b.clipsC.SetSize(b.width, max(b.height-headerHeight-1, 3))
	b.helpC.Width = b.width
}

// setTimeline reloads the clip list after the controller's clips changed.
func (b *statefulBubble) setTimeline(tl timeline.Timeline) {
	b.timeline = tl
	b.clipsC.SetItems(lo.Map(tl.Ranges, func(r timeline.Range, i int) list.Item {
		return &listItem{index: i, rng: r}
	}))
}

func newBubble(ctrl Controller, options *Options) *statefulBubble {
	if options == nil {
		options = &Options{}
	}
	if options.SeekStep <= 0 {
		options.SeekStep = defaultSeekStep
	}

	bubble := &statefulBubble{
		keymap:        newStatefulKeymap(),
		ctrl:          ctrl,
		playback:      ctrl.State(),
		statesChannel: make(chan playback.State, 1),
		options:       options,
	}

	delegate := &itemDelegate{bubble: bubble}
	bubble.clipsC = list.New(nil, delegate, 0, 0)
	bubble.clipsC.KeyMap = bubble.keymap.forList()
	bubble.clipsC.Title = "Clips"
	bubble.clipsC.Styles.Title = lipgloss.NewStyle().Foreground(color.Surface).Background(color.Secondary).Padding(0, 1)
	bubble.clipsC.SetShowHelp(false)
	bubble.clipsC.SetShowStatusBar(false)
	bubble.clipsC.SetShowPagination(false)
	bubble.clipsC.SetFilteringEnabled(false)
	bubble.clipsC.SetStatusBarItemName("clip", "clips")

	bubble.helpC = help.New()
	bubble.setTimeline(ctrl.Timeline())
	bubble.setState(playState)

	return bubble
}

// Start begins playback at the resume point when there is one, otherwise at clip.
func Start(ctrl Controller, clip int, resumeAt mo.Option[float64]) {
	if v, ok := resumeAt.Get(); ok {
		ctrl.PlayFromVirtualTime(v)
		return
	}

	ctrl.JumpToClip(clip)
}

// Init starts the reel and begins listening for controller snapshots and player exit.
func (b *statefulBubble) Init() tea.Cmd {
	if !b.timeline.Empty() {
		Start(b.ctrl, b.options.StartClip, b.options.ResumeAt)
	}

	return tea.Batch(b.waitForState(), waitForExit(b.options.Exited))
}
