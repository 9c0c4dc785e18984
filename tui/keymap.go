package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/style"
)

// statefulKeymap defines the keyboard interactions available within each state.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	playPause, next, prev,
	seekForward, seekBack,
	jump, jumpSelected,
	free, restart,
	up, down,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next clip"),
		),
		prev: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prev clip"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "forward"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "back"),
		),
		jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump to clip"),
		),
		jumpSelected: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play selected"),
		),
		free: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "free play"),
		),
		restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "play all"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	switch k.state {
	case playState:
		return h(k.playPause, k.next, k.prev, k.seekBack, k.seekForward, k.showHelp, k.quit),
			h(k.playPause, k.next, k.prev, k.seekBack, k.seekForward, k.jump, k.jumpSelected, k.restart, k.free, k.up, k.down, k.quit)
	case errorState:
		return h(k.quit), h(k.quit)
	default:
		return h(), h()
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:   k.up,
		CursorDown: k.down,
	}
}
