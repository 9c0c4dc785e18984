package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/clipreel/clipreel/playback"
)

// stateMsg carries a controller snapshot into the update loop.
type stateMsg playback.State

type playerExitedMsg struct{}

// publish hands a snapshot to the update loop without blocking. Watchers may run
// inside Update itself, so only the newest pending snapshot is kept.
func (b *statefulBubble) publish(s playback.State) {
	for {
		select {
		case b.statesChannel <- s:
			return
		default:
			select {
			case <-b.statesChannel:
			default:
			}
		}
	}
}

func (b *statefulBubble) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-b.statesChannel)
	}
}

func waitForExit(exited <-chan struct{}) tea.Cmd {
	if exited == nil {
		return nil
	}

	return func() tea.Msg {
		<-exited
		return playerExitedMsg{}
	}
}
