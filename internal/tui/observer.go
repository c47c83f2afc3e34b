package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nsrpc/nsrpc/internal/session"
)

// ChannelObserver adapts session.Observer to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan<- session.State
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- session.State) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnStateChange sends the state to the channel (non-blocking if full).
// The model also reads State() after every command, so a dropped
// snapshot is never the last one it sees.
func (o *ChannelObserver) OnStateChange(state session.State) {
	select {
	case o.ch <- state:
	default:
	}
}

// WaitForStateCmd waits for the next snapshot on ch
func WaitForStateCmd(ch <-chan session.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return StateChangedMsg{State: state}
	}
}
