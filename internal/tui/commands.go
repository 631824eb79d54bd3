// Package tui renders build progress from a progrock update source.
package tui

import (
	"github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
)

// TapeSource yields progrock updates until it returns an error such as io.EOF.
type TapeSource interface {
	Read() (*progrock.StatusUpdate, error)
}

// MsgTapeUpdate wraps the raw update from progrock.
type MsgTapeUpdate struct {
	Update *progrock.StatusUpdate
}

// MsgTapeEnded is sent when the tape stream has ended.
type MsgTapeEnded struct{}

// WaitForTape returns a Bubble Tea command that reads the next update from the tape.
// Any read error, io.EOF included, ends the stream.
func WaitForTape(tape TapeSource) tea.Cmd {
	return func() tea.Msg {
		update, err := tape.Read()
		if err != nil {
			return MsgTapeEnded{}
		}
		return MsgTapeUpdate{Update: update}
	}
}
