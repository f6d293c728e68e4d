// Package tui provides the Bubble Tea playback monitor for the engine.
// It shows the sequencer state and forwards key presses to the audio
// controls.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RefreshRate is how often the monitor redraws, in frames per second.
const RefreshRate = 10

// TickMsg is sent to trigger a redraw of the sequencer state.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(rate int) tea.Cmd {
	interval := time.Second / time.Duration(rate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
