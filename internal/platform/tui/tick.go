// Package tui runs the game in a terminal through Bubble Tea: the frame
// loop, input mapping, game-over summary, scoreboard and the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultTick paces the loop when a game does not ask for a delay.
const defaultTick = 200 * time.Millisecond

// TickMsg is sent to trigger a game simulation tick. run identifies the
// model that scheduled it so a stale tick cannot start a second loop.
type TickMsg struct {
	Time time.Time
	run  int64
}

var runSeq atomic.Int64

// tickCmd schedules the next tick of run after d.
func tickCmd(run int64, d time.Duration) tea.Cmd {
	if d <= 0 {
		d = defaultTick
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, run: run}
	})
}
