package core

import "time"

// RuntimeConfig is handed to a game on Reset.
type RuntimeConfig struct {
	ScreenW int   // terminal width in cells
	ScreenH int   // terminal height in cells
	Seed    int64 // RNG seed; 0 lets the platform pick one
}

// DefaultConfig returns a RuntimeConfig sized for the birds field.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 36,
	}
}

// GameState is the externally visible status of a running game.
type GameState struct {
	Score    int
	Level    int
	Lives    int
	GameOver bool
	Paused   bool

	// Unlocked lists achievement ids unlocked so far, in unlock order.
	Unlocked []string
}

// StepResult is returned by Game.Step after each simulation tick.
type StepResult struct {
	State GameState

	// NextTick is how long the platform should wait before the next Step.
	// Zero means the platform default.
	NextTick time.Duration
}
